package store

import (
	"context"
	"testing"
	"time"
)

func TestMemoryKV_SetGet(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "missing"); err != ErrMiss {
		t.Fatalf("expected ErrMiss, got %v", err)
	}

	if err := kv.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := kv.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Fatalf("expected v, got %q (%v)", got, err)
	}

	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := kv.Get(ctx, "k"); err != ErrMiss {
		t.Fatalf("expected ErrMiss after delete, got %v", err)
	}
}

func TestMemoryKV_TTLExpiry(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	if err := kv.Set(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := kv.Get(ctx, "k"); err != nil {
		t.Fatalf("expected hit before expiry, got %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	if _, err := kv.Get(ctx, "k"); err != ErrMiss {
		t.Fatalf("expected ErrMiss after expiry, got %v", err)
	}
}
