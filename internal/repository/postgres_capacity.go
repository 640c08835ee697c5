package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
)

// PostgresCapacityLedger 房间名额账本（唯一允许改 current_occupants 的入口）
//
// Reservation is a single conditional UPDATE: the row only matches while the
// room is available with a free slot, and Postgres serializes the row-level
// write, so two racing reservations for the last slot resolve to exactly one
// matched row. No application-level locking.
type PostgresCapacityLedger struct {
	db *sql.DB
}

func NewPostgresCapacityLedger(db *sql.DB) *PostgresCapacityLedger {
	return &PostgresCapacityLedger{db: db}
}

// querier is satisfied by *sql.DB and *sql.Tx; the applications repository
// reuses the same reservation statement inside its approve transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (l *PostgresCapacityLedger) ReserveSlot(ctx context.Context, roomID string) (*domain.Room, error) {
	return reserveSlot(ctx, l.db, roomID)
}

func (l *PostgresCapacityLedger) ReleaseSlot(ctx context.Context, roomID string) (*domain.Room, error) {
	return releaseSlot(ctx, l.db, roomID)
}

// reserveSlot increments occupancy iff the room is still available with a
// free slot, flipping status to occupied when the last slot goes.
func reserveSlot(ctx context.Context, q querier, roomID string) (*domain.Room, error) {
	if roomID == "" {
		return nil, fmt.Errorf("room_id is required: %w", domain.ErrInvalidInput)
	}

	row := q.QueryRowContext(ctx, `
		UPDATE rooms
		SET current_occupants = current_occupants + 1,
		    status = CASE WHEN current_occupants + 1 >= capacity THEN 'occupied' ELSE status END
		WHERE id = $1
		  AND status = 'available'
		  AND current_occupants < capacity
		RETURNING `+roomColumns,
		roomID,
	)
	room, err := scanRoom(row)
	if err == sql.ErrNoRows {
		// Precondition did not match: the room is either gone or full.
		return nil, classifyNoMatch(ctx, q, roomID, domain.ErrCapacityExceeded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reserve slot: %w", err)
	}
	return room, nil
}

// releaseSlot is the symmetric decrement; a previously occupied room becomes
// available again once a slot frees.
func releaseSlot(ctx context.Context, q querier, roomID string) (*domain.Room, error) {
	if roomID == "" {
		return nil, fmt.Errorf("room_id is required: %w", domain.ErrInvalidInput)
	}

	row := q.QueryRowContext(ctx, `
		UPDATE rooms
		SET current_occupants = current_occupants - 1,
		    status = CASE WHEN status = 'occupied' THEN 'available' ELSE status END
		WHERE id = $1
		  AND current_occupants > 0
		RETURNING `+roomColumns,
		roomID,
	)
	room, err := scanRoom(row)
	if err == sql.ErrNoRows {
		return nil, classifyNoMatch(ctx, q, roomID, domain.ErrInvalidTransition)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to release slot: %w", err)
	}
	return room, nil
}

// classifyNoMatch distinguishes "room does not exist" from "precondition
// failed" after a conditional update matched nothing.
func classifyNoMatch(ctx context.Context, q querier, roomID string, failed error) error {
	var exists bool
	err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM rooms WHERE id = $1)`, roomID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check room %s: %w", roomID, err)
	}
	if !exists {
		return fmt.Errorf("room %s: %w", roomID, domain.ErrNotFound)
	}
	return fmt.Errorf("room %s: %w", roomID, failed)
}
