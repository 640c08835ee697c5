package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
)

// MemoryApplicationsRepo 内存版申请存储
// Approve/CreateApproved delegate the occupancy change to the ledger so the
// memory path keeps the same "ledger is the only occupancy mutator" rule as
// the Postgres path.
type MemoryApplicationsRepo struct {
	mu     sync.RWMutex
	apps   map[string]*domain.Application
	ledger CapacityLedger
}

func NewMemoryApplicationsRepo(ledger CapacityLedger) *MemoryApplicationsRepo {
	return &MemoryApplicationsRepo{
		apps:   map[string]*domain.Application{},
		ledger: ledger,
	}
}

func cloneApplication(a *domain.Application) *domain.Application {
	c := *a
	if a.Comment != nil {
		v := *a.Comment
		c.Comment = &v
	}
	return &c
}

func (m *MemoryApplicationsRepo) Create(_ context.Context, app *domain.Application) (*domain.Application, error) {
	if app == nil {
		return nil, fmt.Errorf("application is required: %w", domain.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := cloneApplication(app)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	m.apps[stored.ID] = stored
	return cloneApplication(stored), nil
}

func (m *MemoryApplicationsRepo) Get(_ context.Context, id string) (*domain.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	app, ok := m.apps[id]
	if !ok {
		return nil, fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
	}
	return cloneApplication(app), nil
}

func (m *MemoryApplicationsRepo) ListByUser(_ context.Context, userID string) ([]*domain.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Application, 0)
	for _, app := range m.apps {
		if app.UserID == userID {
			out = append(out, cloneApplication(app))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryApplicationsRepo) Approve(ctx context.Context, id string, comment *string) (*domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	app, ok := m.apps[id]
	if !ok {
		return nil, fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
	}
	if app.Status != domain.ApplicationPending {
		return nil, fmt.Errorf("application %s is %s: %w", id, app.Status, domain.ErrInvalidTransition)
	}

	// Reserve first; the application stays pending when the room fills up.
	if _, err := m.ledger.ReserveSlot(ctx, app.RoomID); err != nil {
		return nil, fmt.Errorf("reserve slot: %w", err)
	}

	app.Status = domain.ApplicationApproved
	if comment != nil {
		v := *comment
		app.Comment = &v
	}
	return cloneApplication(app), nil
}

func (m *MemoryApplicationsRepo) Reject(_ context.Context, id string, comment *string) (*domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	app, ok := m.apps[id]
	if !ok {
		return nil, fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
	}
	if app.Status != domain.ApplicationPending {
		return nil, fmt.Errorf("application %s is %s: %w", id, app.Status, domain.ErrInvalidTransition)
	}

	app.Status = domain.ApplicationRejected
	if comment != nil {
		v := *comment
		app.Comment = &v
	}
	return cloneApplication(app), nil
}

func (m *MemoryApplicationsRepo) CreateApproved(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	if app == nil {
		return nil, fmt.Errorf("application is required: %w", domain.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.ledger.ReserveSlot(ctx, app.RoomID); err != nil {
		return nil, fmt.Errorf("reserve slot: %w", err)
	}

	stored := cloneApplication(app)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.Status = domain.ApplicationApproved
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	m.apps[stored.ID] = stored
	return cloneApplication(stored), nil
}

func (m *MemoryApplicationsRepo) CountPending(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, app := range m.apps {
		if app.Status == domain.ApplicationPending {
			n++
		}
	}
	return n, nil
}
