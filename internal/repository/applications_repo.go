package repository

import (
	"context"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
)

// ApplicationsRepository 入住申请 Repository 接口
//
// Approve and CreateApproved pair the status change with the capacity
// reservation in one atomic unit: either both halves commit or neither does.
type ApplicationsRepository interface {
	Create(ctx context.Context, app *domain.Application) (*domain.Application, error)
	Get(ctx context.Context, id string) (*domain.Application, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Application, error)

	// Approve flips a pending application to approved and reserves a slot in
	// the referenced room. On domain.ErrCapacityExceeded the application
	// stays pending. Terminal applications fail with
	// domain.ErrInvalidTransition.
	Approve(ctx context.Context, id string, comment *string) (*domain.Application, error)

	// Reject flips a pending application to rejected. No ledger interaction.
	Reject(ctx context.Context, id string, comment *string) (*domain.Application, error)

	// CreateApproved inserts an application directly in approved status,
	// reserving the room slot in the same transaction (auto-assign path).
	CreateApproved(ctx context.Context, app *domain.Application) (*domain.Application, error)

	CountPending(ctx context.Context) (int, error)
}
