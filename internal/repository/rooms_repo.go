package repository

import (
	"context"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
)

// RoomFilters 房间查询过滤器（store 级粗筛）
// The store filter only excludes rooms whose restrictions contradict the
// profile; the eligibility check in the service layer is authoritative.
type RoomFilters struct {
	Faculty string
	Course  int
	Sex     string
}

// RoomsRepository 房间 Repository 接口
// 使用强类型领域模型，不使用 map[string]any
type RoomsRepository interface {
	Create(ctx context.Context, room *domain.Room) (*domain.Room, error)
	Get(ctx context.Context, roomID string) (*domain.Room, error)
	// FindAvailable returns available rooms whose restrictions admit the
	// given faculty/course/sex, in the store's native order.
	FindAvailable(ctx context.Context, filters RoomFilters) ([]*domain.Room, error)
	List(ctx context.Context) ([]*domain.Room, error)
	CountByStatus(ctx context.Context) (map[domain.RoomStatus]int, error)
}

// CapacityLedger owns a room's occupancy counter. Every mutation of
// current_occupants goes through here; status is kept in lockstep
// (occupied iff current_occupants == capacity).
type CapacityLedger interface {
	// ReserveSlot increments occupancy only if the room is available and has
	// a free slot, as one indivisible operation against the store. Returns
	// the post-update room. Fails with domain.ErrCapacityExceeded when the
	// precondition no longer holds, domain.ErrNotFound when the room is gone.
	ReserveSlot(ctx context.Context, roomID string) (*domain.Room, error)

	// ReleaseSlot is the symmetric decrement, used when a previously
	// approved application is voided. Fails with domain.ErrInvalidTransition
	// on an empty room.
	ReleaseSlot(ctx context.Context, roomID string) (*domain.Room, error)
}
