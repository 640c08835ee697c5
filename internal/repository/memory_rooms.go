package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
)

// MemoryRoomsRepo: 用于 DB 未就绪时的联测和单元测试
// - IDs use uuid
// - implements both RoomsRepository and CapacityLedger; the reservation check
//   and increment run under one lock, so the memory ledger gives the same
//   all-or-nothing behavior as the conditional UPDATE
type MemoryRoomsRepo struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
}

func NewMemoryRoomsRepo() *MemoryRoomsRepo {
	return &MemoryRoomsRepo{rooms: map[string]*domain.Room{}}
}

func cloneRoom(r *domain.Room) *domain.Room {
	c := *r
	if r.PhotoURL != nil {
		v := *r.PhotoURL
		c.PhotoURL = &v
	}
	if r.FacultyRestriction != nil {
		v := *r.FacultyRestriction
		c.FacultyRestriction = &v
	}
	if r.CourseRestriction != nil {
		v := *r.CourseRestriction
		c.CourseRestriction = &v
	}
	return &c
}

func (m *MemoryRoomsRepo) Create(_ context.Context, room *domain.Room) (*domain.Room, error) {
	if room == nil {
		return nil, fmt.Errorf("room is required: %w", domain.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := cloneRoom(room)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	m.rooms[stored.ID] = stored
	return cloneRoom(stored), nil
}

func (m *MemoryRoomsRepo) Get(_ context.Context, roomID string) (*domain.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, domain.ErrNotFound)
	}
	return cloneRoom(room), nil
}

func (m *MemoryRoomsRepo) FindAvailable(_ context.Context, filters RoomFilters) ([]*domain.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Room, 0)
	for _, room := range m.rooms {
		if room.Status != domain.RoomAvailable {
			continue
		}
		if room.FacultyRestriction != nil && *room.FacultyRestriction != filters.Faculty {
			continue
		}
		if room.CourseRestriction != nil && *room.CourseRestriction != filters.Course {
			continue
		}
		if room.SexRestriction != domain.SexAny && room.SexRestriction != filters.Sex {
			continue
		}
		out = append(out, cloneRoom(room))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *MemoryRoomsRepo) List(_ context.Context) ([]*domain.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		out = append(out, cloneRoom(room))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *MemoryRoomsRepo) CountByStatus(_ context.Context) (map[domain.RoomStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := map[domain.RoomStatus]int{}
	for _, room := range m.rooms {
		counts[room.Status]++
	}
	return counts, nil
}

// ============================================
// CapacityLedger
// ============================================

func (m *MemoryRoomsRepo) ReserveSlot(_ context.Context, roomID string) (*domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reserveLocked(roomID)
}

// reserveLocked assumes m.mu is held.
func (m *MemoryRoomsRepo) reserveLocked(roomID string) (*domain.Room, error) {
	room, ok := m.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, domain.ErrNotFound)
	}
	if room.Status != domain.RoomAvailable || room.CurrentOccupants >= room.Capacity {
		return nil, fmt.Errorf("room %s: %w", roomID, domain.ErrCapacityExceeded)
	}
	room.CurrentOccupants++
	if room.CurrentOccupants >= room.Capacity {
		room.Status = domain.RoomOccupied
	}
	return cloneRoom(room), nil
}

func (m *MemoryRoomsRepo) ReleaseSlot(_ context.Context, roomID string) (*domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, domain.ErrNotFound)
	}
	if room.CurrentOccupants <= 0 {
		return nil, fmt.Errorf("room %s has no occupants: %w", roomID, domain.ErrInvalidTransition)
	}
	room.CurrentOccupants--
	if room.Status == domain.RoomOccupied {
		room.Status = domain.RoomAvailable
	}
	return cloneRoom(room), nil
}
