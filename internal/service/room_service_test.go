package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/repository"
	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/store"
)

type roomServiceFixture struct {
	rooms    *repository.MemoryRoomsRepo
	apps     *repository.MemoryApplicationsRepo
	profiles *repository.MemoryProfilesRepo
	kv       *store.MemoryKV
	svc      *RoomService
}

func newRoomServiceFixture(t *testing.T) *roomServiceFixture {
	t.Helper()
	rooms := repository.NewMemoryRoomsRepo()
	apps := repository.NewMemoryApplicationsRepo(rooms)
	profiles := repository.NewMemoryProfilesRepo()
	kv := store.NewMemoryKV()
	svc := NewRoomService(rooms, apps, profiles, NewMatchingService(), kv, zap.NewNop())
	return &roomServiceFixture{rooms: rooms, apps: apps, profiles: profiles, kv: kv, svc: svc}
}

func TestCreateRoom_Defaults(t *testing.T) {
	f := newRoomServiceFixture(t)

	room, err := f.svc.CreateRoom(context.Background(), CreateRoomRequest{
		Number:   "301",
		Capacity: 3,
	})
	require.NoError(t, err)
	require.Equal(t, domain.SexAny, room.SexRestriction)
	require.Equal(t, domain.RoomAvailable, room.Status)
	require.Zero(t, room.CurrentOccupants)
	require.NotEmpty(t, room.ID)
}

func TestCreateRoom_PrefilledRoomBecomesOccupied(t *testing.T) {
	f := newRoomServiceFixture(t)

	room, err := f.svc.CreateRoom(context.Background(), CreateRoomRequest{
		Number:           "302",
		Capacity:         2,
		CurrentOccupants: 2,
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoomOccupied, room.Status)
}

func TestCreateRoom_Validation(t *testing.T) {
	f := newRoomServiceFixture(t)
	ctx := context.Background()

	cases := []CreateRoomRequest{
		{Number: "", Capacity: 2},
		{Number: "303", Capacity: 0},
		{Number: "303", Capacity: -1},
		{Number: "303", Capacity: 2, CurrentOccupants: 3},
		{Number: "303", Capacity: 2, CurrentOccupants: -1},
		{Number: "303", Capacity: 2, SexRestriction: "other"},
		{Number: "303", Capacity: 2, CourseRestriction: intPtr(0)},
	}
	for i, req := range cases {
		_, err := f.svc.CreateRoom(ctx, req)
		require.ErrorIs(t, err, domain.ErrInvalidInput, "case %d", i)
	}
}

func TestSearchRooms_FiltersByProfile(t *testing.T) {
	f := newRoomServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.profiles.Put(ctx, &domain.StudentProfile{
		UserID:  "u1",
		Faculty: "CS",
		Course:  2,
		Gender:  domain.SexFemale,
	}))

	_, err := f.svc.CreateRoom(ctx, CreateRoomRequest{Number: "101", Capacity: 2})
	require.NoError(t, err)
	_, err = f.svc.CreateRoom(ctx, CreateRoomRequest{Number: "102", Capacity: 2, SexRestriction: domain.SexMale})
	require.NoError(t, err)
	_, err = f.svc.CreateRoom(ctx, CreateRoomRequest{Number: "103", Capacity: 1, CurrentOccupants: 1})
	require.NoError(t, err)

	rooms, err := f.svc.SearchRooms(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	require.Equal(t, "101", rooms[0].Number)
}

func TestSearchRooms_UnknownProfile(t *testing.T) {
	f := newRoomServiceFixture(t)
	_, err := f.svc.SearchRooms(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetStats_CountsAndCaches(t *testing.T) {
	f := newRoomServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateRoom(ctx, CreateRoomRequest{Number: "101", Capacity: 2})
	require.NoError(t, err)
	full, err := f.svc.CreateRoom(ctx, CreateRoomRequest{Number: "102", Capacity: 1, CurrentOccupants: 1})
	require.NoError(t, err)
	require.Equal(t, domain.RoomOccupied, full.Status)

	_, err = f.apps.Create(ctx, &domain.Application{
		UserID: "u1", RoomID: full.ID, Status: domain.ApplicationPending,
	})
	require.NoError(t, err)

	stats, err := f.svc.GetStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.AvailableRooms)
	require.Equal(t, 1, stats.OccupiedRooms)
	require.Equal(t, 0, stats.ReservedRooms)
	require.Equal(t, 1, stats.PendingApplications)

	// Second read is served from cache: new rooms don't show up yet.
	_, err = f.svc.CreateRoom(ctx, CreateRoomRequest{Number: "103", Capacity: 2})
	require.NoError(t, err)

	cached, err := f.svc.GetStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, cached.AvailableRooms)

	// Dropping the cache entry refreshes the counts.
	require.NoError(t, f.kv.Delete(ctx, "dormmatch:stats"))
	fresh, err := f.svc.GetStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, fresh.AvailableRooms)
}
