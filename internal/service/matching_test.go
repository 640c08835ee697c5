package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func testProfile() *domain.StudentProfile {
	return &domain.StudentProfile{
		UserID:  "u1",
		Faculty: "CS",
		Course:  2,
		Gender:  domain.SexFemale,
	}
}

func openRoom() *domain.Room {
	return &domain.Room{
		ID:               "r1",
		Number:           "101",
		Capacity:         3,
		CurrentOccupants: 1,
		SexRestriction:   domain.SexAny,
		Status:           domain.RoomAvailable,
	}
}

func TestIsCompatible_OpenRoom(t *testing.T) {
	m := NewMatchingService()
	require.True(t, m.IsCompatible(testProfile(), openRoom()))
}

func TestIsCompatible_RejectsFullRoom(t *testing.T) {
	m := NewMatchingService()
	room := openRoom()
	room.CurrentOccupants = room.Capacity
	require.False(t, m.IsCompatible(testProfile(), room))
}

func TestIsCompatible_RejectsNonAvailableStatus(t *testing.T) {
	m := NewMatchingService()
	for _, status := range []domain.RoomStatus{domain.RoomOccupied, domain.RoomReserved} {
		room := openRoom()
		room.Status = status
		require.False(t, m.IsCompatible(testProfile(), room), "status %s", status)
	}
}

func TestIsCompatible_SexRestriction(t *testing.T) {
	m := NewMatchingService()

	room := openRoom()
	room.SexRestriction = domain.SexFemale
	require.True(t, m.IsCompatible(testProfile(), room))

	room.SexRestriction = domain.SexMale
	require.False(t, m.IsCompatible(testProfile(), room))
}

func TestIsCompatible_FacultyRestriction(t *testing.T) {
	m := NewMatchingService()

	room := openRoom()
	room.FacultyRestriction = strPtr("CS")
	require.True(t, m.IsCompatible(testProfile(), room))

	room.FacultyRestriction = strPtr("Math")
	require.False(t, m.IsCompatible(testProfile(), room))
}

func TestIsCompatible_CourseRestriction(t *testing.T) {
	m := NewMatchingService()

	room := openRoom()
	room.CourseRestriction = intPtr(2)
	require.True(t, m.IsCompatible(testProfile(), room))

	room.CourseRestriction = intPtr(3)
	require.False(t, m.IsCompatible(testProfile(), room))
}

func TestIsCompatible_UnsetRestrictionsAdmitEveryone(t *testing.T) {
	m := NewMatchingService()
	room := openRoom()
	room.FacultyRestriction = nil
	room.CourseRestriction = nil

	for _, faculty := range []string{"CS", "Math", "Law"} {
		p := testProfile()
		p.Faculty = faculty
		require.True(t, m.IsCompatible(p, room))
	}
}

func TestFindBestRoom_DeterministicFirstFit(t *testing.T) {
	m := NewMatchingService()

	full := openRoom()
	full.ID = "r-full"
	full.Number = "100"
	full.CurrentOccupants = full.Capacity

	wrongSex := openRoom()
	wrongSex.ID = "r-male"
	wrongSex.Number = "101"
	wrongSex.SexRestriction = domain.SexMale

	fits := openRoom()
	fits.ID = "r-fits"
	fits.Number = "102"

	alsoFits := openRoom()
	alsoFits.ID = "r-also"
	alsoFits.Number = "103"

	rooms := []*domain.Room{full, wrongSex, fits, alsoFits}

	// Same inputs pick the same room every time.
	for i := 0; i < 10; i++ {
		got := m.FindBestRoom(testProfile(), rooms, nil)
		require.NotNil(t, got)
		require.Equal(t, "r-fits", got.ID)
	}
}

func TestFindBestRoom_SkipsExcluded(t *testing.T) {
	m := NewMatchingService()

	first := openRoom()
	first.ID = "r1"
	second := openRoom()
	second.ID = "r2"

	got := m.FindBestRoom(testProfile(), []*domain.Room{first, second}, map[string]bool{"r1": true})
	require.NotNil(t, got)
	require.Equal(t, "r2", got.ID)
}

func TestFindBestRoom_NoCandidate(t *testing.T) {
	m := NewMatchingService()
	room := openRoom()
	room.CurrentOccupants = room.Capacity
	require.Nil(t, m.FindBestRoom(testProfile(), []*domain.Room{room}, nil))
}
