package service

import (
	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
)

// MatchingService 房间匹配规则
// Pure rule evaluation, no storage access; both search and auto-assign run
// every candidate through the same IsCompatible so the two paths never
// disagree on eligibility.
type MatchingService struct{}

func NewMatchingService() MatchingService { return MatchingService{} }

// IsCompatible 判断学生是否可入住该房间
// All rules must hold:
// - room is available and not full
// - sex restriction is "any" or matches the student
// - faculty restriction is unset or matches
// - course restriction is unset or matches
func (MatchingService) IsCompatible(profile *domain.StudentProfile, room *domain.Room) bool {
	if room.Status != domain.RoomAvailable || room.Full() {
		return false
	}
	if room.SexRestriction != domain.SexAny && room.SexRestriction != profile.Gender {
		return false
	}
	if room.FacultyRestriction != nil && *room.FacultyRestriction != profile.Faculty {
		return false
	}
	if room.CourseRestriction != nil && *room.CourseRestriction != profile.Course {
		return false
	}
	return true
}

// FindBestRoom 从候选列表中选出第一个可入住且未被排除的房间
// Candidates arrive ordered by room number, so the pick is deterministic for
// the same inputs. Returns nil when nothing fits.
func (m MatchingService) FindBestRoom(profile *domain.StudentProfile, rooms []*domain.Room, excluded map[string]bool) *domain.Room {
	for _, room := range rooms {
		if excluded[room.ID] {
			continue
		}
		if m.IsCompatible(profile, room) {
			return room
		}
	}
	return nil
}
