package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
)

// MemoryProfilesRepo 内存版学生档案存储
type MemoryProfilesRepo struct {
	mu       sync.RWMutex
	profiles map[string]*domain.StudentProfile
}

func NewMemoryProfilesRepo() *MemoryProfilesRepo {
	return &MemoryProfilesRepo{profiles: map[string]*domain.StudentProfile{}}
}

func cloneProfile(p *domain.StudentProfile) *domain.StudentProfile {
	c := *p
	if p.Hobbies != nil {
		c.Hobbies = append([]string(nil), p.Hobbies...)
	}
	if p.MBTI != nil {
		v := *p.MBTI
		c.MBTI = &v
	}
	return &c
}

// Put upserts a profile by user id.
func (m *MemoryProfilesRepo) Put(_ context.Context, profile *domain.StudentProfile) error {
	if profile == nil || profile.UserID == "" {
		return fmt.Errorf("profile with user_id is required: %w", domain.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.UserID] = cloneProfile(profile)
	return nil
}

func (m *MemoryProfilesRepo) GetByUserID(_ context.Context, userID string) (*domain.StudentProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profile, ok := m.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile for user %s: %w", userID, domain.ErrNotFound)
	}
	return cloneProfile(profile), nil
}
