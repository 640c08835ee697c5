package repository

import (
	"context"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
)

// ProfilesRepository 学生档案读取接口
// The profile store is an external collaborator; allocation only reads it.
// Implementations: Postgres table, in-memory seed, remote profile service.
type ProfilesRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.StudentProfile, error)
}
