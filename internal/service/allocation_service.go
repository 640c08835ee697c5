package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/repository"
)

const autoAssignComment = "auto-assigned"

// AllocationService 自动分配服务
type AllocationService struct {
	roomRepo    repository.RoomsRepository
	appRepo     repository.ApplicationsRepository
	profileRepo repository.ProfilesRepository
	matching    MatchingService
	maxAttempts int
	logger      *zap.Logger
}

// NewAllocationService 创建自动分配服务
func NewAllocationService(
	roomRepo repository.RoomsRepository,
	appRepo repository.ApplicationsRepository,
	profileRepo repository.ProfilesRepository,
	matching MatchingService,
	maxAttempts int,
	logger *zap.Logger,
) *AllocationService {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &AllocationService{
		roomRepo:    roomRepo,
		appRepo:     appRepo,
		profileRepo: profileRepo,
		matching:    matching,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// AutoAssignRequest 自动分配请求
type AutoAssignRequest struct {
	UserID string `json:"user_id"`
}

// AutoAssign 为学生自动选房并直接生成 approved 申请
//
// Candidate selection and the capacity reservation are not one atomic step:
// a concurrent approval may fill the chosen room first. When the reservation
// loses that race the room goes into the excluded set and the next candidate
// is tried, up to maxAttempts rounds.
func (s *AllocationService) AutoAssign(ctx context.Context, req AutoAssignRequest) (*domain.Application, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("user_id is required: %w", domain.ErrInvalidInput)
	}

	profile, err := s.profileRepo.GetByUserID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	excluded := map[string]bool{}
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		rooms, err := s.roomRepo.FindAvailable(ctx, repository.RoomFilters{
			Faculty: profile.Faculty,
			Course:  profile.Course,
			Sex:     profile.Gender,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to find rooms: %w", err)
		}

		room := s.matching.FindBestRoom(profile, rooms, excluded)
		if room == nil {
			return nil, fmt.Errorf("no room fits user %s: %w", req.UserID, domain.ErrNoEligibleRoom)
		}

		comment := autoAssignComment
		app, err := s.appRepo.CreateApproved(ctx, &domain.Application{
			ID:        uuid.NewString(),
			UserID:    req.UserID,
			RoomID:    room.ID,
			Status:    domain.ApplicationApproved,
			Comment:   &comment,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			// Lost the slot to a concurrent reservation; drop this room and retry.
			if errors.Is(err, domain.ErrCapacityExceeded) || errors.Is(err, domain.ErrNotFound) {
				s.logger.Warn("Auto-assign candidate lost, retrying",
					zap.String("user_id", req.UserID),
					zap.String("room_id", room.ID),
					zap.Int("attempt", attempt),
					zap.Error(err),
				)
				excluded[room.ID] = true
				continue
			}
			return nil, fmt.Errorf("failed to auto-assign: %w", err)
		}

		s.logger.Info("Auto-assign completed",
			zap.String("user_id", req.UserID),
			zap.String("room_id", room.ID),
			zap.String("application_id", app.ID),
			zap.Int("attempt", attempt),
		)
		return app, nil
	}

	return nil, fmt.Errorf("no room could be reserved for user %s after %d attempts: %w",
		req.UserID, s.maxAttempts, domain.ErrNoEligibleRoom)
}
