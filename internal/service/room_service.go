package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/repository"
	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/store"
)

const (
	statsCacheKey = "dormmatch:stats"
	statsCacheTTL = 30 * time.Second
)

// RoomService 房间服务
type RoomService struct {
	roomRepo    repository.RoomsRepository
	appRepo     repository.ApplicationsRepository
	profileRepo repository.ProfilesRepository
	matching    MatchingService
	kv          store.KV
	logger      *zap.Logger
}

// NewRoomService 创建房间服务
func NewRoomService(
	roomRepo repository.RoomsRepository,
	appRepo repository.ApplicationsRepository,
	profileRepo repository.ProfilesRepository,
	matching MatchingService,
	kv store.KV,
	logger *zap.Logger,
) *RoomService {
	return &RoomService{
		roomRepo:    roomRepo,
		appRepo:     appRepo,
		profileRepo: profileRepo,
		matching:    matching,
		kv:          kv,
		logger:      logger,
	}
}

// CreateRoomRequest 创建房间请求
type CreateRoomRequest struct {
	Number             string  `json:"number"`
	Description        string  `json:"description"`
	PhotoURL           *string `json:"photo_url,omitempty"`
	Capacity           int     `json:"capacity"`
	CurrentOccupants   int     `json:"current_occupants"`
	FacultyRestriction *string `json:"faculty_restriction,omitempty"`
	CourseRestriction  *int    `json:"course_restriction,omitempty"`
	SexRestriction     string  `json:"sex_restriction"`
}

// CreateRoom 创建房间
func (s *RoomService) CreateRoom(ctx context.Context, req CreateRoomRequest) (*domain.Room, error) {
	if req.Number == "" {
		return nil, fmt.Errorf("number is required: %w", domain.ErrInvalidInput)
	}
	if req.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive: %w", domain.ErrInvalidInput)
	}
	if req.CurrentOccupants < 0 || req.CurrentOccupants > req.Capacity {
		return nil, fmt.Errorf("current_occupants must be within [0, capacity]: %w", domain.ErrInvalidInput)
	}
	sex := req.SexRestriction
	if sex == "" {
		sex = domain.SexAny
	}
	if sex != domain.SexMale && sex != domain.SexFemale && sex != domain.SexAny {
		return nil, fmt.Errorf("sex_restriction must be male, female or any: %w", domain.ErrInvalidInput)
	}
	if req.CourseRestriction != nil && *req.CourseRestriction <= 0 {
		return nil, fmt.Errorf("course_restriction must be positive: %w", domain.ErrInvalidInput)
	}

	// 满员房间直接落为 occupied
	status := domain.RoomAvailable
	if req.CurrentOccupants >= req.Capacity {
		status = domain.RoomOccupied
	}

	room := &domain.Room{
		Number:             req.Number,
		Description:        req.Description,
		PhotoURL:           req.PhotoURL,
		Capacity:           req.Capacity,
		CurrentOccupants:   req.CurrentOccupants,
		FacultyRestriction: req.FacultyRestriction,
		CourseRestriction:  req.CourseRestriction,
		SexRestriction:     sex,
		Status:             status,
	}

	created, err := s.roomRepo.Create(ctx, room)
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	s.logger.Info("Room created",
		zap.String("room_id", created.ID),
		zap.String("number", created.Number),
		zap.Int("capacity", created.Capacity),
	)
	return created, nil
}

// SearchRooms 按学生档案筛选可申请的房间
// The repository narrows by restriction columns; IsCompatible re-checks every
// row so list results and auto-assign follow identical rules.
func (s *RoomService) SearchRooms(ctx context.Context, userID string) ([]*domain.Room, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required: %w", domain.ErrInvalidInput)
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	rooms, err := s.roomRepo.FindAvailable(ctx, repository.RoomFilters{
		Faculty: profile.Faculty,
		Course:  profile.Course,
		Sex:     profile.Gender,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find rooms: %w", err)
	}

	out := make([]*domain.Room, 0, len(rooms))
	for _, room := range rooms {
		if s.matching.IsCompatible(profile, room) {
			out = append(out, room)
		}
	}

	s.logger.Debug("Room search completed",
		zap.String("user_id", userID),
		zap.Int("matched", len(out)),
	)
	return out, nil
}

// ListRooms 列出全部房间（导出用）
func (s *RoomService) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// GetStats 返回房间与申请的汇总统计
// Cached briefly in KV; the cache never feeds occupancy decisions, only this
// read-only summary.
func (s *RoomService) GetStats(ctx context.Context) (*domain.RoomStats, error) {
	if cached, err := s.kv.Get(ctx, statsCacheKey); err == nil {
		var stats domain.RoomStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
	} else if !errors.Is(err, store.ErrMiss) {
		s.logger.Warn("Stats cache read failed", zap.Error(err))
	}

	counts, err := s.roomRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count rooms: %w", err)
	}
	pending, err := s.appRepo.CountPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending applications: %w", err)
	}

	stats := &domain.RoomStats{
		AvailableRooms:      counts[domain.RoomAvailable],
		OccupiedRooms:       counts[domain.RoomOccupied],
		ReservedRooms:       counts[domain.RoomReserved],
		PendingApplications: pending,
	}

	if data, err := json.Marshal(stats); err == nil {
		if err := s.kv.Set(ctx, statsCacheKey, string(data), statsCacheTTL); err != nil {
			s.logger.Warn("Stats cache write failed", zap.Error(err))
		}
	}

	return stats, nil
}
