package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/repository"
)

// ApplicationService 入住申请服务
type ApplicationService struct {
	appRepo  repository.ApplicationsRepository
	roomRepo repository.RoomsRepository
	logger   *zap.Logger
}

// NewApplicationService 创建申请服务
func NewApplicationService(
	appRepo repository.ApplicationsRepository,
	roomRepo repository.RoomsRepository,
	logger *zap.Logger,
) *ApplicationService {
	return &ApplicationService{
		appRepo:  appRepo,
		roomRepo: roomRepo,
		logger:   logger,
	}
}

// SubmitRequest 提交申请请求
type SubmitRequest struct {
	UserID string `json:"user_id"`
	RoomID string `json:"room_id"`
}

// Submit 提交入住申请
// The application lands as pending and holds no slot; occupancy only moves
// when a reviewer approves it.
func (s *ApplicationService) Submit(ctx context.Context, req SubmitRequest) (*domain.Application, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("user_id is required: %w", domain.ErrInvalidInput)
	}
	if req.RoomID == "" {
		return nil, fmt.Errorf("room_id is required: %w", domain.ErrInvalidInput)
	}

	// 房间必须存在；已满/不可用的房间也允许排队等待
	if _, err := s.roomRepo.Get(ctx, req.RoomID); err != nil {
		return nil, fmt.Errorf("failed to load room: %w", err)
	}

	app := &domain.Application{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		RoomID:    req.RoomID,
		Status:    domain.ApplicationPending,
		CreatedAt: time.Now().UTC(),
	}
	created, err := s.appRepo.Create(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("failed to submit application: %w", err)
	}

	s.logger.Info("Application submitted",
		zap.String("application_id", created.ID),
		zap.String("user_id", created.UserID),
		zap.String("room_id", created.RoomID),
	)
	return created, nil
}

// ListByUser 查询某个申请人的全部申请
func (s *ApplicationService) ListByUser(ctx context.Context, userID string) ([]*domain.Application, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required: %w", domain.ErrInvalidInput)
	}
	apps, err := s.appRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// ReviewRequest 审批请求
type ReviewRequest struct {
	ApplicationID string
	Comment       *string
}

// Approve 批准申请：pending → approved，同步扣减房间名额
// Fails with ErrCapacityExceeded when the room filled up after submission;
// the application stays pending in that case.
func (s *ApplicationService) Approve(ctx context.Context, req ReviewRequest) (*domain.Application, error) {
	if req.ApplicationID == "" {
		return nil, fmt.Errorf("application id is required: %w", domain.ErrInvalidInput)
	}

	app, err := s.appRepo.Approve(ctx, req.ApplicationID, req.Comment)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Application approved",
		zap.String("application_id", app.ID),
		zap.String("room_id", app.RoomID),
	)
	return app, nil
}

// Reject 驳回申请：pending → rejected，不涉及名额
func (s *ApplicationService) Reject(ctx context.Context, req ReviewRequest) (*domain.Application, error) {
	if req.ApplicationID == "" {
		return nil, fmt.Errorf("application id is required: %w", domain.ErrInvalidInput)
	}

	app, err := s.appRepo.Reject(ctx, req.ApplicationID, req.Comment)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Application rejected",
		zap.String("application_id", app.ID),
		zap.String("room_id", app.RoomID),
	)
	return app, nil
}
