package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
)

// HTTPProfileClient 学生档案服务客户端
// Implements repository.ProfilesRepository over the profiles HTTP API, for
// deployments where profiles live in a separate service instead of our DB.
type HTTPProfileClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewHTTPProfileClient 创建档案服务客户端
func NewHTTPProfileClient(baseURL string, timeout time.Duration, retries int, logger *zap.Logger) *HTTPProfileClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Accept", "application/json")

	return &HTTPProfileClient{
		httpClient: client,
		logger:     logger,
	}
}

// GetByUserID 拉取学生档案
func (c *HTTPProfileClient) GetByUserID(ctx context.Context, userID string) (*domain.StudentProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required: %w", domain.ErrInvalidInput)
	}

	var profile domain.StudentProfile
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&profile).
		SetPathParam("user_id", userID).
		Get("/profiles/{user_id}")
	if err != nil {
		c.logger.Error("Profile service call failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to call profile service: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		profile.UserID = userID
		return &profile, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("profile for user %s: %w", userID, domain.ErrNotFound)
	default:
		c.logger.Error("Profile service returned error",
			zap.String("user_id", userID),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("profile service error: status %d", resp.StatusCode())
	}
}
