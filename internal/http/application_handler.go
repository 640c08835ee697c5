package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/service"
)

// ApplicationHandler 申请相关 HTTP 处理器
type ApplicationHandler struct {
	appService        *service.ApplicationService
	allocationService *service.AllocationService
	logger            *zap.Logger
}

func NewApplicationHandler(
	appService *service.ApplicationService,
	allocationService *service.AllocationService,
	logger *zap.Logger,
) *ApplicationHandler {
	return &ApplicationHandler{
		appService:        appService,
		allocationService: allocationService,
		logger:            logger,
	}
}

// Submit POST /rooms/apply
func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if req.UserID == "" {
		req.UserID = userIDFromRequest(r)
	}

	app, err := h.appService.Submit(r.Context(), req)
	if err != nil {
		h.logger.Warn("Application submit failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(app))
}

// List GET /rooms/applications
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("user identity is required"))
		return
	}

	apps, err := h.appService.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Warn("Application list failed", zap.String("user_id", userID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(apps))
}

type reviewBody struct {
	Comment *string `json:"comment,omitempty"`
}

// Approve POST /rooms/applications/{id}/approve
func (h *ApplicationHandler) Approve(w http.ResponseWriter, r *http.Request, id string) {
	var body reviewBody
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	app, err := h.appService.Approve(r.Context(), service.ReviewRequest{
		ApplicationID: id,
		Comment:       body.Comment,
	})
	if err != nil {
		h.logger.Warn("Application approve failed", zap.String("application_id", id), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(app))
}

// Reject POST /rooms/applications/{id}/reject
func (h *ApplicationHandler) Reject(w http.ResponseWriter, r *http.Request, id string) {
	var body reviewBody
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	app, err := h.appService.Reject(r.Context(), service.ReviewRequest{
		ApplicationID: id,
		Comment:       body.Comment,
	})
	if err != nil {
		h.logger.Warn("Application reject failed", zap.String("application_id", id), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(app))
}

// AutoAssign POST /rooms/auto-assign
func (h *ApplicationHandler) AutoAssign(w http.ResponseWriter, r *http.Request) {
	var req service.AutoAssignRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if req.UserID == "" {
		req.UserID = userIDFromRequest(r)
	}

	app, err := h.allocationService.AutoAssign(r.Context(), req)
	if err != nil {
		h.logger.Warn("Auto-assign failed", zap.String("user_id", req.UserID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(app))
}
