package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/service"
)

// RoomHandler 房间相关 HTTP 处理器
type RoomHandler struct {
	roomService *service.RoomService
	logger      *zap.Logger
}

func NewRoomHandler(roomService *service.RoomService, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		logger:      logger,
	}
}

// userIDFromRequest: 网关透传的用户身份放在 X-User-Id，调试时允许 query 参数兜底
func userIDFromRequest(r *http.Request) string {
	if id := r.Header.Get("X-User-Id"); id != "" {
		return id
	}
	return r.URL.Query().Get("user_id")
}

// CreateRoom POST /rooms
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req service.CreateRoomRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	room, err := h.roomService.CreateRoom(r.Context(), req)
	if err != nil {
		h.logger.Warn("Create room failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(room))
}

// SearchRooms GET /rooms/search
func (h *RoomHandler) SearchRooms(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("user identity is required"))
		return
	}

	rooms, err := h.roomService.SearchRooms(r.Context(), userID)
	if err != nil {
		h.logger.Warn("Room search failed", zap.String("user_id", userID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(rooms))
}

// GetStats GET /rooms/stats
func (h *RoomHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.roomService.GetStats(r.Context())
	if err != nil {
		h.logger.Error("Stats query failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(stats))
}

// ExportRooms GET /rooms/export — 导出房间清单 Excel
func (h *RoomHandler) ExportRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomService.ListRooms(r.Context())
	if err != nil {
		h.logger.Error("Room export failed", zap.Error(err))
		writeError(w, err)
		return
	}

	data, err := GenerateRoomsExport(rooms)
	if err != nil {
		h.logger.Error("Room export generation failed", zap.Error(err))
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("rooms_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
