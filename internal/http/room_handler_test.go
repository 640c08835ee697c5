package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/repository"
	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/service"
	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/store"
)

type apiFixture struct {
	router   *Router
	rooms    *repository.MemoryRoomsRepo
	profiles *repository.MemoryProfilesRepo
}

func newAPIFixture() *apiFixture {
	logger := zap.NewNop()
	rooms := repository.NewMemoryRoomsRepo()
	apps := repository.NewMemoryApplicationsRepo(rooms)
	profiles := repository.NewMemoryProfilesRepo()
	matching := service.NewMatchingService()

	roomService := service.NewRoomService(rooms, apps, profiles, matching, store.NewMemoryKV(), logger)
	appService := service.NewApplicationService(apps, rooms, logger)
	allocationService := service.NewAllocationService(rooms, apps, profiles, matching, 3, logger)

	router := NewRouter(logger)
	router.RegisterRoomRoutes(
		NewRoomHandler(roomService, logger),
		NewApplicationHandler(appService, allocationService, logger),
	)
	return &apiFixture{router: router, rooms: rooms, profiles: profiles}
}

func (f *apiFixture) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Code   int             `json:"code"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid envelope: %v (%s)", err, w.Body.String())
	}
	if envelope.Code != ResultSuccess {
		t.Fatalf("expected code=2000, got %d: %s", envelope.Code, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			t.Fatalf("invalid result payload: %v (%s)", err, w.Body.String())
		}
	}
}

func TestCreateRoomEndpoint(t *testing.T) {
	f := newAPIFixture()

	w := f.do(t, http.MethodPost, "/rooms", `{"number":"101","capacity":2}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var room domain.Room
	decodeResult(t, w, &room)
	if room.ID == "" || room.Number != "101" {
		t.Fatalf("unexpected room: %+v", room)
	}
}

func TestCreateRoomEndpoint_InvalidInput(t *testing.T) {
	f := newAPIFixture()

	w := f.do(t, http.MethodPost, "/rooms", `{"number":"","capacity":0}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"code":-1`) {
		t.Fatalf("expected error envelope, got: %s", w.Body.String())
	}
}

func TestSearchRoomsEndpoint(t *testing.T) {
	f := newAPIFixture()
	ctx := context.Background()

	if err := f.profiles.Put(ctx, &domain.StudentProfile{
		UserID: "u1", Faculty: "CS", Course: 2, Gender: domain.SexFemale,
	}); err != nil {
		t.Fatal(err)
	}
	f.do(t, http.MethodPost, "/rooms", `{"number":"101","capacity":2}`, nil)
	f.do(t, http.MethodPost, "/rooms", `{"number":"102","capacity":2,"sex_restriction":"male"}`, nil)

	w := f.do(t, http.MethodGet, "/rooms/search", "", map[string]string{"X-User-Id": "u1"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var rooms []domain.Room
	decodeResult(t, w, &rooms)
	if len(rooms) != 1 || rooms[0].Number != "101" {
		t.Fatalf("expected only room 101, got: %+v", rooms)
	}
}

func TestSearchRoomsEndpoint_MissingIdentity(t *testing.T) {
	f := newAPIFixture()
	w := f.do(t, http.MethodGet, "/rooms/search", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	f := newAPIFixture()
	f.do(t, http.MethodPost, "/rooms", `{"number":"101","capacity":2}`, nil)

	w := f.do(t, http.MethodGet, "/rooms/stats", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var stats domain.RoomStats
	decodeResult(t, w, &stats)
	if stats.AvailableRooms != 1 {
		t.Fatalf("expected 1 available room, got: %+v", stats)
	}
}

func TestExportEndpoint_ReturnsXLSX(t *testing.T) {
	f := newAPIFixture()
	f.do(t, http.MethodPost, "/rooms", `{"number":"101","capacity":2}`, nil)

	w := f.do(t, http.MethodGet, "/rooms/export", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("unexpected content type: %s", ct)
	}
	if w.Body.Len() == 0 {
		t.Fatal("expected non-empty body")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	f := newAPIFixture()
	w := f.do(t, http.MethodGet, "/rooms", "", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}
