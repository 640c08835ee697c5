package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
)

func (f *apiFixture) createRoom(t *testing.T, body string) domain.Room {
	t.Helper()
	w := f.do(t, http.MethodPost, "/rooms", body, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("room create failed: %d %s", w.Code, w.Body.String())
	}
	var room domain.Room
	decodeResult(t, w, &room)
	return room
}

func (f *apiFixture) submit(t *testing.T, userID, roomID string) domain.Application {
	t.Helper()
	w := f.do(t, http.MethodPost, "/rooms/apply",
		fmt.Sprintf(`{"user_id":"%s","room_id":"%s"}`, userID, roomID), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit failed: %d %s", w.Code, w.Body.String())
	}
	var app domain.Application
	decodeResult(t, w, &app)
	return app
}

func TestApplyEndpoint(t *testing.T) {
	f := newAPIFixture()
	room := f.createRoom(t, `{"number":"101","capacity":2}`)

	app := f.submit(t, "u1", room.ID)
	if app.Status != domain.ApplicationPending {
		t.Fatalf("expected pending, got %s", app.Status)
	}
}

func TestApplyEndpoint_UnknownRoom(t *testing.T) {
	f := newAPIFixture()
	w := f.do(t, http.MethodPost, "/rooms/apply", `{"user_id":"u1","room_id":"missing"}`, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestApproveEndpoint(t *testing.T) {
	f := newAPIFixture()
	room := f.createRoom(t, `{"number":"101","capacity":1}`)
	app := f.submit(t, "u1", room.ID)

	w := f.do(t, http.MethodPost, "/rooms/applications/"+app.ID+"/approve", `{"comment":"welcome"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var approved domain.Application
	decodeResult(t, w, &approved)
	if approved.Status != domain.ApplicationApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}
	if approved.Comment == nil || *approved.Comment != "welcome" {
		t.Fatalf("expected comment to be stored, got %+v", approved.Comment)
	}
}

func TestApproveEndpoint_FullRoomConflicts(t *testing.T) {
	f := newAPIFixture()
	room := f.createRoom(t, `{"number":"101","capacity":1}`)
	winner := f.submit(t, "u1", room.ID)
	loser := f.submit(t, "u2", room.ID)

	w := f.do(t, http.MethodPost, "/rooms/applications/"+winner.ID+"/approve", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("first approve failed: %d %s", w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodPost, "/rooms/applications/"+loser.ID+"/approve", "", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRejectEndpoint_ThenApproveConflicts(t *testing.T) {
	f := newAPIFixture()
	room := f.createRoom(t, `{"number":"101","capacity":2}`)
	app := f.submit(t, "u1", room.ID)

	w := f.do(t, http.MethodPost, "/rooms/applications/"+app.ID+"/reject", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reject failed: %d %s", w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodPost, "/rooms/applications/"+app.ID+"/approve", "", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestApplicationsListEndpoint(t *testing.T) {
	f := newAPIFixture()
	room := f.createRoom(t, `{"number":"101","capacity":4}`)
	f.submit(t, "u1", room.ID)
	f.submit(t, "u2", room.ID)

	w := f.do(t, http.MethodGet, "/rooms/applications?user_id=u1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var apps []domain.Application
	decodeResult(t, w, &apps)
	if len(apps) != 1 || apps[0].UserID != "u1" {
		t.Fatalf("expected only u1's application, got: %+v", apps)
	}
}

func TestAutoAssignEndpoint(t *testing.T) {
	f := newAPIFixture()
	if err := f.profiles.Put(context.Background(), &domain.StudentProfile{
		UserID: "u1", Faculty: "CS", Course: 2, Gender: domain.SexFemale,
	}); err != nil {
		t.Fatal(err)
	}
	room := f.createRoom(t, `{"number":"101","capacity":1}`)

	w := f.do(t, http.MethodPost, "/rooms/auto-assign", `{"user_id":"u1"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var app domain.Application
	decodeResult(t, w, &app)
	if app.RoomID != room.ID || app.Status != domain.ApplicationApproved {
		t.Fatalf("unexpected assignment: %+v", app)
	}
	if !strings.Contains(w.Body.String(), "auto-assigned") {
		t.Fatalf("expected auto-assigned comment, got: %s", w.Body.String())
	}
}

func TestAutoAssignEndpoint_NoEligibleRoom(t *testing.T) {
	f := newAPIFixture()
	if err := f.profiles.Put(context.Background(), &domain.StudentProfile{
		UserID: "u1", Faculty: "CS", Course: 2, Gender: domain.SexFemale,
	}); err != nil {
		t.Fatal(err)
	}
	f.createRoom(t, `{"number":"101","capacity":1,"sex_restriction":"male"}`)

	w := f.do(t, http.MethodPost, "/rooms/auto-assign", `{"user_id":"u1"}`, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestApplicationRouteMisuse(t *testing.T) {
	f := newAPIFixture()

	w := f.do(t, http.MethodPost, "/rooms/applications/abc/unknown", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown action, got %d", w.Code)
	}

	w = f.do(t, http.MethodGet, "/rooms/applications/abc/approve", "", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET, got %d", w.Code)
	}
}
