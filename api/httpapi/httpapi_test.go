package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mem "habitquest/adapters/memory"
	"habitquest/core"
	"habitquest/engine"
)

func newTestService() *engine.Service {
	return engine.NewService(mem.New(), engine.NewEventBus(engine.DispatchSync), nil)
}

func TestLogActivitySuccess(t *testing.T) {
	svc := newTestService()
	handler := NewMux(svc, nil, Options{PathPrefix: "/api"})

	body := strings.NewReader(`{"activity": "Workout", "duration": 30}`)
	req := httptest.NewRequest(http.MethodPost, "/api/profiles/alice/logs", body)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp logResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Profile.TotalXP < 40 {
		t.Fatalf("totalXP = %d, want at least 40", resp.Profile.TotalXP)
	}
	if len(resp.Profile.Logs) != 1 {
		t.Fatalf("expected one log, got %d", len(resp.Profile.Logs))
	}
}

func TestLogActivityUnknown(t *testing.T) {
	svc := newTestService()
	handler := NewMux(svc, nil, Options{PathPrefix: "/api"})

	body := strings.NewReader(`{"activity": "Unicycling", "duration": 30}`)
	req := httptest.NewRequest(http.MethodPost, "/api/profiles/alice/logs", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var apiErr apiError
	_ = json.Unmarshal(rec.Body.Bytes(), &apiErr)
	if apiErr.Code != "unknown_activity" {
		t.Fatalf("expected unknown_activity code, got %q", apiErr.Code)
	}
}

func TestLogActivityInvalidDuration(t *testing.T) {
	svc := newTestService()
	handler := NewMux(svc, nil, Options{PathPrefix: "/api"})

	body := strings.NewReader(`{"activity": "Workout", "duration": 0}`)
	req := httptest.NewRequest(http.MethodPost, "/api/profiles/alice/logs", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAddCustomActivityConflict(t *testing.T) {
	svc := newTestService()
	handler := NewMux(svc, nil, Options{PathPrefix: "/api"})

	body := strings.NewReader(`{"id": "Workout", "stat": "strength", "base_xp": 10, "base_duration": 10}`)
	req := httptest.NewRequest(http.MethodPost, "/api/profiles/alice/activities", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestGetProfileFresh(t *testing.T) {
	svc := newTestService()
	handler := NewMux(svc, nil, Options{PathPrefix: "/api"})

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/newcomer", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var p core.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.Level != 1 || p.TotalXP != 0 {
		t.Fatalf("expected initial profile, got level=%d totalXP=%d", p.Level, p.TotalXP)
	}
}

func TestGetAchievements(t *testing.T) {
	svc := newTestService()
	handler := NewMux(svc, nil, Options{PathPrefix: "/api"})

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/alice/achievements", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var statuses []engine.AchievementStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &statuses); err != nil {
		t.Fatal(err)
	}
	if len(statuses) != len(engine.Registry) {
		t.Fatalf("expected %d achievements, got %d", len(engine.Registry), len(statuses))
	}
}

func TestAPIKeyAuth(t *testing.T) {
	svc := newTestService()
	handler := NewMux(svc, nil, Options{
		PathPrefix:      "/api",
		APIKeys:         []string{"secret"},
		AllowCORSOrigin: "*",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/alice", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/profiles/alice", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	svc := newTestService()
	handler := NewMux(svc, nil, Options{PathPrefix: "/api"})

	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthzRejectsNonGET(t *testing.T) {
	svc := newTestService()
	handler := NewMux(svc, nil, Options{PathPrefix: "/api"})

	for _, method := range []string{http.MethodPost, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/healthz", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s: expected 405, got %d", method, rec.Code)
		}
	}
}

func TestAddCustomActivityUnknownStat(t *testing.T) {
	svc := newTestService()
	handler := NewMux(svc, nil, Options{PathPrefix: "/api"})

	body := strings.NewReader(`{"id": "Yoga", "stat": "charisma", "base_xp": 10, "base_duration": 10}`)
	req := httptest.NewRequest(http.MethodPost, "/api/profiles/alice/activities", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	profile, err := svc.GetProfile(req.Context(), core.ProfileID("alice"))
	if err != nil {
		t.Fatal(err)
	}
	if len(profile.CustomActivities) != 0 {
		t.Fatalf("rejected activity must not be stored: %+v", profile.CustomActivities)
	}
}
