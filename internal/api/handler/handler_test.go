package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/streakd/streakd/internal/api"
	"github.com/streakd/streakd/internal/api/middleware"
	"github.com/streakd/streakd/internal/api/response"
	"github.com/streakd/streakd/internal/domain"
	"github.com/streakd/streakd/internal/service"
	"github.com/streakd/streakd/internal/storage"
)

// testSetup provides common test infrastructure
type testSetup struct {
	store  *storage.SQLStore
	router *chi.Mux
}

func newTestSetup(t *testing.T) *testSetup {
	t.Helper()

	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "streakd.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	router := api.NewRouter(api.Services{
		Users:       service.NewUserService(store, false),
		Habits:      service.NewHabitService(store),
		Completions: service.NewCompletionService(store),
		Stats:       service.NewStatsService(store),
		DB:          store,
	})

	return &testSetup{store: store, router: router}
}

func (s *testSetup) doRequest(method, path string, body interface{}, userID string) *httptest.ResponseRecorder {
	var reqBody bytes.Buffer
	if body != nil {
		json.NewEncoder(&reqBody).Encode(body)
	}

	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(middleware.UserHeader, userID)
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v (body %q)", err, rr.Body.String())
	}
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected status %d, got %d (body %q)", status, rr.Code, rr.Body.String())
	}
	var resp response.ErrorResponse
	decode(t, rr, &resp)
	if resp.Error.Code != code {
		t.Errorf("expected code %q, got %q", code, resp.Error.Code)
	}
}

// registerUser creates a user through the API and returns its ID
func (s *testSetup) registerUser(t *testing.T, username string) string {
	t.Helper()
	rr := s.doRequest("POST", "/v1/users", map[string]string{
		"username": username,
		"email":    username + "@example.com",
	}, "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d (body %q)", rr.Code, rr.Body.String())
	}
	var user domain.User
	decode(t, rr, &user)
	return user.ID
}

// createHabit creates a habit through the API and returns it
func (s *testSetup) createHabit(t *testing.T, userID, name string) domain.Habit {
	t.Helper()
	rr := s.doRequest("POST", "/v1/habits", map[string]string{"name": name}, userID)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d (body %q)", rr.Code, rr.Body.String())
	}
	var habit domain.Habit
	decode(t, rr, &habit)
	return habit
}

// ========================
// System Tests
// ========================

func TestHealth_ReturnsOK(t *testing.T) {
	setup := newTestSetup(t)

	rr := setup.doRequest("GET", "/v1/health", nil, "")

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	decode(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestHealth_DatabaseDown(t *testing.T) {
	setup := newTestSetup(t)
	setup.store.Close()

	rr := setup.doRequest("GET", "/v1/health", nil, "")
	expectError(t, rr, http.StatusInternalServerError, "INTERNAL_ERROR")
}

// ========================
// User Tests
// ========================

func TestRegisterUser(t *testing.T) {
	setup := newTestSetup(t)

	t.Run("creates user at level one", func(t *testing.T) {
		rr := setup.doRequest("POST", "/v1/users", map[string]string{"username": "alice", "email": "alice@example.com"}, "")
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", rr.Code)
		}
		var user domain.User
		decode(t, rr, &user)
		if user.Level != 1 || user.XP != 0 {
			t.Errorf("expected level 1 xp 0, got level %d xp %d", user.Level, user.XP)
		}
	})

	t.Run("duplicate is conflict", func(t *testing.T) {
		rr := setup.doRequest("POST", "/v1/users", map[string]string{"username": "alice", "email": "alice@example.com"}, "")
		expectError(t, rr, http.StatusConflict, "USER_EXISTS")
	})

	t.Run("missing fields", func(t *testing.T) {
		rr := setup.doRequest("POST", "/v1/users", map[string]string{}, "")
		expectError(t, rr, http.StatusBadRequest, "VALIDATION_FAILED")
	})

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/users", bytes.NewBufferString("{not json"))
		rr := httptest.NewRecorder()
		setup.router.ServeHTTP(rr, req)
		expectError(t, rr, http.StatusBadRequest, "VALIDATION_FAILED")
	})
}

func TestMe(t *testing.T) {
	setup := newTestSetup(t)
	userID := setup.registerUser(t, "alice")

	rr := setup.doRequest("GET", "/v1/users/me", nil, userID)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var view domain.ProgressView
	decode(t, rr, &view)
	if view.ID != userID || view.Username != "alice" || view.AvatarState != "default" {
		t.Errorf("unexpected view: %+v", view)
	}

	expectError(t, setup.doRequest("GET", "/v1/users/me", nil, ""), http.StatusUnauthorized, "UNAUTHENTICATED")
	expectError(t, setup.doRequest("GET", "/v1/users/me", nil, "usr-missing"), http.StatusNotFound, "USER_NOT_FOUND")
}

func TestDeleteMe(t *testing.T) {
	setup := newTestSetup(t)
	userID := setup.registerUser(t, "alice")
	habit := setup.createHabit(t, userID, "Read")

	rr := setup.doRequest("DELETE", "/v1/users/me", nil, userID)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}

	expectError(t, setup.doRequest("GET", "/v1/habits/"+habit.ID, nil, userID), http.StatusNotFound, "HABIT_NOT_FOUND")
	expectError(t, setup.doRequest("DELETE", "/v1/users/me", nil, userID), http.StatusNotFound, "USER_NOT_FOUND")
}

// ========================
// Habit Tests
// ========================

func TestHabits_RequireIdentity(t *testing.T) {
	setup := newTestSetup(t)

	for _, tc := range []struct{ method, path string }{
		{"GET", "/v1/habits"},
		{"POST", "/v1/habits"},
		{"GET", "/v1/habits/stats"},
		{"GET", "/v1/habits/hab-1"},
		{"POST", "/v1/habits/hab-1/complete"},
	} {
		rr := setup.doRequest(tc.method, tc.path, nil, "")
		expectError(t, rr, http.StatusUnauthorized, "UNAUTHENTICATED")
	}
}

func TestCreateAndGetHabit(t *testing.T) {
	setup := newTestSetup(t)
	userID := setup.registerUser(t, "alice")

	rr := setup.doRequest("POST", "/v1/habits", map[string]interface{}{
		"name":          "Meditate",
		"description":   "Ten minutes",
		"reminder_time": "07:00",
	}, userID)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d (body %q)", rr.Code, rr.Body.String())
	}
	var created domain.Habit
	decode(t, rr, &created)
	if created.Cadence != domain.CadenceDaily {
		t.Errorf("expected cadence daily, got %s", created.Cadence)
	}

	rr = setup.doRequest("GET", "/v1/habits/"+created.ID, nil, userID)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var got domain.Habit
	decode(t, rr, &got)
	if got.Name != "Meditate" || got.ReminderTime == nil || *got.ReminderTime != "07:00" {
		t.Errorf("unexpected habit: %+v", got)
	}

	t.Run("validation failure", func(t *testing.T) {
		rr := setup.doRequest("POST", "/v1/habits", map[string]string{"name": "X", "cadence": "weekly"}, userID)
		expectError(t, rr, http.StatusBadRequest, "VALIDATION_FAILED")
	})

	t.Run("other user cannot see it", func(t *testing.T) {
		bob := setup.registerUser(t, "bob")
		rr := setup.doRequest("GET", "/v1/habits/"+created.ID, nil, bob)
		expectError(t, rr, http.StatusNotFound, "HABIT_NOT_FOUND")
	})
}

func TestListHabits_Paginated(t *testing.T) {
	setup := newTestSetup(t)
	userID := setup.registerUser(t, "alice")
	for _, name := range []string{"A", "B", "C"} {
		setup.createHabit(t, userID, name)
	}

	rr := setup.doRequest("GET", "/v1/habits?page=1&per_page=2", nil, userID)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp struct {
		Data       []domain.Habit          `json:"data"`
		Pagination response.PaginationMeta `json:"pagination"`
	}
	decode(t, rr, &resp)
	if len(resp.Data) != 2 {
		t.Errorf("expected 2 habits, got %d", len(resp.Data))
	}
	if resp.Pagination.Total != 3 || resp.Pagination.TotalPages != 2 {
		t.Errorf("unexpected pagination: %+v", resp.Pagination)
	}
}

func TestUpdateHabit(t *testing.T) {
	setup := newTestSetup(t)
	userID := setup.registerUser(t, "alice")
	habit := setup.createHabit(t, userID, "Read")

	rr := setup.doRequest("PATCH", "/v1/habits/"+habit.ID, map[string]string{"name": "Read more"}, userID)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body %q)", rr.Code, rr.Body.String())
	}
	var updated domain.Habit
	decode(t, rr, &updated)
	if updated.Name != "Read more" {
		t.Errorf("expected name 'Read more', got %q", updated.Name)
	}

	expectError(t, setup.doRequest("PATCH", "/v1/habits/"+habit.ID, map[string]string{}, userID), http.StatusBadRequest, "VALIDATION_FAILED")
	expectError(t, setup.doRequest("PATCH", "/v1/habits/hab-missing", map[string]string{"name": "x"}, userID), http.StatusNotFound, "HABIT_NOT_FOUND")
}

func TestDeleteHabit(t *testing.T) {
	setup := newTestSetup(t)
	userID := setup.registerUser(t, "alice")
	habit := setup.createHabit(t, userID, "Read")

	rr := setup.doRequest("DELETE", "/v1/habits/"+habit.ID, nil, userID)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}
	expectError(t, setup.doRequest("DELETE", "/v1/habits/"+habit.ID, nil, userID), http.StatusNotFound, "HABIT_NOT_FOUND")
}

// ========================
// Completion Tests
// ========================

type completeResponse struct {
	Habit        domain.Habit        `json:"habit"`
	User         domain.ProgressView `json:"user"`
	LeveledUp    bool                `json:"leveled_up"`
	LevelsGained int64               `json:"levels_gained"`
	XPGained     int64               `json:"xp_gained"`
	Completion   domain.Completion   `json:"completion"`
}

func TestCompleteHabit(t *testing.T) {
	setup := newTestSetup(t)
	userID := setup.registerUser(t, "alice")
	habit := setup.createHabit(t, userID, "Read")

	rr := setup.doRequest("POST", "/v1/habits/"+habit.ID+"/complete", map[string]string{"reflection": "  easy today "}, userID)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body %q)", rr.Code, rr.Body.String())
	}
	var resp completeResponse
	decode(t, rr, &resp)

	if resp.Habit.CurrentStreak != 1 || resp.Habit.LongestStreak != 1 {
		t.Errorf("expected streak 1/1, got %d/%d", resp.Habit.CurrentStreak, resp.Habit.LongestStreak)
	}
	if resp.User.XP != 10 || resp.User.Level != 1 || resp.XPGained != 10 {
		t.Errorf("unexpected progression: %+v (gained %d)", resp.User, resp.XPGained)
	}
	if resp.LeveledUp || resp.LevelsGained != 0 {
		t.Errorf("expected no level-up, got %v/%d", resp.LeveledUp, resp.LevelsGained)
	}
	if resp.Completion.Reflection == nil || *resp.Completion.Reflection != "easy today" {
		t.Errorf("expected trimmed reflection, got %v", resp.Completion.Reflection)
	}

	t.Run("second completion today is conflict", func(t *testing.T) {
		rr := setup.doRequest("POST", "/v1/habits/"+habit.ID+"/complete", nil, userID)
		expectError(t, rr, http.StatusConflict, "ALREADY_COMPLETED")

		me := setup.doRequest("GET", "/v1/users/me", nil, userID)
		var view domain.ProgressView
		decode(t, me, &view)
		if view.XP != 10 {
			t.Errorf("expected xp to stay 10, got %d", view.XP)
		}
	})

	t.Run("other user gets not found", func(t *testing.T) {
		bob := setup.registerUser(t, "bob")
		rr := setup.doRequest("POST", "/v1/habits/"+habit.ID+"/complete", nil, bob)
		expectError(t, rr, http.StatusNotFound, "HABIT_NOT_FOUND")
	})

	t.Run("completions are listed", func(t *testing.T) {
		rr := setup.doRequest("GET", "/v1/habits/"+habit.ID+"/completions", nil, userID)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		var list struct {
			Data []domain.Completion `json:"data"`
		}
		decode(t, rr, &list)
		if len(list.Data) != 1 {
			t.Errorf("expected 1 completion, got %d", len(list.Data))
		}
	})

	t.Run("unknown body field is rejected", func(t *testing.T) {
		rr := setup.doRequest("POST", "/v1/habits/"+habit.ID+"/complete", map[string]string{"note": "x"}, userID)
		expectError(t, rr, http.StatusBadRequest, "VALIDATION_FAILED")
	})
}

func TestStats(t *testing.T) {
	setup := newTestSetup(t)
	userID := setup.registerUser(t, "alice")
	habit := setup.createHabit(t, userID, "Read")
	setup.createHabit(t, userID, "Walk")
	setup.doRequest("POST", "/v1/habits/"+habit.ID+"/complete", nil, userID)

	rr := setup.doRequest("GET", "/v1/habits/stats", nil, userID)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body %q)", rr.Code, rr.Body.String())
	}
	var stats domain.Stats
	decode(t, rr, &stats)
	want := domain.Stats{TotalHabits: 2, HabitsWithActiveStreak: 1, LongestStreakEver: 1, TotalCompletionsAllTime: 1}
	if stats != want {
		t.Errorf("expected %+v, got %+v", want, stats)
	}
}
