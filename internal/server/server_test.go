package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Tomlord1122/tracker-backend/internal/analytics"
	"github.com/Tomlord1122/tracker-backend/internal/config"
	"github.com/Tomlord1122/tracker-backend/internal/domain"
	"github.com/Tomlord1122/tracker-backend/internal/repository/repotest"
	"github.com/Tomlord1122/tracker-backend/internal/service"
)

type fakeHealth map[string]string

func (f fakeHealth) Health() map[string]string { return f }

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T, health fakeHealth) *testServer {
	t.Helper()
	repos, _ := repotest.NewRepositories()
	clock := service.NewClock(time.UTC, func() time.Time {
		return time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)
	})
	logger := zaptest.NewLogger(t)
	services := service.New(repos, nil, analytics.DefaultOptions(), clock, logger)
	s := &Server{port: 8080, services: services, db: health, logger: logger}
	return &testServer{t: t, handler: s.RegisterRoutes()}
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	ts.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[map[string]string](t, rec)["error"]
}

func TestNewServer(t *testing.T) {
	repos, _ := repotest.NewRepositories()
	logger := zaptest.NewLogger(t)
	services := service.New(repos, nil, analytics.DefaultOptions(), service.NewClock(time.UTC, nil), logger)

	srv := NewServer(config.ServerConfig{Port: 9090}, services, fakeHealth{"status": "up"}, logger)
	assert.Equal(t, ":9090", srv.Addr)
	assert.NotNil(t, srv.Handler)
}

func TestHelloWorldHandler(t *testing.T) {
	ts := newTestServer(t, fakeHealth{"status": "up"})

	rec := ts.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Hello World from Tracker Backend!", decodeBody[map[string]string](t, rec)["message"])
}

func TestHealthHandler(t *testing.T) {
	up := newTestServer(t, fakeHealth{"status": "up", "message": "It's healthy"})
	rec := up.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	down := newTestServer(t, fakeHealth{"status": "down", "error": "db down"})
	rec = down.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "db down", decodeBody[map[string]string](t, rec)["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, fakeHealth{"status": "up"})
	ts.do(http.MethodGet, "/api/todos?profile=piyush", "")

	rec := ts.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_request_duration_seconds_count{method="GET",route="/api/todos`)
}

func TestTodoLifecycle(t *testing.T) {
	ts := newTestServer(t, fakeHealth{"status": "up"})

	rec := ts.do(http.MethodPost, "/api/todos", `{"profile":"piyush","content":"mock interview"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[domain.Todo](t, rec)
	assert.False(t, created.Completed)
	path := "/api/todos/" + created.ID.String()

	rec = ts.do(http.MethodPatch, path, `{"completed":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	patched := decodeBody[domain.Todo](t, rec)
	assert.True(t, patched.Completed)
	assert.Equal(t, "mock interview", patched.Content)
	assert.Equal(t, created.ID, patched.ID)

	rec = ts.do(http.MethodPut, path, `{"profile":"piyush","content":"system design"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	replaced := decodeBody[domain.Todo](t, rec)
	assert.False(t, replaced.Completed)
	assert.Equal(t, "system design", replaced.Content)

	rec = ts.do(http.MethodGet, "/api/todos?profile=piyush", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.Todo](t, rec), 1)
	rec = ts.do(http.MethodGet, "/api/todos?profile=shruti", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = ts.do(http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = ts.do(http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestValidation(t *testing.T) {
	ts := newTestServer(t, fakeHealth{"status": "up"})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		prefix string
	}{
		{"unknown field", http.MethodPost, "/api/todos", `{"profile":"piyush","title":"x"}`, `Request body contains unknown field "title"`},
		{"empty body", http.MethodPost, "/api/todos", ``, "Request body must not be empty"},
		{"bad json", http.MethodPost, "/api/todos", `{"profile":`, "Request body contains badly-formed JSON"},
		{"wrong type", http.MethodPost, "/api/todos", `{"profile":"piyush","content":42}`, `Request body contains an invalid value for the "content" field`},
		{"two objects", http.MethodPost, "/api/todos", `{"profile":"piyush","content":"a"}{}`, "Request body must only contain a single JSON object"},
		{"empty content", http.MethodPost, "/api/todos", `{"profile":"piyush","content":" "}`, "invalid input: content cannot be empty"},
		{"unknown profile", http.MethodGet, "/api/todos?profile=bob", ``, `invalid input: unknown profile "bob"`},
		{"missing profile", http.MethodGet, "/api/todos", ``, "invalid input: profile is required"},
		{"bad id", http.MethodGet, "/api/todos/42", ``, "Invalid ID provided"},
		{"bad date", http.MethodPost, "/api/contests", `{"platform":"LeetCode","contest_name":"Weekly 400","date":"03/05/2024"}`, `invalid input: malformed date "03/05/2024", expected YYYY-MM-DD`},
		{"bad today", http.MethodGet, "/api/dashboard?profile=piyush&today=tomorrow", ``, `invalid input: malformed date "tomorrow", expected YYYY-MM-DD`},
		{"dashboard without profile", http.MethodGet, "/api/dashboard", ``, "profile query parameter is required"},
		{"bad habit id", http.MethodGet, "/api/habit-entries?habit_id=nope", ``, "Invalid habit_id provided"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			msg := errorMessage(t, rec)
			assert.True(t, strings.HasPrefix(msg, tt.prefix), "got %q, want prefix %q", msg, tt.prefix)
		})
	}
}

func TestHabitStatsEndpoints(t *testing.T) {
	ts := newTestServer(t, fakeHealth{"status": "up"})

	rec := ts.do(http.MethodPost, "/api/habits", `{"profile":"shruti","name":"Read 20 pages"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	habit := decodeBody[domain.Habit](t, rec)

	for _, body := range []string{
		`{"habit_id":"` + habit.ID.String() + `","date":"2024-05-01","completed":true}`,
		`{"habit_id":"` + habit.ID.String() + `","date":"2024-05-02","completed":true}`,
		`{"habit_id":"` + habit.ID.String() + `","date":"2024-05-03","completed":true}`,
		`{"habit_id":"` + habit.ID.String() + `","date":"2024-05-03","completed":false}`,
	} {
		rec = ts.do(http.MethodPost, "/api/habit-entries", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = ts.do(http.MethodGet, "/api/habit-entries?habit_id="+habit.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.HabitEntry](t, rec), 3)

	rec = ts.do(http.MethodGet, "/api/habits/"+habit.ID.String()+"/stats", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stats := decodeBody[analytics.HabitStats](t, rec)
	assert.Equal(t, 2, stats.Streak)
	assert.Equal(t, 20, stats.CompletionPercent)
	assert.False(t, stats.CompletedToday)

	rec = ts.do(http.MethodGet, "/api/habits/stats?profile=shruti&today=2024-05-02", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	all := decodeBody[[]analytics.HabitStats](t, rec)
	require.Len(t, all, 1)
	assert.Equal(t, 2, all[0].Streak)
	assert.True(t, all[0].CompletedToday)

	rec = ts.do(http.MethodPost, "/api/habit-entries", `{"habit_id":"`+uuid.NewString()+`","date":"2024-05-03"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = ts.do(http.MethodGet, "/api/habits/"+uuid.NewString()+"/stats", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDailyLogEndpoints(t *testing.T) {
	ts := newTestServer(t, fakeHealth{"status": "up"})

	rec := ts.do(http.MethodPost, "/api/daily-logs", `{"profile":"shruti","date":"2024-05-03","metrics":{"python_questions_solved":3,"sql_questions_solved":2}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = ts.do(http.MethodPost, "/api/daily-logs", `{"profile":"shruti","date":"2024-04-01","metrics":{"sql_questions_solved":5}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPost, "/api/daily-logs", `{"profile":"shruti","date":"2024-05-03","metrics":{"dsa_questions_solved":1}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/api/daily-logs/summary?profile=shruti", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sum := decodeBody[analytics.DailyLogSummary](t, rec)
	assert.Equal(t, 5, sum.WeeklyTotal)
	assert.Equal(t, 10, sum.AllTimeTotal)
	assert.Equal(t, 5, sum.DailyAverage)
}

func TestDSAProgressEndpoints(t *testing.T) {
	ts := newTestServer(t, fakeHealth{"status": "up"})

	rec := ts.do(http.MethodGet, "/api/dsa-progress", "")
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decodeBody[domain.DSAProgress](t, rec)
	assert.Zero(t, empty.Total())

	rec = ts.do(http.MethodPost, "/api/dsa-progress", `{"easy_total":50,"easy_solved":40,"medium_total":30,"medium_solved":10,"hard_total":20,"hard_solved":0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodGet, "/api/dsa-progress/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decodeBody[analytics.DSASummary](t, rec)
	assert.Equal(t, 50, sum.OverallPercent)
	assert.Equal(t, 80, sum.EasyPercent)

	rec = ts.do(http.MethodGet, "/api/dashboard?profile=piyush", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dash := decodeBody[analytics.Dashboard](t, rec)
	assert.Equal(t, 50, dash.DSAProgressPercent)
	assert.Equal(t, domain.MustParseDate("2024-05-03"), dash.Today)
}

func TestRatingsUpsertByPlatform(t *testing.T) {
	ts := newTestServer(t, fakeHealth{"status": "up"})

	ts.do(http.MethodPost, "/api/ratings", `{"platform":"Codeforces","rating":1400}`)
	rec := ts.do(http.MethodPost, "/api/ratings", `{"platform":"Codeforces","rating":1480}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodGet, "/api/ratings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ratings := decodeBody[[]domain.Rating](t, rec)
	require.Len(t, ratings, 1)
	assert.Equal(t, 1480, ratings[0].Rating)
}

func TestCourseProgressEndpoint(t *testing.T) {
	ts := newTestServer(t, fakeHealth{"status": "up"})

	rec := ts.do(http.MethodPost, "/api/courses", `{"profile":"piyush","course_name":"Distributed Systems","platform":"YouTube","completed_content":30}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, domain.DefaultCourseContent, decodeBody[domain.Course](t, rec).TotalContent)

	rec = ts.do(http.MethodGet, "/api/courses/progress?profile=piyush", "")
	require.Equal(t, http.StatusOK, rec.Code)
	progress := decodeBody[[]analytics.CourseProgress](t, rec)
	require.Len(t, progress, 1)
	assert.Equal(t, 30, progress[0].Percent)
}
