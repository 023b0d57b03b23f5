package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Tomlord1122/tracker-backend/internal/domain"
	"github.com/Tomlord1122/tracker-backend/internal/service"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.HelloWorldHandler)

	r.Get("/health", s.healthHandler)

	r.Handle("/metrics", promhttp.Handler())

	svc := s.services
	r.Route("/api", func(r chi.Router) {
		r.Route("/todos", func(r chi.Router) {
			crudRoutes(r, resource[domain.Todo]{store: svc.Todos, server: s})
		})
		r.Route("/habits", func(r chi.Router) {
			r.Get("/stats", s.profileHabitStatsHandler)
			r.Get("/{id}/stats", s.habitStatsHandler)
			crudRoutes(r, resource[domain.Habit]{store: svc.Habits, server: s})
		})
		r.Route("/habit-entries", func(r chi.Router) {
			r.Get("/", s.listHabitEntriesHandler)
			r.Post("/", s.upsertHabitEntryHandler)
		})
		r.Route("/daily-logs", func(r chi.Router) {
			r.Get("/summary", s.dailyLogSummaryHandler)
			keyedRoutes(r, keyedResource[domain.DailyLog]{store: svc.DailyLogs, server: s})
		})
		r.Route("/ratings", func(r chi.Router) {
			keyedRoutes(r, keyedResource[domain.Rating]{store: svc.Ratings, server: s})
		})
		r.Route("/dsa-progress", func(r chi.Router) {
			r.Get("/", s.getDSAProgressHandler)
			r.Post("/", keyedResource[domain.DSAProgress]{store: svc.DSA, server: s}.upsert)
			r.Get("/summary", s.dsaSummaryHandler)
		})
		r.Route("/courses", func(r chi.Router) {
			r.Get("/progress", s.courseProgressHandler)
			crudRoutes(r, resource[domain.Course]{store: svc.Courses, server: s})
		})
		r.Route("/contests", func(r chi.Router) {
			crudRoutes(r, resource[domain.ContestLog]{store: svc.Contests, server: s})
		})
		r.Route("/blind75", func(r chi.Router) {
			crudRoutes(r, resource[domain.Blind75Item]{store: svc.Blind75, server: s})
		})
		r.Route("/resume", func(r chi.Router) {
			crudRoutes(r, resource[domain.ResumeSection]{store: svc.Resume, server: s})
		})
		r.Route("/certificates", func(r chi.Router) {
			crudRoutes(r, resource[domain.Certificate]{store: svc.Certificates, server: s})
		})
		r.Route("/projects", func(r chi.Router) {
			crudRoutes(r, resource[domain.Project]{store: svc.Projects, server: s})
		})
		r.Route("/skills", func(r chi.Router) {
			crudRoutes(r, resource[domain.Skill]{store: svc.Skills, server: s})
		})
		r.Route("/case-studies", func(r chi.Router) {
			crudRoutes(r, resource[domain.CaseStudy]{store: svc.CaseStudies, server: s})
		})
		r.Route("/guesstimates", func(r chi.Router) {
			crudRoutes(r, resource[domain.Guesstimate]{store: svc.Guesstimates, server: s})
		})
		r.Route("/competitions", func(r chi.Router) {
			crudRoutes(r, resource[domain.CaseCompetition]{store: svc.CaseCompetitions, server: s})
		})
		r.Get("/dashboard", s.dashboardHandler)
	})

	return r
}

func (s *Server) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Hello World from Tracker Backend!"})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

// badRequest is a client error whose message is safe to echo back.
type badRequest struct {
	msg string
}

func (e *badRequest) Error() string { return e.msg }

// readBody reads the whole request body, refusing empty or oversized ones.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &badRequest{msg: fmt.Sprintf("Request body must not be larger than %d bytes", tooLarge.Limit)}
		}
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &badRequest{msg: "Request body must not be empty"}
	}
	return body, nil
}

// decodeStrict decodes body into v, rejecting unknown fields and trailing
// data. Every failure is a badRequest.
func decodeStrict(body []byte, v interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	err := decoder.Decode(v)
	if err == nil && decoder.More() {
		return &badRequest{msg: "Request body must only contain a single JSON object"}
	}
	if err == nil {
		return nil
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	switch {
	case errors.Is(err, domain.ErrInvalid):
		return &badRequest{msg: err.Error()}
	case errors.As(err, &syntaxError):
		return &badRequest{msg: fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)}
	case errors.Is(err, io.ErrUnexpectedEOF):
		return &badRequest{msg: "Request body contains badly-formed JSON"}
	case errors.As(err, &unmarshalTypeError):
		return &badRequest{msg: fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)}
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return &badRequest{msg: fmt.Sprintf("Request body contains unknown field %s", fieldName)}
	case errors.Is(err, io.EOF):
		return &badRequest{msg: "Request body must not be empty"}
	default:
		return &badRequest{msg: "Request body could not be decoded"}
	}
}

// decodeRequest reads and strictly decodes the request body into v.
func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	return decodeStrict(body, v)
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, &badRequest{msg: "Invalid ID provided"}
	}
	return id, nil
}

// profileParam reads the optional ?profile= query parameter.
func profileParam(r *http.Request) (*domain.Profile, error) {
	raw := r.URL.Query().Get("profile")
	if raw == "" {
		return nil, nil
	}
	p, err := domain.ParseProfile(raw)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// requiredProfile reads ?profile= and fails when it is absent.
func requiredProfile(r *http.Request) (domain.Profile, error) {
	p, err := profileParam(r)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", &badRequest{msg: "profile query parameter is required"}
	}
	return *p, nil
}

// today resolves the ?today= query parameter against the server clock.
func (s *Server) today(r *http.Request) (domain.Date, error) {
	return s.services.Clock.Resolve(r.URL.Query().Get("today"))
}

// respondWithServiceError maps err onto a status code. Unexpected errors
// are logged and hidden behind a generic message.
func (s *Server) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var bad *badRequest
	switch {
	case errors.As(err, &bad):
		respondWithError(w, http.StatusBadRequest, bad.msg)
	case errors.Is(err, service.ErrInvalid):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("request failed",
			zap.String("action", action),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
