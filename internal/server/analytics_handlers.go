package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Tomlord1122/tracker-backend/internal/domain"
	"github.com/Tomlord1122/tracker-backend/internal/service"
)

func (s *Server) listHabitEntriesHandler(w http.ResponseWriter, r *http.Request) {
	var q service.EntryQuery
	profile, err := profileParam(r)
	if err != nil {
		s.respondWithServiceError(w, r, err, "list habit entries")
		return
	}
	q.Profile = profile
	if raw := r.URL.Query().Get("habit_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid habit_id provided")
			return
		}
		q.HabitID = &id
	}

	entries, err := s.services.Habits.ListEntries(r.Context(), q)
	if err != nil {
		s.respondWithServiceError(w, r, err, "list habit entries")
		return
	}
	respondWithJSON(w, http.StatusOK, entries)
}

func (s *Server) upsertHabitEntryHandler(w http.ResponseWriter, r *http.Request) {
	var entry domain.HabitEntry
	if err := decodeRequest(w, r, &entry); err != nil {
		s.respondWithServiceError(w, r, err, "save habit entry")
		return
	}
	stored, err := s.services.Habits.UpsertEntry(r.Context(), &entry)
	if err != nil {
		s.respondWithServiceError(w, r, err, "save habit entry")
		return
	}
	respondWithJSON(w, http.StatusOK, stored)
}

func (s *Server) habitStatsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondWithServiceError(w, r, err, "compute habit stats")
		return
	}
	today, err := s.today(r)
	if err != nil {
		s.respondWithServiceError(w, r, err, "compute habit stats")
		return
	}
	stats, err := s.services.Habits.Stats(r.Context(), id, today)
	if err != nil {
		s.respondWithServiceError(w, r, err, "compute habit stats")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (s *Server) profileHabitStatsHandler(w http.ResponseWriter, r *http.Request) {
	profile, today, err := s.profileAndToday(r)
	if err != nil {
		s.respondWithServiceError(w, r, err, "compute habit stats")
		return
	}
	stats, err := s.services.Habits.ProfileStats(r.Context(), profile, today)
	if err != nil {
		s.respondWithServiceError(w, r, err, "compute habit stats")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (s *Server) dailyLogSummaryHandler(w http.ResponseWriter, r *http.Request) {
	profile, today, err := s.profileAndToday(r)
	if err != nil {
		s.respondWithServiceError(w, r, err, "summarize daily logs")
		return
	}
	summary, err := s.services.DailyLogs.Summary(r.Context(), profile, today)
	if err != nil {
		s.respondWithServiceError(w, r, err, "summarize daily logs")
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

func (s *Server) getDSAProgressHandler(w http.ResponseWriter, r *http.Request) {
	progress, err := s.services.DSA.Current(r.Context())
	if err != nil {
		s.respondWithServiceError(w, r, err, "retrieve DSA progress")
		return
	}
	respondWithJSON(w, http.StatusOK, progress)
}

func (s *Server) dsaSummaryHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := s.services.DSA.Summary(r.Context())
	if err != nil {
		s.respondWithServiceError(w, r, err, "summarize DSA progress")
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

func (s *Server) courseProgressHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := requiredProfile(r)
	if err != nil {
		s.respondWithServiceError(w, r, err, "compute course progress")
		return
	}
	progress, err := s.services.Courses.Progress(r.Context(), profile)
	if err != nil {
		s.respondWithServiceError(w, r, err, "compute course progress")
		return
	}
	respondWithJSON(w, http.StatusOK, progress)
}

func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	profile, today, err := s.profileAndToday(r)
	if err != nil {
		s.respondWithServiceError(w, r, err, "build dashboard")
		return
	}
	dashboard, err := s.services.Dashboard.Build(r.Context(), profile, today)
	if err != nil {
		s.respondWithServiceError(w, r, err, "build dashboard")
		return
	}
	respondWithJSON(w, http.StatusOK, dashboard)
}

func (s *Server) profileAndToday(r *http.Request) (domain.Profile, domain.Date, error) {
	profile, err := requiredProfile(r)
	if err != nil {
		return "", domain.Date{}, err
	}
	today, err := s.today(r)
	if err != nil {
		return "", domain.Date{}, err
	}
	return profile, today, nil
}
