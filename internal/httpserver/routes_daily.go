// internal/httpserver/routes_daily.go
//
// Exercise of the day.
//   - GET /daily → {date, exercise, played}
//
// The pick is deterministic per UTC date (HMAC of DAILY_SALT and the date
// over the catalogue in creation order), so every player sees the same
// exercise. "played" tells the caller whether they already completed it.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lingoplay/internal/daily"
	"github.com/robalobadob/lingoplay/internal/exercise"
)

// dailyRes is returned by /daily.
type dailyRes struct {
	Date     string            `json:"date"`
	Exercise exercise.Exercise `json:"exercise"`
	Played   bool              `json:"played"`
}

func (s *Server) mountDaily(r chi.Router) {
	r.Get("/daily", s.handleDaily)
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	ids, err := s.exercises.IDs(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("daily: list ids")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	id := daily.Pick(now, s.cfg.DailySalt, ids)
	if id == "" {
		writeError(w, http.StatusNotFound, "no_exercises")
		return
	}
	ex, ok := s.loadExercise(w, r, id)
	if !ok {
		return
	}

	var uid string
	if me := userFrom(r.Context()); me != nil {
		uid = me.ID
	}
	played, err := s.results.Played(r.Context(), ex.ID, uid, anonID(r))
	if err != nil {
		log.Warn().Err(err).Str("exerciseId", ex.ID).Msg("daily: played check")
	}
	writeJSON(w, http.StatusOK, dailyRes{Date: daily.DateKey(now), Exercise: ex, Played: played})
}
