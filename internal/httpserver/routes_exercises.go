// internal/httpserver/routes_exercises.go
//
// Exercise catalogue routes.
//   - GET    /exercises                  → summaries, optional ?type=mcq|4
//   - GET    /exercises/{id}             → one exercise with its document
//   - GET    /exercises/{id}/leaderboard → best results (?limit=, default 20)
//   - POST   /exercises                  → create (auth; document must validate)
//   - DELETE /exercises/{id}             → delete (auth)

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/daily"
	"github.com/robalobadob/lingoplay/internal/exercise"
)

func (s *Server) mountExercises(r chi.Router) {
	r.Get("/exercises", s.handleListExercises)
	r.Get("/exercises/{id}", s.handleGetExercise)
	r.Get("/exercises/{id}/leaderboard", s.handleLeaderboard)
}

func (s *Server) mountAuthoring(r chi.Router) {
	r.Post("/exercises", s.handleCreateExercise)
	r.Delete("/exercises/{id}", s.handleDeleteExercise)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	var t content.Type
	if q := r.URL.Query().Get("type"); q != "" {
		var ok bool
		if t, ok = content.ParseType(q); !ok {
			writeError(w, http.StatusBadRequest, "unknown_type")
			return
		}
	}
	list, err := s.exercises.List(r.Context(), t)
	if err != nil {
		log.Error().Err(err).Msg("list exercises")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	ex, ok := s.loadExercise(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

// lbRes is returned by /exercises/{id}/leaderboard.
type lbRes struct {
	ExerciseID string        `json:"exerciseId"`
	Top        []daily.LBRow `json:"top"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ex, ok := s.loadExercise(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit > 100 {
		limit = 100
	}
	rows, err := s.results.Leaderboard(r.Context(), ex.ID, limit)
	if err != nil {
		log.Error().Err(err).Str("exerciseId", ex.ID).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{ExerciseID: ex.ID, Top: rows})
}

// createReq accepts the type as a name ("mcq") or discriminator (4).
type createReq struct {
	Type    json.RawMessage `json:"type"`
	Content json.RawMessage `json:"content"`
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	t, ok := content.ParseType(strings.Trim(string(req.Type), `" `))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_type")
		return
	}
	if err := content.Validate(t, req.Content); err != nil {
		writeValidation(w, err)
		return
	}
	me := userFrom(r.Context())
	ex, err := s.exercises.Create(r.Context(), t, req.Content, me.ID)
	if err != nil {
		log.Error().Err(err).Msg("create exercise")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Info().Str("exerciseId", ex.ID).Str("type", t.String()).Str("author", me.ID).Msg("exercise created")
	writeJSON(w, http.StatusCreated, ex)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.exercises.Delete(r.Context(), id)
	if errors.Is(err, exercise.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("exerciseId", id).Msg("delete exercise")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	s.editor.Close(id)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// loadExercise fetches an exercise or writes the 404/500 response.
func (s *Server) loadExercise(w http.ResponseWriter, r *http.Request, id string) (exercise.Exercise, bool) {
	ex, err := s.exercises.Get(r.Context(), id)
	if errors.Is(err, exercise.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return ex, false
	}
	if err != nil {
		log.Error().Err(err).Str("exerciseId", id).Msg("load exercise")
		writeError(w, http.StatusInternalServerError, "db_error")
		return ex, false
	}
	return ex, true
}

// writeValidation reports a structural or syntax problem with a document.
func writeValidation(w http.ResponseWriter, err error) {
	var verr *content.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "invalid",
			"field":   verr.Field,
			"message": verr.Message,
		})
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
