// internal/httpserver/routes_play.go
//
// Play-session routes (optional auth; guests are identified by cookie).
//   - POST   /play              → {exerciseId, lang} start a session
//   - GET    /play/{sid}        → status + per-type view
//   - POST   /play/{sid}/actions → apply one game.Action
//   - DELETE /play/{sid}        → tear the session down
//
// A session owns one engine. Completions reported by the engine (possibly
// from a deferred transition) are recorded into results for the owner.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lingoplay/internal/daily"
	"github.com/robalobadob/lingoplay/internal/game"
	"github.com/robalobadob/lingoplay/internal/i18n"
	"github.com/robalobadob/lingoplay/internal/store"
)

func (s *Server) mountPlay(r chi.Router) {
	r.Post("/play", s.handleStartPlay)
	r.Route("/play/{sid}", func(r chi.Router) {
		r.Get("/", s.handleGetPlay)
		r.Post("/actions", s.handleAction)
		r.Delete("/", s.handleEndPlay)
	})
}

// startReq/playRes payloads for the play endpoints.
type startReq struct {
	ExerciseID string `json:"exerciseId"`
	Lang       string `json:"lang"`
}

type playRes struct {
	SessionID  string      `json:"sessionId"`
	ExerciseID string      `json:"exerciseId"`
	Type       string      `json:"type"`
	Status     game.Status `json:"status"`
	View       any         `json:"view"`
}

func sessionRes(sess *store.Session) playRes {
	return playRes{
		SessionID:  sess.ID,
		ExerciseID: sess.ExerciseID,
		Type:       sess.Type.String(),
		Status:     sess.Engine.Status(),
		View:       sess.Engine.Snapshot(),
	}
}

// handleStartPlay loads the exercise, builds its engine and stores a session.
// A malformed document still starts an inert activity.
func (s *Server) handleStartPlay(w http.ResponseWriter, r *http.Request) {
	var req startReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ExerciseID == "" {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	ex, ok := s.loadExercise(w, r, req.ExerciseID)
	if !ok {
		return
	}
	lang := i18n.Match(r.Header.Get("Accept-Language"))
	if req.Lang != "" {
		var supported bool
		if lang, supported = i18n.ParseLang(req.Lang); !supported {
			writeError(w, http.StatusBadRequest, "unsupported_language")
			return
		}
	}

	var sess *store.Session
	engine, err := game.Load(ex.Type, ex.Content, game.Options{
		Lang:      lang,
		Scheduler: s.sched,
		Rand:      s.rng,
		Media:     s.media,
		Grader:    s.grader,
		PassScore: s.cfg.PassScore,
		OnComplete: func(res game.Result) {
			s.recordCompletion(sess, res)
		},
	})
	if engine == nil {
		log.Error().Err(err).Str("exerciseId", ex.ID).Int("type", int(ex.Type)).Msg("build engine")
		writeError(w, http.StatusInternalServerError, "engine_failed")
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("exerciseId", ex.ID).Str("type", ex.Type.String()).Msg("malformed document; playing inert activity")
	}

	sess = store.NewSession(ex.ID, ex.Type, engine, s.now())
	if me := userFrom(r.Context()); me != nil {
		sess.UserID = me.ID
	} else {
		sess.AnonymousID = s.ensureAnonID(w, r)
	}
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		engine.Close()
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	sessionsStarted.WithLabelValues(ex.Type.String()).Inc()
	sessionsActive.Set(float64(s.sessions.Len()))
	log.Info().Str("session", sess.ID).Str("exerciseId", ex.ID).Str("type", ex.Type.String()).Str("lang", string(lang)).Msg("session started")

	writeJSON(w, http.StatusCreated, sessionRes(sess))
}

// ownedSession loads the session from the URL and checks the caller owns it.
// Sessions owned by someone else are reported as missing.
func (s *Server) ownedSession(w http.ResponseWriter, r *http.Request) (*store.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "sid"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return nil, false
	}
	var uid string
	if me := userFrom(r.Context()); me != nil {
		uid = me.ID
	}
	if !sess.Owns(uid, anonID(r)) {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	sess.Touch(s.now())
	return sess, true
}

func (s *Server) handleGetPlay(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.ownedSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionRes(sess))
}

// actionErrRes is returned for a rejected action. The engine state is
// unchanged apart from its feedback message.
type actionErrRes struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Status  game.Status `json:"status"`
	View    any         `json:"view"`
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.ownedSession(w, r)
	if !ok {
		return
	}
	var a game.Action
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDocumentBytes*8)).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	typ := sess.Type.String()
	if err := sess.Engine.Apply(r.Context(), a); err != nil {
		code, name := actionCode(err)
		kind := a.Kind
		if name == "unknown_action" {
			kind = "unknown"
		}
		actionsApplied.WithLabelValues(typ, kind, name).Inc()
		if code == http.StatusInternalServerError {
			log.Error().Err(err).Str("session", sess.ID).Str("kind", a.Kind).Msg("apply action")
			writeError(w, code, name)
			return
		}
		if code != http.StatusConflict {
			writeError(w, code, name)
			return
		}
		writeJSON(w, code, actionErrRes{
			Error:   name,
			Message: err.Error(),
			Status:  sess.Engine.Status(),
			View:    sess.Engine.Snapshot(),
		})
		return
	}
	actionsApplied.WithLabelValues(typ, a.Kind, "ok").Inc()
	writeJSON(w, http.StatusOK, sessionRes(sess))
}

func (s *Server) handleEndPlay(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.ownedSession(w, r)
	if !ok {
		return
	}
	if err := s.sessions.Delete(r.Context(), sess.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	sessionsActive.Set(float64(s.sessions.Len()))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// recordCompletion persists a finished play-through. It runs outside any
// request, possibly on a timer goroutine.
func (s *Server) recordCompletion(sess *store.Session, res game.Result) {
	observeCompletion(res.Type, res.Success)
	if sess == nil {
		return
	}
	elapsed := s.now().Sub(sess.Started)
	log.Info().
		Str("session", sess.ID).
		Str("exerciseId", sess.ExerciseID).
		Int("score", res.Score).
		Int("max", res.Max).
		Bool("success", res.Success).
		Dur("elapsed", elapsed).
		Msg("activity completed")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.results.InsertResult(ctx, daily.Result{
		ExerciseID:  sess.ExerciseID,
		UserID:      sess.UserID,
		AnonymousID: sess.AnonymousID,
		Score:       res.Score,
		Max:         res.Max,
		Success:     res.Success,
		ElapsedMs:   elapsed.Milliseconds(),
	}); err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("record result")
	}
}
