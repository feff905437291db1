// internal/httpserver/routes_editor.go
//
// Authoring editor routes (require auth). Every response carries the
// buffer state: text, dirty flag, validity and the first validation error.
//   - GET   /editor/{id}         → open (or resume) the buffer
//   - PUT   /editor/{id}         → replace the buffer with the raw request body
//   - PATCH /editor/{id}         → {"path":"title.ta","value":<json>} field edit
//   - POST  /editor/{id}/save    → persist; 400 with the error while invalid
//   - POST  /editor/{id}/discard → revert to the saved document
//   - POST  /editor/{id}/format  → pretty-print

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lingoplay/internal/editor"
	"github.com/robalobadob/lingoplay/internal/exercise"
)

const maxDocumentBytes = 1 << 20

func (s *Server) mountEditor(r chi.Router) {
	r.Route("/editor/{id}", func(r chi.Router) {
		r.Get("/", s.handleEditorOpen)
		r.Put("/", s.handleEditorEdit)
		r.Patch("/", s.handleEditorPatch)
		r.Post("/save", s.handleEditorSave)
		r.Post("/discard", s.editorOp((*editor.Editor).Discard))
		r.Post("/format", s.editorOp((*editor.Editor).Format))
	})
}

// openBuffer resumes the buffer for id or opens it from the stored document.
func (s *Server) openBuffer(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := s.editor.Get(id); err == nil {
		return id, true
	}
	ex, ok := s.loadExercise(w, r, id)
	if !ok {
		return "", false
	}
	s.editor.Open(id, ex.Type, ex.Content)
	return id, true
}

func (s *Server) handleEditorOpen(w http.ResponseWriter, r *http.Request) {
	id, ok := s.openBuffer(w, r)
	if !ok {
		return
	}
	st, _ := s.editor.Get(id)
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleEditorEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := s.openBuffer(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large")
		return
	}
	st, err := s.editor.Edit(id, string(body))
	writeEditor(w, st, err)
}

// patchReq is one field edit.
type patchReq struct {
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

func (s *Server) handleEditorPatch(w http.ResponseWriter, r *http.Request) {
	id, ok := s.openBuffer(w, r)
	if !ok {
		return
	}
	var req patchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	st, err := s.editor.SetField(id, req.Path, req.Value)
	writeEditor(w, st, err)
}

func (s *Server) handleEditorSave(w http.ResponseWriter, r *http.Request) {
	id, ok := s.openBuffer(w, r)
	if !ok {
		return
	}
	st, err := s.editor.Save(r.Context(), id)
	switch {
	case errors.Is(err, exercise.ErrNotFound):
		s.editor.Close(id)
		writeError(w, http.StatusNotFound, "not_found")
		return
	case err != nil && !errors.Is(err, editor.ErrInvalid):
		log.Error().Err(err).Str("exerciseId", id).Msg("save exercise")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	case err == nil:
		log.Info().Str("exerciseId", id).Str("author", userFrom(r.Context()).ID).Msg("exercise saved")
	}
	writeEditor(w, st, err)
}

// editorOp adapts a buffer operation without a payload into a handler.
func (s *Server) editorOp(op func(*editor.Editor, string) (editor.State, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.openBuffer(w, r)
		if !ok {
			return
		}
		st, err := op(s.editor, id)
		writeEditor(w, st, err)
	}
}

// editorRes wraps the buffer state with the error that blocked an operation.
type editorRes struct {
	editor.State
	Rejected string `json:"rejected,omitempty"`
}

func writeEditor(w http.ResponseWriter, st editor.State, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, editorRes{State: st})
	case errors.Is(err, editor.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, editorRes{State: st, Rejected: err.Error()})
	case errors.Is(err, editor.ErrNoBuffer):
		writeError(w, http.StatusNotFound, "not_found")
	default:
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}
