// internal/httpserver/metrics.go
//
// Prometheus collectors for play sessions and the mapping from engine errors
// to HTTP responses.

package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/game"
	"github.com/robalobadob/lingoplay/internal/media"
)

var (
	// Play sessions started, by activity type.
	sessionsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lingoplay_sessions_started_total",
			Help: "Total number of play sessions started",
		},
		[]string{"type"},
	)

	// Live sessions held in memory.
	sessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lingoplay_sessions_active",
			Help: "Current number of live play sessions",
		},
	)

	// Actions applied to engines; outcome is "ok" or the rejection code.
	actionsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lingoplay_actions_total",
			Help: "Total number of game actions applied",
		},
		[]string{"type", "kind", "outcome"},
	)

	// Completions, by activity type and success.
	completions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lingoplay_completions_total",
			Help: "Total number of finished play-throughs",
		},
		[]string{"type", "success"},
	)
)

func observeCompletion(t content.Type, success bool) {
	completions.WithLabelValues(t.String(), strconv.FormatBool(success)).Inc()
}

// actionCode maps an engine error onto its HTTP status and error code.
func actionCode(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrUnknownAction):
		return http.StatusBadRequest, "unknown_action"
	case errors.Is(err, game.ErrClosed):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, game.ErrLocked):
		return http.StatusConflict, "locked"
	case errors.Is(err, game.ErrInvalidMove):
		return http.StatusConflict, "invalid_move"
	case errors.Is(err, game.ErrIncomplete):
		return http.StatusConflict, "incomplete"
	case errors.Is(err, game.ErrAnswered):
		return http.StatusConflict, "answered"
	case errors.Is(err, game.ErrFinished):
		return http.StatusConflict, "finished"
	case errors.Is(err, game.ErrUnknownID):
		return http.StatusConflict, "unknown_id"
	case errors.Is(err, game.ErrUnsupported):
		return http.StatusConflict, "unsupported_language"
	case errors.Is(err, media.ErrNoSource):
		return http.StatusConflict, "no_source"
	}
	return http.StatusInternalServerError, "server_error"
}
