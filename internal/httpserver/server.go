// internal/httpserver/server.go
//
// HTTP server wiring for the LingoPlay activity backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Catalogue endpoints: /exercises, /exercises/{id}, leaderboards, /daily.
//   - Play endpoints (optional auth): /play sessions driving game engines.
//   - Authoring endpoints (require auth): exercise create/delete, /editor/*.
//   - Auth endpoints: /auth/*.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token
//     is present; guests get an anonymous cookie instead.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lingoplay/internal/clock"
	"github.com/robalobadob/lingoplay/internal/config"
	"github.com/robalobadob/lingoplay/internal/daily"
	"github.com/robalobadob/lingoplay/internal/editor"
	"github.com/robalobadob/lingoplay/internal/exercise"
	"github.com/robalobadob/lingoplay/internal/game"
	"github.com/robalobadob/lingoplay/internal/i18n"
	"github.com/robalobadob/lingoplay/internal/shuffle"
	"github.com/robalobadob/lingoplay/internal/store"
)

// Server bundles router, stores, and engine settings.
type Server struct {
	r         *chi.Mux
	cfg       config.Config
	db        *sql.DB
	exercises *exercise.Store
	results   *daily.Store
	sessions  store.Store
	editor    *editor.Editor
	grader    game.Grader
	media     i18n.Resolver

	// engine scheduling; tests swap in a manual clock and seeded shuffles
	sched clock.Scheduler
	rng   shuffle.Source
	now   func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
// grader may be nil, in which case pronunciation attempts report an error.
func New(cfg config.Config, db *sql.DB, sessions store.Store, grader game.Grader) *Server {
	ex := exercise.NewStore(db)
	s := &Server{
		r:         chi.NewRouter(),
		cfg:       cfg,
		db:        db,
		exercises: ex,
		results:   daily.NewStore(db),
		sessions:  sessions,
		editor:    editor.New(ex),
		grader:    grader,
		media:     i18n.NewResolver(cfg.MediaBaseURL),
		sched:     clock.Real{},
		now:       time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(handlerTimeout(cfg))) // bound handler time
	s.r.Use(jsonContentType)                    // default JSON responses
	s.r.Use(s.cors)                             // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "lingoplay",
			"endpoints": []string{"/health", "/metrics", "/exercises", "/daily", "POST /play", "/editor/{id}", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := s.db.PingContext(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "db_unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Catalogue and play: OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		s.mountExercises(r)
		s.mountDaily(r)
		s.mountPlay(r)
	})

	// Authoring (require auth)
	s.r.Group(func(r chi.Router) {
		r.Use(s.requireAuth())
		s.mountAuthoring(r)
		s.mountEditor(r)
	})

	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Start begins serving HTTP on addr and shuts down gracefully when ctx ends.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// RunSweeper expires idle play sessions every interval until ctx ends.
func (s *Server) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep(ctx)
		}
	}
}

func (s *Server) sweep(ctx context.Context) int {
	n := s.sessions.Sweep(ctx, s.now().Add(-s.cfg.SessionTTL))
	sessionsActive.Set(float64(s.sessions.Len()))
	if n > 0 {
		log.Info().Int("expired", n).Int("live", s.sessions.Len()).Msg("swept idle sessions")
	}
	return n
}

// handlerTimeout leaves room for a full grader round trip.
func handlerTimeout(cfg config.Config) time.Duration {
	d := 10 * time.Second
	if g := cfg.GraderTimeout + 5*time.Second; g > d {
		d = g
	}
	return d
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept-Language")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- responses ---------------------------------

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the {"error":"<code>"} body used by every endpoint.
func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
