package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lingoplay/internal/config"
	"github.com/robalobadob/lingoplay/internal/game"
	"github.com/robalobadob/lingoplay/internal/httpserver"
	"github.com/robalobadob/lingoplay/internal/pronounce"
	"github.com/robalobadob/lingoplay/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("failed to open database")
	}
	defer db.Close()

	var grader game.Grader
	if cfg.GraderURL != "" {
		grader = pronounce.New(cfg.GraderURL, cfg.GraderTimeout)
	} else {
		log.Warn().Msg("PRONUNCIATION_GRADER_URL not set; pronunciation attempts will report an error")
	}

	srv := httpserver.New(cfg, db, store.NewMemoryStore(), grader)
	go srv.RunSweeper(ctx, cfg.SessionTTL/4)

	log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Msg("starting lingoplay server")
	if err := srv.Start(ctx, cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
