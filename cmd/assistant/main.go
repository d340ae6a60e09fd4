// The assistant command runs the conversational front end on the terminal:
// it reads patient utterances from stdin and speaks replies on stdout.
// Appointments live in memory unless ASSISTANT_DATABASE_URL points at a
// Postgres instance.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/BasedPanda/healthcare-voice-assistant/internal/assistant"
	"github.com/BasedPanda/healthcare-voice-assistant/internal/config"
	"github.com/BasedPanda/healthcare-voice-assistant/internal/scheduling"
	"github.com/BasedPanda/healthcare-voice-assistant/internal/store"
	"github.com/BasedPanda/healthcare-voice-assistant/internal/store/memory"
	"github.com/BasedPanda/healthcare-voice-assistant/internal/store/postgres"
	"github.com/BasedPanda/healthcare-voice-assistant/internal/voice"
)

func main() {
	// Logs go to stderr so they never interleave with the spoken replies.
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})).With(
		slog.String("service", "assistant"),
	)
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	var st store.AppointmentStore = memory.New()
	if databaseURL := strings.TrimSpace(os.Getenv("ASSISTANT_DATABASE_URL")); databaseURL != "" {
		db, err := postgres.Open(databaseURL, postgres.PoolConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
			ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		})
		if err != nil {
			log.Error("database connection failed", slog.Any("err", err))
			os.Exit(1)
		}
		defer func() {
			if err := postgres.Close(db); err != nil {
				log.Warn("database close failed", slog.Any("err", err))
			}
		}()
		st = postgres.NewAppointmentRepo(db)
		log.Info("using postgres appointment store")
	} else {
		log.Info("using in-memory appointment store")
	}

	engine := scheduling.NewEngine(st, cfg.Scheduling, log)
	dispatcher := assistant.NewDispatcher(engine, log)

	speaker := voice.NewSpeaker(os.Stdout)
	defer speaker.Close()
	listener := voice.NewListener(os.Stdin)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := assistant.NewSession(listener, speaker, dispatcher, log)
	if err := session.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("session ended with error", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("session ended")
}
