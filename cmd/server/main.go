package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/reetreev/dashboard/internal/authstate"
	"github.com/reetreev/dashboard/internal/bridge"
	"github.com/reetreev/dashboard/internal/config"
	"github.com/reetreev/dashboard/internal/events"
	"github.com/reetreev/dashboard/internal/httpapi"
	"github.com/reetreev/dashboard/internal/repository"
	"github.com/reetreev/dashboard/internal/server"
	"github.com/reetreev/dashboard/internal/service"
	"github.com/reetreev/dashboard/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := storage.RunMigrations(ctx, db); err != nil {
		logger.Error("failed to apply schema", slog.Any("error", err))
		os.Exit(1)
	}

	users := repository.NewUserRepository(db)
	identities := repository.NewIdentityRepository(db)
	userSessions := repository.NewUserSessionRepository(db)
	resets := repository.NewPasswordResetRepository(db)
	aiProfiles := repository.NewAIProfileRepository(db)
	sessions := repository.NewSessionRepository(db)
	transcripts := repository.NewTranscriptRepository(db)
	messages := repository.NewMessageRepository(db)
	summaries := repository.NewSummaryRepository(db)
	presets := repository.NewPromptPresetRepository(db)

	userService := service.NewUserService(users, identities)
	authService := service.NewAuthService(identities, userSessions, resets, userService, cfg.Security)
	profileService := service.NewProfileService(aiProfiles, users, cfg.Security.EncryptionKey)
	sessionService := service.NewSessionService(sessions, transcripts, messages, summaries)
	presetService := service.NewPresetService(presets)

	emitter := events.NewEmitter()
	mirror := authstate.NewFileMirror(cfg.MirrorPath)
	observer := authstate.NewObserver(userService, emitter, mirror)
	hub := bridge.NewHub(logger)

	handler := httpapi.NewRouter(cfg, httpapi.Services{
		Auth:     authService,
		Users:    userService,
		Profiles: profileService,
		Sessions: sessionService,
		Presets:  presetService,
		Observer: observer,
		Hub:      hub,
	}, logger)

	srv := server.New(cfg, handler, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}
