package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/formsmith/formsmith-backend/internal/config"
	"github.com/formsmith/formsmith-backend/internal/db"
	"github.com/formsmith/formsmith-backend/internal/handlers"
	"github.com/formsmith/formsmith-backend/internal/logger"
	"github.com/formsmith/formsmith-backend/internal/middleware"
	"github.com/formsmith/formsmith-backend/internal/observability"
	"github.com/formsmith/formsmith-backend/internal/repos"
	"github.com/formsmith/formsmith-backend/internal/server"
	"github.com/formsmith/formsmith-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	log.Info("Loading configuration from main...")
	cfg, err := config.Load(log)
	if err != nil {
		log.Error("Could not load configuration", "error", err)
		os.Exit(1)
	}

	// Tracing
	ctx := context.Background()
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "formsmith-backend",
		Environment: os.Getenv("APP_ENV"),
		Version:     os.Getenv("APP_VERSION"),
	})

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	formRepo := repos.NewFormRepo(thePG, log)
	questionRepo := repos.NewQuestionRepo(thePG, log)
	fieldOptionRepo := repos.NewFieldOptionRepo(thePG, log)
	synthesisLogRepo := repos.NewSynthesisLogRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	provider, err := services.NewTextProvider(cfg, log)
	if err != nil {
		log.Error("Could not init text provider", "error", err)
		os.Exit(1)
	}
	provider = services.NewCachedProvider(provider, cfg, log)
	formService := services.NewFormService(thePG, log, formRepo, questionRepo, fieldOptionRepo)
	synthesisService := services.NewSynthesisService(cfg, log, provider, formService, synthesisLogRepo)

	// Handlers + middleware
	synthesisHandler := handlers.NewSynthesisHandler(log, synthesisService, formService)
	formHandler := handlers.NewFormHandler(log, formService)
	authMiddleware := middleware.NewAuthMiddleware(log, cfg.JWTSecret)

	// Router
	router := server.NewRouter(server.RouterConfig{
		SynthesisHandler: synthesisHandler,
		FormHandler:      formHandler,
		AuthMiddleware:   authMiddleware,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		log.Info("Starting server", "port", cfg.Port, "provider", provider.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if otelShutdown != nil {
			if err := otelShutdown(shutdownCtx); err != nil {
				log.Warn("otel shutdown failed", "error", err)
			}
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}
