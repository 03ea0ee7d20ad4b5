package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"club_service/internal/auth"
	"club_service/internal/config"
	"club_service/internal/http_server/handlers/admin"
	"club_service/internal/http_server/handlers/home"
	"club_service/internal/http_server/handlers/joinclub"
	"club_service/internal/http_server/handlers/login"
	"club_service/internal/http_server/handlers/logout"
	msghandlers "club_service/internal/http_server/handlers/messages"
	"club_service/internal/http_server/handlers/profile"
	"club_service/internal/http_server/handlers/signup"
	identitymw "club_service/internal/http_server/middleware/identity"
	"club_service/internal/lib/api/validate"
	sl "club_service/internal/lib/logger"
	"club_service/internal/membership"
	"club_service/internal/messages"
	rateLimit "club_service/internal/middleware/ratelimit"
	"club_service/internal/storage/postgres"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad("./config/config.yaml")

	log := setupLogger(cfg.Env)

	log.Info("starting members club service", slog.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutdown signal received")
		cancel()
	}()

	if err := postgres.RunMigrations(ctx, cfg); err != nil {
		log.Error("failed to run migrations", sl.Err(err))
		os.Exit(1)
	}

	storage, err := postgres.New(ctx, cfg)
	if err != nil {
		log.Error("failed to connect postgres", sl.Err(err))
		os.Exit(1)
	}
	defer storage.Close()

	authService := auth.New(
		log,
		storage,
		storage,
		storage,
		cfg.Sessions.TTL,
		cfg.Admin.BootstrapEmail,
	)
	membershipService := membership.New(log, storage, cfg.Membership.Passcode)
	messageService := messages.New(log, storage)

	go authService.ReapExpiredSessions(ctx, cfg.Sessions.ReapInterval)

	router := setupRouter(log, validate.New(), authService, membershipService, messageService, storage)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server is running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", sl.Err(err))
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", sl.Err(err))
	} else {
		log.Info("Server stopped gracefully")
	}

	log.Info("Main service stopped")
}

func setupRouter(
	log *slog.Logger,
	v *validator.Validate,
	authService *auth.Auth,
	membershipService *membership.Service,
	messageService *messages.Service,
	storage *postgres.PostgresRepo,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(identitymw.New(log, authService))

	r.Get("/", home.New(log, storage, messageService))

	r.With(rateLimit.Signup()).Post("/signup", signup.New(log, v, authService))
	r.With(rateLimit.Login()).Post("/login", login.New(log, v, authService))
	r.Get("/logout", logout.New(log, authService))

	r.With(rateLimit.JoinClub()).Post("/join-club", joinclub.New(log, v, membershipService))

	r.Get("/messages", msghandlers.NewList(log, messageService))
	r.Post("/messages/new", msghandlers.NewCreate(log, v, messageService))
	r.Get("/messages/{id}", msghandlers.NewDetail(log, messageService))
	r.Post("/messages/{id}/delete", msghandlers.NewDelete(log, messageService))

	r.Get("/profile", profile.New(log, messageService))
	r.Get("/admin", admin.New(log, storage, messageService))

	return r
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
