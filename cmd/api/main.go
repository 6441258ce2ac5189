package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/useraccounts/useraccounts-go/internal/cache"
	"github.com/useraccounts/useraccounts-go/internal/config"
	"github.com/useraccounts/useraccounts-go/internal/handler"
	"github.com/useraccounts/useraccounts-go/internal/logging"
	"github.com/useraccounts/useraccounts-go/internal/middleware"
	"github.com/useraccounts/useraccounts-go/internal/model"
	"github.com/useraccounts/useraccounts-go/internal/repository"
	"github.com/useraccounts/useraccounts-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.Env)
	slog.SetDefault(logger)

	userCache, err := cache.NewCircular[*model.User](cfg.UserCacheSize)
	if err != nil {
		logger.Error("invalid user cache size", "size", cfg.UserCacheSize, "error", err)
		os.Exit(1)
	}

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.Migrate(db, logger); err != nil {
		logger.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, userCache, cfg.JWTSecret, cfg.JWTExpiry, logger)
	userService := service.NewUserService(userRepo, authService, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	userHandler := handler.NewUserHandler(userService, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/api/v1/auth", authHandler.HandleLogin)
	r.Post("/api/v1/users", userHandler.HandleCreate)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(authService))
		r.Get("/api/v1/auth/me", authHandler.HandleMe)

		r.Get("/api/v1/users", userHandler.HandleList)
		r.Get("/api/v1/users/{id}", userHandler.HandleGet)
		r.Put("/api/v1/users/{id}", userHandler.HandleUpdate)
		r.Delete("/api/v1/users/{id}", userHandler.HandleDelete)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
