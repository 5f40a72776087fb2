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
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quotekeep/quotekeep-go/internal/config"
	"github.com/quotekeep/quotekeep-go/internal/handler"
	"github.com/quotekeep/quotekeep-go/internal/logging"
	"github.com/quotekeep/quotekeep-go/internal/middleware"
	"github.com/quotekeep/quotekeep-go/internal/migrate"
	"github.com/quotekeep/quotekeep-go/internal/repository"
	"github.com/quotekeep/quotekeep-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	slog.SetDefault(logging.New(cfg.LogLevel, cfg.LogFormat))

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Initialize DB and API routes if the database is available.
	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Warn("database connection failed, API routes disabled", "error", err)
	} else {
		if err := migrate.Up(context.Background(), db); err != nil {
			slog.Error("migrations failed", "error", err)
			os.Exit(1)
		}

		userRepo := repository.NewUserRepository(db)
		authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
		authHandler := handler.NewAuthHandler(authService)

		quoteRepo := repository.NewQuoteRepository(db)
		quoteService := service.NewQuoteService(quoteRepo)
		quoteHandler := handler.NewQuoteHandler(quoteService)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(5, 10))
			r.Post("/api/register", authHandler.HandleRegister)
			r.Post("/api/login", authHandler.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.JWTSecret))
			r.Get("/api/me", authHandler.HandleMe)

			r.Get("/api/quotes", quoteHandler.HandleList)
			r.Get("/api/quotes/stats", quoteHandler.HandleStats)
			r.Post("/api/quotes", quoteHandler.HandleCreate)
			r.Put("/api/quotes/{quote_id}", quoteHandler.HandleUpdate)
			r.Delete("/api/quotes/{quote_id}", quoteHandler.HandleDelete)

			r.Get("/api/tags", quoteHandler.HandleTags)
		})
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
