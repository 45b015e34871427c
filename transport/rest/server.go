package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger   *slog.Logger
	handlers *Handlers
}

func New(logger *slog.Logger, handlers *Handlers) *Server {
	return &Server{
		logger:   logger,
		handlers: handlers,
	}
}

// Start - runs the HTTP server until the context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/ping", that.handlers.Ping)

	router.Route("/api", func(r chi.Router) {
		r.Post("/login", that.handlers.Login)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", that.handlers.ListUsers)
			r.Post("/", that.handlers.RegisterUser)
			r.Get("/{name}", that.handlers.GetUser)
		})

		r.Route("/gametypes", func(r chi.Router) {
			r.Get("/", that.handlers.ListGameTypes)
			r.With(that.handlers.RequireAdmin).Post("/", that.handlers.CreateGameType)
			r.Get("/{name}", that.handlers.GetGameType)
			r.With(that.handlers.RequireAdmin).Delete("/{name}", that.handlers.DeleteGameType)
			r.With(that.handlers.RequireLogin).Get("/{name}/random", that.handlers.RandomGame)
		})

		r.Route("/games", func(r chi.Router) {
			r.Get("/", that.handlers.ListGames)
			r.With(that.handlers.RequireAdmin).Post("/", that.handlers.CreateGame)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", that.handlers.GetGame)
				r.With(that.handlers.RequireAdmin).Put("/", that.handlers.AssignCurrentPlayer)
				r.With(that.handlers.RequireAdmin).Delete("/", that.handlers.DeleteGame)
				r.With(that.handlers.RequireLogin).Post("/join", that.handlers.JoinGame)
				r.Get("/moves", that.handlers.GetMoveHistory)
				r.With(that.handlers.RequireLogin).Post("/moves", that.handlers.ApplyMove)
			})
		})
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
