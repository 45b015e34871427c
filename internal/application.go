package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/boardgame-backend/internal/config"
	"github.com/rocketscienceinc/boardgame-backend/internal/engine"
	"github.com/rocketscienceinc/boardgame-backend/internal/engine/checkers"
	"github.com/rocketscienceinc/boardgame-backend/internal/engine/tictactoe"
	"github.com/rocketscienceinc/boardgame-backend/internal/repository"
	"github.com/rocketscienceinc/boardgame-backend/internal/repository/storage"
	"github.com/rocketscienceinc/boardgame-backend/internal/repository/storage/sqlite"
	"github.com/rocketscienceinc/boardgame-backend/internal/service"
	"github.com/rocketscienceinc/boardgame-backend/transport/rest"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := sqlite.New(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	gameRepo := repository.NewGameRepository(redisStorage.Connection)
	gameTypeRepo := repository.NewGameTypeRepository(sqliteStorage.Connection)
	userRepo := repository.NewUserRepository(sqliteStorage.Connection)

	engines := engine.NewRegistry(tictactoe.New(), checkers.New())

	arbiterService := service.NewArbiterService(logger, gameRepo, gameTypeRepo, userRepo, engines)
	matchmakingService := service.NewMatchmakingService(logger, gameRepo, gameTypeRepo)
	gameTypeService := service.NewGameTypeService(gameTypeRepo, engines)
	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(conf.AdminKey, conf.JWTSecretKey, userRepo)

	handlers := rest.NewHandlers(logger, arbiterService, matchmakingService, gameTypeService, userService, authService)
	server := rest.New(logger, handlers)

	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := server.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
