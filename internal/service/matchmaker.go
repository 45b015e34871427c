package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
	"github.com/rocketscienceinc/boardgame-backend/internal/pkg"
)

// MatchmakingService surfaces random open instances. A returned instance is
// a best-effort hint: by the time the caller joins it may already be taken,
// which the caller treats as an ordinary race, not a failure.
type MatchmakingService interface {
	FindOpen(ctx context.Context, gameType, user string) (*entity.GameInstance, error)
	FindOrCreate(ctx context.Context, gameType, user string) (*entity.GameInstance, error)
}

type matchmakingService struct {
	logger *slog.Logger

	gameRepo     gameRepo
	gameTypeRepo gameTypeRepo
}

func NewMatchmakingService(logger *slog.Logger, gameRepo gameRepo, gameTypeRepo gameTypeRepo) MatchmakingService {
	return &matchmakingService{
		logger: logger,

		gameRepo:     gameRepo,
		gameTypeRepo: gameTypeRepo,
	}
}

// FindOpen - picks uniformly at random among open instances of the type that
// the user could still take a side in.
func (that *matchmakingService) FindOpen(ctx context.Context, gameType, user string) (*entity.GameInstance, error) {
	if _, err := that.gameTypeRepo.FindByName(ctx, gameType); err != nil {
		return nil, fmt.Errorf("failed to get game type: %w", err)
	}

	instances, err := that.gameRepo.ListByType(ctx, gameType)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	var candidates []*entity.GameInstance
	for _, instance := range instances {
		if instance.IsOpen() && eligibleFor(instance, user) {
			candidates = append(candidates, instance)
		}
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: type %s", apperror.ErrNoOpenGames, gameType)
	}

	return candidates[rand.Intn(len(candidates))], nil //nolint: gosec // matchmaking does not need crypto randomness
}

// FindOrCreate - falls back to creating a fresh unmanned instance when no
// open one exists, so a random-match request always lands somewhere.
func (that *matchmakingService) FindOrCreate(ctx context.Context, gameType, user string) (*entity.GameInstance, error) {
	instance, err := that.FindOpen(ctx, gameType, user)
	if err == nil {
		return instance, nil
	}
	if !errors.Is(err, apperror.ErrNoOpenGames) {
		return nil, err
	}

	existingType, err := that.gameTypeRepo.FindByName(ctx, gameType)
	if err != nil {
		return nil, fmt.Errorf("failed to get game type: %w", err)
	}

	instance = entity.NewGameInstance(pkg.GenerateGameID(), existingType)
	if err = that.gameRepo.Create(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("no open games, created a fresh one", "gameID", instance.ID, "type", gameType)

	return instance, nil
}

// eligibleFor - a user who already moved in an instance may only come back
// on the side they played; everyone else qualifies.
func eligibleFor(instance *entity.GameInstance, user string) bool {
	if !instance.HasPlayer(user) {
		return true
	}

	team, ok := instance.Teams[user]
	if !ok {
		return true
	}

	return team == instance.CurrentTeam()
}
