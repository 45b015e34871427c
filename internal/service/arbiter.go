package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/engine"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
	"github.com/rocketscienceinc/boardgame-backend/internal/pkg"
)

// ArbiterService is the turn-arbitration state machine. Every mutation of an
// instance goes through a single atomic repository update, so operations on
// the same id are linearizable while different ids proceed independently.
type ArbiterService interface {
	CreateInstance(ctx context.Context, gameType, firstUser string) (*entity.GameInstance, error)
	GetInstance(ctx context.Context, id string) (*entity.GameInstance, error)
	ListInstances(ctx context.Context) ([]*entity.GameInstance, error)

	Join(ctx context.Context, id, user string) (*entity.GameInstance, error)
	AssignCurrentPlayer(ctx context.Context, id, user string) (*entity.GameInstance, error)
	ApplyMove(ctx context.Context, id, user string, payload json.RawMessage, moveTime int) (*entity.GameInstance, error)
	Leave(ctx context.Context, id, user string) (*entity.GameInstance, error)

	DeleteInstance(ctx context.Context, id string) error
}

type gameRepo interface {
	Create(ctx context.Context, game *entity.GameInstance) error
	GetByID(ctx context.Context, id string) (*entity.GameInstance, error)
	Update(ctx context.Context, id string, mutate func(*entity.GameInstance) error) (*entity.GameInstance, error)
	DeleteByID(ctx context.Context, id string) error
	ListByType(ctx context.Context, gameType string) ([]*entity.GameInstance, error)
	ListAll(ctx context.Context) ([]*entity.GameInstance, error)
}

type gameTypeRepo interface {
	FindByName(ctx context.Context, name string) (*entity.GameType, error)
}

type userStatsRepo interface {
	Find(ctx context.Context, name string) (*entity.User, error)
	RecordMove(ctx context.Context, name string, moveTime int) error
}

type arbiterService struct {
	logger *slog.Logger

	gameRepo     gameRepo
	gameTypeRepo gameTypeRepo
	userRepo     userStatsRepo
	engines      *engine.Registry
}

func NewArbiterService(logger *slog.Logger, gameRepo gameRepo, gameTypeRepo gameTypeRepo, userRepo userStatsRepo, engines *engine.Registry) ArbiterService {
	return &arbiterService{
		logger: logger,

		gameRepo:     gameRepo,
		gameTypeRepo: gameTypeRepo,
		userRepo:     userRepo,
		engines:      engines,
	}
}

// CreateInstance - creates an instance of a registered game type with the
// first user admitted and no current player assigned.
func (that *arbiterService) CreateInstance(ctx context.Context, gameType, firstUser string) (*entity.GameInstance, error) {
	existingType, err := that.gameTypeRepo.FindByName(ctx, gameType)
	if err != nil {
		return nil, fmt.Errorf("failed to get game type: %w", err)
	}

	if _, err = that.userRepo.Find(ctx, firstUser); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	instance := entity.NewGameInstance(pkg.GenerateGameID(), existingType)
	instance.Players = []string{firstUser}

	if err = that.gameRepo.Create(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", instance.ID, "type", instance.Type)

	return instance, nil
}

func (that *arbiterService) GetInstance(ctx context.Context, id string) (*entity.GameInstance, error) {
	instance, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return instance, nil
}

func (that *arbiterService) ListInstances(ctx context.Context) ([]*entity.GameInstance, error) {
	instances, err := that.gameRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return instances, nil
}

// Join - admits a user. A joined user gets no turn rights; those come from
// AssignCurrentPlayer.
func (that *arbiterService) Join(ctx context.Context, id, user string) (*entity.GameInstance, error) {
	instance, err := that.gameRepo.Update(ctx, id, func(game *entity.GameInstance) error {
		return game.AdmitPlayer(user)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to join game: %w", err)
	}

	return instance, nil
}

// AssignCurrentPlayer - hands turn rights to an admitted player. This is the
// only transfer point; the arbiter never alternates turns on its own.
func (that *arbiterService) AssignCurrentPlayer(ctx context.Context, id, user string) (*entity.GameInstance, error) {
	instance, err := that.gameRepo.Update(ctx, id, func(game *entity.GameInstance) error {
		return game.SetCurrentPlayer(user)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign current player: %w", err)
	}

	return instance, nil
}

// ApplyMove - validates the move through the game type's engine, appends it
// to the history, advances the state and clears the current player. A
// terminal engine result locks the instance for good.
func (that *arbiterService) ApplyMove(ctx context.Context, id, user string, payload json.RawMessage, moveTime int) (*entity.GameInstance, error) {
	instance, err := that.gameRepo.Update(ctx, id, func(game *entity.GameInstance) error {
		if err := game.ConfirmOngoing(); err != nil {
			return err
		}

		if game.CurrentPlayer == "" || game.CurrentPlayer != user {
			return apperror.ErrNotYourTurn
		}

		eng, err := that.engines.Lookup(game.Type)
		if err != nil {
			return err
		}

		team := game.CurrentTeam()

		newState, result, err := eng.Apply(game.State, payload)
		if err != nil {
			return err
		}

		game.Moves = append(game.Moves, entity.Move{
			GameID:   game.ID,
			Player:   user,
			Payload:  payload,
			MoveTime: moveTime,
			Sequence: game.NextSequence(),
		})

		if game.Teams == nil {
			game.Teams = make(map[string]int)
		}
		game.Teams[user] = team

		game.State = newState
		game.Result = result
		game.CurrentPlayer = ""

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply move: %w", err)
	}

	// Stats are informational; a failed bump must not fail the accepted move.
	if err = that.userRepo.RecordMove(ctx, user, moveTime); err != nil {
		that.logger.Error("failed to record move stats", "user", user, "error", err)
	}

	if instance.IsFinished() {
		that.logger.Info("game finished", "gameID", instance.ID, "result", instance.Result)
	}

	return instance, nil
}

// Leave - lets the current player give the turn back without moving.
func (that *arbiterService) Leave(ctx context.Context, id, user string) (*entity.GameInstance, error) {
	instance, err := that.gameRepo.Update(ctx, id, func(game *entity.GameInstance) error {
		return game.ClearCurrentPlayer(user)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to leave game: %w", err)
	}

	return instance, nil
}

func (that *arbiterService) DeleteInstance(ctx context.Context, id string) error {
	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "gameID", id)

	return nil
}
