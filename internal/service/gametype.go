package service

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/engine"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

type GameTypeService interface {
	CreateType(ctx context.Context, gameType *entity.GameType) error
	GetType(ctx context.Context, name string) (*entity.GameType, error)
	ListTypes(ctx context.Context) ([]*entity.GameType, error)
	DeleteType(ctx context.Context, name string) error
}

type catalogRepo interface {
	Save(ctx context.Context, gameType *entity.GameType) error
	FindByName(ctx context.Context, name string) (*entity.GameType, error)
	List(ctx context.Context) ([]*entity.GameType, error)
	DeleteByName(ctx context.Context, name string) error
}

type gameTypeService struct {
	gameTypeRepo catalogRepo
	engines      *engine.Registry
}

func NewGameTypeService(gameTypeRepo catalogRepo, engines *engine.Registry) GameTypeService {
	return &gameTypeService{
		gameTypeRepo: gameTypeRepo,
		engines:      engines,
	}
}

// CreateType - registers a game type. An omitted default state is taken from
// the engine registered under the same name.
func (that *gameTypeService) CreateType(ctx context.Context, gameType *entity.GameType) error {
	if gameType.DefaultState == "" {
		eng, err := that.engines.Lookup(gameType.Name)
		if err != nil {
			return fmt.Errorf("%w: default state required when no engine is registered", apperror.ErrInvalidInput)
		}
		gameType.DefaultState = eng.InitialState()
	}

	if err := gameType.Validate(); err != nil {
		return fmt.Errorf("invalid game type: %w", err)
	}

	// A type without a registered engine may exist in the catalog; moves in
	// its instances are rejected until an engine for it ships.
	if err := that.gameTypeRepo.Save(ctx, gameType); err != nil {
		return fmt.Errorf("failed to save game type: %w", err)
	}

	return nil
}

func (that *gameTypeService) GetType(ctx context.Context, name string) (*entity.GameType, error) {
	gameType, err := that.gameTypeRepo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get game type: %w", err)
	}

	return gameType, nil
}

func (that *gameTypeService) ListTypes(ctx context.Context) ([]*entity.GameType, error) {
	gameTypes, err := that.gameTypeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list game types: %w", err)
	}

	return gameTypes, nil
}

func (that *gameTypeService) DeleteType(ctx context.Context, name string) error {
	if err := that.gameTypeRepo.DeleteByName(ctx, name); err != nil {
		return fmt.Errorf("failed to delete game type: %w", err)
	}

	return nil
}
