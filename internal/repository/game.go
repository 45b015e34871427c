package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

const (
	gameKeyPrefix     = "game:"
	gamesByTypePrefix = "games:type:"
	gamesIndexKey     = "games"
	maxUpdateRetries  = 10
)

// GameRepository is the durable keyed store for game instances. Update is
// atomic per id: the mutator runs against a consistent snapshot and the
// write is committed only if no concurrent writer touched the same instance
// in between.
type GameRepository interface {
	Create(ctx context.Context, game *entity.GameInstance) error
	GetByID(ctx context.Context, id string) (*entity.GameInstance, error)
	Update(ctx context.Context, id string, mutate func(*entity.GameInstance) error) (*entity.GameInstance, error)
	DeleteByID(ctx context.Context, id string) error
	ListByType(ctx context.Context, gameType string) ([]*entity.GameInstance, error)
	ListAll(ctx context.Context) ([]*entity.GameInstance, error)
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func (that *dbGame) Create(ctx context.Context, game *entity.GameInstance) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	created, err := that.client.SetNX(ctx, gameKeyPrefix+game.ID, gameJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}
	if !created {
		return fmt.Errorf("%w: game id %s", apperror.ErrConflict, game.ID)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, gamesIndexKey, game.ID)
		pipe.SAdd(ctx, gamesByTypePrefix+game.Type, game.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.GameInstance, error) {
	response, err := that.client.Get(ctx, gameKeyPrefix+id).Result()

	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var existingGame entity.GameInstance
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

// Update - runs the mutator inside a WATCH/MULTI/EXEC transaction so two
// concurrent updates never both commit against a stale snapshot. A failed
// transaction is retried transparently with a fresh snapshot; mutator errors
// are returned to the caller unretried and leave the instance untouched.
func (that *dbGame) Update(ctx context.Context, id string, mutate func(*entity.GameInstance) error) (*entity.GameInstance, error) {
	gameKey := gameKeyPrefix + id

	var updatedGame *entity.GameInstance

	transaction := func(tx *redis.Tx) error {
		response, err := tx.Get(ctx, gameKey).Result()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: game id %s", apperror.ErrNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("failed to get game by id: %w", err)
		}

		var existingGame entity.GameInstance
		if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
			return fmt.Errorf("failed to unmarshal game: %w", err)
		}

		if err = mutate(&existingGame); err != nil {
			return err
		}

		gameJSON, err := json.Marshal(&existingGame)
		if err != nil {
			return fmt.Errorf("could not marshal game: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, gameKey, gameJSON, 0)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to commit game: %w", err)
		}

		updatedGame = &existingGame

		return nil
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := that.client.Watch(ctx, transaction, gameKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}

		return updatedGame, nil
	}

	return nil, fmt.Errorf("%w: game id %s", apperror.ErrConflict, id)
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	existingGame, err := that.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, gameKeyPrefix+id)
		pipe.SRem(ctx, gamesIndexKey, id)
		pipe.SRem(ctx, gamesByTypePrefix+existingGame.Type, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete game by id: %w", err)
	}

	return nil
}

func (that *dbGame) ListByType(ctx context.Context, gameType string) ([]*entity.GameInstance, error) {
	return that.listByIndex(ctx, gamesByTypePrefix+gameType)
}

func (that *dbGame) ListAll(ctx context.Context) ([]*entity.GameInstance, error) {
	return that.listByIndex(ctx, gamesIndexKey)
}

// listByIndex - reads a relaxed snapshot: instances deleted between the index
// read and the bulk get are simply skipped.
func (that *dbGame) listByIndex(ctx context.Context, indexKey string) ([]*entity.GameInstance, error) {
	ids, err := that.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list game ids: %w", err)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, gameKeyPrefix+id)
	}

	values, err := that.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}

	games := make([]*entity.GameInstance, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		var existingGame entity.GameInstance
		if err = json.Unmarshal([]byte(raw), &existingGame); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game: %w", err)
		}

		games = append(games, &existingGame)
	}

	return games, nil
}
