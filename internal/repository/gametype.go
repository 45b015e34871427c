package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

type GameTypeRepository interface {
	Save(ctx context.Context, gameType *entity.GameType) error
	FindByName(ctx context.Context, name string) (*entity.GameType, error)
	List(ctx context.Context) ([]*entity.GameType, error)
	DeleteByName(ctx context.Context, name string) error
}

type gameTypeRepository struct {
	conn *sql.DB
}

func NewGameTypeRepository(conn *sql.DB) GameTypeRepository {
	return &gameTypeRepository{
		conn: conn,
	}
}

func (that *gameTypeRepository) Save(ctx context.Context, gameType *entity.GameType) error {
	query := `INSERT INTO game_types (name, default_state, capacity) VALUES (?, ?, ?)`

	capacity := gameType.Capacity
	if capacity <= 0 {
		capacity = entity.DefaultCapacity
	}

	_, err := that.conn.ExecContext(ctx, query, gameType.Name, gameType.DefaultState, capacity)

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
		return fmt.Errorf("%w: game type %s", apperror.ErrConflict, gameType.Name)
	}
	if err != nil {
		return fmt.Errorf("can't save game type: %w", err)
	}

	return nil
}

func (that *gameTypeRepository) FindByName(ctx context.Context, name string) (*entity.GameType, error) {
	query := `SELECT name, default_state, capacity FROM game_types WHERE name = ?`

	var gameType entity.GameType

	err := that.conn.QueryRowContext(ctx, query, name).
		Scan(&gameType.Name, &gameType.DefaultState, &gameType.Capacity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameTypeNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("can't find game type: %w", err)
	}

	return &gameType, nil
}

func (that *gameTypeRepository) List(ctx context.Context) ([]*entity.GameType, error) {
	query := `SELECT name, default_state, capacity FROM game_types ORDER BY name`

	rows, err := that.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("can't list game types: %w", err)
	}
	defer rows.Close()

	var gameTypes []*entity.GameType
	for rows.Next() {
		var gameType entity.GameType
		if err = rows.Scan(&gameType.Name, &gameType.DefaultState, &gameType.Capacity); err != nil {
			return nil, fmt.Errorf("can't scan game type: %w", err)
		}
		gameTypes = append(gameTypes, &gameType)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read game types: %w", err)
	}

	return gameTypes, nil
}

func (that *gameTypeRepository) DeleteByName(ctx context.Context, name string) error {
	query := `DELETE FROM game_types WHERE name = ?`

	result, err := that.conn.ExecContext(ctx, query, name)
	if err != nil {
		return fmt.Errorf("can't delete game type: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't delete game type: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", apperror.ErrGameTypeNotFound, name)
	}

	return nil
}
