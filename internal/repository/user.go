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

type UserRepository interface {
	Save(ctx context.Context, user *entity.User) error
	Find(ctx context.Context, name string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	RecordMove(ctx context.Context, name string, moveTime int) error
}

type userRepository struct {
	conn *sql.DB
}

func NewUserRepository(conn *sql.DB) UserRepository {
	return &userRepository{
		conn: conn,
	}
}

func (that *userRepository) Save(ctx context.Context, user *entity.User) error {
	query := `INSERT INTO users (name, password) VALUES (?, ?)`

	_, err := that.conn.ExecContext(ctx, query, user.Name, user.PasswordHash)

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
		return fmt.Errorf("%w: user %s", apperror.ErrConflict, user.Name)
	}
	if err != nil {
		return fmt.Errorf("can't save user: %w", err)
	}

	return nil
}

func (that *userRepository) Find(ctx context.Context, name string) (*entity.User, error) {
	query := `SELECT name, password, turns_played, total_time FROM users WHERE name = ?`

	var user entity.User

	err := that.conn.QueryRowContext(ctx, query, name).
		Scan(&user.Name, &user.PasswordHash, &user.TurnsPlayed, &user.TotalTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", apperror.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("can't find user: %w", err)
	}

	return &user, nil
}

func (that *userRepository) List(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT name, password, turns_played, total_time FROM users ORDER BY name`

	rows, err := that.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("can't list users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		var user entity.User
		if err = rows.Scan(&user.Name, &user.PasswordHash, &user.TurnsPlayed, &user.TotalTime); err != nil {
			return nil, fmt.Errorf("can't scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read users: %w", err)
	}

	return users, nil
}

// RecordMove - bumps the per-user move counters after an accepted move.
func (that *userRepository) RecordMove(ctx context.Context, name string, moveTime int) error {
	query := `UPDATE users SET turns_played = turns_played + 1, total_time = total_time + ? WHERE name = ?`

	result, err := that.conn.ExecContext(ctx, query, moveTime, name)
	if err != nil {
		return fmt.Errorf("can't record move: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't record move: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: user %s", apperror.ErrNotFound, name)
	}

	return nil
}
