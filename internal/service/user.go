package service

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

const maxUserNameLength = 64

type UserService interface {
	Register(ctx context.Context, name, password string) (*entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
}

type userRepo interface {
	Save(ctx context.Context, user *entity.User) error
	Find(ctx context.Context, name string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
}

type userService struct {
	userRepo userRepo
}

func NewUserService(userRepo userRepo) UserService {
	return &userService{
		userRepo: userRepo,
	}
}

func (that *userService) Register(ctx context.Context, name, password string) (*entity.User, error) {
	if name == "" || len(name) > maxUserNameLength {
		return nil, fmt.Errorf("%w: user name must have 1-64 characters", apperror.ErrInvalidInput)
	}

	if err := entity.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: password must have 3-64 characters and at least one number", apperror.ErrInvalidInput)
	}

	user := &entity.User{
		Name:         name,
		PasswordHash: HashKey(password),
	}

	if err := that.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("could not save user: %w", err)
	}

	return user, nil
}

func (that *userService) GetByName(ctx context.Context, name string) (*entity.User, error) {
	user, err := that.userRepo.Find(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("could not get user by name: %w", err)
	}

	return user, nil
}

func (that *userService) List(ctx context.Context) ([]*entity.User, error) {
	users, err := that.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list users: %w", err)
	}

	return users, nil
}
