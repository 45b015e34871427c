package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

// fakeGameRepo is an in-memory stand-in for the Redis game repository with
// the same atomic-update contract, serialized by a mutex.
type fakeGameRepo struct {
	mu    sync.Mutex
	games map[string]*entity.GameInstance
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{
		games: make(map[string]*entity.GameInstance),
	}
}

func cloneInstance(game *entity.GameInstance) *entity.GameInstance {
	raw, err := json.Marshal(game)
	if err != nil {
		panic(err)
	}

	var clone entity.GameInstance
	if err = json.Unmarshal(raw, &clone); err != nil {
		panic(err)
	}

	return &clone
}

func (that *fakeGameRepo) Create(_ context.Context, game *entity.GameInstance) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[game.ID]; ok {
		return fmt.Errorf("%w: game id %s", apperror.ErrConflict, game.ID)
	}

	that.games[game.ID] = cloneInstance(game)

	return nil
}

func (that *fakeGameRepo) GetByID(_ context.Context, id string) (*entity.GameInstance, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrNotFound, id)
	}

	return cloneInstance(game), nil
}

func (that *fakeGameRepo) Update(_ context.Context, id string, mutate func(*entity.GameInstance) error) (*entity.GameInstance, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrNotFound, id)
	}

	snapshot := cloneInstance(game)
	if err := mutate(snapshot); err != nil {
		return nil, err
	}

	that.games[id] = snapshot

	return cloneInstance(snapshot), nil
}

func (that *fakeGameRepo) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return fmt.Errorf("%w: game id %s", apperror.ErrNotFound, id)
	}

	delete(that.games, id)

	return nil
}

func (that *fakeGameRepo) ListByType(_ context.Context, gameType string) ([]*entity.GameInstance, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var games []*entity.GameInstance
	for _, game := range that.games {
		if game.Type == gameType {
			games = append(games, cloneInstance(game))
		}
	}

	return games, nil
}

func (that *fakeGameRepo) ListAll(_ context.Context) ([]*entity.GameInstance, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var games []*entity.GameInstance
	for _, game := range that.games {
		games = append(games, cloneInstance(game))
	}

	return games, nil
}

type fakeGameTypeRepo struct {
	types map[string]*entity.GameType
}

func newFakeGameTypeRepo(gameTypes ...*entity.GameType) *fakeGameTypeRepo {
	repo := &fakeGameTypeRepo{
		types: make(map[string]*entity.GameType),
	}

	for _, gameType := range gameTypes {
		repo.types[gameType.Name] = gameType
	}

	return repo
}

func (that *fakeGameTypeRepo) Save(_ context.Context, gameType *entity.GameType) error {
	if _, ok := that.types[gameType.Name]; ok {
		return fmt.Errorf("%w: game type %s", apperror.ErrConflict, gameType.Name)
	}

	that.types[gameType.Name] = gameType

	return nil
}

func (that *fakeGameTypeRepo) FindByName(_ context.Context, name string) (*entity.GameType, error) {
	gameType, ok := that.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameTypeNotFound, name)
	}

	return gameType, nil
}

func (that *fakeGameTypeRepo) List(_ context.Context) ([]*entity.GameType, error) {
	var gameTypes []*entity.GameType
	for _, gameType := range that.types {
		gameTypes = append(gameTypes, gameType)
	}

	return gameTypes, nil
}

func (that *fakeGameTypeRepo) DeleteByName(_ context.Context, name string) error {
	if _, ok := that.types[name]; !ok {
		return fmt.Errorf("%w: %s", apperror.ErrGameTypeNotFound, name)
	}

	delete(that.types, name)

	return nil
}

type fakeUserRepo struct {
	users       map[string]*entity.User
	turnsPlayed map[string]int
	totalTime   map[string]int
}

func newFakeUserRepo(names ...string) *fakeUserRepo {
	repo := &fakeUserRepo{
		users:       make(map[string]*entity.User),
		turnsPlayed: make(map[string]int),
		totalTime:   make(map[string]int),
	}

	for _, name := range names {
		repo.users[name] = &entity.User{Name: name, PasswordHash: []byte("digest")}
	}

	return repo
}

func (that *fakeUserRepo) Save(_ context.Context, user *entity.User) error {
	if _, ok := that.users[user.Name]; ok {
		return fmt.Errorf("%w: user %s", apperror.ErrConflict, user.Name)
	}

	that.users[user.Name] = user

	return nil
}

func (that *fakeUserRepo) Find(_ context.Context, name string) (*entity.User, error) {
	user, ok := that.users[name]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", apperror.ErrNotFound, name)
	}

	return user, nil
}

func (that *fakeUserRepo) List(_ context.Context) ([]*entity.User, error) {
	var users []*entity.User
	for _, user := range that.users {
		users = append(users, user)
	}

	return users, nil
}

func (that *fakeUserRepo) RecordMove(_ context.Context, name string, moveTime int) error {
	if _, ok := that.users[name]; !ok {
		return fmt.Errorf("%w: user %s", apperror.ErrNotFound, name)
	}

	that.turnsPlayed[name]++
	that.totalTime[name] += moveTime

	return nil
}
