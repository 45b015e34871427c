package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

func tictactoeType() *entity.GameType {
	return &entity.GameType{
		Name:         "tictactoe",
		DefaultState: "1---------",
		Capacity:     2,
	}
}

func storedInstance(t *testing.T, repo *fakeGameRepo, id string, mutate func(*entity.GameInstance)) *entity.GameInstance {
	t.Helper()

	instance := entity.NewGameInstance(id, tictactoeType())
	if mutate != nil {
		mutate(instance)
	}

	require.NoError(t, repo.Create(context.Background(), instance))

	return instance
}

func TestMatchmakingService_FindOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an unknown game type", func(t *testing.T) {
		// Given: a matchmaker over an empty catalog
		matchmaker := NewMatchmakingService(discardLogger(), newFakeGameRepo(), newFakeGameTypeRepo())

		// When: a random match of an unregistered type is requested
		_, err := matchmaker.FindOpen(ctx, "tictactoe", "alice")

		// Then: the type lookup failure surfaces
		require.ErrorIs(t, err, apperror.ErrGameTypeNotFound)
	})

	t.Run("reports when no instance is open", func(t *testing.T) {
		// Given: every stored instance is either full, busy or finished
		gameRepo := newFakeGameRepo()
		storedInstance(t, gameRepo, "full", func(game *entity.GameInstance) {
			game.Players = []string{"carol", "dave"}
		})
		storedInstance(t, gameRepo, "busy", func(game *entity.GameInstance) {
			game.Players = []string{"carol"}
			game.CurrentPlayer = "carol"
		})
		storedInstance(t, gameRepo, "done", func(game *entity.GameInstance) {
			game.Result = entity.ResultDraw
		})

		matchmaker := NewMatchmakingService(discardLogger(), gameRepo, newFakeGameTypeRepo(tictactoeType()))

		// When: alice asks for a random match
		_, err := matchmaker.FindOpen(ctx, "tictactoe", "alice")

		// Then: no candidate qualifies
		require.ErrorIs(t, err, apperror.ErrNoOpenGames)
	})

	t.Run("picks the only open instance", func(t *testing.T) {
		// Given: one open instance among ineligible ones
		gameRepo := newFakeGameRepo()
		storedInstance(t, gameRepo, "full", func(game *entity.GameInstance) {
			game.Players = []string{"carol", "dave"}
		})
		storedInstance(t, gameRepo, "done", func(game *entity.GameInstance) {
			game.Result = entity.ResultTeamTwo
		})
		open := storedInstance(t, gameRepo, "open", func(game *entity.GameInstance) {
			game.Players = []string{"carol"}
		})

		matchmaker := NewMatchmakingService(discardLogger(), gameRepo, newFakeGameTypeRepo(tictactoeType()))

		// When: alice asks for a random match
		found, err := matchmaker.FindOpen(ctx, "tictactoe", "alice")
		require.NoError(t, err)

		// Then: she lands on the open one
		require.Equal(t, open.ID, found.ID)
	})

	t.Run("a returning player only matches the side they played", func(t *testing.T) {
		// Given: alice played team one in an instance where team two is to move
		gameRepo := newFakeGameRepo()
		storedInstance(t, gameRepo, "wrong-side", func(game *entity.GameInstance) {
			game.Players = []string{"alice"}
			game.State = "2----X----"
			game.Teams = map[string]int{"alice": 1}
		})

		matchmaker := NewMatchmakingService(discardLogger(), gameRepo, newFakeGameTypeRepo(tictactoeType()))

		// When: alice asks for a random match
		_, err := matchmaker.FindOpen(ctx, "tictactoe", "alice")

		// Then: her own game does not qualify while the other side is to move
		require.ErrorIs(t, err, apperror.ErrNoOpenGames)

		// When: bob, a stranger to the instance, asks instead
		found, err := matchmaker.FindOpen(ctx, "tictactoe", "bob")
		require.NoError(t, err)

		// Then: it qualifies for him
		require.Equal(t, "wrong-side", found.ID)
	})

	t.Run("a returning player matches their own side", func(t *testing.T) {
		// Given: alice played team one and team one is to move again
		gameRepo := newFakeGameRepo()
		storedInstance(t, gameRepo, "own-side", func(game *entity.GameInstance) {
			game.Players = []string{"alice"}
			game.State = "1X---O----"
			game.Teams = map[string]int{"alice": 1}
		})

		matchmaker := NewMatchmakingService(discardLogger(), gameRepo, newFakeGameTypeRepo(tictactoeType()))

		// When: alice asks for a random match
		found, err := matchmaker.FindOpen(ctx, "tictactoe", "alice")
		require.NoError(t, err)

		// Then: she comes back to her own game
		require.Equal(t, "own-side", found.ID)
	})
}

func TestMatchmakingService_FindOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("returns an existing open instance", func(t *testing.T) {
		// Given: one open instance
		gameRepo := newFakeGameRepo()
		open := storedInstance(t, gameRepo, "open", nil)

		matchmaker := NewMatchmakingService(discardLogger(), gameRepo, newFakeGameTypeRepo(tictactoeType()))

		// When: alice asks for a match
		found, err := matchmaker.FindOrCreate(ctx, "tictactoe", "alice")
		require.NoError(t, err)

		// Then: no new instance is created
		require.Equal(t, open.ID, found.ID)

		all, err := gameRepo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
	})

	t.Run("creates a fresh instance when nothing is open", func(t *testing.T) {
		// Given: no stored instances at all
		gameRepo := newFakeGameRepo()
		matchmaker := NewMatchmakingService(discardLogger(), gameRepo, newFakeGameTypeRepo(tictactoeType()))

		// When: alice asks for a match
		found, err := matchmaker.FindOrCreate(ctx, "tictactoe", "alice")
		require.NoError(t, err)

		// Then: she gets a fresh unmanned instance that is now stored and open
		require.Equal(t, "1---------", found.State)
		require.Empty(t, found.Players)
		require.Empty(t, found.CurrentPlayer)

		stored, err := gameRepo.GetByID(ctx, found.ID)
		require.NoError(t, err)
		require.True(t, stored.IsOpen())
	})
}
