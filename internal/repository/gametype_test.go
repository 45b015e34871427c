package repository

import (
	"testing"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
	"github.com/rocketscienceinc/boardgame-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameTypeRepository(t *testing.T) {
	t.Run("Save and find by name", func(t *testing.T) {
		ctx, st := suite.NewSQLite(t)

		gameTypeRepo := NewGameTypeRepository(st.Connection)

		// Given: a game type
		gameType := &entity.GameType{Name: "tictactoe", DefaultState: "1---------", Capacity: 2}

		// When: it is saved and looked up
		require.NoError(t, gameTypeRepo.Save(ctx, gameType))

		found, err := gameTypeRepo.FindByName(ctx, "tictactoe")

		// Then: the stored fields come back
		require.NoError(t, err)
		assert.Equal(t, "tictactoe", found.Name)
		assert.Equal(t, "1---------", found.DefaultState)
		assert.Equal(t, 2, found.Capacity)
	})

	t.Run("Saving a duplicate name conflicts", func(t *testing.T) {
		ctx, st := suite.NewSQLite(t)

		gameTypeRepo := NewGameTypeRepository(st.Connection)

		gameType := &entity.GameType{Name: "tictactoe", DefaultState: "1---------"}
		require.NoError(t, gameTypeRepo.Save(ctx, gameType))

		err := gameTypeRepo.Save(ctx, gameType)

		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("Unknown names are not found", func(t *testing.T) {
		ctx, st := suite.NewSQLite(t)

		gameTypeRepo := NewGameTypeRepository(st.Connection)

		_, err := gameTypeRepo.FindByName(ctx, "go")

		assert.ErrorIs(t, err, apperror.ErrGameTypeNotFound)
	})

	t.Run("List returns every type ordered by name", func(t *testing.T) {
		ctx, st := suite.NewSQLite(t)

		gameTypeRepo := NewGameTypeRepository(st.Connection)

		require.NoError(t, gameTypeRepo.Save(ctx, &entity.GameType{Name: "tictactoe", DefaultState: "1---------"}))
		require.NoError(t, gameTypeRepo.Save(ctx, &entity.GameType{Name: "checkers", DefaultState: "1", Capacity: 2}))

		gameTypes, err := gameTypeRepo.List(ctx)

		require.NoError(t, err)
		require.Len(t, gameTypes, 2)
		assert.Equal(t, "checkers", gameTypes[0].Name)
		assert.Equal(t, "tictactoe", gameTypes[1].Name)
	})

	t.Run("Delete removes the type", func(t *testing.T) {
		ctx, st := suite.NewSQLite(t)

		gameTypeRepo := NewGameTypeRepository(st.Connection)

		require.NoError(t, gameTypeRepo.Save(ctx, &entity.GameType{Name: "tictactoe", DefaultState: "1---------"}))

		require.NoError(t, gameTypeRepo.DeleteByName(ctx, "tictactoe"))

		_, err := gameTypeRepo.FindByName(ctx, "tictactoe")
		assert.ErrorIs(t, err, apperror.ErrGameTypeNotFound)

		// And: deleting again reports not found
		err = gameTypeRepo.DeleteByName(ctx, "tictactoe")
		assert.ErrorIs(t, err, apperror.ErrGameTypeNotFound)
	})
}
