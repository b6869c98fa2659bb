package repository

import (
	"context"
	"testing"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a player with ID
	player := &entity.Player{
		ID: "123",
	}

	// When: CreateOrUpdate is called
	err := playerRepo.CreateOrUpdate(ctx, player)

	// Then: no error should be returned, and player is stored
	require.NoError(t, err)
}

func TestPlayerRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// Given: a player bound to a game
		player := &entity.Player{
			ID:     "123",
			GameID: "abc",
		}

		err := playerRepo.CreateOrUpdate(ctx, player)
		require.NoError(t, err)

		// When: GetByID is called with existing ID
		retrievedPlayer, err := playerRepo.GetByID(ctx, player.ID)

		// Then: the retrieved player should match the saved player
		require.NoError(t, err)
		require.Equal(t, player, retrievedPlayer)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// When: GetByID is called with non-existent ID
		retrievedPlayer, err := playerRepo.GetByID(ctx, "9999999")

		// Then: an ErrPlayerNotFound error should be returned
		require.ErrorIs(t, err, ErrPlayerNotFound)
		assert.Nil(t, retrievedPlayer)
	})
}

func TestPlayerRepository_Keys(t *testing.T) {
	t.Run("Player is stored under its own key", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// Given: a stored player
		require.NoError(t, playerRepo.CreateOrUpdate(ctx, &entity.Player{ID: "p1", GameID: "g1"}))

		// When: the raw key is read
		exists, err := st.Storage.Exists(ctx, playerKey("p1")).Result()

		// Then: exactly that key holds it
		require.NoError(t, err)
		assert.Equal(t, int64(1), exists)
		assert.Equal(t, "player:p1", playerKey("p1"))
	})

	t.Run("Empty id is refused before touching redis", func(t *testing.T) {
		playerRepo := NewPlayerRepository(nil)

		err := playerRepo.CreateOrUpdate(context.Background(), &entity.Player{})
		require.ErrorIs(t, err, ErrEmptyPlayerID)

		player, err := playerRepo.GetByID(context.Background(), "")
		require.ErrorIs(t, err, ErrPlayerNotFound)
		assert.Nil(t, player)
	})
}
