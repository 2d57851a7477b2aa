package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/coinfolio/internal/common"
	"github.com/bobmcallan/coinfolio/internal/models"
)

func TestUserSaveGetByIDAndEmail(t *testing.T) {
	store := newTestStore(t)
	users := NewUserStorage(store, common.NewSilentLogger())
	ctx := context.Background()

	user := &models.User{
		UserID:       "user-1",
		Email:        "alice@example.com",
		Name:         "Alice",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, users.SaveUser(ctx, user))

	byID, err := users.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	byEmail, err := users.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", byEmail.UserID)
}

func TestUserNotFound(t *testing.T) {
	store := newTestStore(t)
	users := NewUserStorage(store, common.NewSilentLogger())
	ctx := context.Background()

	_, err := users.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = users.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserDelete(t *testing.T) {
	store := newTestStore(t)
	users := NewUserStorage(store, common.NewSilentLogger())
	ctx := context.Background()

	require.NoError(t, users.SaveUser(ctx, &models.User{UserID: "user-1", Email: "a@b.c", CreatedAt: time.Now()}))
	require.NoError(t, users.DeleteUser(ctx, "user-1"))

	_, err := users.GetUser(ctx, "user-1")
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Deleting again is not an error.
	assert.NoError(t, users.DeleteUser(ctx, "user-1"))
}
