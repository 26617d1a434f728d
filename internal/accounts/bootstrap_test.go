package accounts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anagmk/Reel/internal/models"
	"github.com/anagmk/Reel/pkg/password"
)

func TestBootstrap(t *testing.T) {
	store := newFakeStore()
	hasher := password.NewHasher(4)
	ctx := context.Background()

	a, err := Bootstrap(ctx, store, hasher, "admin@example.com", "Admin@123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleDeveloper, a.Role)
	assert.NoError(t, hasher.Compare("Admin@123", a.Password))

	_, err = Bootstrap(ctx, store, hasher, "admin@example.com", "other")
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Len(t, store.accounts, 1)

	_, err = Bootstrap(ctx, store, hasher, "", "x")
	assert.Error(t, err)
}
