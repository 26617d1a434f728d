package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/anagmk/Reel/internal/models"
	"github.com/anagmk/Reel/pkg/password"
)

// Bootstrap creates a developer account unless email is already taken,
// in which case it returns models.ErrConflict.
func Bootstrap(ctx context.Context, store Store, hasher *password.Hasher, email, plain string) (*models.Account, error) {
	if email == "" || plain == "" {
		return nil, errors.New("bootstrap email and password are required")
	}
	if _, err := store.GetByEmail(ctx, email); err == nil {
		return nil, models.ErrConflict
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("lookup %s: %w", email, err)
	}
	hash, err := hasher.Hash(plain)
	if err != nil {
		return nil, err
	}
	return store.Create(ctx, email, hash, models.RoleDeveloper)
}
