// Package store persists user records.
package store

import (
	"context"
	"errors"

	"github.com/isdelr/geo-auth-be/internal/models"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateKey is returned by Create when the email is already taken.
	ErrDuplicateKey = errors.New("duplicate key")
)

// UserStore is the user record store.
//
// Email uniqueness is enforced atomically by Create: of two concurrent
// creates for the same email exactly one succeeds and the other returns
// ErrDuplicateKey. Callers may still look up the email first, but that check
// alone is not sufficient.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	// Create assigns ID, CreatedAt and UpdatedAt and inserts the record.
	Create(ctx context.Context, user models.User) (models.User, error)
	// Save persists changes to an existing record and refreshes UpdatedAt.
	Save(ctx context.Context, user models.User) (models.User, error)
}
