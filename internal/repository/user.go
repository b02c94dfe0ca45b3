package repository

import (
	"context"
	"errors"

	"users-api/internal/domain"
)

// ErrUserNotFound is returned by GetByID when no record has the given id.
var ErrUserNotFound = errors.New("user not found")

// UserRepository is the record store of one worker process.
//
// Implementations are not safe for concurrent use; callers serialise access.
// Insert does not check id uniqueness, and Update silently does nothing when
// no record matches, so callers must check existence first.
type UserRepository interface {
	Init(ctx context.Context) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Insert(ctx context.Context, user domain.User) error
	Update(ctx context.Context, user domain.User) error
	Delete(ctx context.Context, id string) (bool, error)
}
