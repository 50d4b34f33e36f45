package repository

import (
	"context"

	"github.com/ErlanBelekov/user-api/internal/domain"
)

// UserRepository persists users. Implementations return domain errors
// (ErrUserNotFound, ErrEmailTaken, ErrUserAlreadyActive, ErrUserAlreadyInactive)
// so callers never inspect driver errors.
type UserRepository interface {
	List(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	SetActive(ctx context.Context, id string, active bool) error
}
