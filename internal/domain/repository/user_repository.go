package repository

import (
	"errors"

	"github.com/civicresolve/backend/internal/domain/entity"
)

// ErrNotFound is returned by all repositories when a lookup misses.
// It is a valid empty result for reads, not a failure of the store itself.
var ErrNotFound = errors.New("not found")

// UserRepository defines the storage contract for user accounts.
// Create assigns the id and joined timestamp on the passed entity.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	UsernameExists(username string) (bool, error)
	EmailExists(email string) (bool, error)
	Update(u *entity.User) error
	SetVerified(id string) error
}
