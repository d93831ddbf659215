package interfaces

import (
	"context"

	"github.com/secmon-lab/dinewise/pkg/domain/model"
)

// UserRepository defines the interface for User data access
type UserRepository interface {
	// Create creates a new user with auto-generated ID
	Create(ctx context.Context, user *model.User) (*model.User, error)

	// Get retrieves a user by ID
	Get(ctx context.Context, id int64) (*model.User, error)

	// List retrieves all users ordered by ID
	List(ctx context.Context) ([]*model.User, error)

	// Update replaces an existing user
	Update(ctx context.Context, user *model.User) (*model.User, error)
}
