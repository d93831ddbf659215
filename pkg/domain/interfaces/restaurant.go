package interfaces

import (
	"context"

	"github.com/secmon-lab/dinewise/pkg/domain/model"
)

// RestaurantRepository defines the interface for Restaurant data access.
// At most one restaurant exists per non-empty ExternalID.
type RestaurantRepository interface {
	Create(ctx context.Context, r *model.Restaurant) (*model.Restaurant, error)
	Get(ctx context.Context, id int64) (*model.Restaurant, error)

	// GetByExternalID returns ErrNotFound when no restaurant has the external ID
	GetByExternalID(ctx context.Context, externalID string) (*model.Restaurant, error)

	// GetOrCreateByExternalID returns the stored restaurant sharing r.ExternalID,
	// or creates r. The lookup and insert are atomic. The bool is true when a
	// new record was created.
	GetOrCreateByExternalID(ctx context.Context, r *model.Restaurant) (*model.Restaurant, bool, error)
}
