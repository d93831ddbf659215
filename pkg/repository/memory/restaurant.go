package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
)

type restaurantRepository struct {
	mu          sync.RWMutex
	restaurants map[int64]*model.Restaurant
	byExternal  map[string]int64
	nextID      int64
}

func newRestaurantRepository() *restaurantRepository {
	return &restaurantRepository{
		restaurants: make(map[int64]*model.Restaurant),
		byExternal:  make(map[string]int64),
		nextID:      1,
	}
}

// insert must be called with the write lock held
func (r *restaurantRepository) insert(rest *model.Restaurant) *model.Restaurant {
	created := rest.Clone()
	created.ID = r.nextID
	r.nextID++

	r.restaurants[created.ID] = created
	if created.ExternalID != "" {
		r.byExternal[created.ExternalID] = created.ID
	}
	return created
}

func (r *restaurantRepository) Create(ctx context.Context, rest *model.Restaurant) (*model.Restaurant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rest.ExternalID != "" {
		if _, exists := r.byExternal[rest.ExternalID]; exists {
			return nil, goerr.New("restaurant with external ID already exists",
				goerr.V("external_id", rest.ExternalID))
		}
	}

	return r.insert(rest).Clone(), nil
}

func (r *restaurantRepository) Get(ctx context.Context, id int64) (*model.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rest, exists := r.restaurants[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "restaurant not found", goerr.V("id", id))
	}
	return rest.Clone(), nil
}

func (r *restaurantRepository) GetByExternalID(ctx context.Context, externalID string) (*model.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byExternal[externalID]
	if !exists || externalID == "" {
		return nil, goerr.Wrap(ErrNotFound, "restaurant not found", goerr.V("external_id", externalID))
	}
	return r.restaurants[id].Clone(), nil
}

func (r *restaurantRepository) GetOrCreateByExternalID(ctx context.Context, rest *model.Restaurant) (*model.Restaurant, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rest.ExternalID != "" {
		if id, exists := r.byExternal[rest.ExternalID]; exists {
			return r.restaurants[id].Clone(), false, nil
		}
	}

	return r.insert(rest).Clone(), true, nil
}
