package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/secmon-lab/dinewise/pkg/domain/model"
)

type favoriteKey struct {
	userID       int64
	restaurantID int64
}

type favoriteRepository struct {
	mu        sync.RWMutex
	favorites map[favoriteKey]*model.Favorite
	nextID    int64
}

func newFavoriteRepository() *favoriteRepository {
	return &favoriteRepository{
		favorites: make(map[favoriteKey]*model.Favorite),
		nextID:    1,
	}
}

func (r *favoriteRepository) Create(ctx context.Context, f *model.Favorite) (*model.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := favoriteKey{userID: f.UserID, restaurantID: f.RestaurantID}
	if existing, exists := r.favorites[key]; exists {
		return existing.Clone(), nil
	}

	created := f.Clone()
	created.ID = r.nextID
	created.CreatedAt = time.Now().UTC()
	r.nextID++

	r.favorites[key] = created
	return created.Clone(), nil
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Favorite
	for key, f := range r.favorites {
		if key.userID == userID {
			result = append(result, f.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, restaurantID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := favoriteKey{userID: userID, restaurantID: restaurantID}
	if _, exists := r.favorites[key]; !exists {
		return false, nil
	}
	delete(r.favorites, key)
	return true, nil
}
