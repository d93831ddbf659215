package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
)

type reservationRepository struct {
	mu           sync.RWMutex
	reservations map[int64]*model.Reservation
	nextID       int64
}

func newReservationRepository() *reservationRepository {
	return &reservationRepository{
		reservations: make(map[int64]*model.Reservation),
		nextID:       1,
	}
}

func (r *reservationRepository) Create(ctx context.Context, res *model.Reservation) (*model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := res.Clone()
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.reservations[created.ID] = created
	return created.Clone(), nil
}

func (r *reservationRepository) Get(ctx context.Context, id int64) (*model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, exists := r.reservations[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "reservation not found", goerr.V("id", id))
	}
	return res.Clone(), nil
}

func (r *reservationRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Reservation
	for _, res := range r.reservations {
		if res.UserID == userID {
			result = append(result, res.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *reservationRepository) Update(ctx context.Context, res *model.Reservation) (*model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.reservations[res.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "reservation not found", goerr.V("id", res.ID))
	}

	updated := res.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.reservations[updated.ID] = updated
	return updated.Clone(), nil
}
