package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
)

type userRepository struct {
	mu     sync.RWMutex
	users  map[int64]*model.User
	nextID int64
}

func newUserRepository() *userRepository {
	return &userRepository{
		users:  make(map[int64]*model.User),
		nextID: 1,
	}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := user.Clone()
	created.ID = r.nextID
	created.CreatedAt = time.Now().UTC()
	r.nextID++

	r.users[created.ID] = created
	return created.Clone(), nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.users[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
	}
	return u.Clone(), nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u.Clone())
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.users[user.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", user.ID))
	}

	updated := user.Clone()
	updated.CreatedAt = existing.CreatedAt
	r.users[updated.ID] = updated
	return updated.Clone(), nil
}
