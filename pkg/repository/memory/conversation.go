package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
)

type conversationRepository struct {
	mu            sync.RWMutex
	conversations map[int64]*model.Conversation
	nextID        int64
}

func newConversationRepository() *conversationRepository {
	return &conversationRepository{
		conversations: make(map[int64]*model.Conversation),
		nextID:        1,
	}
}

func (r *conversationRepository) Create(ctx context.Context, conv *model.Conversation) (*model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := conv.Clone()
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.Messages == nil {
		created.Messages = []model.Message{}
	}
	r.nextID++

	r.conversations[created.ID] = created
	return created.Clone(), nil
}

func (r *conversationRepository) Get(ctx context.Context, id int64) (*model.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.conversations[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "conversation not found", goerr.V("id", id))
	}
	return c.Clone(), nil
}

func (r *conversationRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Conversation
	for _, c := range r.conversations {
		if c.UserID == userID {
			result = append(result, c.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *conversationRepository) Update(ctx context.Context, conv *model.Conversation) (*model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.conversations[conv.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "conversation not found", goerr.V("id", conv.ID))
	}

	updated := conv.Clone()
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.conversations[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *conversationRepository) SetActiveReservation(ctx context.Context, id, reservationID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.conversations[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "conversation not found", goerr.V("id", id))
	}
	existing.Context.ActiveReservationID = reservationID
	existing.UpdatedAt = time.Now().UTC()
	return nil
}
