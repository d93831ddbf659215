package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"google.golang.org/api/iterator"
)

const kindConversation = "conversation"

type conversationRepository struct {
	*base
}

func (r *conversationRepository) Create(ctx context.Context, conv *model.Conversation) (*model.Conversation, error) {
	now := time.Now().UTC()
	created := conv.Clone()
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.Messages == nil {
		created.Messages = []model.Message{}
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		id, err := r.allocateID(tx, kindConversation)
		if err != nil {
			return err
		}
		created.ID = id
		return tx.Create(r.doc(CollectionConversations, id), created)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create conversation", goerr.V("user_id", conv.UserID))
	}

	return created, nil
}

func (r *conversationRepository) Get(ctx context.Context, id int64) (*model.Conversation, error) {
	snap, err := r.doc(CollectionConversations, id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "conversation not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get conversation", goerr.V("id", id))
	}

	var c model.Conversation
	if err := snap.DataTo(&c); err != nil {
		return nil, goerr.Wrap(err, "failed to decode conversation", goerr.V("id", id))
	}
	return &c, nil
}

func (r *conversationRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Conversation, error) {
	iter := r.collection(CollectionConversations).
		Where("UserID", "==", userID).
		OrderBy("ID", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.Conversation
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate conversations", goerr.V("user_id", userID))
		}

		var c model.Conversation
		if err := snap.DataTo(&c); err != nil {
			return nil, goerr.Wrap(err, "failed to decode conversation", goerr.V("doc_id", snap.Ref.ID))
		}
		result = append(result, &c)
	}
	return result, nil
}

func (r *conversationRepository) Update(ctx context.Context, conv *model.Conversation) (*model.Conversation, error) {
	ref := r.doc(CollectionConversations, conv.ID)
	updated := conv.Clone()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return goerr.Wrap(ErrNotFound, "conversation not found", goerr.V("id", conv.ID))
			}
			return goerr.Wrap(err, "failed to get conversation", goerr.V("id", conv.ID))
		}

		var existing model.Conversation
		if err := snap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to decode conversation", goerr.V("id", conv.ID))
		}
		updated.UserID = existing.UserID
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = time.Now().UTC()
		return tx.Set(ref, updated)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update conversation", goerr.V("id", conv.ID))
	}

	return updated, nil
}

func (r *conversationRepository) SetActiveReservation(ctx context.Context, id, reservationID int64) error {
	ref := r.doc(CollectionConversations, id)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if isNotFound(err) {
				return goerr.Wrap(ErrNotFound, "conversation not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get conversation", goerr.V("id", id))
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "Context.ActiveReservationID", Value: reservationID},
			{Path: "UpdatedAt", Value: time.Now().UTC()},
		})
	})
	if err != nil {
		return goerr.Wrap(err, "failed to set active reservation",
			goerr.V("id", id),
			goerr.V("reservation_id", reservationID),
		)
	}
	return nil
}
