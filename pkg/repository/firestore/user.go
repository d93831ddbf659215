package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"google.golang.org/api/iterator"
)

const kindUser = "user"

type userRepository struct {
	*base
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	created := user.Clone()
	created.CreatedAt = time.Now().UTC()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		id, err := r.allocateID(tx, kindUser)
		if err != nil {
			return err
		}
		created.ID = id
		return tx.Create(r.doc(CollectionUsers, id), created)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create user", goerr.V("username", user.Username))
	}

	return created, nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	snap, err := r.doc(CollectionUsers, id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}

	var u model.User
	if err := snap.DataTo(&u); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user", goerr.V("id", id))
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	iter := r.collection(CollectionUsers).OrderBy("ID", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var users []*model.User
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate users")
		}

		var u model.User
		if err := snap.DataTo(&u); err != nil {
			return nil, goerr.Wrap(err, "failed to decode user", goerr.V("doc_id", snap.Ref.ID))
		}
		users = append(users, &u)
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) (*model.User, error) {
	ref := r.doc(CollectionUsers, user.ID)
	updated := user.Clone()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", user.ID))
			}
			return goerr.Wrap(err, "failed to get user", goerr.V("id", user.ID))
		}

		var existing model.User
		if err := snap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to decode user", goerr.V("id", user.ID))
		}
		updated.CreatedAt = existing.CreatedAt
		return tx.Set(ref, updated)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update user", goerr.V("id", user.ID))
	}

	return updated, nil
}
