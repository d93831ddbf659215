package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"google.golang.org/api/iterator"
)

const kindReservation = "reservation"

type reservationRepository struct {
	*base
}

func (r *reservationRepository) Create(ctx context.Context, res *model.Reservation) (*model.Reservation, error) {
	now := time.Now().UTC()
	created := res.Clone()
	created.CreatedAt = now
	created.UpdatedAt = now

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		id, err := r.allocateID(tx, kindReservation)
		if err != nil {
			return err
		}
		created.ID = id
		return tx.Create(r.doc(CollectionReservations, id), created)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create reservation",
			goerr.V("user_id", res.UserID),
			goerr.V("restaurant_id", res.RestaurantID),
		)
	}

	return created, nil
}

func (r *reservationRepository) Get(ctx context.Context, id int64) (*model.Reservation, error) {
	snap, err := r.doc(CollectionReservations, id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "reservation not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get reservation", goerr.V("id", id))
	}

	var res model.Reservation
	if err := snap.DataTo(&res); err != nil {
		return nil, goerr.Wrap(err, "failed to decode reservation", goerr.V("id", id))
	}
	return &res, nil
}

func (r *reservationRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Reservation, error) {
	iter := r.collection(CollectionReservations).
		Where("UserID", "==", userID).
		OrderBy("CreatedAt", firestore.Desc).
		OrderBy("ID", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.Reservation
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate reservations", goerr.V("user_id", userID))
		}

		var res model.Reservation
		if err := snap.DataTo(&res); err != nil {
			return nil, goerr.Wrap(err, "failed to decode reservation", goerr.V("doc_id", snap.Ref.ID))
		}
		result = append(result, &res)
	}
	return result, nil
}

func (r *reservationRepository) Update(ctx context.Context, res *model.Reservation) (*model.Reservation, error) {
	ref := r.doc(CollectionReservations, res.ID)
	updated := res.Clone()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return goerr.Wrap(ErrNotFound, "reservation not found", goerr.V("id", res.ID))
			}
			return goerr.Wrap(err, "failed to get reservation", goerr.V("id", res.ID))
		}

		var existing model.Reservation
		if err := snap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to decode reservation", goerr.V("id", res.ID))
		}
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = time.Now().UTC()
		return tx.Set(ref, updated)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update reservation", goerr.V("id", res.ID))
	}

	return updated, nil
}
