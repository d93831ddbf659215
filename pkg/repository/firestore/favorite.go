package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"google.golang.org/api/iterator"
)

const kindFavorite = "favorite"

type favoriteRepository struct {
	*base
}

// pairRef keys favorites by (user, restaurant) so the pair stays unique
func (r *favoriteRepository) pairRef(userID, restaurantID int64) *firestore.DocumentRef {
	return r.collection(CollectionFavorites).Doc(fmt.Sprintf("%d_%d", userID, restaurantID))
}

func (r *favoriteRepository) Create(ctx context.Context, f *model.Favorite) (*model.Favorite, error) {
	ref := r.pairRef(f.UserID, f.RestaurantID)
	var result *model.Favorite

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err == nil {
			var existing model.Favorite
			if err := snap.DataTo(&existing); err != nil {
				return goerr.Wrap(err, "failed to decode favorite")
			}
			result = &existing
			return nil
		}
		if !isNotFound(err) {
			return goerr.Wrap(err, "failed to get favorite")
		}

		id, err := r.allocateID(tx, kindFavorite)
		if err != nil {
			return err
		}
		created := f.Clone()
		created.ID = id
		created.CreatedAt = time.Now().UTC()
		result = created
		return tx.Create(ref, created)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create favorite",
			goerr.V("user_id", f.UserID),
			goerr.V("restaurant_id", f.RestaurantID),
		)
	}

	return result, nil
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Favorite, error) {
	iter := r.collection(CollectionFavorites).
		Where("UserID", "==", userID).
		OrderBy("ID", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.Favorite
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate favorites", goerr.V("user_id", userID))
		}

		var f model.Favorite
		if err := snap.DataTo(&f); err != nil {
			return nil, goerr.Wrap(err, "failed to decode favorite", goerr.V("doc_id", snap.Ref.ID))
		}
		result = append(result, &f)
	}
	return result, nil
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, restaurantID int64) (bool, error) {
	ref := r.pairRef(userID, restaurantID)
	var existed bool

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existed = false
		if _, err := tx.Get(ref); err != nil {
			if isNotFound(err) {
				return nil
			}
			return goerr.Wrap(err, "failed to get favorite")
		}
		existed = true
		return tx.Delete(ref)
	})
	if err != nil {
		return false, goerr.Wrap(err, "failed to delete favorite",
			goerr.V("user_id", userID),
			goerr.V("restaurant_id", restaurantID),
		)
	}

	return existed, nil
}
