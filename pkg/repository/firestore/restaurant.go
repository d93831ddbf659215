package firestore

import (
	"context"
	"net/url"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
)

const kindRestaurant = "restaurant"

type restaurantRepository struct {
	*base
}

// externalRef points at the index document reserving an external ID.
// Document IDs cannot contain "/", so the ID is path-escaped.
func (r *restaurantRepository) externalRef(externalID string) *firestore.DocumentRef {
	return r.collection(CollectionRestaurantExternals).Doc(url.PathEscape(externalID))
}

type externalIndex struct {
	RestaurantID int64
}

func (r *restaurantRepository) Create(ctx context.Context, rest *model.Restaurant) (*model.Restaurant, error) {
	created, isNew, err := r.getOrCreate(ctx, rest)
	if err != nil {
		return nil, err
	}
	if !isNew {
		return nil, goerr.New("restaurant with external ID already exists",
			goerr.V("external_id", rest.ExternalID))
	}
	return created, nil
}

func (r *restaurantRepository) Get(ctx context.Context, id int64) (*model.Restaurant, error) {
	snap, err := r.doc(CollectionRestaurants, id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "restaurant not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get restaurant", goerr.V("id", id))
	}

	var rest model.Restaurant
	if err := snap.DataTo(&rest); err != nil {
		return nil, goerr.Wrap(err, "failed to decode restaurant", goerr.V("id", id))
	}
	return &rest, nil
}

func (r *restaurantRepository) GetByExternalID(ctx context.Context, externalID string) (*model.Restaurant, error) {
	if externalID == "" {
		return nil, goerr.Wrap(ErrNotFound, "restaurant not found", goerr.V("external_id", externalID))
	}

	snap, err := r.externalRef(externalID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "restaurant not found", goerr.V("external_id", externalID))
		}
		return nil, goerr.Wrap(err, "failed to get external index", goerr.V("external_id", externalID))
	}

	var idx externalIndex
	if err := snap.DataTo(&idx); err != nil {
		return nil, goerr.Wrap(err, "failed to decode external index", goerr.V("external_id", externalID))
	}
	return r.Get(ctx, idx.RestaurantID)
}

func (r *restaurantRepository) GetOrCreateByExternalID(ctx context.Context, rest *model.Restaurant) (*model.Restaurant, bool, error) {
	return r.getOrCreate(ctx, rest)
}

// getOrCreate checks the external ID index, allocates an ID and writes both
// the restaurant and its index entry in one transaction.
func (r *restaurantRepository) getOrCreate(ctx context.Context, rest *model.Restaurant) (*model.Restaurant, bool, error) {
	var result *model.Restaurant
	var created bool

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		result, created = nil, false

		var idxRef *firestore.DocumentRef
		if rest.ExternalID != "" {
			idxRef = r.externalRef(rest.ExternalID)
			snap, err := tx.Get(idxRef)
			if err == nil {
				var idx externalIndex
				if err := snap.DataTo(&idx); err != nil {
					return goerr.Wrap(err, "failed to decode external index")
				}
				existing, err := tx.Get(r.doc(CollectionRestaurants, idx.RestaurantID))
				if err != nil {
					return goerr.Wrap(err, "failed to get indexed restaurant", goerr.V("id", idx.RestaurantID))
				}
				var found model.Restaurant
				if err := existing.DataTo(&found); err != nil {
					return goerr.Wrap(err, "failed to decode restaurant", goerr.V("id", idx.RestaurantID))
				}
				result = &found
				return nil
			}
			if !isNotFound(err) {
				return goerr.Wrap(err, "failed to get external index")
			}
		}

		id, err := r.allocateID(tx, kindRestaurant)
		if err != nil {
			return err
		}

		newRest := rest.Clone()
		newRest.ID = id
		if err := tx.Create(r.doc(CollectionRestaurants, id), newRest); err != nil {
			return goerr.Wrap(err, "failed to write restaurant", goerr.V("id", id))
		}
		if idxRef != nil {
			if err := tx.Create(idxRef, externalIndex{RestaurantID: id}); err != nil {
				return goerr.Wrap(err, "failed to write external index", goerr.V("id", id))
			}
		}

		result = newRest
		created = true
		return nil
	})
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to get or create restaurant", goerr.V("external_id", rest.ExternalID))
	}

	return result, created, nil
}
