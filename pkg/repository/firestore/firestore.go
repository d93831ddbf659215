package firestore

import (
	"context"
	"strconv"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/interfaces"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNotFound is an alias of interfaces.ErrNotFound
var ErrNotFound = interfaces.ErrNotFound

// Collection names, before the optional prefix is applied
const (
	CollectionUsers               = "users"
	CollectionConversations       = "conversations"
	CollectionRestaurants         = "restaurants"
	CollectionRestaurantExternals = "restaurant_external_ids"
	CollectionReservations        = "reservations"
	CollectionFavorites           = "favorites"
	CollectionCounters            = "counters"
)

type Firestore struct {
	client       *firestore.Client
	base         *base
	user         *userRepository
	conversation *conversationRepository
	restaurant   *restaurantRepository
	reservation  *reservationRepository
	favorite     *favoriteRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prepends prefix and "_" to every collection name
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.base.collectionPrefix = prefix
	}
}

// WithDatabaseID selects a non-default Firestore database
func WithDatabaseID(databaseID string) Option {
	return func(f *Firestore) {
		f.base.databaseID = databaseID
	}
}

func New(ctx context.Context, projectID string, opts ...Option) (*Firestore, error) {
	f := &Firestore{base: &base{}}
	for _, opt := range opts {
		opt(f)
	}

	var client *firestore.Client
	var err error
	if f.base.databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, f.base.databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", f.base.databaseID),
		)
	}

	f.client = client
	f.base.client = client
	f.user = &userRepository{base: f.base}
	f.conversation = &conversationRepository{base: f.base}
	f.restaurant = &restaurantRepository{base: f.base}
	f.reservation = &reservationRepository{base: f.base}
	f.favorite = &favoriteRepository{base: f.base}

	return f, nil
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

func (f *Firestore) Conversation() interfaces.ConversationRepository {
	return f.conversation
}

func (f *Firestore) Restaurant() interfaces.RestaurantRepository {
	return f.restaurant
}

func (f *Firestore) Reservation() interfaces.ReservationRepository {
	return f.reservation
}

func (f *Firestore) Favorite() interfaces.FavoriteRepository {
	return f.favorite
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// base holds what every kind repository shares
type base struct {
	client           *firestore.Client
	collectionPrefix string
	databaseID       string
}

func (b *base) collection(name string) *firestore.CollectionRef {
	return b.client.Collection(prefixed(b.collectionPrefix, name))
}

func (b *base) doc(name string, id int64) *firestore.DocumentRef {
	return b.collection(name).Doc(strconv.FormatInt(id, 10))
}

// allocateID reads and advances the counter for kind inside tx. Firestore
// requires every read in a transaction to precede its writes, so call this
// after all other tx.Get calls.
func (b *base) allocateID(tx *firestore.Transaction, kind string) (int64, error) {
	counterRef := b.collection(CollectionCounters).Doc(kind + "_counter")

	doc, err := tx.Get(counterRef)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			if err := tx.Set(counterRef, map[string]any{"value": int64(1)}); err != nil {
				return 0, goerr.Wrap(err, "failed to initialize counter", goerr.V("kind", kind))
			}
			return 1, nil
		}
		return 0, goerr.Wrap(err, "failed to get counter", goerr.V("kind", kind))
	}

	current, err := doc.DataAt("value")
	if err != nil {
		return 0, goerr.Wrap(err, "failed to get counter value", goerr.V("kind", kind))
	}
	val, ok := current.(int64)
	if !ok {
		return 0, goerr.New("counter value is not of type int64", goerr.V("kind", kind), goerr.V("value", current))
	}

	nextID := val + 1
	if err := tx.Update(counterRef, []firestore.Update{{Path: "value", Value: nextID}}); err != nil {
		return 0, goerr.Wrap(err, "failed to update counter", goerr.V("kind", kind))
	}
	return nextID, nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
