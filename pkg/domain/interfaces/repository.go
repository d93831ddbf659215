package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is returned (wrapped) by every repository when the requested
// record does not exist. Check with errors.Is.
var ErrNotFound = goerr.New("not found")

// Repository defines the interface for data persistence. Each kind is
// atomic with respect to its own operations.
type Repository interface {
	User() UserRepository
	Conversation() ConversationRepository
	Restaurant() RestaurantRepository
	Reservation() ReservationRepository
	Favorite() FavoriteRepository

	Close() error
}
