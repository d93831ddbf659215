package memory

import (
	"github.com/secmon-lab/dinewise/pkg/domain/interfaces"
)

// ErrNotFound is an alias of interfaces.ErrNotFound
var ErrNotFound = interfaces.ErrNotFound

// Memory is an in-process repository. Each kind guards its own state with a
// mutex; records are copied on the way in and out.
type Memory struct {
	user         *userRepository
	conversation *conversationRepository
	restaurant   *restaurantRepository
	reservation  *reservationRepository
	favorite     *favoriteRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		user:         newUserRepository(),
		conversation: newConversationRepository(),
		restaurant:   newRestaurantRepository(),
		reservation:  newReservationRepository(),
		favorite:     newFavoriteRepository(),
	}
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Conversation() interfaces.ConversationRepository {
	return m.conversation
}

func (m *Memory) Restaurant() interfaces.RestaurantRepository {
	return m.restaurant
}

func (m *Memory) Reservation() interfaces.ReservationRepository {
	return m.reservation
}

func (m *Memory) Favorite() interfaces.FavoriteRepository {
	return m.favorite
}

// Close is a no-op for the memory backend
func (m *Memory) Close() error {
	return nil
}
