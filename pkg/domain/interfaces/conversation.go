package interfaces

import (
	"context"

	"github.com/secmon-lab/dinewise/pkg/domain/model"
)

// ConversationRepository defines the interface for Conversation data access
type ConversationRepository interface {
	Create(ctx context.Context, conv *model.Conversation) (*model.Conversation, error)
	Get(ctx context.Context, id int64) (*model.Conversation, error)

	// ListByUser returns the user's conversations, oldest first
	ListByUser(ctx context.Context, userID int64) ([]*model.Conversation, error)

	// Update overwrites messages and context of an existing conversation
	Update(ctx context.Context, conv *model.Conversation) (*model.Conversation, error)
	// SetActiveReservation writes only Context.ActiveReservationID, leaving
	// messages and the rest of the context as stored
	SetActiveReservation(ctx context.Context, id, reservationID int64) error
}
