package interfaces

import (
	"context"

	"github.com/secmon-lab/dinewise/pkg/domain/model"
)

// ReservationRepository defines the interface for Reservation data access
type ReservationRepository interface {
	Create(ctx context.Context, r *model.Reservation) (*model.Reservation, error)
	Get(ctx context.Context, id int64) (*model.Reservation, error)

	// ListByUser returns the user's reservations, newest first
	ListByUser(ctx context.Context, userID int64) ([]*model.Reservation, error)

	Update(ctx context.Context, r *model.Reservation) (*model.Reservation, error)
}
