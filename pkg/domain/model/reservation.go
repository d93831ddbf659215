package model

import (
	"time"

	"github.com/secmon-lab/dinewise/pkg/domain/types"
)

// Reservation is a table booking requested through an outbound call
type Reservation struct {
	ID             int64                   `json:"id"`
	UserID         int64                   `json:"userId"`
	RestaurantID   int64                   `json:"restaurantId"`
	ConversationID int64                   `json:"conversationId,omitempty"` // 0 means none
	PartySize      int                     `json:"partySize"`
	DateTime       time.Time               `json:"dateTime"`
	Status         types.ReservationStatus `json:"status"`
	CallHandle     string                  `json:"callSid,omitempty"`
	Confirmation   ConfirmationDetails     `json:"confirmationDetails"`
	CreatedAt      time.Time               `json:"createdAt"`
	UpdatedAt      time.Time               `json:"updatedAt"`
}

// ConfirmationDetails records what was learned from the call
type ConfirmationDetails struct {
	ConfirmationNumber string `json:"confirmationNumber,omitempty"`
	SpecialRequests    string `json:"specialRequests,omitempty"`
	CallTranscript     string `json:"callTranscript,omitempty"`
}

// Clone returns a copy of the reservation
func (r *Reservation) Clone() *Reservation {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// ReservationDetail pairs a reservation with its restaurant for listing
type ReservationDetail struct {
	*Reservation
	Restaurant *Restaurant `json:"restaurant,omitempty"`
}
