package types

import "fmt"

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// AllReservationStatuses returns all valid reservation statuses
func AllReservationStatuses() []ReservationStatus {
	return []ReservationStatus{
		ReservationStatusPending,
		ReservationStatusConfirmed,
		ReservationStatusCancelled,
	}
}

// IsValid checks if the reservation status is valid
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusPending,
		ReservationStatusConfirmed,
		ReservationStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed from s
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusConfirmed || s == ReservationStatusCancelled
}

// CanTransitionTo reports whether s may move to next. Staying in the same
// status is always allowed.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	if !next.IsValid() {
		return false
	}
	if s == next {
		return true
	}
	return s == ReservationStatusPending
}

func (s ReservationStatus) String() string {
	return string(s)
}

// ParseReservationStatus parses a string into a ReservationStatus
func ParseReservationStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid reservation status: %s", s)
	}
	return status, nil
}
