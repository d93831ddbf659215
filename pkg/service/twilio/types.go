package twilio

import (
	"context"
	"time"
)

// EstimatedCallDuration is reported for every placed call
const EstimatedCallDuration = 120 * time.Second

// SimulatedHandlePrefix marks call handles issued by the simulator
const SimulatedHandlePrefix = "DEMO_"

// Service defines the interface for outbound reservation calls
type Service interface {
	// PlaceCall dials the restaurant and speaks the reservation request
	PlaceCall(ctx context.Context, req CallRequest) (*CallResult, error)

	// CallStatus fetches the live state of a placed call
	CallStatus(ctx context.Context, handle string) (*CallStatus, error)

	// Simulated reports whether calls are faked instead of dialed
	Simulated() bool
}

// CallRequest is what PlaceCall needs
type CallRequest struct {
	To      string
	Script  string
	Details CallDetails
}

// CallDetails is spoken to the restaurant during the call
type CallDetails struct {
	RestaurantName  string
	Date            string
	Time            string
	PartySize       int
	CustomerName    string
	CustomerPhone   string
	SpecialRequests string
}

// CallResult is the telephony provider's answer to a call request
type CallResult struct {
	Handle            string        `json:"callSid"`
	Status            string        `json:"status"`
	EstimatedDuration time.Duration `json:"-"`
}

// EstimatedSeconds is EstimatedDuration in whole seconds
func (r *CallResult) EstimatedSeconds() int {
	return int(r.EstimatedDuration / time.Second)
}

// CallStatus is the state of a placed call. Duration is nil until the
// provider reports it.
type CallStatus struct {
	Status       string `json:"status"`
	Duration     *int   `json:"duration"`
	RecordingURL string `json:"recordingUrl,omitempty"`
}
