package twilio

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/utils/logging"
)

// ErrNotConfigured is returned when a real call handle is queried without credentials
var ErrNotConfigured = goerr.New("twilio not configured")

const simulatedStatus = "completed"

// simulator fakes calls when no credentials are configured
type simulator struct{}

// NewSimulator returns a Service that never dials out
func NewSimulator() Service {
	return &simulator{}
}

func (s *simulator) Simulated() bool {
	return true
}

func (s *simulator) PlaceCall(ctx context.Context, req CallRequest) (*CallResult, error) {
	logging.From(ctx).Info("simulated reservation call",
		"to", req.To,
		"restaurant", req.Details.RestaurantName,
		"date", req.Details.Date,
		"time", req.Details.Time,
		"party_size", req.Details.PartySize,
	)

	return &CallResult{
		Handle:            SimulatedHandlePrefix + uuid.NewString(),
		Status:            simulatedStatus,
		EstimatedDuration: EstimatedCallDuration,
	}, nil
}

func (s *simulator) CallStatus(ctx context.Context, handle string) (*CallStatus, error) {
	if !strings.HasPrefix(handle, SimulatedHandlePrefix) {
		return nil, goerr.Wrap(ErrNotConfigured, "cannot check call status", goerr.V("call_sid", handle))
	}

	duration := int(EstimatedCallDuration.Seconds())
	return &CallStatus{
		Status:   simulatedStatus,
		Duration: &duration,
	}, nil
}
