package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/interfaces"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/domain/types"
	"github.com/secmon-lab/dinewise/pkg/service/assistant"
	"github.com/secmon-lab/dinewise/pkg/service/twilio"
	"github.com/secmon-lab/dinewise/pkg/utils/errutil"
	"github.com/secmon-lab/dinewise/pkg/utils/logging"
)

const (
	callDateLayout = "2006-01-02"
	callTimeLayout = "15:04"

	defaultCustomerName = "Customer"
)

// CallInput asks for a reservation call to a stored restaurant
type CallInput struct {
	RestaurantID    int64
	PartySize       int
	Date            string // YYYY-MM-DD
	Time            string // HH:MM, 24h
	SpecialRequests string
	ConversationID  int64 // 0 means not linked
}

// CallResult is the pending reservation created for a placed call
type CallResult struct {
	Reservation       *model.Reservation
	CallStatus        string
	EstimatedDuration int // seconds
}

// StatusUpdate moves a reservation out of pending
type StatusUpdate struct {
	Status             types.ReservationStatus
	ConfirmationNumber string
	CallTranscript     string
}

type ReservationUseCase struct {
	repo     interfaces.Repository
	llm      assistant.Service
	caller   twilio.Service
	provider provider
}

func NewReservationUseCase(repo interfaces.Repository, llm assistant.Service, caller twilio.Service, p provider) *ReservationUseCase {
	if caller == nil {
		caller = twilio.NewSimulator()
	}
	return &ReservationUseCase{
		repo:     repo,
		llm:      llm,
		caller:   caller,
		provider: p,
	}
}

func parseCallDateTime(date, clock string) (time.Time, error) {
	d, err := time.ParseInLocation(callDateLayout, strings.TrimSpace(date), time.UTC)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "invalid date", goerr.V("date", date))
	}
	c, err := time.ParseInLocation(callTimeLayout, strings.TrimSpace(clock), time.UTC)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "invalid time", goerr.V("time", clock))
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, time.UTC), nil
}

// RequestCall composes a call script, places the call and records a pending
// reservation carrying the call handle
func (uc *ReservationUseCase) RequestCall(ctx context.Context, userID int64, input CallInput) (*CallResult, error) {
	if input.PartySize <= 0 {
		return nil, fail(ErrInvalidRequest, nil, "party size must be positive", goerr.V("party_size", input.PartySize))
	}
	dateTime, err := parseCallDateTime(input.Date, input.Time)
	if err != nil {
		return nil, fail(ErrInvalidRequest, err, "invalid reservation date or time")
	}

	restaurant, err := uc.repo.Restaurant().Get(ctx, input.RestaurantID)
	if err != nil {
		return nil, storeError(err, "failed to get restaurant", goerr.V(RestaurantIDKey, input.RestaurantID))
	}
	if !restaurant.HasPhone() {
		return nil, fail(ErrInvalidRequest, nil, "restaurant phone number not available", goerr.V(RestaurantIDKey, restaurant.ID))
	}

	user, err := uc.repo.User().Get(ctx, userID)
	if err != nil {
		return nil, storeError(err, "failed to get user", goerr.V(UserIDKey, userID))
	}

	var conv *model.Conversation
	if input.ConversationID != 0 {
		conv, err = uc.repo.Conversation().Get(ctx, input.ConversationID)
		if err != nil {
			return nil, storeError(err, "failed to get conversation", goerr.V(ConversationIDKey, input.ConversationID))
		}
		if conv.UserID != 0 && conv.UserID != userID {
			return nil, fail(ErrNotFound, nil, "conversation not found", goerr.V(ConversationIDKey, input.ConversationID))
		}
	}

	details := assistant.BookingDetails{
		RestaurantName:  restaurant.Name,
		Date:            input.Date,
		Time:            input.Time,
		PartySize:       input.PartySize,
		SpecialRequests: input.SpecialRequests,
	}

	script, err := uc.composeScript(ctx, restaurant, details, user)
	if err != nil {
		return nil, err
	}

	customerName := user.Username
	if customerName == "" {
		customerName = defaultCustomerName
	}

	var placed *twilio.CallResult
	err = uc.provider.call(ctx, "twilio", "place_call", func(ctx context.Context) error {
		var err error
		placed, err = uc.caller.PlaceCall(ctx, twilio.CallRequest{
			To:     restaurant.Phone,
			Script: script,
			Details: twilio.CallDetails{
				RestaurantName:  restaurant.Name,
				Date:            input.Date,
				Time:            input.Time,
				PartySize:       input.PartySize,
				CustomerName:    customerName,
				SpecialRequests: input.SpecialRequests,
			},
		})
		return err
	})
	if err != nil {
		return nil, fail(ErrProviderFailure, err, "failed to place reservation call", goerr.V(RestaurantIDKey, restaurant.ID))
	}
	uc.provider.metrics.ObserveCall(uc.caller.Simulated(), placed.Status)

	reservation, err := uc.repo.Reservation().Create(ctx, &model.Reservation{
		UserID:         userID,
		RestaurantID:   restaurant.ID,
		ConversationID: input.ConversationID,
		PartySize:      input.PartySize,
		DateTime:       dateTime,
		Status:         types.ReservationStatusPending,
		CallHandle:     placed.Handle,
		Confirmation: model.ConfirmationDetails{
			SpecialRequests: input.SpecialRequests,
		},
	})
	if err != nil {
		return nil, fail(ErrPersistenceFailure, err, "failed to save reservation", goerr.V(CallHandleKey, placed.Handle))
	}

	// The call is placed and the reservation saved; a failed link is
	// reported but does not fail the request
	if conv != nil {
		if err := uc.repo.Conversation().SetActiveReservation(ctx, conv.ID, reservation.ID); err != nil {
			_ = errutil.Handle(ctx, goerr.Wrap(err, "failed to link reservation to conversation",
				goerr.V(ConversationIDKey, conv.ID),
				goerr.V(ReservationIDKey, reservation.ID),
			), "reservation left unlinked")
		}
	}

	logging.From(ctx).Info("reservation call requested",
		"reservation_id", reservation.ID,
		"restaurant_id", restaurant.ID,
		"call_handle", placed.Handle,
		"simulated", uc.caller.Simulated(),
	)

	return &CallResult{
		Reservation:       reservation,
		CallStatus:        placed.Status,
		EstimatedDuration: placed.EstimatedSeconds(),
	}, nil
}

func (uc *ReservationUseCase) composeScript(ctx context.Context, restaurant *model.Restaurant, details assistant.BookingDetails, user *model.User) (string, error) {
	if uc.llm == nil {
		return "", fail(ErrProviderFailure, nil, "language model is not configured")
	}

	var script *assistant.CallScript
	err := uc.provider.call(ctx, "llm", "compose_call_script", func(ctx context.Context) error {
		var err error
		script, err = uc.llm.ComposeCallScript(ctx, assistant.CallScriptInput{
			Restaurant: restaurant,
			Details:    details,
			User:       user,
		})
		return err
	})
	if err != nil {
		return "", fail(ErrProviderFailure, err, "failed to compose call script", goerr.V(RestaurantIDKey, restaurant.ID))
	}
	return script.Script, nil
}

// CheckCallStatus queries the telephony provider. It never modifies the
// reservation; use UpdateStatus to record the outcome.
func (uc *ReservationUseCase) CheckCallStatus(ctx context.Context, handle string) (*twilio.CallStatus, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, fail(ErrInvalidRequest, nil, "call handle is required")
	}

	var status *twilio.CallStatus
	err := uc.provider.call(ctx, "twilio", "call_status", func(ctx context.Context) error {
		var err error
		status, err = uc.caller.CallStatus(ctx, handle)
		return err
	})
	if err != nil {
		return nil, fail(ErrProviderFailure, err, "failed to get call status", goerr.V(CallHandleKey, handle))
	}
	return status, nil
}

// UpdateStatus records the outcome of a call. Only pending reservations can
// change; setting the current status again is a no-op.
func (uc *ReservationUseCase) UpdateStatus(ctx context.Context, userID, reservationID int64, update StatusUpdate) (*model.Reservation, error) {
	if !update.Status.IsValid() {
		return nil, fail(ErrInvalidRequest, nil, "invalid reservation status", goerr.V("status", update.Status))
	}

	reservation, err := uc.get(ctx, userID, reservationID)
	if err != nil {
		return nil, err
	}

	if reservation.Status == update.Status {
		return reservation, nil
	}
	if !reservation.Status.CanTransitionTo(update.Status) {
		return nil, fail(ErrInvalidRequest, nil, "reservation status cannot change",
			goerr.V(ReservationIDKey, reservationID),
			goerr.V("from", reservation.Status),
			goerr.V("to", update.Status),
		)
	}

	reservation.Status = update.Status
	if update.ConfirmationNumber != "" {
		reservation.Confirmation.ConfirmationNumber = update.ConfirmationNumber
	}
	if update.CallTranscript != "" {
		reservation.Confirmation.CallTranscript = update.CallTranscript
	}

	updated, err := uc.repo.Reservation().Update(ctx, reservation)
	if err != nil {
		return nil, storeError(err, "failed to update reservation", goerr.V(ReservationIDKey, reservationID))
	}

	logging.From(ctx).Info("reservation status updated", "reservation_id", reservationID, "status", updated.Status)
	return updated, nil
}

// get returns one of the user's reservations
func (uc *ReservationUseCase) get(ctx context.Context, userID, reservationID int64) (*model.Reservation, error) {
	reservation, err := uc.repo.Reservation().Get(ctx, reservationID)
	if err != nil {
		return nil, storeError(err, "failed to get reservation", goerr.V(ReservationIDKey, reservationID))
	}
	if reservation.UserID != userID {
		return nil, fail(ErrNotFound, nil, "reservation not found",
			goerr.V(ReservationIDKey, reservationID),
			goerr.V(UserIDKey, userID),
		)
	}
	return reservation, nil
}

// List returns the user's reservations, newest first, each with its restaurant
func (uc *ReservationUseCase) List(ctx context.Context, userID int64) ([]*model.ReservationDetail, error) {
	reservations, err := uc.repo.Reservation().ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, "failed to list reservations", goerr.V(UserIDKey, userID))
	}

	details := make([]*model.ReservationDetail, 0, len(reservations))
	for _, r := range reservations {
		restaurant, err := lookupRestaurant(ctx, uc.repo, r.RestaurantID)
		if err != nil {
			return nil, err
		}
		details = append(details, &model.ReservationDetail{Reservation: r, Restaurant: restaurant})
	}
	return details, nil
}
