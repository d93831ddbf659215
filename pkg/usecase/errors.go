package usecase

import (
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/interfaces"
)

// Sentinel errors for use case layer. Every error returned by a use case
// wraps exactly one of them; check with errors.Is.
var (
	// ErrNotFound means a referenced record does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest means the caller supplied unusable input
	ErrInvalidRequest = errors.New("invalid request")

	// ErrProviderFailure means an external provider failed or timed out
	ErrProviderFailure = errors.New("provider failure")

	// ErrPersistenceFailure means the store failed for a reason other than a missing record
	ErrPersistenceFailure = errors.New("persistence failure")
)

// Context keys for error values
const (
	UserIDKey         = "user_id"
	ConversationIDKey = "conversation_id"
	RestaurantIDKey   = "restaurant_id"
	ReservationIDKey  = "reservation_id"
	CallHandleKey     = "call_handle"
)

// fail wraps cause (which may be nil) so that both kind and cause match errors.Is
func fail(kind, cause error, msg string, opts ...goerr.Option) error {
	if cause == nil {
		return goerr.Wrap(kind, msg, opts...)
	}
	return goerr.Wrap(fmt.Errorf("%w: %w", kind, cause), msg, opts...)
}

// storeError classifies a repository error as not-found or persistence failure
func storeError(err error, msg string, opts ...goerr.Option) error {
	if errors.Is(err, interfaces.ErrNotFound) {
		return fail(ErrNotFound, err, msg, opts...)
	}
	return fail(ErrPersistenceFailure, err, msg, opts...)
}
