package types

import "fmt"

// Intent is the classified purpose of a user utterance
type Intent string

const (
	IntentSearchRestaurants Intent = "search_restaurants"
	IntentMakeReservation   Intent = "make_reservation"
	IntentGeneralChat       Intent = "general_chat"
	IntentModifyPreferences Intent = "modify_preferences"
)

// AllIntents returns all valid intents
func AllIntents() []Intent {
	return []Intent{
		IntentSearchRestaurants,
		IntentMakeReservation,
		IntentGeneralChat,
		IntentModifyPreferences,
	}
}

// IsValid checks if the intent is one of the known intents
func (i Intent) IsValid() bool {
	switch i {
	case IntentSearchRestaurants,
		IntentMakeReservation,
		IntentGeneralChat,
		IntentModifyPreferences:
		return true
	default:
		return false
	}
}

func (i Intent) String() string {
	return string(i)
}

// ParseIntent parses a string into an Intent
func ParseIntent(s string) (Intent, error) {
	intent := Intent(s)
	if !intent.IsValid() {
		return "", fmt.Errorf("invalid intent: %s", s)
	}
	return intent, nil
}
