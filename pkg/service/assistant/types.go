package assistant

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
)

// ErrInvalidResponse is returned when the model output cannot be used
var ErrInvalidResponse = goerr.New("invalid response from language model")

// Service defines the language-model backed operations of the assistant
type Service interface {
	// ClassifyIntent maps an utterance to an intent with entities. Any
	// malformed model output is reported as ErrInvalidResponse.
	ClassifyIntent(ctx context.Context, input ClassifyInput) (*model.IntentResult, error)

	// ComposeRecommendations asks the model for 2-3 candidate restaurants
	// with reasoning
	ComposeRecommendations(ctx context.Context, input RecommendInput) (*Recommendation, error)

	// GenerateReply produces a free-form assistant reply to the latest
	// user message in History
	GenerateReply(ctx context.Context, input ReplyInput) (string, error)

	// ComposeCallScript produces what the voice agent says when calling a
	// restaurant for a booking
	ComposeCallScript(ctx context.Context, input CallScriptInput) (*CallScript, error)
}

// ClassifyInput is the utterance plus what is known about the speaker
type ClassifyInput struct {
	Utterance   string
	Location    string
	Preferences model.Preferences
	History     []model.Message
}

// RecommendInput is a free-form dining request
type RecommendInput struct {
	Request     string
	Location    string
	Preferences model.Preferences
}

// Recommendation is the model's proposal for a dining request
type Recommendation struct {
	Reasoning  string      `json:"reasoning"`
	Candidates []Candidate `json:"recommendations"`
	FollowUps  []string    `json:"followUpQuestions,omitempty"`
}

// Candidate is one restaurant idea from the model
type Candidate struct {
	Name        string `json:"name"`
	Cuisine     string `json:"cuisine"`
	PriceRange  string `json:"priceRange"`
	Reason      string `json:"reason"`
	SearchQuery string `json:"searchQuery"`
}

// ReplyInput is the conversation so far, ending with the user message to answer
type ReplyInput struct {
	History     []model.Message
	Location    string
	Preferences model.Preferences
}

// BookingDetails describes the table being requested
type BookingDetails struct {
	RestaurantName  string `json:"restaurantName"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	PartySize       int    `json:"partySize"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

// CallScriptInput is what the script is generated from
type CallScriptInput struct {
	Restaurant *model.Restaurant
	Details    BookingDetails
	User       *model.User
}

// CallScript is the generated phone conversation plan
type CallScript struct {
	Script            string   `json:"callScript"`
	ExpectedResponses []string `json:"expectedResponses"`
	FallbackOptions   []string `json:"fallbackOptions"`
}
