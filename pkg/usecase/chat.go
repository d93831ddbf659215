package usecase

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/interfaces"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/domain/types"
	"github.com/secmon-lab/dinewise/pkg/service/assistant"
	"github.com/secmon-lab/dinewise/pkg/utils/logging"
)

const (
	// SearchReplySuffix follows the composer's reasoning in a search reply
	SearchReplySuffix = "\n\nI found some great options for you. Would you like me to call one of these restaurants to check availability?"

	// SearchApologyReply replaces the reply when restaurant search fails
	SearchApologyReply = "I'm having trouble searching for restaurants right now. Let me help you in another way - could you tell me more about what you're looking for?"

	// EmptyReply is used when the language model answers with no text
	EmptyReply = "I'm sorry, I couldn't process that request."
)

// TurnInput is one user message addressed to a conversation
type TurnInput struct {
	ConversationID int64
	Utterance      string
}

// TurnResult is the assistant's answer to one turn
type TurnResult struct {
	Message         model.Message
	Recommendations []*model.Restaurant
	Intent          types.Intent
}

type ChatUseCase struct {
	repo      interfaces.Repository
	llm       assistant.Service
	classify  *ClassifyUseCase
	recommend *RecommendUseCase
	provider  provider
	now       func() time.Time
}

func NewChatUseCase(repo interfaces.Repository, llm assistant.Service, classify *ClassifyUseCase, recommend *RecommendUseCase, p provider, now func() time.Time) *ChatUseCase {
	if now == nil {
		now = time.Now
	}
	return &ChatUseCase{
		repo:      repo,
		llm:       llm,
		classify:  classify,
		recommend: recommend,
		provider:  p,
		now:       now,
	}
}

// GetOrCreateConversation returns the user's most recent conversation,
// creating an empty one when the user has none
func (uc *ChatUseCase) GetOrCreateConversation(ctx context.Context, userID int64) (*model.Conversation, error) {
	convs, err := uc.repo.Conversation().ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, "failed to list conversations", goerr.V(UserIDKey, userID))
	}
	if len(convs) > 0 {
		return convs[len(convs)-1], nil
	}

	created, err := uc.repo.Conversation().Create(ctx, &model.Conversation{
		UserID:   userID,
		Messages: []model.Message{},
	})
	if err != nil {
		return nil, storeError(err, "failed to create conversation", goerr.V(UserIDKey, userID))
	}

	logging.From(ctx).Info("conversation created", "conversation_id", created.ID, "user_id", userID)
	return created, nil
}

// GetConversation returns a conversation visible to userID
func (uc *ChatUseCase) GetConversation(ctx context.Context, userID, conversationID int64) (*model.Conversation, error) {
	conv, err := uc.repo.Conversation().Get(ctx, conversationID)
	if err != nil {
		return nil, storeError(err, "failed to get conversation", goerr.V(ConversationIDKey, conversationID))
	}
	if conv.UserID != 0 && conv.UserID != userID {
		return nil, fail(ErrNotFound, nil, "conversation not found",
			goerr.V(ConversationIDKey, conversationID),
			goerr.V(UserIDKey, userID),
		)
	}
	return conv, nil
}

// SubmitTurn runs one conversational turn: classify, branch into search or
// general reply, then persist both messages and the updated context. Either
// both messages are stored or neither is.
func (uc *ChatUseCase) SubmitTurn(ctx context.Context, userID int64, input TurnInput) (*TurnResult, error) {
	utterance := strings.TrimSpace(input.Utterance)
	if utterance == "" {
		return nil, fail(ErrInvalidRequest, nil, "message is required")
	}

	conv, err := uc.GetConversation(ctx, userID, input.ConversationID)
	if err != nil {
		return nil, err
	}

	ctx = logging.With(ctx, logging.From(ctx).With("conversation_id", conv.ID))

	var (
		location    string
		preferences model.Preferences
	)
	if conv.UserID != 0 {
		if owner, err := uc.repo.User().Get(ctx, conv.UserID); err == nil {
			location = owner.Location
			preferences = owner.Preferences
		} else {
			logging.From(ctx).Warn("owner lookup failed, continuing without preferences", "error", err, "user_id", conv.UserID)
		}
	}

	intent := uc.classify.Classify(ctx, assistant.ClassifyInput{
		Utterance:   utterance,
		Location:    location,
		Preferences: preferences,
		History:     conv.Messages,
	})

	var lastTimestamp time.Time
	if last := conv.LastMessage(); last != nil {
		lastTimestamp = last.Timestamp
	}

	userMsg := model.Message{
		ID:        model.NewMessageID(),
		Role:      types.MessageRoleUser,
		Content:   utterance,
		Timestamp: nextTimestamp(lastTimestamp, uc.now()),
		Metadata:  model.MessageMetadata{Intent: intent},
	}
	messages := append(slices.Clone(conv.Messages), userMsg)

	searchLocation := intent.Entities.Location
	if searchLocation == "" {
		searchLocation = location
	}
	if searchLocation == "" {
		searchLocation = conv.Context.LastLocation
	}

	var (
		reply           string
		recommendations []*model.Restaurant
		branch          string
	)

	if intent.Intent == types.IntentSearchRestaurants && searchLocation != "" {
		rec, err := uc.recommend.Recommend(ctx, RecommendInput{
			Request:     utterance,
			Location:    searchLocation,
			Preferences: preferences,
			Entities:    intent.Entities,
		})
		if err != nil {
			logging.From(ctx).Warn("restaurant search failed", "error", err)
			reply = SearchApologyReply
			recommendations = []*model.Restaurant{}
			branch = "search_failed"
		} else {
			reply = rec.Reasoning + SearchReplySuffix
			recommendations = rec.Restaurants
			branch = "search"
		}
	} else {
		reply, err = uc.generateReply(ctx, messages, location, preferences)
		if err != nil {
			return nil, err
		}
		branch = "reply"
	}

	recommendationIDs := make([]int64, 0, len(recommendations))
	for _, r := range recommendations {
		recommendationIDs = append(recommendationIDs, r.ID)
	}

	assistantMsg := model.Message{
		ID:        model.NewMessageID(),
		Role:      types.MessageRoleAssistant,
		Content:   reply,
		Timestamp: nextTimestamp(userMsg.Timestamp, uc.now()),
		Metadata: model.MessageMetadata{
			ResolvedIntent:    intent.Intent,
			RecommendationIDs: recommendationIDs,
		},
	}
	messages = append(messages, assistantMsg)

	conv.Messages = messages
	conv.Context.LastIntent = intent.Intent
	conv.Context.LastRecommendations = slices.Clone(recommendationIDs)
	if intent.Entities.Location != "" {
		conv.Context.LastLocation = intent.Entities.Location
	}
	if intent.Entities.Cuisine != "" {
		conv.Context.LastCuisine = intent.Entities.Cuisine
	}

	if _, err := uc.repo.Conversation().Update(ctx, conv); err != nil {
		return nil, storeError(err, "failed to save conversation turn", goerr.V(ConversationIDKey, conv.ID))
	}

	uc.provider.metrics.ObserveTurn(intent.Intent.String(), branch)
	logging.From(ctx).Info("turn completed",
		"intent", intent.Intent,
		"confidence", intent.Confidence,
		"branch", branch,
		"recommendations", len(recommendations),
	)

	return &TurnResult{
		Message:         assistantMsg,
		Recommendations: recommendations,
		Intent:          intent.Intent,
	}, nil
}

func (uc *ChatUseCase) generateReply(ctx context.Context, history []model.Message, location string, preferences model.Preferences) (string, error) {
	if uc.llm == nil {
		return "", fail(ErrProviderFailure, nil, "language model is not configured")
	}

	var text string
	err := uc.provider.call(ctx, "llm", "generate_reply", func(ctx context.Context) error {
		var err error
		text, err = uc.llm.GenerateReply(ctx, assistant.ReplyInput{
			History:     history,
			Location:    location,
			Preferences: preferences,
		})
		return err
	})
	if err != nil {
		return "", fail(ErrProviderFailure, err, "failed to generate reply")
	}

	if text == "" {
		return EmptyReply, nil
	}
	return text, nil
}

// nextTimestamp returns now truncated to microseconds, moved forward when
// needed so that it is strictly after prev
func nextTimestamp(prev, now time.Time) time.Time {
	ts := now.UTC().Truncate(time.Microsecond)
	if !ts.After(prev) {
		ts = prev.Add(time.Microsecond)
	}
	return ts
}
