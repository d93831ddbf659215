package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/dinewise/pkg/domain/types"
)

// MessageID identifies a message within a conversation
type MessageID string

// NewMessageID generates a time-ordered message ID
func NewMessageID() MessageID {
	id, err := uuid.NewV7()
	if err != nil {
		return MessageID(uuid.NewString())
	}
	return MessageID(id.String())
}

// Conversation is the running dialogue between a user and the assistant
type Conversation struct {
	ID        int64               `json:"id"`
	UserID    int64               `json:"userId,omitempty"` // 0 means anonymous
	Messages  []Message           `json:"messages"`
	Context   ConversationContext `json:"context"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// Message is a single utterance in a conversation
type Message struct {
	ID        MessageID         `json:"id"`
	Role      types.MessageRole `json:"role"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  MessageMetadata   `json:"metadata"`
}

// MessageMetadata annotates a message. Intent is set on user messages;
// ResolvedIntent and RecommendationIDs on assistant messages.
type MessageMetadata struct {
	Intent            *IntentResult `json:"intent,omitempty"`
	ResolvedIntent    types.Intent  `json:"resolvedIntent,omitempty"`
	RecommendationIDs []int64       `json:"recommendations,omitempty"`
}

// ConversationContext is the state carried between turns
type ConversationContext struct {
	LastLocation        string       `json:"lastLocation,omitempty"`
	LastCuisine         string       `json:"lastCuisine,omitempty"`
	LastIntent          types.Intent `json:"lastIntent,omitempty"`
	LastRecommendations []int64      `json:"lastRecommendations,omitempty"`
	ActiveReservationID int64        `json:"activeReservationId,omitempty"`
}

// LastMessage returns the most recent message, or nil for an empty conversation
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// Clone returns a deep copy of the conversation
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Messages = make([]Message, len(c.Messages))
	for i, m := range c.Messages {
		cp.Messages[i] = m.Clone()
	}
	cp.Context.LastRecommendations = slices.Clone(c.Context.LastRecommendations)
	return &cp
}

// Clone returns a deep copy of the message
func (m Message) Clone() Message {
	m.Metadata.Intent = m.Metadata.Intent.Clone()
	m.Metadata.RecommendationIDs = slices.Clone(m.Metadata.RecommendationIDs)
	return m
}
