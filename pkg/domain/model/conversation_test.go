package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/domain/types"
)

func TestConversation_CloneIsDeep(t *testing.T) {
	orig := &model.Conversation{
		ID:     1,
		UserID: 1,
		Messages: []model.Message{
			{
				ID:        model.NewMessageID(),
				Role:      types.MessageRoleUser,
				Content:   "italian food",
				Timestamp: time.Now(),
				Metadata: model.MessageMetadata{
					Intent: &model.IntentResult{
						Intent:   types.IntentSearchRestaurants,
						Entities: model.Entities{DietaryRestrictions: []string{"vegan"}},
					},
				},
			},
			{
				ID:       model.NewMessageID(),
				Role:     types.MessageRoleAssistant,
				Metadata: model.MessageMetadata{RecommendationIDs: []int64{1, 2}},
			},
		},
		Context: model.ConversationContext{LastRecommendations: []int64{1, 2}},
	}

	c := orig.Clone()
	c.Messages[0].Metadata.Intent.Entities.DietaryRestrictions[0] = "halal"
	c.Messages[1].Metadata.RecommendationIDs[0] = 99
	c.Context.LastRecommendations[0] = 99
	c.Messages = append(c.Messages, model.Message{Content: "extra"})

	gt.Value(t, orig.Messages[0].Metadata.Intent.Entities.DietaryRestrictions[0]).Equal("vegan")
	gt.Value(t, orig.Messages[1].Metadata.RecommendationIDs[0]).Equal(int64(1))
	gt.Value(t, orig.Context.LastRecommendations[0]).Equal(int64(1))
	gt.A(t, orig.Messages).Length(2)
	gt.Value(t, c.LastMessage().Content).Equal("extra")
}

func TestNewMessageID_Unique(t *testing.T) {
	seen := make(map[model.MessageID]bool)
	for range 100 {
		id := model.NewMessageID()
		gt.Bool(t, seen[id]).False()
		seen[id] = true
	}
}

func TestFallbackIntentResult(t *testing.T) {
	r := model.FallbackIntentResult()
	gt.Value(t, r.Intent).Equal(types.IntentGeneralChat)
	gt.Bool(t, r.Entities.IsEmpty()).True()
	gt.Value(t, r.Confidence).Equal(0.5)
}
