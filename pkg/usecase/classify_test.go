package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/domain/types"
	"github.com/secmon-lab/dinewise/pkg/repository/memory"
	"github.com/secmon-lab/dinewise/pkg/service/assistant"
	"github.com/secmon-lab/dinewise/pkg/usecase"
	"github.com/secmon-lab/dinewise/pkg/utils/metrics"
)

func TestClassifyUseCase_Classify(t *testing.T) {
	input := assistant.ClassifyInput{Utterance: "find tacos", Location: "Downtown SF"}

	testCases := []struct {
		name     string
		classify func(context.Context, assistant.ClassifyInput) (*model.IntentResult, error)
		want     types.Intent
		fallback bool
	}{
		{
			name: "valid result passes through",
			classify: func(context.Context, assistant.ClassifyInput) (*model.IntentResult, error) {
				return &model.IntentResult{Intent: types.IntentSearchRestaurants, Entities: model.Entities{Cuisine: "Mexican"}, Confidence: 0.9}, nil
			},
			want: types.IntentSearchRestaurants,
		},
		{
			name: "invalid response",
			classify: func(context.Context, assistant.ClassifyInput) (*model.IntentResult, error) {
				return nil, assistant.ErrInvalidResponse
			},
			want:     types.IntentGeneralChat,
			fallback: true,
		},
		{
			name: "unknown intent",
			classify: func(context.Context, assistant.ClassifyInput) (*model.IntentResult, error) {
				return &model.IntentResult{Intent: "order_delivery", Confidence: 0.9}, nil
			},
			want:     types.IntentGeneralChat,
			fallback: true,
		},
		{
			name: "confidence out of range",
			classify: func(context.Context, assistant.ClassifyInput) (*model.IntentResult, error) {
				return &model.IntentResult{Intent: types.IntentSearchRestaurants, Confidence: 1.5}, nil
			},
			want:     types.IntentGeneralChat,
			fallback: true,
		},
		{
			name: "timeout",
			classify: func(ctx context.Context, _ assistant.ClassifyInput) (*model.IntentResult, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
			want:     types.IntentGeneralChat,
			fallback: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			uc := usecase.New(memory.New(),
				usecase.WithAssistant(&mockAssistant{classifyFunc: tc.classify}),
				usecase.WithProviderTimeout(20*time.Millisecond),
				usecase.WithMetrics(metrics.New(reg)),
			)

			result := uc.Classify.Classify(context.Background(), input)
			gt.Value(t, result).NotNil().Required()
			gt.Value(t, result.Intent).Equal(tc.want)
			if tc.fallback {
				gt.Value(t, *result).Equal(*model.FallbackIntentResult())
				n, err := testutil.GatherAndCount(reg, "dinewise_chat_classify_fallback_total")
				gt.NoError(t, err).Required()
				gt.Value(t, n).Equal(1)
			}
		})
	}
}

func TestClassifyUseCase_NoAssistant(t *testing.T) {
	uc := usecase.New(memory.New())
	result := uc.Classify.Classify(context.Background(), assistant.ClassifyInput{Utterance: "hi"})
	gt.Value(t, *result).Equal(*model.FallbackIntentResult())
}
