package usecase

import (
	"context"
	"errors"

	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/service/assistant"
	"github.com/secmon-lab/dinewise/pkg/utils/logging"
)

// ClassifyUseCase turns an utterance into an intent. It never fails: any
// provider problem yields model.FallbackIntentResult.
type ClassifyUseCase struct {
	llm      assistant.Service
	provider provider
}

func NewClassifyUseCase(llm assistant.Service, p provider) *ClassifyUseCase {
	return &ClassifyUseCase{llm: llm, provider: p}
}

func (uc *ClassifyUseCase) Classify(ctx context.Context, input assistant.ClassifyInput) *model.IntentResult {
	if uc.llm == nil {
		return uc.fallback(ctx, "unavailable", nil)
	}

	var result *model.IntentResult
	err := uc.provider.call(ctx, "llm", "classify_intent", func(ctx context.Context) error {
		var err error
		result, err = uc.llm.ClassifyIntent(ctx, input)
		return err
	})

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return uc.fallback(ctx, "timeout", err)
	case errors.Is(err, assistant.ErrInvalidResponse):
		return uc.fallback(ctx, "invalid", err)
	case err != nil:
		return uc.fallback(ctx, "error", err)
	case !isValidIntentResult(result):
		return uc.fallback(ctx, "invalid", nil)
	}

	return result
}

func (uc *ClassifyUseCase) fallback(ctx context.Context, reason string, err error) *model.IntentResult {
	logging.From(ctx).Warn("intent classification fell back to general chat",
		"reason", reason,
		"error", err,
	)
	uc.provider.metrics.ObserveClassifyFallback(reason)
	return model.FallbackIntentResult()
}

func isValidIntentResult(r *model.IntentResult) bool {
	if r == nil || !r.Intent.IsValid() {
		return false
	}
	return r.Confidence >= 0 && r.Confidence <= 1
}
