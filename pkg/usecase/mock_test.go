package usecase_test

import (
	"context"
	"sync"

	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/domain/types"
	"github.com/secmon-lab/dinewise/pkg/service/assistant"
	"github.com/secmon-lab/dinewise/pkg/service/twilio"
	"github.com/secmon-lab/dinewise/pkg/service/yelp"
)

// mockAssistant is a mock implementation of assistant.Service
type mockAssistant struct {
	mu sync.Mutex

	classifyFunc  func(ctx context.Context, input assistant.ClassifyInput) (*model.IntentResult, error)
	recommendFunc func(ctx context.Context, input assistant.RecommendInput) (*assistant.Recommendation, error)
	replyFunc     func(ctx context.Context, input assistant.ReplyInput) (string, error)
	scriptFunc    func(ctx context.Context, input assistant.CallScriptInput) (*assistant.CallScript, error)

	classifyInputs []assistant.ClassifyInput
	replyInputs    []assistant.ReplyInput
	scriptInputs   []assistant.CallScriptInput
}

func (m *mockAssistant) ClassifyIntent(ctx context.Context, input assistant.ClassifyInput) (*model.IntentResult, error) {
	m.mu.Lock()
	m.classifyInputs = append(m.classifyInputs, input)
	m.mu.Unlock()
	if m.classifyFunc != nil {
		return m.classifyFunc(ctx, input)
	}
	return &model.IntentResult{Intent: types.IntentGeneralChat, Confidence: 0.9}, nil
}

func (m *mockAssistant) ComposeRecommendations(ctx context.Context, input assistant.RecommendInput) (*assistant.Recommendation, error) {
	if m.recommendFunc != nil {
		return m.recommendFunc(ctx, input)
	}
	return &assistant.Recommendation{Reasoning: "These places match your taste."}, nil
}

func (m *mockAssistant) GenerateReply(ctx context.Context, input assistant.ReplyInput) (string, error) {
	m.mu.Lock()
	m.replyInputs = append(m.replyInputs, input)
	m.mu.Unlock()
	if m.replyFunc != nil {
		return m.replyFunc(ctx, input)
	}
	return "Happy to help!", nil
}

func (m *mockAssistant) ComposeCallScript(ctx context.Context, input assistant.CallScriptInput) (*assistant.CallScript, error) {
	m.mu.Lock()
	m.scriptInputs = append(m.scriptInputs, input)
	m.mu.Unlock()
	if m.scriptFunc != nil {
		return m.scriptFunc(ctx, input)
	}
	return &assistant.CallScript{Script: "Hello, I would like to book a table."}, nil
}

// mockSearch is a mock implementation of yelp.Service
type mockSearch struct {
	mu         sync.Mutex
	businesses []yelp.Business
	err        error
	queries    []model.SearchQuery
}

func (m *mockSearch) Search(_ context.Context, query model.SearchQuery) ([]yelp.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.businesses, nil
}

// mockCaller is a mock implementation of twilio.Service
type mockCaller struct {
	placed    []twilio.CallRequest
	placeErr  error
	status    *twilio.CallStatus
	statusErr error
}

func (m *mockCaller) PlaceCall(_ context.Context, req twilio.CallRequest) (*twilio.CallResult, error) {
	if m.placeErr != nil {
		return nil, m.placeErr
	}
	m.placed = append(m.placed, req)
	return &twilio.CallResult{
		Handle:            "CA0001",
		Status:            "queued",
		EstimatedDuration: twilio.EstimatedCallDuration,
	}, nil
}

func (m *mockCaller) CallStatus(_ context.Context, _ string) (*twilio.CallStatus, error) {
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	return m.status, nil
}

func (m *mockCaller) Simulated() bool {
	return false
}

func business(id, name, category string) yelp.Business {
	return yelp.Business{
		ID:          id,
		Name:        name,
		Categories:  []yelp.Category{{Alias: category, Title: name + " Cuisine"}},
		Rating:      4.4,
		ReviewCount: 120,
		Price:       "$$",
		Phone:       "+14155550000",
		Location:    yelp.Location{DisplayAddress: []string{"1 Market St", "San Francisco, CA 94105"}},
	}
}
