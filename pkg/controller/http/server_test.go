package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpctrl "github.com/secmon-lab/dinewise/pkg/controller/http"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/domain/types"
	"github.com/secmon-lab/dinewise/pkg/repository/memory"
	"github.com/secmon-lab/dinewise/pkg/service/assistant"
	"github.com/secmon-lab/dinewise/pkg/service/yelp"
	"github.com/secmon-lab/dinewise/pkg/usecase"
	"github.com/secmon-lab/dinewise/pkg/utils/metrics"
)

type stubAssistant struct {
	intent types.Intent
}

func (s *stubAssistant) ClassifyIntent(context.Context, assistant.ClassifyInput) (*model.IntentResult, error) {
	return &model.IntentResult{Intent: s.intent, Entities: model.Entities{Cuisine: "Japanese"}, Confidence: 0.9}, nil
}

func (s *stubAssistant) ComposeRecommendations(context.Context, assistant.RecommendInput) (*assistant.Recommendation, error) {
	return &assistant.Recommendation{Reasoning: "Fresh fish nearby."}, nil
}

func (s *stubAssistant) GenerateReply(context.Context, assistant.ReplyInput) (string, error) {
	return "Hi! How can I help?", nil
}

func (s *stubAssistant) ComposeCallScript(context.Context, assistant.CallScriptInput) (*assistant.CallScript, error) {
	return &assistant.CallScript{Script: "Calling to book a table."}, nil
}

type stubSearch struct{}

func (stubSearch) Search(context.Context, model.SearchQuery) ([]yelp.Business, error) {
	return []yelp.Business{{
		ID:         "yelp-sushi",
		Name:       "Sushi Zone",
		Categories: []yelp.Category{{Alias: "japanese", Title: "Japanese"}},
		Rating:     4.6,
		Phone:      "+14155551234",
		Location:   yelp.Location{DisplayAddress: []string{"1815 Market St"}},
	}}, nil
}

type testServer struct {
	handler http.Handler
	llm     *stubAssistant
	repo    *memory.Memory
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	repo := memory.New()
	llm := &stubAssistant{intent: types.IntentGeneralChat}
	reg := prometheus.NewRegistry()
	uc := usecase.New(repo,
		usecase.WithAssistant(llm),
		usecase.WithSearch(stubSearch{}),
		usecase.WithMetrics(metrics.New(reg)),
	)

	_, err := uc.User.Seed(context.Background(), []*model.User{{
		Username:    "user",
		Location:    "Downtown SF",
		Preferences: model.Preferences{Cuisines: []string{"Italian", "Japanese"}, PriceRange: types.PriceRangeModerate},
	}})
	gt.NoError(t, err).Required()

	srv := httpctrl.New(uc, httpctrl.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	return &testServer{handler: srv, llm: llm, repo: repo}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		gt.NoError(t, json.NewEncoder(&buf).Encode(body)).Required()
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v)).Required()
	return v
}

func TestServer_Health(t *testing.T) {
	s := setupServer(t)
	rec := s.do(t, http.MethodGet, "/health", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
}

func TestServer_User(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodGet, "/api/user", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	user := decode[model.User](t, rec)
	gt.Value(t, user.Username).Equal("user")
	gt.Value(t, user.Location).Equal("Downtown SF")

	rec = s.do(t, http.MethodGet, "/api/user", nil, httpctrl.UserIDHeader, "42")
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)

	rec = s.do(t, http.MethodGet, "/api/user", nil, httpctrl.UserIDHeader, "abc")
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)

	rec = s.do(t, http.MethodPatch, "/api/user/preferences", map[string]any{
		"location":    "Oakland",
		"preferences": map[string]any{"cuisines": []string{"Thai"}, "priceRange": "$"},
	})
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	user = decode[model.User](t, rec)
	gt.Value(t, user.Location).Equal("Oakland")
	gt.Value(t, user.Preferences.PriceRange).Equal(types.PriceRangeBudget)

	rec = s.do(t, http.MethodPatch, "/api/user/preferences", map[string]any{
		"preferences": map[string]any{"priceRange": "cheap"},
	})
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
}

func TestServer_ChatFlow(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodGet, "/api/conversation", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	conv := decode[model.Conversation](t, rec)
	gt.Value(t, conv.ID).NotEqual(int64(0))

	rec = s.do(t, http.MethodPost, "/api/chat", map[string]any{"message": "hello", "conversationId": conv.ID})
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	var generic struct {
		Message         model.Message       `json:"message"`
		Recommendations []*model.Restaurant `json:"recommendations"`
		Intent          string              `json:"intent"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &generic)).Required()
	gt.Value(t, generic.Intent).Equal("general_chat")
	gt.Value(t, generic.Message.Content).Equal("Hi! How can I help?")
	gt.Array(t, generic.Recommendations).Length(0)
	gt.String(t, rec.Body.String()).Contains(`"recommendations":[]`)

	s.llm.intent = types.IntentSearchRestaurants
	rec = s.do(t, http.MethodPost, "/api/chat", map[string]any{"message": "Find nearby sushi", "conversationId": conv.ID})
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &generic)).Required()
	gt.Value(t, generic.Intent).Equal("search_restaurants")
	gt.Array(t, generic.Recommendations).Length(1).Required()
	gt.Bool(t, strings.HasPrefix(generic.Message.Content, "Fresh fish nearby.")).True()
	restaurantID := generic.Recommendations[0].ID

	rec = s.do(t, http.MethodGet, "/api/conversation", nil)
	conv = decode[model.Conversation](t, rec)
	gt.Array(t, conv.Messages).Length(4)
	gt.Value(t, conv.Context.LastIntent).Equal(types.IntentSearchRestaurants)

	rec = s.do(t, http.MethodGet, "/api/restaurants/"+itoa(restaurantID), nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, decode[model.Restaurant](t, rec).Name).Equal("Sushi Zone")

	// reservation call
	rec = s.do(t, http.MethodPost, "/api/reservation/call", map[string]any{
		"restaurantId": restaurantID,
		"partySize":    2,
		"date":         "2024-06-01",
		"time":         "19:30",
	})
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	var call struct {
		Reservation       model.Reservation `json:"reservation"`
		CallStatus        string            `json:"callStatus"`
		EstimatedDuration int               `json:"estimatedDuration"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &call)).Required()
	gt.Value(t, call.CallStatus).Equal("completed")
	gt.Value(t, call.EstimatedDuration).Equal(120)
	gt.Value(t, call.Reservation.Status).Equal(types.ReservationStatusPending)

	rec = s.do(t, http.MethodGet, "/api/reservation/call/"+call.Reservation.CallHandle+"/status", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.String(t, rec.Body.String()).Contains(`"status":"completed"`)

	rec = s.do(t, http.MethodGet, "/api/reservations", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.String(t, rec.Body.String()).Contains(`"name":"Sushi Zone"`)

	rec = s.do(t, http.MethodPatch, "/api/reservations/"+itoa(call.Reservation.ID)+"/status", map[string]any{"status": "confirmed"})
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	rec = s.do(t, http.MethodPatch, "/api/reservations/"+itoa(call.Reservation.ID)+"/status", map[string]any{"status": "cancelled"})
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)

	// metrics reflect the turns
	rec = s.do(t, http.MethodGet, "/metrics", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.String(t, rec.Body.String()).Contains("dinewise_chat_turns_total")
}

func TestServer_ChatErrors(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodPost, "/api/chat", map[string]any{"message": "hello"})
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	gt.String(t, rec.Body.String()).Contains("message")

	rec = s.do(t, http.MethodPost, "/api/chat", map[string]any{"message": "hello", "conversationId": 999})
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	gt.Value(t, w.Code).Equal(http.StatusBadRequest)
}

func TestServer_ReservationErrors(t *testing.T) {
	s := setupServer(t)
	ctx := context.Background()

	phoneless, err := s.repo.Restaurant().Create(ctx, &model.Restaurant{Name: "No Phone Diner"})
	gt.NoError(t, err).Required()

	rec := s.do(t, http.MethodPost, "/api/reservation/call", map[string]any{
		"restaurantId": phoneless.ID, "partySize": 2, "date": "2024-06-01", "time": "19:30",
	})
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)

	rec = s.do(t, http.MethodPost, "/api/reservation/call", map[string]any{
		"restaurantId": 999, "partySize": 2, "date": "2024-06-01", "time": "19:30",
	})
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)

	rec = s.do(t, http.MethodGet, "/api/reservation/call/CA123/status", nil)
	gt.Value(t, rec.Code).Equal(http.StatusBadGateway)
}

func TestServer_Favorites(t *testing.T) {
	s := setupServer(t)
	ctx := context.Background()

	restaurant, err := s.repo.Restaurant().Create(ctx, &model.Restaurant{Name: "Tartine", Cuisine: "Bakery"})
	gt.NoError(t, err).Required()
	path := "/api/favorites/" + itoa(restaurant.ID)

	rec := s.do(t, http.MethodPost, "/api/favorites", map[string]any{"restaurantId": restaurant.ID})
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	rec = s.do(t, http.MethodPost, "/api/favorites", map[string]any{"restaurantId": restaurant.ID})
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	rec = s.do(t, http.MethodGet, "/api/favorites", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	var list []map[string]any
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list)).Required()
	gt.Array(t, list).Length(1)

	rec = s.do(t, http.MethodDelete, path, nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.String(t, rec.Body.String()).Contains("Favorite removed")

	rec = s.do(t, http.MethodDelete, path, nil)
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)

	rec = s.do(t, http.MethodDelete, "/api/favorites/zero", nil)
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
}
