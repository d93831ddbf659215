package assistant

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/domain/types"
)

// client implements Service interface
type client struct {
	llmClient gollem.LLMClient
}

// Option is a functional option for client configuration
type Option func(*client)

// New creates a new assistant service backed by the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient: llmClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// generateJSON runs a single structured-output exchange and returns the raw JSON text
func (c *client) generateJSON(ctx context.Context, systemPrompt, userPrompt string, schema *gollem.Parameter) (string, error) {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(schema),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(userPrompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return "", goerr.Wrap(ErrInvalidResponse, "empty LLM response")
	}

	return strings.Join(resp.Texts, ""), nil
}

// llmIntent is the structured output of intent classification. PartySize
// and Confidence are decoded loosely since models sometimes quote numbers.
type llmIntent struct {
	Intent     string          `json:"intent"`
	Entities   llmEntities     `json:"entities"`
	Confidence json.RawMessage `json:"confidence"`
}

type llmEntities struct {
	Cuisine             string          `json:"cuisine"`
	PriceRange          string          `json:"priceRange"`
	Location            string          `json:"location"`
	PartySize           json.RawMessage `json:"partySize"`
	DateTime            string          `json:"dateTime"`
	Mood                string          `json:"mood"`
	DietaryRestrictions []string        `json:"dietaryRestrictions"`
}

// looseNumber accepts a JSON number or a numeric string. null and absent
// values decode to ok=false.
func looseNumber(raw json.RawMessage) (float64, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, false
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ClassifyIntent maps an utterance to an intent with entities
func (c *client) ClassifyIntent(ctx context.Context, input ClassifyInput) (*model.IntentResult, error) {
	text, err := c.generateJSON(ctx, buildClassifySystemPrompt(), buildClassifyUserPrompt(input), intentSchema())
	if err != nil {
		return nil, err
	}

	return parseIntent(text)
}

func parseIntent(text string) (*model.IntentResult, error) {
	var out llmIntent
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, goerr.Wrap(ErrInvalidResponse, "failed to parse intent response",
			goerr.V("response", text), goerr.V("cause", err.Error()))
	}

	intent, err := types.ParseIntent(out.Intent)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidResponse, "unknown intent", goerr.V("intent", out.Intent))
	}

	confidence, ok := looseNumber(out.Confidence)
	if !ok || confidence < 0 || confidence > 1 {
		return nil, goerr.Wrap(ErrInvalidResponse, "confidence out of range",
			goerr.V("confidence", string(out.Confidence)))
	}

	entities := model.Entities{
		Cuisine:             strings.TrimSpace(out.Entities.Cuisine),
		Location:            strings.TrimSpace(out.Entities.Location),
		DateTime:            strings.TrimSpace(out.Entities.DateTime),
		Mood:                strings.TrimSpace(out.Entities.Mood),
		DietaryRestrictions: out.Entities.DietaryRestrictions,
	}
	// an unrecognized tier is dropped rather than failing the whole result
	if price, err := types.ParsePriceRange(strings.TrimSpace(out.Entities.PriceRange)); err == nil {
		entities.PriceRange = price
	}
	if size, ok := looseNumber(out.Entities.PartySize); ok && size > 0 {
		entities.PartySize = int(size)
	}

	return &model.IntentResult{
		Intent:     intent,
		Entities:   entities,
		Confidence: confidence,
	}, nil
}

// ComposeRecommendations asks the model for candidate restaurants
func (c *client) ComposeRecommendations(ctx context.Context, input RecommendInput) (*Recommendation, error) {
	text, err := c.generateJSON(ctx, buildRecommendSystemPrompt(), buildRecommendUserPrompt(input), recommendationSchema())
	if err != nil {
		return nil, err
	}

	var rec Recommendation
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		return nil, goerr.Wrap(ErrInvalidResponse, "failed to parse recommendation response",
			goerr.V("response", text), goerr.V("cause", err.Error()))
	}

	return &rec, nil
}

// GenerateReply produces a free-form reply to the conversation
func (c *client) GenerateReply(ctx context.Context, input ReplyInput) (string, error) {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(buildReplySystemPrompt(input)),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildReplyUserPrompt(input)))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate reply from LLM")
	}
	if resp == nil {
		return "", nil
	}

	return strings.TrimSpace(strings.Join(resp.Texts, "")), nil
}

// ComposeCallScript produces the phone script for a reservation call
func (c *client) ComposeCallScript(ctx context.Context, input CallScriptInput) (*CallScript, error) {
	if input.Restaurant == nil {
		return nil, goerr.New("restaurant is required")
	}

	text, err := c.generateJSON(ctx, buildCallScriptSystemPrompt(), buildCallScriptUserPrompt(input), callScriptSchema())
	if err != nil {
		return nil, err
	}

	var script CallScript
	if err := json.Unmarshal([]byte(text), &script); err != nil {
		return nil, goerr.Wrap(ErrInvalidResponse, "failed to parse call script response",
			goerr.V("response", text), goerr.V("cause", err.Error()))
	}

	return &script, nil
}
