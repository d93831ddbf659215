package yelp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/utils/safe"
)

// DefaultBaseURL is the Yelp Fusion API root
const DefaultBaseURL = "https://api.yelp.com/v3"

// ErrAPI is returned (wrapped) when the API answers with a non-2xx status
var ErrAPI = goerr.New("yelp API error")

// client implements Service interface
type client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option is a functional option for client configuration
type Option func(*client)

// WithBaseURL overrides the API root, mainly for tests
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) {
		c.httpClient = httpClient
	}
}

// New creates a Yelp search client
func New(apiKey string, opts ...Option) (Service, error) {
	if apiKey == "" {
		return nil, goerr.New("yelp API key is required")
	}

	c := &client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Search calls /businesses/search
func (c *client) Search(ctx context.Context, query model.SearchQuery) ([]Business, error) {
	if query.Location == "" {
		return nil, goerr.New("location is required for search")
	}
	query = query.WithDefaults()

	params := url.Values{}
	params.Set("location", query.Location)
	params.Set("limit", strconv.Itoa(query.Limit))
	params.Set("radius", strconv.Itoa(query.Radius))
	params.Set("sort_by", query.SortBy)
	if query.Term != "" {
		params.Set("term", query.Term)
	}
	if query.Categories != "" {
		params.Set("categories", query.Categories)
	}
	if query.Price != "" {
		params.Set("price", query.Price)
	}

	endpoint := c.baseURL + "/businesses/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build yelp request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call yelp search", goerr.V("location", query.Location))
	}
	defer safe.Close(ctx, resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read yelp response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, goerr.Wrap(ErrAPI, "yelp search failed",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)),
		)
	}

	var out searchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, goerr.Wrap(err, "failed to decode yelp response")
	}

	return out.Businesses, nil
}
