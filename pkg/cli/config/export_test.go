package config

import "time"

// NewLLMForTest creates an LLM config for testing purposes
func NewLLMForTest(provider, openaiAPIKey, claudeAPIKey, geminiProjectID string) *LLM {
	return &LLM{
		provider:        provider,
		openaiAPIKey:    openaiAPIKey,
		claudeAPIKey:    claudeAPIKey,
		geminiProjectID: geminiProjectID,
	}
}

// NewRedisForTest creates a Redis config for testing purposes
func NewRedisForTest(addr string) *Redis {
	return &Redis{addr: addr}
}

// NewYelpForTest creates a Yelp config for testing purposes
func NewYelpForTest(apiKey, baseURL string, ttl time.Duration) *Yelp {
	return &Yelp{apiKey: apiKey, baseURL: baseURL, cacheTTL: ttl}
}

// NewTwilioForTest creates a Twilio config for testing purposes
func NewTwilioForTest(accountSID, authToken, fromNumber string) *Twilio {
	return &Twilio{accountSID: accountSID, authToken: authToken, fromNumber: fromNumber}
}

// NewAppForTest creates an App config for testing purposes
func NewAppForTest(path string) *App {
	return &App{path: path}
}
