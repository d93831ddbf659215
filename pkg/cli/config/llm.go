package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"
)

// LLM holds configuration for the language model client
type LLM struct {
	provider string
	model    string

	openaiAPIKey string
	claudeAPIKey string

	geminiProjectID string
	geminiLocation  string
}

// Flags returns CLI flags for LLM configuration
func (x *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "Language model provider [gemini|openai|claude]",
			Value:       "gemini",
			Category:    "LLM",
			Sources:     cli.EnvVars("DINEWISE_LLM_PROVIDER"),
			Destination: &x.provider,
		},
		&cli.StringFlag{
			Name:        "llm-model",
			Usage:       "Model name (provider default when empty)",
			Category:    "LLM",
			Sources:     cli.EnvVars("DINEWISE_LLM_MODEL"),
			Destination: &x.model,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("DINEWISE_OPENAI_API_KEY"),
			Destination: &x.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "claude-api-key",
			Usage:       "Anthropic API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("DINEWISE_CLAUDE_API_KEY"),
			Destination: &x.claudeAPIKey,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Category:    "LLM",
			Sources:     cli.EnvVars("DINEWISE_GEMINI_PROJECT"),
			Destination: &x.geminiProjectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Category:    "LLM",
			Sources:     cli.EnvVars("DINEWISE_GEMINI_LOCATION"),
			Destination: &x.geminiLocation,
		},
	}
}

func (x LLM) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("provider", x.provider),
		slog.String("model", x.model),
		slog.Int("openai-api-key.len", len(x.openaiAPIKey)),
		slog.Int("claude-api-key.len", len(x.claudeAPIKey)),
		slog.String("gemini-project", x.geminiProjectID),
		slog.String("gemini-location", x.geminiLocation),
	)
}

// Configure creates the LLM client for the selected provider.
// Returns nil if the provider's credentials are not configured; the
// assistant then answers with fallbacks only.
func (x *LLM) Configure(ctx context.Context) (gollem.LLMClient, error) {
	switch x.provider {
	case "gemini":
		if x.geminiProjectID == "" {
			return nil, nil
		}
		var opts []gemini.Option
		if x.model != "" {
			opts = append(opts, gemini.WithModel(x.model))
		}
		client, err := gemini.New(ctx, x.geminiProjectID, x.geminiLocation, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client")
		}
		return client, nil

	case "openai":
		if x.openaiAPIKey == "" {
			return nil, nil
		}
		var opts []openai.Option
		if x.model != "" {
			opts = append(opts, openai.WithModel(x.model))
		}
		client, err := openai.New(ctx, x.openaiAPIKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client")
		}
		return client, nil

	case "claude":
		if x.claudeAPIKey == "" {
			return nil, nil
		}
		var opts []claude.Option
		if x.model != "" {
			opts = append(opts, claude.WithModel(x.model))
		}
		client, err := claude.New(ctx, x.claudeAPIKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Claude client")
		}
		return client, nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "unknown LLM provider", goerr.V(ProviderKey, x.provider))
	}
}
