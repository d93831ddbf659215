package config_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/dinewise/pkg/cli/config"
)

func TestLLM_Configure(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown provider", func(t *testing.T) {
		_, err := config.NewLLMForTest("llama", "", "", "").Configure(ctx)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	for _, provider := range []string{"gemini", "openai", "claude"} {
		t.Run(provider+" without credentials", func(t *testing.T) {
			client, err := config.NewLLMForTest(provider, "", "", "").Configure(ctx)
			gt.NoError(t, err)
			gt.Value(t, client).Nil()
		})
	}
}

func TestRedis_Configure(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled without address", func(t *testing.T) {
		client, err := config.NewRedisForTest("").Configure(ctx)
		gt.NoError(t, err)
		gt.Value(t, client).Nil()
	})

	t.Run("connects to server", func(t *testing.T) {
		srv := miniredis.RunT(t)
		client, err := config.NewRedisForTest(srv.Addr()).Configure(ctx)
		gt.NoError(t, err).Required()
		defer client.Close()
		gt.NoError(t, client.Set(ctx, "k", "v", 0).Err())
	})

	t.Run("unreachable server", func(t *testing.T) {
		srv := miniredis.RunT(t)
		addr := srv.Addr()
		srv.Close()
		_, err := config.NewRedisForTest(addr).Configure(ctx)
		gt.Error(t, err)
	})
}

func TestYelp_Configure(t *testing.T) {
	t.Run("disabled without API key", func(t *testing.T) {
		svc, err := config.NewYelpForTest("", "", time.Minute).Configure(nil, nil)
		gt.NoError(t, err)
		gt.Value(t, svc).Nil()
	})

	t.Run("plain client without redis", func(t *testing.T) {
		svc, err := config.NewYelpForTest("key", "http://localhost", time.Minute).Configure(nil, nil)
		gt.NoError(t, err)
		gt.Value(t, svc).NotNil()
	})

	t.Run("cached client with redis", func(t *testing.T) {
		srv := miniredis.RunT(t)
		rdb, err := config.NewRedisForTest(srv.Addr()).Configure(context.Background())
		gt.NoError(t, err).Required()
		defer rdb.Close()

		svc, err := config.NewYelpForTest("key", "http://localhost", time.Minute).Configure(rdb, nil)
		gt.NoError(t, err)
		gt.Value(t, svc).NotNil()
	})
}

func TestTwilio_Configure(t *testing.T) {
	t.Run("simulator without credentials", func(t *testing.T) {
		svc := config.NewTwilioForTest("", "", "").Configure()
		gt.True(t, svc.Simulated())
	})

	t.Run("live client with credentials", func(t *testing.T) {
		svc := config.NewTwilioForTest("AC123", "token", "+15550000000").Configure()
		gt.False(t, svc.Simulated())
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("json output redacts secrets", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := config.NewLogger(&buf, "info", "json")
		gt.NoError(t, err).Required()

		type credentials struct {
			APIKey string
			Name   string
		}
		logger.Info("configured", slog.Any("creds", credentials{APIKey: "sk-very-secret", Name: "yelp"}))

		out := buf.String()
		gt.True(t, strings.Contains(out, "configured"))
		gt.True(t, strings.Contains(out, "yelp"))
		gt.False(t, strings.Contains(out, "sk-very-secret"))
	})

	t.Run("level filters debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := config.NewLogger(&buf, "warn", "json")
		gt.NoError(t, err).Required()
		logger.Info("hidden")
		logger.Warn("shown")
		gt.False(t, strings.Contains(buf.String(), "hidden"))
		gt.True(t, strings.Contains(buf.String(), "shown"))
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := config.NewLogger(&bytes.Buffer{}, "verbose", "json")
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := config.NewLogger(&bytes.Buffer{}, "info", "xml")
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}
