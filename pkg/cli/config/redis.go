package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"
)

// Redis holds configuration for the optional Redis connection
type Redis struct {
	addr     string
	password string
	db       int
}

// Flags returns CLI flags for Redis configuration
func (x *Redis) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "redis-addr",
			Usage:       "Redis address (host:port) for the search cache",
			Category:    "Redis",
			Sources:     cli.EnvVars("DINEWISE_REDIS_ADDR"),
			Destination: &x.addr,
		},
		&cli.StringFlag{
			Name:        "redis-password",
			Usage:       "Redis password",
			Category:    "Redis",
			Sources:     cli.EnvVars("DINEWISE_REDIS_PASSWORD"),
			Destination: &x.password,
		},
		&cli.IntFlag{
			Name:        "redis-db",
			Usage:       "Redis database number",
			Category:    "Redis",
			Sources:     cli.EnvVars("DINEWISE_REDIS_DB"),
			Destination: &x.db,
		},
	}
}

func (x Redis) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", x.addr),
		slog.Int("password.len", len(x.password)),
		slog.Int("db", x.db),
	)
}

// Configure connects to Redis. Returns nil when no address is set. The
// caller closes the returned client.
func (x *Redis) Configure(ctx context.Context) (*redis.Client, error) {
	if x.addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     x.addr,
		Password: x.password,
		DB:       x.db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, goerr.Wrap(err, "failed to connect to redis", goerr.V("addr", x.addr))
	}
	return client, nil
}
