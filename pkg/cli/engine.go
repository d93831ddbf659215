package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/secmon-lab/dinewise/pkg/cli/config"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/service/assistant"
	"github.com/secmon-lab/dinewise/pkg/usecase"
	"github.com/secmon-lab/dinewise/pkg/utils/logging"
	"github.com/secmon-lab/dinewise/pkg/utils/metrics"
	"github.com/urfave/cli/v3"
)

// engineConfig groups the flags shared by every command that runs the
// conversation engine
type engineConfig struct {
	app     config.App
	repo    config.Repository
	llm     config.LLM
	yelp    config.Yelp
	redis   config.Redis
	twilio  config.Twilio
	timeout time.Duration
}

func (x *engineConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.app.Flags()...)
	flags = append(flags, x.repo.Flags()...)
	flags = append(flags, x.llm.Flags()...)
	flags = append(flags, x.yelp.Flags()...)
	flags = append(flags, x.redis.Flags()...)
	flags = append(flags, x.twilio.Flags()...)
	flags = append(flags, &cli.DurationFlag{
		Name:        "provider-timeout",
		Usage:       "Deadline for each LLM, search and telephony call (0 disables)",
		Value:       usecase.DefaultProviderTimeout,
		Sources:     cli.EnvVars("DINEWISE_PROVIDER_TIMEOUT"),
		Destination: &x.timeout,
	})
	return flags
}

// engine is the wired set of use cases plus what it needs to shut down
type engine struct {
	uc     *usecase.UseCases
	app    *config.AppConfig
	users  []*model.User
	closer func()
}

func (e *engine) Close() {
	if e.closer != nil {
		e.closer()
	}
}

// build wires repository, providers and use cases, then seeds fixture users.
// reg may be nil to skip metrics.
func (x *engineConfig) build(ctx context.Context, reg prometheus.Registerer) (*engine, error) {
	logger := logging.From(ctx)

	appCfg, err := x.app.Configure()
	if err != nil {
		return nil, err
	}

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	repo, err := x.repo.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize repository")
	}
	closers = append(closers, func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close repository", "error", err.Error())
		}
	})

	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
	}

	rdb, err := x.redis.Configure(ctx)
	if err != nil {
		closeAll()
		return nil, goerr.Wrap(err, "failed to initialize redis")
	}
	opts := []usecase.Option{
		usecase.WithMetrics(m),
		usecase.WithProviderTimeout(x.timeout),
		usecase.WithVocabulary(appCfg.ToVocabulary()),
		usecase.WithSearchDefaults(appCfg.SearchDefaults()),
		usecase.WithCaller(x.twilio.Configure()),
	}

	var cache redis.Cmdable
	if rdb != nil {
		cache = rdb
		closers = append(closers, func() {
			if err := rdb.Close(); err != nil {
				logger.Error("failed to close redis client", "error", err.Error())
			}
		})
	}
	search, err := x.yelp.Configure(cache, m)
	if err != nil {
		closeAll()
		return nil, err
	}
	if search != nil {
		opts = append(opts, usecase.WithSearch(search))
	}

	llmClient, err := x.llm.Configure(ctx)
	if err != nil {
		closeAll()
		return nil, goerr.Wrap(err, "failed to initialize LLM client")
	}
	if llmClient != nil {
		svc, err := assistant.New(llmClient)
		if err != nil {
			closeAll()
			return nil, goerr.Wrap(err, "failed to initialize assistant")
		}
		opts = append(opts, usecase.WithAssistant(svc))
	} else {
		logger.Warn("LLM not configured, every turn is answered as general chat")
	}

	uc := usecase.New(repo, opts...)

	users, err := uc.User.Seed(ctx, appCfg.FixtureUsers())
	if err != nil {
		closeAll()
		return nil, goerr.Wrap(err, "failed to seed users")
	}

	logger.Info("Engine configured",
		"app", x.app,
		"repository", x.repo,
		"llm", x.llm,
		"yelp", x.yelp,
		"redis", x.redis,
		"twilio", x.twilio,
		"provider_timeout", x.timeout,
		"users", len(users),
	)

	return &engine{uc: uc, app: appCfg, users: users, closer: closeAll}, nil
}
