package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// App holds the CLI flag pointing at the application configuration file
type App struct {
	path string
}

// Flags returns CLI flags for the application configuration
func (x *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the TOML configuration file (fixture users, search defaults, vocabulary)",
			Sources:     cli.EnvVars("DINEWISE_CONFIG"),
			Destination: &x.path,
		},
	}
}

func (x App) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", x.path))
}

// Configure loads the configuration file, or returns DefaultAppConfig when
// no path is set
func (x *App) Configure() (*AppConfig, error) {
	if x.path == "" {
		return DefaultAppConfig(), nil
	}

	cfg, err := LoadAppConfiguration(x.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load app configuration")
	}
	return cfg, nil
}
