package config

import (
	"log/slog"

	"github.com/secmon-lab/dinewise/pkg/service/twilio"
	"github.com/urfave/cli/v3"
)

// Twilio holds configuration for outbound reservation calls
type Twilio struct {
	accountSID     string
	authToken      string
	fromNumber     string
	callbackNumber string
	baseURL        string
}

// Flags returns CLI flags for Twilio configuration
func (x *Twilio) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "twilio-account-sid",
			Usage:       "Twilio account SID (calls are simulated unless it starts with AC)",
			Category:    "Twilio",
			Sources:     cli.EnvVars("DINEWISE_TWILIO_ACCOUNT_SID"),
			Destination: &x.accountSID,
		},
		&cli.StringFlag{
			Name:        "twilio-auth-token",
			Usage:       "Twilio auth token",
			Category:    "Twilio",
			Sources:     cli.EnvVars("DINEWISE_TWILIO_AUTH_TOKEN"),
			Destination: &x.authToken,
		},
		&cli.StringFlag{
			Name:        "twilio-from-number",
			Usage:       "Caller ID for reservation calls (E.164)",
			Category:    "Twilio",
			Sources:     cli.EnvVars("DINEWISE_TWILIO_FROM_NUMBER"),
			Destination: &x.fromNumber,
		},
		&cli.StringFlag{
			Name:        "twilio-callback-number",
			Usage:       "Number the restaurant is asked to call back",
			Category:    "Twilio",
			Sources:     cli.EnvVars("DINEWISE_TWILIO_CALLBACK_NUMBER"),
			Destination: &x.callbackNumber,
		},
		&cli.StringFlag{
			Name:        "twilio-base-url",
			Usage:       "Twilio REST API base URL",
			Value:       twilio.DefaultBaseURL,
			Category:    "Twilio",
			Sources:     cli.EnvVars("DINEWISE_TWILIO_BASE_URL"),
			Destination: &x.baseURL,
		},
	}
}

func (x Twilio) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("account-sid", x.accountSID),
		slog.Int("auth-token.len", len(x.authToken)),
		slog.String("from-number", x.fromNumber),
		slog.String("callback-number", x.callbackNumber),
	)
}

// Config returns the client configuration built from the flags
func (x *Twilio) Config() twilio.Config {
	return twilio.Config{
		AccountSID:     x.accountSID,
		AuthToken:      x.authToken,
		FromNumber:     x.fromNumber,
		CallbackNumber: x.callbackNumber,
		BaseURL:        x.baseURL,
	}
}

// Configure returns a live client, or the simulator when credentials are absent
func (x *Twilio) Configure() twilio.Service {
	return twilio.New(x.Config())
}
