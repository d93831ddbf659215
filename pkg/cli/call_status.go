package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/cli/config"
	"github.com/secmon-lab/dinewise/pkg/repository/memory"
	"github.com/secmon-lab/dinewise/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdCallStatus() *cli.Command {
	var twilioCfg config.Twilio

	return &cli.Command{
		Name:      "call-status",
		Usage:     "Show the provider state of a reservation call",
		ArgsUsage: "<call handle>",
		Flags:     twilioCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.NArg() != 1 {
				return goerr.New("exactly one call handle is required")
			}
			handle := c.Args().First()

			// The status lookup never touches the store
			uc := usecase.New(memory.New(), usecase.WithCaller(twilioCfg.Configure()))
			status, err := uc.Reservation.CheckCallStatus(ctx, handle)
			if err != nil {
				return goerr.Wrap(err, "failed to get call status", goerr.V(usecase.CallHandleKey, handle))
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(status); err != nil {
				return goerr.Wrap(err, "failed to write call status")
			}
			return nil
		},
	}
}
