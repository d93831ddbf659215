package usecase

import (
	"context"
	"time"

	"github.com/secmon-lab/dinewise/pkg/utils/metrics"
)

// provider bounds and measures calls to external collaborators
type provider struct {
	timeout time.Duration
	metrics *metrics.Metrics
}

func (p provider) call(ctx context.Context, name, operation string, fn func(ctx context.Context) error) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	p.metrics.ObserveProvider(name, operation, start, err)
	return err
}
