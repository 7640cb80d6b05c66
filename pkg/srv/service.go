package srv

import (
	"context"
	"fmt"

	"github.com/sandevgo/kalevalagpt/pkg/log"
)

type Service interface {
	// Start blocks until the service stops or ctx is done.
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Run starts every service and blocks until ctx is done or any service stops.
// All services are then shut down in order. The first start error is returned.
func Run(ctx context.Context, services ...Service) error {
	logger := log.FromCtx(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(services))
	for _, service := range services {
		go func(service Service) {
			err := service.Start(ctx)
			if err != nil {
				err = fmt.Errorf("%T failed to start: %w", service, err)
			}
			errCh <- err
		}(service)
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}
	cancel()

	for _, service := range services {
		if err := service.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msgf("%T failed to shutdown", service)
		}
	}
	return runErr
}
