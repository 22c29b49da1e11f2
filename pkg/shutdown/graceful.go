package shutdown

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/honeycarbs/jobmatch/pkg/logging"
)

type Stoppable interface {
	Shutdown(ctx context.Context) error
}

// Graceful blocks until one of signals arrives, stops s within timeout and
// then runs cleanups in order. Cleanups release pools and drivers that must
// outlive the server.
func Graceful(signals []os.Signal, s Stoppable, timeout time.Duration, log *logging.Logger, cleanups ...func()) {
	sigCtx, stop := signal.NotifyContext(context.Background(), signals...)
	defer stop()

	<-sigCtx.Done()
	log.Info("shutdown signal received")

	Stop(s, timeout, log, cleanups...)
}

// Stop shuts s down without waiting for a signal
func Stop(s Stoppable, timeout time.Duration, log *logging.Logger, cleanups ...func()) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Warn("graceful shutdown completed with error", "err", err)
	} else {
		log.Info("graceful shutdown completed successfully")
	}

	for _, cleanup := range cleanups {
		if cleanup != nil {
			cleanup()
		}
	}
}
