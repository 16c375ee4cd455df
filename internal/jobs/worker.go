package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cacildafilmes/cacilda/internal/logging"
	"github.com/cacildafilmes/cacilda/internal/telemetry"
)

// DefaultInterval replaces a non-positive interval.
const DefaultInterval = time.Minute

// JobProcessor is one unit of periodic maintenance.
type JobProcessor interface {
	ProcessJobs(ctx context.Context) error
}

// Worker runs a JobProcessor on a fixed interval until stopped. A run never
// outlives its interval and a panicking run does not end the loop.
type Worker struct {
	name      string
	processor JobProcessor
	interval  time.Duration
	logger    *zap.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewWorker(name string, processor JobProcessor, interval time.Duration, logger *zap.Logger) *Worker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Worker{
		name:      name,
		processor: processor,
		interval:  interval,
		logger:    logging.OrNop(logger).With(zap.String("worker", name)),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start blocks until ctx is cancelled or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("worker started", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker stopped", zap.String("reason", "context cancelled"))
			return
		case <-w.stop:
			w.logger.Info("worker stopped", zap.String("reason", "stop requested"))
			return
		case <-ticker.C:
			if err := w.runOnce(ctx); err != nil {
				w.logger.Error("error processing jobs", zap.Error(err))
				telemetry.CaptureError(ctx, err)
			}
		}
	}
}

func (w *Worker) runOnce(ctx context.Context) (err error) {
	runCtx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%s panicked: %v", w.name, rec)
		}
	}()

	return w.processor.ProcessJobs(runCtx)
}

// Stop ends the loop and waits for the current run to return. Safe to call
// more than once; it must only be called after Start.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	<-w.done
	w.logger.Debug("worker shutdown complete")
}
