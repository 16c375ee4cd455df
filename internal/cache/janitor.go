package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cacildafilmes/cacilda/internal/logging"
)

// Sweeper removes stale entries.
type Sweeper interface {
	Sweep(now time.Time) int
}

// Janitor adapts a Sweeper to the background worker.
type Janitor struct {
	cache  Sweeper
	now    func() time.Time
	logger *zap.Logger
}

func NewJanitor(cache Sweeper, logger *zap.Logger) *Janitor {
	return &Janitor{cache: cache, now: time.Now, logger: logging.OrNop(logger)}
}

// ProcessJobs runs one sweep.
func (j *Janitor) ProcessJobs(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if removed := j.cache.Sweep(j.now()); removed > 0 {
		j.logger.Debug("swept expired chat answers", zap.Int("removed", removed))
	}
	return nil
}
