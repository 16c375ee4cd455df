package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cacildafilmes/cacilda/internal/logging"
)

// SessionPurger deletes assistant sessions created before a cutoff.
type SessionPurger interface {
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SessionReaper expires assistant sessions older than a fixed age.
type SessionReaper struct {
	repo   SessionPurger
	maxAge time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewSessionReaper creates a new SessionReaper
func NewSessionReaper(repo SessionPurger, maxAge time.Duration, logger *zap.Logger) *SessionReaper {
	return &SessionReaper{
		repo:   repo,
		maxAge: maxAge,
		now:    time.Now,
		logger: logging.OrNop(logger),
	}
}

// ProcessJobs deletes every expired session
func (r *SessionReaper) ProcessJobs(ctx context.Context) error {
	cutoff := r.now().Add(-r.maxAge)
	n, err := r.repo.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to expire assistant sessions: %w", err)
	}
	if n > 0 {
		r.logger.Info("expired assistant sessions", zap.Int64("count", n), zap.Time("cutoff", cutoff))
	}
	return nil
}
