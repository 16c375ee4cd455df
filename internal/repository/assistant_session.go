package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cacildafilmes/cacilda/internal/domain"
)

type AssistantSessionRepository struct {
	db dbtx
}

func NewAssistantSessionRepository(pool *pgxpool.Pool) *AssistantSessionRepository {
	return &AssistantSessionRepository{db: pool}
}

func (r *AssistantSessionRepository) Create(ctx context.Context, s *domain.AssistantSession) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO assistant_sessions (id, assistant_id, thread_id, created_at) VALUES ($1, $2, $3, $4)`,
		s.ID, s.AssistantID, s.ThreadID, s.CreatedAt,
	)
	return err
}

func (r *AssistantSessionRepository) GetByID(ctx context.Context, id string) (*domain.AssistantSession, error) {
	var s domain.AssistantSession
	err := r.db.QueryRow(ctx,
		`SELECT id::text, assistant_id, thread_id, created_at FROM assistant_sessions WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.AssistantID, &s.ThreadID, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssistantSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// DeleteCreatedBefore removes sessions older than cutoff and returns how many.
func (r *AssistantSessionRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM assistant_sessions WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return cmdTag.RowsAffected(), nil
}
