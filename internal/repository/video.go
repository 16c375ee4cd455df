package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cacildafilmes/cacilda/internal/domain"
)

type VideoRepository struct {
	db    dbtx
	table string
}

func NewVideoRepository(pool *pgxpool.Pool, tables Tables) *VideoRepository {
	return &VideoRepository{db: pool, table: tables.Videos}
}

// Table returns the table this repository reads.
func (r *VideoRepository) Table() string {
	return r.table
}

const videoColumns = `id, vimeo_id, title, client, production, creation, category, description, created_at`

func scanVideo(row pgx.Row) (*domain.Video, error) {
	var v domain.Video
	var client, production, creation *string
	if err := row.Scan(&v.ID, &v.VimeoID, &v.Title, &client, &production, &creation,
		&v.Category, &v.Description, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.Client = derefString(client)
	v.Production = derefString(production)
	v.Creation = derefString(creation)
	return &v, nil
}

// List returns the whole catalog ordered by id.
func (r *VideoRepository) List(ctx context.Context) ([]*domain.Video, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM %s ORDER BY id ASC`, videoColumns, quoteIdent(r.table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []*domain.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (r *VideoRepository) ListSummaries(ctx context.Context) ([]domain.VideoSummary, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(
		`SELECT id, title, vimeo_id FROM %s ORDER BY id ASC`, quoteIdent(r.table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []domain.VideoSummary{}
	for rows.Next() {
		var s domain.VideoSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.VimeoID); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Create inserts v and fills in its generated id and timestamp.
func (r *VideoRepository) Create(ctx context.Context, v *domain.Video) error {
	return r.db.QueryRow(ctx, fmt.Sprintf(
		`INSERT INTO %s (vimeo_id, title, client, production, creation, category, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`, quoteIdent(r.table)),
		v.VimeoID, v.Title, nullableString(v.Client), nullableString(v.Production), nullableString(v.Creation),
		v.Category, v.Description,
	).Scan(&v.ID, &v.CreatedAt)
}

func (r *VideoRepository) GetByID(ctx context.Context, id int64) (*domain.Video, error) {
	v, err := scanVideo(r.db.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM %s WHERE id = $1`, videoColumns, quoteIdent(r.table)), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVideoNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *VideoRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, quoteIdent(r.table)), id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrVideoNotFound
	}
	return nil
}

func (r *VideoRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, quoteIdent(r.table))).Scan(&n)
	return n, err
}
