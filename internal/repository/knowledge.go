package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cacildafilmes/cacilda/internal/domain"
)

type KnowledgeRepository struct {
	db    dbtx
	table string
}

func NewKnowledgeRepository(pool *pgxpool.Pool, tables Tables) *KnowledgeRepository {
	return &KnowledgeRepository{db: pool, table: tables.Knowledge}
}

// Table returns the table this repository reads.
func (r *KnowledgeRepository) Table() string {
	return r.table
}

// List returns every knowledge row ordered by id.
func (r *KnowledgeRepository) List(ctx context.Context) ([]domain.KnowledgeItem, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(
		`SELECT id, type, content, created_at FROM %s ORDER BY id ASC`, quoteIdent(r.table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.KnowledgeItem
	for rows.Next() {
		var k domain.KnowledgeItem
		if err := rows.Scan(&k.ID, &k.Type, &k.Content, &k.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, k)
	}
	return items, rows.Err()
}

func (r *KnowledgeRepository) Create(ctx context.Context, t domain.KnowledgeType, content string) (*domain.KnowledgeItem, error) {
	k := domain.KnowledgeItem{Type: t, Content: content}
	err := r.db.QueryRow(ctx, fmt.Sprintf(
		`INSERT INTO %s (type, content) VALUES ($1, $2) RETURNING id, created_at`, quoteIdent(r.table)),
		t, content,
	).Scan(&k.ID, &k.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *KnowledgeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, quoteIdent(r.table))).Scan(&n)
	return n, err
}
