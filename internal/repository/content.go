package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/spotlesscleaning/site-server-go/internal/model"
)

type ContentRepository interface {
	ListAll(ctx context.Context) ([]model.ContentEntry, error)
	Upsert(ctx context.Context, params model.UpsertContentParams) (*model.ContentEntry, error)
}

type contentRepo struct {
	db *sqlx.DB
}

func NewContentRepository(db *sqlx.DB) ContentRepository {
	return &contentRepo{db: db}
}

// ListAll returns every content row ordered by section; rows within a
// section come back in insertion order.
func (r *contentRepo) ListAll(ctx context.Context) ([]model.ContentEntry, error) {
	entries := []model.ContentEntry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT * FROM website_content
		ORDER BY section ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Upsert creates the (section, key) row on first write and overwrites
// value and updated_at on every subsequent one.
func (r *contentRepo) Upsert(ctx context.Context, params model.UpsertContentParams) (*model.ContentEntry, error) {
	var entry model.ContentEntry
	err := r.db.GetContext(ctx, &entry, `
		INSERT INTO website_content (section, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (section, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		RETURNING *
	`, params.Section, params.Key, params.Value)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
