package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"doccatalog/internal/model"
	"doccatalog/internal/repository"
)

// TagPostgres is a PostgreSQL implementation of repository.TagRepository.
// Idempotency comes from the (document_id, label) unique constraints:
// duplicate inserts hit ON CONFLICT DO NOTHING.
type TagPostgres struct {
	db *sql.DB
}

// NewTagPostgres creates a new TagPostgres repository.
func NewTagPostgres(db *sql.DB) *TagPostgres {
	return &TagPostgres{db: db}
}

var _ repository.TagRepository = (*TagPostgres)(nil)

// AddUserTag inserts a human-assigned label; a duplicate pair is a no-op.
func (r *TagPostgres) AddUserTag(ctx context.Context, documentID, label string) error {
	const q = `
		INSERT INTO user_tags (id, document_id, label, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (document_id, label) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, q, uuid.NewString(), documentID, label); err != nil {
		return wrapErr(err)
	}
	return nil
}

// AddAITag inserts a machine-assigned label with its confidence score.
func (r *TagPostgres) AddAITag(ctx context.Context, documentID, label string, confidence float64) error {
	const q = `
		INSERT INTO ai_tags (id, document_id, label, confidence, created_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (document_id, label) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, q, uuid.NewString(), documentID, label, confidence); err != nil {
		return wrapErr(err)
	}
	return nil
}

// TagsFor returns the user and AI tag rows of a document.
func (r *TagPostgres) TagsFor(ctx context.Context, documentID string) (*model.TagSet, error) {
	set := &model.TagSet{
		UserTags: make([]model.UserTag, 0),
		AITags:   make([]model.AITag, 0),
	}

	const qUser = `
		SELECT id, document_id, label, created_at
		FROM user_tags
		WHERE document_id = $1
		ORDER BY created_at, label
	`
	rows, err := r.db.QueryContext(ctx, qUser, documentID)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()
	for rows.Next() {
		var t model.UserTag
		if err := rows.Scan(&t.ID, &t.DocumentID, &t.Label, &t.CreatedAt); err != nil {
			return nil, wrapErr(err)
		}
		set.UserTags = append(set.UserTags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}

	const qAI = `
		SELECT id, document_id, label, confidence, created_at
		FROM ai_tags
		WHERE document_id = $1
		ORDER BY created_at, label
	`
	aiRows, err := r.db.QueryContext(ctx, qAI, documentID)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer aiRows.Close()
	for aiRows.Next() {
		var t model.AITag
		if err := aiRows.Scan(&t.ID, &t.DocumentID, &t.Label, &t.Confidence, &t.CreatedAt); err != nil {
			return nil, wrapErr(err)
		}
		set.AITags = append(set.AITags, t)
	}
	if err := aiRows.Err(); err != nil {
		return nil, wrapErr(err)
	}

	return set, nil
}
