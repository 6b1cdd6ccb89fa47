package postgres

import (
	"context"
	"database/sql"
	"errors"

	"doccatalog/internal/model"
	"doccatalog/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, filename, content_type, size, storage_path, extracted_text, created_at, updated_at`

// List returns every active document, most recent first.
func (r *DocumentPostgres) List(ctx context.Context) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, wrapErr(err)
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return items, nil
}

// Upsert inserts or updates the row keyed by file name in a single statement,
// so concurrent calls for the same name serialize on the unique constraint and
// can never produce two active rows.
func (r *DocumentPostgres) Upsert(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, filename, content_type, size, storage_path, extracted_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (filename) DO UPDATE SET
			content_type   = EXCLUDED.content_type,
			size           = EXCLUDED.size,
			storage_path   = EXCLUDED.storage_path,
			extracted_text = EXCLUDED.extracted_text,
			updated_at     = now()
		RETURNING ` + documentColumns + `
	`
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.FileName,
		nullString(doc.ContentType),
		doc.Size,
		nullString(doc.StoragePath),
		doc.ExtractedText,
	)
	out, err := scanDocument(row)
	if err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}

// FindByName fetches a single document by its unique file name.
func (r *DocumentPostgres) FindByName(ctx context.Context, fileName string) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE filename = $1
	`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, fileName))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, wrapErr(err)
	}
	return d, nil
}

// Delete removes the row for fileName. Tag rows go with it via the cascading
// foreign keys, inside the same implicit transaction.
func (r *DocumentPostgres) Delete(ctx context.Context, fileName string) error {
	const q = `DELETE FROM documents WHERE filename = $1`
	res, err := r.db.ExecContext(ctx, q, fileName)
	if err != nil {
		return wrapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr(err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d           model.Document
		contentType sql.NullString
		storagePath sql.NullString
	)
	if err := row.Scan(
		&d.ID,
		&d.FileName,
		&contentType,
		&d.Size,
		&storagePath,
		&d.ExtractedText,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if contentType.Valid {
		d.ContentType = &contentType.String
	}
	if storagePath.Valid {
		d.StoragePath = &storagePath.String
	}
	return &d, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
