// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g. postgres) inside this directory.
package repository

import (
	"context"

	"doccatalog/internal/model"
)

// DocumentRepository defines persistence for document rows using SQL queries only.
// No business logic here — strictly storage operations.
type DocumentRepository interface {
	// List returns all active documents ordered by created_at descending.
	List(ctx context.Context) ([]model.Document, error)

	// Upsert inserts a document row keyed by file name, or updates the existing
	// row's content type, size, storage path, extracted text, and updated_at.
	// One transaction per call; concurrent upserts on the same file name
	// serialize through the unique-name constraint. Returns the stored row.
	Upsert(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByName returns the active document with the given file name,
	// or ErrNotFound.
	FindByName(ctx context.Context, fileName string) (*model.Document, error)

	// Delete removes the document with the given file name; its tag rows are
	// removed by the cascading foreign keys in the same transaction.
	// Returns ErrNotFound when no active row matches.
	Delete(ctx context.Context, fileName string) error
}

// TagRepository defines persistence for per-document tag rows.
// Tag rows carry no independent lifecycle: they cannot outlive their document.
type TagRepository interface {
	// AddUserTag inserts a human-assigned label. Adding an existing
	// (document, label) pair is a no-op, not an error.
	AddUserTag(ctx context.Context, documentID, label string) error

	// AddAITag inserts a machine-assigned label with its confidence score.
	// Idempotent on (document, label) like AddUserTag.
	AddAITag(ctx context.Context, documentID, label string, confidence float64) error

	// TagsFor returns the user and AI tag rows of a document.
	TagsFor(ctx context.Context, documentID string) (*model.TagSet, error)
}
