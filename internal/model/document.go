package model

import "time"

// Document represents one cataloged file together with its extracted text.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
//
// FileName is the natural key: at most one active row exists per file name, and
// re-ingestion of the same name updates the row in place.
type Document struct {
	ID            string    `json:"id"`
	FileName      string    `json:"file_name"`
	ContentType   *string   `json:"content_type,omitempty"`
	Size          int64     `json:"size"`
	StoragePath   *string   `json:"storage_path,omitempty"`
	ExtractedText string    `json:"extracted_text,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UserTag is a human-assigned label on a document.
// Tag rows are owned by their document and are removed together with it.
type UserTag struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Label      string    `json:"label"`
	CreatedAt  time.Time `json:"created_at"`
}

// AITag is a machine-assigned label on a document with a confidence score in [0,1].
type AITag struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Label      string    `json:"label"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// TagSet is the full tag view of a single document.
type TagSet struct {
	UserTags []UserTag `json:"user_tags"`
	AITags   []AITag   `json:"ai_tags"`
}
