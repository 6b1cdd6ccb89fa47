package service

import (
	"context"
	"errors"

	"doccatalog/internal/model"
	"doccatalog/internal/repository"
)

var (
	ErrLabelRequired        = errors.New("tag label is required")
	ErrConfidenceOutOfRange = errors.New("confidence must be within [0,1]")
)

// TagService attaches and reads human/AI labels for cataloged documents.
// Tags address documents by file name at this level; resolution to the row id
// happens here so handlers never touch internal identifiers.
type TagService interface {
	// AddUserTag attaches a human-assigned label. Attaching an existing
	// (document, label) pair is a no-op.
	AddUserTag(ctx context.Context, fileName, label string) error

	// AddAITag attaches a machine-assigned label with its confidence score.
	// Confidence outside [0,1] is rejected, not clamped.
	AddAITag(ctx context.Context, fileName, label string, confidence float64) error

	// TagsFor returns the full tag view of a document.
	TagsFor(ctx context.Context, fileName string) (*model.TagSet, error)
}

type tagService struct {
	docs repository.DocumentRepository
	tags repository.TagRepository
}

// NewTagService constructs a TagService.
func NewTagService(docs repository.DocumentRepository, tags repository.TagRepository) TagService {
	return &tagService{docs: docs, tags: tags}
}

func (s *tagService) AddUserTag(ctx context.Context, fileName, label string) error {
	if label == "" {
		return ErrLabelRequired
	}
	doc, err := s.resolve(ctx, fileName)
	if err != nil {
		return err
	}
	return s.tags.AddUserTag(ctx, doc.ID, label)
}

func (s *tagService) AddAITag(ctx context.Context, fileName, label string, confidence float64) error {
	if label == "" {
		return ErrLabelRequired
	}
	if confidence < 0 || confidence > 1 {
		return ErrConfidenceOutOfRange
	}
	doc, err := s.resolve(ctx, fileName)
	if err != nil {
		return err
	}
	return s.tags.AddAITag(ctx, doc.ID, label, confidence)
}

func (s *tagService) TagsFor(ctx context.Context, fileName string) (*model.TagSet, error) {
	doc, err := s.resolve(ctx, fileName)
	if err != nil {
		return nil, err
	}
	return s.tags.TagsFor(ctx, doc.ID)
}

func (s *tagService) resolve(ctx context.Context, fileName string) (*model.Document, error) {
	if fileName == "" {
		return nil, ErrFileNameRequired
	}
	doc, err := s.docs.FindByName(ctx, fileName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}
