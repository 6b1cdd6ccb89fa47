package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"doccatalog/internal/extractor"
	"doccatalog/internal/model"
	"doccatalog/internal/repository"
	"doccatalog/internal/storage"
)

var (
	ErrFileNameRequired = errors.New("file name is required")
	ErrInvalidFileName  = errors.New("file name must not contain path separators")
	ErrNotFound         = errors.New("document not found")
	ErrNoStoredPayload  = errors.New("document has no stored payload")
)

const (
	defaultIngestWorkers = 4
	upsertMaxRetries     = 3
)

// Seam for tests.
var newUpsertBackoff = func() backoff.BackOff {
	return backoff.NewExponentialBackOff()
}

// UploadFile is one file of an upload batch, already spooled to a bounded
// buffer by the HTTP layer (the request body limit caps total memory).
type UploadFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// OutcomeStatus tells whether a file of a batch was committed or failed.
type OutcomeStatus string

const (
	StatusCommitted OutcomeStatus = "committed"
	StatusFailed    OutcomeStatus = "failed"
)

// FailureReason is the structured, machine-distinguishable reason a file failed.
type FailureReason struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// FileOutcome is the per-file result of an ingestion batch.
type FileOutcome struct {
	FileName string          `json:"file_name"`
	Status   OutcomeStatus   `json:"status"`
	Document *model.Document `json:"document,omitempty"`
	Failure  *FailureReason  `json:"failure,omitempty"`
}

// DocumentService defines the use cases for the document catalog.
type DocumentService interface {
	// Ingest processes an upload batch best-effort: classify, extract, archive
	// the payload, and upsert the catalog row per file. One file's failure
	// never aborts its siblings; outcome order matches input order.
	Ingest(ctx context.Context, files []UploadFile) []FileOutcome

	// List returns all cataloged documents, most recent first.
	List(ctx context.Context) ([]model.Document, error)

	// Get returns a single document by its unique file name.
	Get(ctx context.Context, fileName string) (*model.Document, error)

	// Download streams the archived raw payload of a document.
	Download(ctx context.Context, fileName string) (io.ReadCloser, storage.ObjectInfo, error)

	// Delete removes a document by file name from both storage and catalog;
	// its tag rows cascade away with the catalog row.
	Delete(ctx context.Context, fileName string) error
}

// documentService is the concrete implementation of DocumentService.
type documentService struct {
	store      storage.Storage
	repo       repository.DocumentRepository
	extractors *extractor.Registry
	workers    int
}

// NewDocumentService constructs a DocumentService. workers bounds the number
// of files of a batch extracted in parallel.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, extractors *extractor.Registry, workers int) DocumentService {
	if workers <= 0 {
		workers = defaultIngestWorkers
	}
	return &documentService{store: store, repo: repo, extractors: extractors, workers: workers}
}

func (s *documentService) Ingest(ctx context.Context, files []UploadFile) []FileOutcome {
	outcomes := make([]FileOutcome, len(files))

	g := new(errgroup.Group)
	g.SetLimit(s.workers)

	for i := range files {
		// A cancelled batch stops scheduling new per-file work; files already
		// in flight finish on their own. Outcome cardinality always matches
		// the input.
		if ctx.Err() != nil {
			outcomes[i] = failedOutcome(files[i].FileName, "canceled", "batch canceled before file was processed")
			continue
		}
		i := i
		g.Go(func() error {
			outcomes[i] = s.ingestOne(ctx, files[i])
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// ingestOne runs the per-file state machine: classify, extract, archive, upsert.
func (s *documentService) ingestOne(ctx context.Context, f UploadFile) FileOutcome {
	if f.FileName == "" {
		return failedOutcome(f.FileName, "validation", ErrFileNameRequired.Error())
	}
	// The file name feeds the deterministic storage key, so a name carrying
	// path segments could collapse onto another document's object.
	if !validFileName(f.FileName) {
		return failedOutcome(f.FileName, "validation", ErrInvalidFileName.Error())
	}

	format := extractor.Classify(f.FileName, f.ContentType)
	text, err := s.extractors.Extract(ctx, format, bytes.NewReader(f.Data), int64(len(f.Data)))
	if err != nil {
		var extErr *extractor.Error
		if errors.As(err, &extErr) {
			return failedOutcome(f.FileName, string(extErr.Kind), extErr.Error())
		}
		return failedOutcome(f.FileName, "canceled", err.Error())
	}

	key := path.Join("documents", f.FileName)
	if _, err := s.store.Put(ctx, key, bytes.NewReader(f.Data), storage.PutObjectOptions{
		Size:        int64(len(f.Data)),
		ContentType: f.ContentType,
		Metadata:    map[string]string{"original-filename": f.FileName},
	}); err != nil {
		return failedOutcome(f.FileName, "storage_internal", fmt.Sprintf("archive payload: %v", err))
	}

	doc := &model.Document{
		ID:            uuid.NewString(),
		FileName:      f.FileName,
		ContentType:   optional(f.ContentType),
		Size:          int64(len(f.Data)),
		StoragePath:   &key,
		ExtractedText: text,
	}
	stored, err := s.upsertWithRetry(ctx, doc)
	if err != nil {
		var storageErr *repository.StorageError
		if errors.As(err, &storageErr) {
			return failedOutcome(f.FileName, "storage_"+string(storageErr.Kind), storageErr.Error())
		}
		return failedOutcome(f.FileName, "storage_internal", err.Error())
	}

	return FileOutcome{FileName: f.FileName, Status: StatusCommitted, Document: stored}
}

// upsertWithRetry retries connection-level failures a bounded number of times
// with exponential backoff. Constraint conflicts are permanent: a concurrent
// write already satisfied the intent.
func (s *documentService) upsertWithRetry(ctx context.Context, doc *model.Document) (*model.Document, error) {
	var stored *model.Document
	op := func() error {
		var err error
		stored, err = s.repo.Upsert(ctx, doc)
		if err == nil {
			return nil
		}
		var storageErr *repository.StorageError
		if errors.As(err, &storageErr) && storageErr.Retryable() {
			return err
		}
		return backoff.Permanent(err)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(newUpsertBackoff(), upsertMaxRetries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	return stored, nil
}

// List returns all documents, newest first.
func (s *documentService) List(ctx context.Context) ([]model.Document, error) {
	return s.repo.List(ctx)
}

// Get returns a document by its file name.
func (s *documentService) Get(ctx context.Context, fileName string) (*model.Document, error) {
	if fileName == "" {
		return nil, ErrFileNameRequired
	}
	doc, err := s.repo.FindByName(ctx, fileName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Download streams the archived payload for a document.
func (s *documentService) Download(ctx context.Context, fileName string) (io.ReadCloser, storage.ObjectInfo, error) {
	doc, err := s.Get(ctx, fileName)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	if doc.StoragePath == nil {
		return nil, storage.ObjectInfo{}, ErrNoStoredPayload
	}
	return s.store.Get(ctx, *doc.StoragePath)
}

// Delete removes the archived payload, then the catalog row. Tag rows cascade
// away with the row.
func (s *documentService) Delete(ctx context.Context, fileName string) error {
	doc, err := s.Get(ctx, fileName)
	if err != nil {
		return err
	}
	// Delete from storage first; if this fails, keep the catalog row to avoid
	// losing the reference to the archived payload.
	if doc.StoragePath != nil {
		if err := s.store.Delete(ctx, *doc.StoragePath); err != nil {
			return fmt.Errorf("delete storage: %w", err)
		}
	}
	if err := s.repo.Delete(ctx, fileName); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func failedOutcome(fileName, kind, message string) FileOutcome {
	return FileOutcome{
		FileName: fileName,
		Status:   StatusFailed,
		Failure:  &FailureReason{Kind: kind, Message: message},
	}
}

// validFileName accepts only bare file names: no path separators of either
// flavor and no relative path elements.
func validFileName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
