package handler

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"doccatalog/internal/config"
	"doccatalog/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay free of business logic: they translate between the wire
// format and the injected services.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, tagSvc service.TagService, ingest config.IngestConfig) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")
	api.Post("/documents/upload", UploadDocuments(docSvc, ingest))
	api.Get("/documents", ListDocuments(docSvc))
	api.Get("/documents/:filename/content", DownloadDocument(docSvc))
	api.Delete("/documents/:filename", DeleteDocument(docSvc))

	api.Get("/documents/:filename/tags", ListTags(tagSvc))
	api.Post("/documents/:filename/tags", AddUserTag(tagSvc))
	api.Post("/documents/:filename/ai-tags", AddAITag(tagSvc))
}

// HealthCheck reports readiness by pinging the database.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// uploadOutcome is the wire form of one file's ingestion result.
type uploadOutcome struct {
	FileName            string                 `json:"file_name"`
	Status              service.OutcomeStatus  `json:"status"`
	ContentType         *string                `json:"content_type,omitempty"`
	Size                *int64                 `json:"size,omitempty"`
	Route               *string                `json:"route,omitempty"`
	ExtractedTextLength *int                   `json:"extracted_text_length,omitempty"`
	FailureReason       *service.FailureReason `json:"failure_reason,omitempty"`
}

// UploadDocuments ingests a multipart batch (field name: files).
// The whole batch is answered 200 with per-file outcomes; only a malformed
// request (no files, over the caps, broken multipart) is rejected outright.
func UploadDocuments(svc service.DocumentService, ingest config.IngestConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "MALFORMED_MULTIPART", "malformed multipart payload")
		}
		headers := form.File["files"]
		if len(headers) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILES_REQUIRED", "at least one file is required")
		}
		if ingest.MaxFiles > 0 && len(headers) > ingest.MaxFiles {
			return writeError(c, fiber.StatusBadRequest, "TOO_MANY_FILES", "file count exceeds the batch limit")
		}

		files := make([]service.UploadFile, 0, len(headers))
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
			}
			files = append(files, service.UploadFile{
				FileName:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Data:        data,
			})
		}

		outcomes := svc.Ingest(c.UserContext(), files)

		resp := make([]uploadOutcome, 0, len(outcomes))
		for _, o := range outcomes {
			out := uploadOutcome{
				FileName:      o.FileName,
				Status:        o.Status,
				FailureReason: o.Failure,
			}
			if o.Document != nil {
				out.ContentType = o.Document.ContentType
				out.Size = &o.Document.Size
				out.Route = o.Document.StoragePath
				n := len(o.Document.ExtractedText)
				out.ExtractedTextLength = &n
			}
			resp = append(resp, out)
		}
		return c.JSON(resp)
	}
}

// listItem is the wire form of one catalog entry.
type listItem struct {
	FileName    string  `json:"file_name"`
	ContentType *string `json:"content_type"`
	Size        int64   `json:"size"`
	Route       *string `json:"route"`
}

// ListDocuments returns all cataloged documents, most recent first.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		items := make([]listItem, 0, len(docs))
		for _, d := range docs {
			items = append(items, listItem{
				FileName:    d.FileName,
				ContentType: d.ContentType,
				Size:        d.Size,
				Route:       d.StoragePath,
			})
		}
		return c.JSON(items)
	}
}

// DeleteDocument removes a document by file name, tags included.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := fileNameParam(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FILENAME", "invalid file name")
		}
		if err := svc.Delete(c.UserContext(), name); err != nil {
			return mapServiceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "document deleted"})
	}
}

// DownloadDocument streams the archived raw payload of a document.
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := fileNameParam(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FILENAME", "invalid file name")
		}
		rc, info, err := svc.Download(c.UserContext(), name)
		if err != nil {
			if errors.Is(err, service.ErrNoStoredPayload) {
				return writeError(c, fiber.StatusNotFound, "NO_CONTENT_STORED", "document has no stored payload")
			}
			return mapServiceError(c, err)
		}
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		// Pass the length only when it fits in int; on 32-bit platforms a
		// payload over 2 GiB would truncate, so stream without it instead.
		if info.Size > 0 && int64(int(info.Size)) == info.Size {
			return c.SendStream(rc, int(info.Size))
		}
		return c.SendStream(rc)
	}
}

type addUserTagRequest struct {
	Label string `json:"label"`
}

// AddUserTag attaches a human-assigned label to a document.
// Attaching an existing (document, label) pair is a no-op and still answers 200.
func AddUserTag(svc service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := fileNameParam(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FILENAME", "invalid file name")
		}
		var req addUserTagRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "MALFORMED_BODY", "malformed request body")
		}
		if err := svc.AddUserTag(c.UserContext(), name, req.Label); err != nil {
			return mapServiceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "tag attached"})
	}
}

type addAITagRequest struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// AddAITag attaches a machine-assigned label with its confidence score.
func AddAITag(svc service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := fileNameParam(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FILENAME", "invalid file name")
		}
		var req addAITagRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "MALFORMED_BODY", "malformed request body")
		}
		if err := svc.AddAITag(c.UserContext(), name, req.Label, req.Confidence); err != nil {
			return mapServiceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "tag attached"})
	}
}

// ListTags returns the full tag view of a document.
func ListTags(svc service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := fileNameParam(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FILENAME", "invalid file name")
		}
		set, err := svc.TagsFor(c.UserContext(), name)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(set)
	}
}

func fileNameParam(c *fiber.Ctx) (string, error) {
	return url.PathUnescape(c.Params("filename"))
}

// mapServiceError translates service sentinels into the standard error envelope.
func mapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.Is(err, service.ErrFileNameRequired),
		errors.Is(err, service.ErrLabelRequired),
		errors.Is(err, service.ErrConfidenceOutOfRange):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
