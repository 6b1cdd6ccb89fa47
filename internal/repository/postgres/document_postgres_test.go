package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doccatalog/internal/model"
	"doccatalog/internal/repository"
)

func docColumns() []string {
	return []string{"id", "filename", "content_type", "size", "storage_path", "extracted_text", "created_at", "updated_at"}
}

func strPtr(s string) *string { return &s }

func TestDocumentPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("orders newest first", func(t *testing.T) {
		t3 := time.Now().UTC()
		t2 := t3.Add(-time.Hour)
		t1 := t3.Add(-2 * time.Hour)

		rows := sqlmock.NewRows(docColumns()).
			AddRow("id-3", "third.txt", "text/plain", 30, nil, "c", t3, t3).
			AddRow("id-2", "second.txt", nil, 20, "documents/second.txt", "b", t2, t2).
			AddRow("id-1", "first.txt", "text/plain", 10, nil, "a", t1, t1)

		mock.ExpectQuery("SELECT (.+) FROM documents ORDER BY created_at DESC").
			WillReturnRows(rows)

		items, err := repo.List(ctx)

		assert.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "third.txt", items[0].FileName)
		assert.Equal(t, "second.txt", items[1].FileName)
		assert.Equal(t, "first.txt", items[2].FileName)
		assert.Nil(t, items[1].ContentType)
		require.NotNil(t, items[1].StoragePath)
		assert.Equal(t, "documents/second.txt", *items[1].StoragePath)
	})

	t.Run("empty table yields empty slice", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents ORDER BY created_at DESC").
			WillReturnRows(sqlmock.NewRows(docColumns()))

		items, err := repo.List(ctx)

		assert.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}

func TestDocumentPostgres_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		ID:            "new-uuid",
		FileName:      "report.pdf",
		ContentType:   strPtr("application/pdf"),
		Size:          2048,
		StoragePath:   strPtr("documents/report.pdf"),
		ExtractedText: "page one\npage two",
	}

	t.Run("insert returns stored row", func(t *testing.T) {
		rows := sqlmock.NewRows(docColumns()).
			AddRow(doc.ID, doc.FileName, *doc.ContentType, doc.Size, *doc.StoragePath, doc.ExtractedText, now, now)

		mock.ExpectQuery("INSERT INTO documents").
			WithArgs(doc.ID, doc.FileName, "application/pdf", doc.Size, "documents/report.pdf", doc.ExtractedText).
			WillReturnRows(rows)

		out, err := repo.Upsert(ctx, doc)

		assert.NoError(t, err)
		require.NotNil(t, out)
		assert.Equal(t, doc.FileName, out.FileName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict keeps existing id and advances updated_at", func(t *testing.T) {
		later := now.Add(time.Minute)
		rows := sqlmock.NewRows(docColumns()).
			AddRow("existing-uuid", doc.FileName, *doc.ContentType, doc.Size, *doc.StoragePath, doc.ExtractedText, now, later)

		mock.ExpectQuery("INSERT INTO documents").
			WithArgs(doc.ID, doc.FileName, "application/pdf", doc.Size, "documents/report.pdf", doc.ExtractedText).
			WillReturnRows(rows)

		out, err := repo.Upsert(ctx, doc)

		assert.NoError(t, err)
		assert.Equal(t, "existing-uuid", out.ID)
		assert.True(t, out.UpdatedAt.After(out.CreatedAt))
	})

	t.Run("connection failure is classified retryable", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO documents").
			WillReturnError(&pgconn.PgError{Code: "08006", Message: "connection failure"})

		_, err := repo.Upsert(ctx, doc)

		var storageErr *repository.StorageError
		require.ErrorAs(t, err, &storageErr)
		assert.Equal(t, repository.KindConnection, storageErr.Kind)
		assert.True(t, storageErr.Retryable())
	})
}

func TestDocumentPostgres_FindByName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		now := time.Now().UTC()
		rows := sqlmock.NewRows(docColumns()).
			AddRow("id-1", "notes.txt", "text/plain", 12, nil, "hello", now, now)

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE filename").
			WithArgs("notes.txt").
			WillReturnRows(rows)

		doc, err := repo.FindByName(ctx, "notes.txt")

		assert.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "id-1", doc.ID)
		assert.Nil(t, doc.StoragePath)
	})

	t.Run("missing name maps to ErrNotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE filename").
			WithArgs("ghost.txt").
			WillReturnRows(sqlmock.NewRows(docColumns()))

		doc, err := repo.FindByName(ctx, "ghost.txt")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("removes matching row", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM documents WHERE filename").
			WithArgs("report.pdf").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "report.pdf"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent row is a distinguishable not-found", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM documents WHERE filename").
			WithArgs("ghost.pdf").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, "ghost.pdf"), repository.ErrNotFound)
	})
}
