package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"doccatalog/internal/repository"
)

// wrapErr classifies a driver error into a repository.StorageError so callers
// can make retry decisions without inspecting driver internals.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		// Class 23 — integrity constraint violation.
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "23":
			return &repository.StorageError{Kind: repository.KindConflict, Err: err}
		// Class 08 — connection exception.
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08":
			return &repository.StorageError{Kind: repository.KindConnection, Err: err}
		}
		return &repository.StorageError{Kind: repository.KindInternal, Err: err}
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.As(err, &netErr) {
		return &repository.StorageError{Kind: repository.KindConnection, Err: err}
	}

	return &repository.StorageError{Kind: repository.KindInternal, Err: err}
}
