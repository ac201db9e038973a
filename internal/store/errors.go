package store

import (
	"errors"

	"github.com/jackc/pgconn"

	"github.com/grvbrk/vidhook_server/internal/errs"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// translatePgError maps constraint violations onto application errors. Any
// other error is returned untouched.
func translatePgError(err error, conflictMsg, notFoundMsg string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return errs.Errorf(errs.ECONFLICT, conflictMsg)
	case pgForeignKeyViolation:
		return errs.Errorf(errs.ENOTFOUND, notFoundMsg)
	case pgCheckViolation:
		return errs.Errorf(errs.EINVALID, "Request violates a data constraint")
	}
	return err
}
