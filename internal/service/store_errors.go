package service

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	appErrors "github.com/campus-mailroom/mailroom-api/pkg/errors"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// storeError maps repository failures onto API errors: missing rows become
// 404, unique and foreign key violations 409, anything else 500.
func storeError(err error, noun, failed string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, noun+" not found")
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, noun+" already exists")
		case pqForeignKeyViolation:
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, noun+" references or is referenced by another record")
		}
	}
	return appErrors.Internal(err, failed)
}
