package repository

import (
	"errors"
	"fmt"

	"menuhub/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes that carry domain meaning.
const (
	pgUniqueViolation  = "23505"
	pgCheckViolation   = "23514"
	pgNumericRange     = "22003"
	pgForeignKey       = "23503"
	pgLockNotAvailable = "55P03"
	pgQueryCanceled    = "57014"
	pgSerialization    = "40001"
	pgDeadlockDetected = "40P01"
)

// wrapError wraps a storage error as "failed to <action>", translating
// PostgreSQL errors that have a domain meaning into domain errors.
func wrapError(action string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgQueryCanceled:
			return model.WrapDomainError(model.ErrCodeBusy, err, "failed to "+action+": lock wait timed out")
		case pgUniqueViolation:
			return model.WrapDomainError(model.ErrCodeConflict, err, "failed to "+action+": already exists")
		case pgSerialization, pgDeadlockDetected:
			return model.WrapDomainError(model.ErrCodeConflict, err, "failed to "+action+": concurrent update")
		case pgForeignKey:
			return model.WrapDomainError(model.ErrCodeMenuItemNotFound, err, "failed to "+action+": unknown menu item")
		case pgCheckViolation:
			return model.WrapDomainError(model.ErrCodeInvalidArgument, err, "failed to "+action+": constraint violated")
		case pgNumericRange:
			return model.WrapDomainError(model.ErrCodeInvalidArgument, err, "failed to "+action+": value out of range")
		}
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
