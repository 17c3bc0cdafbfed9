package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Errors returned by every repository in place of driver errors.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("record with the same unique key already exists")
	ErrDependencyExists = errors.New("record is still referenced by other records")
	ErrInvalidReference = errors.New("referenced record does not exist")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapError converts pgx errors into the package sentinels. A foreign key
// violation on DELETE means rows still reference the target; on INSERT or
// UPDATE it means the referenced row is missing.
func mapError(err error, deleting bool) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicate
		case pgForeignKeyViolation:
			if deleting {
				return ErrDependencyExists
			}
			return ErrInvalidReference
		}
	}
	return err
}

// requireAffected returns ErrNotFound when a write touched no rows.
func requireAffected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
