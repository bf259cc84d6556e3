package infra

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type ErrorKind string

const (
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindConflict     ErrorKind = "CONFLICT"
	KindDuplicateKey ErrorKind = "DUPLICATE_KEY"
	KindForeignKey   ErrorKind = "FOREIGN_KEY_VIOLATION"
	KindInvalidInput ErrorKind = "INVALID_INPUT"
	KindUnknown      ErrorKind = "UNKNOWN"
)

// Postgres SQLSTATE codes the repositories care about. Serialization
// failures (40001, 40P01) are not classified here; the unit of work
// retries those before they ever reach a caller.
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr    = "22P02"
)

type RepositoryError struct {
	Kind ErrorKind
	err  error
}

func (e *RepositoryError) Error() string {
	return string(e.Kind) + ": " + e.err.Error()
}

func (e *RepositoryError) Unwrap() error {
	return e.err
}

func NewRepositoryError(kind ErrorKind, err error) *RepositoryError {
	return &RepositoryError{Kind: kind, err: err}
}

// ClassifyError maps driver errors onto repository error kinds so the
// usecase layer can branch without importing pgx.
func ClassifyError(err error) *RepositoryError {
	if err == nil {
		return nil
	}

	var repoErr *RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return NewRepositoryError(KindNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return NewRepositoryError(KindDuplicateKey, err)
		case pgExclusionViolation:
			return NewRepositoryError(KindConflict, err)
		case pgForeignKeyViolation:
			return NewRepositoryError(KindForeignKey, err)
		case pgInvalidTextRepr:
			return NewRepositoryError(KindInvalidInput, err)
		}
	}

	return NewRepositoryError(KindUnknown, err)
}

func IsKind(err error, kind ErrorKind) bool {
	var repoErr *RepositoryError
	return errors.As(err, &repoErr) && repoErr.Kind == kind
}
