package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"neighborhub/internal/repository"
)

const (
	pgForeignKeyViolation   = "23503"
	pgNotNullViolation      = "23502"
	pgUniqueViolation       = "23505"
	pgInsufficientPrivilege = "42501"
)

// Translate はgorm/pgxのエラーをrepositoryの共通エラーに包み直す。
// 元のエラーは%wで残すのでログには生メッセージが出る。
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgForeignKeyViolation:
		return wrap(repository.ErrForeignKey, err)
	case pgNotNullViolation:
		return wrap(repository.ErrNotNull, err)
	case pgUniqueViolation:
		return wrap(repository.ErrConflict, err)
	case pgInsufficientPrivilege:
		return wrap(repository.ErrPermission, err)
	}
	return err
}

type classified struct {
	kind  error
	cause error
}

func (c *classified) Error() string { return c.kind.Error() + ": " + c.cause.Error() }

func (c *classified) Unwrap() []error { return []error{c.kind, c.cause} }

func wrap(kind, cause error) error {
	return &classified{kind: kind, cause: cause}
}
