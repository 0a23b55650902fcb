package usecase

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	repo "neighborhub/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 項目ごとの入力エラー（422で返す）
type FieldError struct {
	Field string
	Msg   string
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Msg)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Msg: msg})
}

// 1件もなければnil
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

const (
	MsgUnresolvedUser  = "no se pudo obtener el usuario"
	MsgPermissionError = "Error de permisos: no tienes permisos para realizar esta operación."
	MsgForeignKeyError = "Error de datos: la tienda o dirección seleccionada no existe o no es válida."
	MsgNotNullError    = "Error de datos: faltan datos requeridos. Verifica que todos los campos estén completos."
	MsgNotFound        = "not found"
	MsgDBError         = "db error"
)

func errUnresolvedUser() error {
	return NewHTTPError(http.StatusUnauthorized, MsgUnresolvedUser)
}

// DBのエラーを利用者向けのメッセージにする。
// 分類できないものは "db error"。
func dbError(err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return NewHTTPError(http.StatusNotFound, MsgNotFound)
	case errors.Is(err, repo.ErrPermission):
		return NewHTTPError(http.StatusForbidden, MsgPermissionError)
	case errors.Is(err, repo.ErrForeignKey):
		return NewHTTPError(http.StatusBadRequest, MsgForeignKeyError)
	case errors.Is(err, repo.ErrNotNull):
		return NewHTTPError(http.StatusBadRequest, MsgNotNullError)
	case errors.Is(err, repo.ErrConflict):
		return NewHTTPError(http.StatusConflict, "conflict")
	}
	return NewHTTPError(http.StatusInternalServerError, MsgDBError)
}

// Tx内で既にHTTPErrorにしたものはそのまま返す
func passOrDBError(err error) error {
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	if _, ok := AsValidationError(err); ok {
		return err
	}
	return dbError(err)
}

// 重複を除いたIDの一覧（出現順）
func distinctIDs[T any](items []T, id func(T) int64) []int64 {
	seen := make(map[int64]struct{}, len(items))
	out := make([]int64, 0, len(items))
	for _, it := range items {
		v := id(it)
		if v <= 0 {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func indexByID[T any](items []T, id func(T) int64) map[int64]T {
	m := make(map[int64]T, len(items))
	for _, it := range items {
		m[id(it)] = it
	}
	return m
}
