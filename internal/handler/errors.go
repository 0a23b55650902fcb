package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"neighborhub/internal/middleware"
	"neighborhub/internal/usecase"
	"neighborhub/internal/validator"
)

// {"detail": "..."}
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// 422の1項目分
type ValidationDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// {"detail": [{"loc": ["body", "precio"], "msg": "...", "type": "value_error"}]}
type ValidationErrorResponse struct {
	Detail []ValidationDetail `json:"detail"`
}

const (
	msgInvalidCredentials = "Correo o contraseña incorrectos"
	msgSessionInvalid     = "La sesión ya no es válida. Inicia sesión de nuevo."
	msgUserInactive       = "El usuario está desactivado"
	msgEmailTaken         = "El correo ya está registrado"
	msgRefreshRequired    = "refresh_token es requerido"
	msgInternal           = "internal error"
)

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if ve, ok := usecase.AsValidationError(err); ok {
		body := ValidationErrorResponse{Detail: make([]ValidationDetail, 0, len(ve.Fields))}
		for _, f := range ve.Fields {
			body.Detail = append(body.Detail, ValidationDetail{Loc: []string{"body", f.Field}, Msg: f.Msg, Type: "value_error"})
		}
		return c.JSON(http.StatusUnprocessableEntity, body)
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Detail: he.Message})
	}
	var pe *pathParamError
	if errors.As(err, &pe) {
		return c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{Detail: []ValidationDetail{
			{Loc: []string{"path", pe.name}, Msg: "debe ser un número entero positivo", Type: "type_error.integer"},
		}})
	}
	var qe *queryParamError
	if errors.As(err, &qe) {
		return c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{Detail: []ValidationDetail{
			{Loc: []string{"query", qe.name}, Msg: qe.msg, Type: "type_error.integer"},
		}})
	}

	// 認証まわりのsentinel
	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: msgInvalidCredentials})
	case errors.Is(err, usecase.ErrSecurityIncident):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: msgSessionInvalid})
	case errors.Is(err, usecase.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Detail: msgUserInactive})
	case errors.Is(err, usecase.ErrConflict), errors.Is(err, validator.ErrEmailAlreadyUsed):
		return c.JSON(http.StatusConflict, ErrorResponse{Detail: msgEmailTaken})
	case errors.Is(err, validator.ErrInvalidRefresh):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: msgRefreshRequired})
	}

	//500 リクエストのloggerはserverのミドルウェアがcontextに入れる
	zerolog.Ctx(c.Request().Context()).Error().Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: msgInternal})
}

// JSONとして読めないボディ
func bindError(c echo.Context) error {
	return c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{Detail: []ValidationDetail{
		{Loc: []string{"body"}, Msg: "JSON inválido", Type: "value_error.jsondecode"},
	}})
}

// パスの数値IDが不正
type pathParamError struct {
	name string
}

func (e *pathParamError) Error() string {
	return "invalid path param: " + e.name
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &pathParamError{name: name}
	}
	return id, nil
}

// クエリの整数。空ならdef、範囲外は422
type queryParamError struct {
	name string
	msg  string
}

func (e *queryParamError) Error() string {
	return "invalid query param: " + e.name
}

func queryInt(c echo.Context, name string, def, min, max int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return 0, &queryParamError{name: name, msg: "debe ser un número entero entre " + strconv.Itoa(min) + " y " + strconv.Itoa(max)}
	}
	return v, nil
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	id := middleware.UserID(c)
	return id, id > 0
}

func unresolvedUser(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: usecase.MsgUnresolvedUser})
}

// 数値でも文字列でも受ける（"12.50" / 12.5）。検証はusecase側。
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}
