package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neighborhub/internal/usecase"
	"neighborhub/internal/validator"
)

func render(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, writeError(c, err))
	return rec
}

func TestWriteError_Statuses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"http error", usecase.NewHTTPError(http.StatusBadRequest, "El carrito está vacío"), 400, "El carrito está vacío"},
		{"unauthorized", usecase.ErrUnauthorized, 401, msgInvalidCredentials},
		{"security incident", usecase.ErrSecurityIncident, 401, msgSessionInvalid},
		{"forbidden", usecase.ErrForbidden, 403, msgUserInactive},
		{"conflict", usecase.ErrConflict, 409, msgEmailTaken},
		{"email used", validator.ErrEmailAlreadyUsed, 409, msgEmailTaken},
		{"invalid refresh", validator.ErrInvalidRefresh, 400, msgRefreshRequired},
		{"unknown", errors.New("boom"), 500, msgInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := render(t, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.detail, body.Detail)
		})
	}
}

func TestWriteError_ValidationIsFastAPIShaped(t *testing.T) {
	ve := &usecase.ValidationError{}
	ve.Add("precio", "debe ser un número válido")
	ve.Add("nombre", "campo requerido")

	rec := render(t, ve.Err())

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Detail, 2)
	assert.Equal(t, []string{"body", "precio"}, body.Detail[0].Loc)
	assert.Equal(t, "debe ser un número válido", body.Detail[0].Msg)
	assert.Equal(t, "value_error", body.Detail[0].Type)
	assert.Equal(t, []string{"body", "nombre"}, body.Detail[1].Loc)
}

func TestPathID(t *testing.T) {
	e := echo.New()
	for raw, ok := range map[string]bool{"7": true, "0": false, "-3": false, "abc": false} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(raw)

		id, err := pathID(c, "id")
		if ok {
			require.NoError(t, err, raw)
			assert.Equal(t, int64(7), id)
			continue
		}
		var pe *pathParamError
		assert.ErrorAs(t, err, &pe, raw)
	}
}

func TestFlexString(t *testing.T) {
	var body struct {
		A flexString `json:"a"`
		B flexString `json:"b"`
		C flexString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"12.50","b":12.5,"c":null}`), &body))

	assert.Equal(t, flexString("12.50"), body.A)
	assert.Equal(t, flexString("12.5"), body.B)
	assert.Equal(t, flexString(""), body.C)
}

// 想定外のエラーはリクエストのzerologに出して、本文には出さない
func TestWriteError_UnhandledGoesToRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/pedidos", nil)
	req = req.WithContext(log.WithContext(req.Context()))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, writeError(c, errors.New("connection reset")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "connection reset", entry["error"])
	assert.Equal(t, http.MethodGet, entry["method"])
}
