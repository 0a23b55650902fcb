package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"neighborhub/internal/config"
	"neighborhub/internal/domain/model"
	"neighborhub/internal/middleware"
	"neighborhub/internal/repository"
	"neighborhub/internal/usecase"
)

type mwErrorResponse struct {
	Detail string `json:"detail"`
}

type mwOKResponse struct {
	UserID       int64  `json:"user_id"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
}

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) FindByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	args := m.Called(ctx, ids)
	list, _ := args.Get(0).([]model.User)
	return list, args.Error(1)
}

func (m *userRepoMock) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepoMock) IncrementTokenVersion(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var _ repository.UserRepository = (*userRepoMock)(nil)

const secret = "test-secret"

func makeJWT(t *testing.T, key string, sub string, role string, tv int, method jwt.SigningMethod, exp time.Time) string {
	t.Helper()
	claims := usecase.AccessClaims{
		Role:         role,
		TokenVersion: tv,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func newEcho(users repository.UserRepository, extra ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	mws := append([]echo.MiddlewareFunc{
		middleware.AuthJWT(config.Config{JWTSecret: secret}),
		middleware.TokenVersionGuard(users),
	}, extra...)
	e.GET("/me", func(c echo.Context) error {
		tv, _ := c.Get(middleware.CtxTokenVersionKey).(int)
		return c.JSON(http.StatusOK, mwOKResponse{
			UserID:       middleware.UserID(c),
			Role:         middleware.UserRole(c),
			TokenVersion: tv,
		})
	}, mws...)
	return e
}

func do(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthJWT_ValidTokenSetsContext(t *testing.T) {
	users := &userRepoMock{}
	users.On("FindByID", mock.Anything, int64(5)).Return(&model.User{ID: 5, TokenVersion: 2, IsActive: true}, nil).Once()

	tok := makeJWT(t, secret, "5", "tiendero", 2, jwt.SigningMethodHS256, time.Now().Add(time.Minute))
	rec := do(newEcho(users), tok)

	require.Equal(t, http.StatusOK, rec.Code)
	var body mwOKResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, mwOKResponse{UserID: 5, Role: "tiendero", TokenVersion: 2}, body)
}

func TestAuthJWT_Rejects(t *testing.T) {
	now := time.Now()
	cases := map[string]string{
		"missing":     "",
		"garbage":     "not-a-jwt",
		"wrong key":   makeJWT(t, "other", "5", "vecino", 0, jwt.SigningMethodHS256, now.Add(time.Minute)),
		"expired":     makeJWT(t, secret, "5", "vecino", 0, jwt.SigningMethodHS256, now.Add(-time.Minute)),
		"wrong alg":   makeJWT(t, secret, "5", "vecino", 0, jwt.SigningMethodHS512, now.Add(time.Minute)),
		"bad subject": makeJWT(t, secret, "abc", "vecino", 0, jwt.SigningMethodHS256, now.Add(time.Minute)),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			users := &userRepoMock{}
			rec := do(newEcho(users), tok)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			var body mwErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Not authenticated", body.Detail)
			users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		})
	}
}

func TestTokenVersionGuard_StaleVersion(t *testing.T) {
	users := &userRepoMock{}
	users.On("FindByID", mock.Anything, int64(5)).Return(&model.User{ID: 5, TokenVersion: 3, IsActive: true}, nil).Once()

	tok := makeJWT(t, secret, "5", "vecino", 2, jwt.SigningMethodHS256, time.Now().Add(time.Minute))
	rec := do(newEcho(users), tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleGuard(t *testing.T) {
	users := &userRepoMock{}
	users.On("FindByID", mock.Anything, int64(5)).Return(&model.User{ID: 5, IsActive: true}, nil)
	e := newEcho(users, middleware.RoleGuard(model.RoleMerchant))

	rec := do(e, makeJWT(t, secret, "5", "vecino", 0, jwt.SigningMethodHS256, time.Now().Add(time.Minute)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, makeJWT(t, secret, "5", "TIENDERO", 0, jwt.SigningMethodHS256, time.Now().Add(time.Minute)))
	assert.Equal(t, http.StatusOK, rec.Code)
}
