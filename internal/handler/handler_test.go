package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"neighborhub/internal/config"
	"neighborhub/internal/domain/model"
	"neighborhub/internal/handler"
	"neighborhub/internal/repository"
	"neighborhub/internal/usecase"
)

var testCfg = config.Config{JWTSecret: "handler-secret"}

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

type addressRepoMock struct{ mock.Mock }

func (m *addressRepoMock) Create(ctx context.Context, a model.Address) (model.Address, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(model.Address), args.Error(1)
}

func (m *addressRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Address), args.Error(1)
}

func (m *addressRepoMock) FindByID(ctx context.Context, id int64) (model.Address, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Address), args.Error(1)
}

func (m *addressRepoMock) FindByIDs(ctx context.Context, ids []int64) ([]model.Address, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]model.Address), args.Error(1)
}

func (m *addressRepoMock) Update(ctx context.Context, a model.Address) error {
	return m.Called(ctx, a).Error(0)
}

func (m *addressRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var _ repository.AddressRepository = (*addressRepoMock)(nil)

// 有効なユーザーとしてTokenVersionGuardを通す
func activeUser(id int64, role model.Role) *userRepoMock {
	users := &userRepoMock{}
	users.On("FindByID", mock.Anything, id).Return(&model.User{ID: id, Role: role, IsActive: true}, nil)
	return users
}

func bearer(t *testing.T, userID int64, role model.Role) string {
	t.Helper()
	claims := usecase.AccessClaims{
		Role:         string(role),
		TokenVersion: 0,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testCfg.JWTSecret))
	require.NoError(t, err)
	return "Bearer " + tok
}

func call(e *echo.Echo, method, path, auth, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newAddressServer(users repository.UserRepository, addresses repository.AddressRepository) *echo.Echo {
	e := echo.New()
	handler.NewAddressHandler(usecase.NewAddressUsecase(addresses)).RegisterRoutes(e, testCfg, users)
	return e
}

func TestAddressHandler_ListOwn(t *testing.T) {
	users := activeUser(3, model.RoleShopper)
	addresses := &addressRepoMock{}
	addresses.On("ListByUserID", mock.Anything, int64(3)).
		Return([]model.Address{{ID: 1, UserID: 3, Text: "Calle 10 #5-20"}}, nil).Once()

	rec := call(newAddressServer(users, addresses), http.MethodGet, "/direcciones", bearer(t, 3, model.RoleShopper), "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []model.Address
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Calle 10 #5-20", got[0].Text)
	addresses.AssertExpectations(t)
}

func TestAddressHandler_RequiresToken(t *testing.T) {
	rec := call(newAddressServer(&userRepoMock{}, &addressRepoMock{}), http.MethodGet, "/direcciones", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Not authenticated"}`, rec.Body.String())
}

func TestAddressHandler_CreateValidation(t *testing.T) {
	users := activeUser(3, model.RoleShopper)
	addresses := &addressRepoMock{}

	rec := call(newAddressServer(users, addresses), http.MethodPost, "/direcciones",
		bearer(t, 3, model.RoleShopper), `{"direccion":"  ","latitud":120}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body handler.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Detail, 2)
	assert.Equal(t, []string{"body", "direccion"}, body.Detail[0].Loc)
	assert.Equal(t, []string{"body", "latitud"}, body.Detail[1].Loc)
	addresses.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddressHandler_DeleteOthersIsNotFound(t *testing.T) {
	users := activeUser(3, model.RoleShopper)
	addresses := &addressRepoMock{}
	addresses.On("FindByID", mock.Anything, int64(9)).Return(model.Address{ID: 9, UserID: 4}, nil).Once()

	rec := call(newAddressServer(users, addresses), http.MethodDelete, "/direcciones/9", bearer(t, 3, model.RoleShopper), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	addresses.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestAddressHandler_BadPathParam(t *testing.T) {
	users := activeUser(3, model.RoleShopper)

	rec := call(newAddressServer(users, &addressRepoMock{}), http.MethodDelete, "/direcciones/abc", bearer(t, 3, model.RoleShopper), "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body handler.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Detail, 1)
	assert.Equal(t, []string{"path", "id"}, body.Detail[0].Loc)
}

func TestMerchantRoutes_RejectShopper(t *testing.T) {
	users := activeUser(3, model.RoleShopper)
	e := echo.New()
	handler.NewOrderHandler(nil, nil).RegisterRoutes(e, testCfg, users)
	handler.NewDashboardHandler(nil).RegisterRoutes(e, testCfg, users)
	handler.NewInventoryHandler(nil).RegisterRoutes(e, testCfg, users)

	tok := bearer(t, 3, model.RoleShopper)
	for _, r := range []struct{ method, path, body string }{
		{http.MethodGet, "/pedidos/estado/pendiente", ""},
		{http.MethodPut, "/pedidos/1/estado", `{"estado":"confirmado"}`},
		{http.MethodGet, "/dashboard", ""},
		{http.MethodGet, "/inventarios/1", ""},
		{http.MethodGet, "/inventarios/1/historial", ""},
	} {
		rec := call(e, r.method, r.path, tok, r.body)
		assert.Equal(t, http.StatusForbidden, rec.Code, r.path)
	}
}

func TestDashboardHandler_BadStoreQuery(t *testing.T) {
	users := activeUser(8, model.RoleMerchant)
	e := echo.New()
	handler.NewDashboardHandler(nil).RegisterRoutes(e, testCfg, users)

	rec := call(e, http.MethodGet, "/dashboard?tienda=x", bearer(t, 8, model.RoleMerchant), "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tienda"`)
}

func TestInventoryHandler_HistoryQueryValidation(t *testing.T) {
	users := activeUser(8, model.RoleMerchant)
	e := echo.New()
	handler.NewInventoryHandler(nil).RegisterRoutes(e, testCfg, users)
	tok := bearer(t, 8, model.RoleMerchant)

	for path, field := range map[string]string{
		"/inventarios/1/historial?limit=0":   "limit",
		"/inventarios/1/historial?limit=101": "limit",
		"/inventarios/1/historial?limit=x":   "limit",
		"/inventarios/1/historial?offset=-1": "offset",
	} {
		rec := call(e, http.MethodGet, path, tok, "")
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, path)

		var body handler.ValidationErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Detail, 1)
		assert.Equal(t, []string{"query", field}, body.Detail[0].Loc, path)
	}
}
