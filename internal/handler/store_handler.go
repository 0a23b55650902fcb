package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"neighborhub/internal/config"
	"neighborhub/internal/domain/model"
	"neighborhub/internal/middleware"
	"neighborhub/internal/repository"
	"neighborhub/internal/usecase"
)

// /tiendas と /categorias
type StoreHandler struct {
	stores     *usecase.StoreUsecase
	categories *usecase.CategoryUsecase
}

func NewStoreHandler(stores *usecase.StoreUsecase, categories *usecase.CategoryUsecase) *StoreHandler {
	return &StoreHandler{stores: stores, categories: categories}
}

type storeRequest struct {
	Name        string  `json:"nombre_tienda"`
	Description *string `json:"descripcion"`
	Phone       *string `json:"telefono"`
	Address     *string `json:"direccion"`
	Status      string  `json:"estado"`
	ImageURL    *string `json:"imagen_url"`
}

func (r storeRequest) input() usecase.StoreInput {
	return usecase.StoreInput{
		Name:        r.Name,
		Description: r.Description,
		Phone:       r.Phone,
		Address:     r.Address,
		Status:      r.Status,
		ImageURL:    r.ImageURL,
	}
}

type categoryRequest struct {
	StoreID     int64   `json:"id_tienda"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion"`
}

func (r categoryRequest) input() usecase.CategoryInput {
	return usecase.CategoryInput{StoreID: r.StoreID, Name: r.Name, Description: r.Description}
}

func (h *StoreHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	authed := []echo.MiddlewareFunc{middleware.AuthJWT(cfg), middleware.TokenVersionGuard(userRepo)}
	merchantOnly := middleware.RoleGuard(model.RoleMerchant)

	s := e.Group("/tiendas", authed...)
	s.GET("", h.listStores)
	s.POST("", h.createStore, merchantOnly)
	s.PUT("/:id", h.updateStore, merchantOnly)
	s.DELETE("/:id", h.deleteStore, merchantOnly)

	cg := e.Group("/categorias", authed...)
	cg.GET("/:id", h.listCategories)
	cg.POST("", h.createCategory, merchantOnly)
	cg.PUT("/:id", h.updateCategory, merchantOnly)
	cg.DELETE("/:id", h.deleteCategory, merchantOnly)
}

func (h *StoreHandler) listStores(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}
	role, _ := model.ParseRole(middleware.UserRole(c))

	out, err := h.stores.List(c.Request().Context(), userID, role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StoreHandler) createStore(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}
	var req storeRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	out, err := h.stores.Create(c.Request().Context(), userID, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *StoreHandler) updateStore(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}
	storeID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req storeRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	out, err := h.stores.Update(c.Request().Context(), userID, storeID, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StoreHandler) deleteStore(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}
	storeID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.stores.Delete(c.Request().Context(), userID, storeID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /categorias/:id のidは店舗ID
func (h *StoreHandler) listCategories(c echo.Context) error {
	storeID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.categories.ListByStore(c.Request().Context(), storeID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StoreHandler) createCategory(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	out, err := h.categories.Create(c.Request().Context(), userID, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *StoreHandler) updateCategory(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	out, err := h.categories.Update(c.Request().Context(), userID, id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StoreHandler) deleteCategory(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.categories.Delete(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
