package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"neighborhub/internal/config"
	"neighborhub/internal/domain/model"
	"neighborhub/internal/middleware"
	"neighborhub/internal/repository"
	"neighborhub/internal/usecase"
)

// /productos
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type productRequest struct {
	StoreID     int64      `json:"id_tienda"`
	InventoryID int64      `json:"id_inventario"`
	CategoryID  int64      `json:"id_categoria"`
	Name        string     `json:"nombre"`
	Description *string    `json:"descripcion"`
	Price       flexString `json:"precio"`
	ImageURL    *string    `json:"imagen_url"`
	Active      *bool      `json:"activo"`
}

func (r productRequest) input() usecase.ProductInput {
	return usecase.ProductInput{
		StoreID:     r.StoreID,
		InventoryID: r.InventoryID,
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Description: r.Description,
		Price:       string(r.Price),
		ImageURL:    r.ImageURL,
		Active:      r.Active,
	}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/productos", middleware.AuthJWT(cfg), middleware.TokenVersionGuard(userRepo))
	merchantOnly := middleware.RoleGuard(model.RoleMerchant)

	g.GET("/:id", h.list)
	g.POST("", h.create, merchantOnly)
	g.PUT("/:id", h.update, merchantOnly)
	g.DELETE("/:id", h.delete, merchantOnly)
}

// GET /productos/:id のidは店舗ID。?categoria=で絞り込み。
func (h *ProductHandler) list(c echo.Context) error {
	storeID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	in := usecase.ListProductsInput{StoreID: storeID}
	if v := c.QueryParam("categoria"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{Detail: []ValidationDetail{
				{Loc: []string{"query", "categoria"}, Msg: "debe ser un número entero", Type: "type_error.integer"},
			}})
		}
		in.CategoryID = &x
	}
	if role, _ := model.ParseRole(middleware.UserRole(c)); role != model.RoleMerchant {
		in.ActiveOnly = true
	}

	out, err := h.uc.ListByStore(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	out, err := h.uc.Create(c.Request().Context(), userID, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ProductHandler) update(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	out, err := h.uc.Update(c.Request().Context(), userID, id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) delete(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.Delete(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
