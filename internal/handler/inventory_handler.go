package handler

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"neighborhub/internal/config"
	"neighborhub/internal/domain/model"
	"neighborhub/internal/middleware"
	"neighborhub/internal/repository"
	"neighborhub/internal/usecase"
)

// /inventarios は店主専用
type InventoryHandler struct {
	uc *usecase.InventoryUsecase
}

func NewInventoryHandler(uc *usecase.InventoryUsecase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

type inventoryRequest struct {
	StoreID     int64      `json:"id_tienda"`
	Stock       flexString `json:"stock"`
	Description *string    `json:"descripcion"`
}

func (r inventoryRequest) input() usecase.InventoryInput {
	return usecase.InventoryInput{StoreID: r.StoreID, Stock: string(r.Stock), Description: r.Description}
}

func (h *InventoryHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/inventarios",
		middleware.AuthJWT(cfg),
		middleware.TokenVersionGuard(userRepo),
		middleware.RoleGuard(model.RoleMerchant),
	)
	g.GET("/:id", h.list)
	g.GET("/:id/historial", h.history)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// idは店舗ID
func (h *InventoryHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}
	storeID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ListByStore(c.Request().Context(), userID, storeID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// idは在庫ID。?limit=1..100（20）&offset=0..
func (h *InventoryHandler) history(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	limit, err := queryInt(c, "limit", usecase.DefaultHistoryLimit, 1, usecase.MaxHistoryLimit)
	if err != nil {
		return writeError(c, err)
	}
	offset, err := queryInt(c, "offset", 0, 0, math.MaxInt32)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.StockHistory(c.Request().Context(), userID, id, limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InventoryHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}
	var req inventoryRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	out, err := h.uc.Create(c.Request().Context(), userID, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *InventoryHandler) update(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req inventoryRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	out, err := h.uc.Update(c.Request().Context(), userID, id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InventoryHandler) delete(c echo.Context) error {
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
