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

const headerIdempotencyKey = "X-Idempotency-Key"

// /pedidos。買い物客の注文と店主の注文管理。
type OrderHandler struct {
	uc       *usecase.OrderUsecase
	merchant *usecase.MerchantOrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase, merchant *usecase.MerchantOrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc, merchant: merchant}
}

type OrderCreateRequest struct {
	StoreID   int64   `json:"id_tienda"`
	AddressID int64   `json:"id_direccion"`
	Notes     *string `json:"observaciones"`
}

type OrderStatusRequest struct {
	Status string `json:"estado"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/pedidos")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.GET("/:id/items", h.items)

	merchantOnly := middleware.RoleGuard(model.RoleMerchant)
	g.GET("/estado/:estado", h.listByStatus, merchantOnly)
	g.PUT("/:id/estado", h.updateStatus, merchantOnly)
	g.PATCH("/:id/estado", h.updateStatus, merchantOnly)
}

// 注文確定。X-Idempotency-Keyがあれば同じキーで同じ注文を返す。
func (h *OrderHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}

	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), userID, usecase.PlaceOrderInput{
		StoreID:        req.StoreID,
		AddressID:      req.AddressID,
		Notes:          req.Notes,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// 店主なら自分の店舗の注文、買い物客なら自分の注文
func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}

	var (
		out []usecase.OrderOutput
		err error
	)
	if role, _ := model.ParseRole(middleware.UserRole(c)); role == model.RoleMerchant {
		out, err = h.merchant.List(c.Request().Context(), userID, c.QueryParam("estado"))
	} else {
		out, err = h.uc.ListMyOrders(c.Request().Context(), userID)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listByStatus(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}

	out, err := h.merchant.List(c.Request().Context(), userID, c.Param("estado"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}
	orderID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.GetOrder(c.Request().Context(), userID, orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) items(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}
	orderID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.GetOrderItems(c.Request().Context(), userID, orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) updateStatus(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}
	orderID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req OrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	out, err := h.merchant.UpdateStatus(c.Request().Context(), userID, orderID, usecase.UpdateOrderStatusInput{Status: req.Status})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
