package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"neighborhub/internal/config"
	"neighborhub/internal/middleware"
	"neighborhub/internal/repository"
	"neighborhub/internal/usecase"
)

type AddressHandler struct {
	uc *usecase.AddressUsecase
}

func NewAddressHandler(uc *usecase.AddressUsecase) *AddressHandler {
	return &AddressHandler{uc: uc}
}

type addressRequest struct {
	Text      string   `json:"direccion"`
	Reference *string  `json:"referencia"`
	Latitude  *float64 `json:"latitud"`
	Longitude *float64 `json:"longitud"`
}

func (r addressRequest) input() usecase.AddressInput {
	return usecase.AddressInput{
		Text:      r.Text,
		Reference: r.Reference,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

func (h *AddressHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/direcciones", middleware.AuthJWT(cfg), middleware.TokenVersionGuard(userRepo))
	g.GET("", h.list)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *AddressHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}

	out, err := h.uc.List(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AddressHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}

	var req addressRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	out, err := h.uc.Create(c.Request().Context(), userID, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AddressHandler) update(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req addressRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	out, err := h.uc.Update(c.Request().Context(), userID, id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AddressHandler) delete(c echo.Context) error {
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
