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

type DashboardHandler struct {
	uc *usecase.DashboardUsecase
}

func NewDashboardHandler(uc *usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GET /dashboard?tienda=N
func (h *DashboardHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	e.GET("/dashboard", h.get,
		middleware.AuthJWT(cfg),
		middleware.TokenVersionGuard(userRepo),
		middleware.RoleGuard(model.RoleMerchant),
	)
}

func (h *DashboardHandler) get(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unresolvedUser(c)
	}

	var storeID int64
	if raw := c.QueryParam("tienda"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v <= 0 {
			return c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{Detail: []ValidationDetail{
				{Loc: []string{"query", "tienda"}, Msg: "debe ser un número entero positivo", Type: "type_error.integer"},
			}})
		}
		storeID = v
	}

	out, err := h.uc.GetDashboard(c.Request().Context(), userID, storeID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
