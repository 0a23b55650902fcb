package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"neighborhub/internal/domain/model"
)

// contextのroleが指定のものか確認（店主用のルートなど）
func RoleGuard(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got, ok := model.ParseRole(UserRole(c))
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON(msgNotAuthenticated))
			}
			if got != role {
				return c.JSON(http.StatusForbidden, errorJSON("Error de permisos: no tienes permisos para realizar esta operación."))
			}
			return next(c)
		}
	}
}
