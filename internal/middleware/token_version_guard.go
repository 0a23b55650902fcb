package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"neighborhub/internal/repository"
)

// JWTのtvとDBのtoken_versionの一致するか確認。
// 全端末ログアウトでtoken_versionが上がると古いaccess tokenは401になる。
func TokenVersionGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := UserID(c)
			if userID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON(msgNotAuthenticated))
			}

			tv, ok := c.Get(CtxTokenVersionKey).(int)
			if !ok || tv < 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON(msgNotAuthenticated))
			}

			user, err := userRepo.FindByID(c.Request().Context(), userID)
			if err != nil || user == nil || !user.IsActive {
				return c.JSON(http.StatusUnauthorized, errorJSON(msgNotAuthenticated))
			}
			if user.TokenVersion != tv {
				return c.JSON(http.StatusUnauthorized, errorJSON(msgNotAuthenticated))
			}

			return next(c)
		}
	}
}
