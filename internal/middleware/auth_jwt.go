package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"neighborhub/internal/config"
	"neighborhub/internal/usecase"
)

const (
	CtxUserIDKey       = "user_id"       // int64
	CtxUserRoleKey     = "user_role"     // string
	CtxTokenVersionKey = "token_version" // int
	ctxTokenKey        = "jwt"
)

const msgNotAuthenticated = "Not authenticated"

type errorResponse struct {
	Detail string `json:"detail"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Detail: msg}
}

// bearerAuth用のJWT検証ミドルウェア（echo-jwt）。
// 検証OKならuser_id / user_role / token_versionをcontextに入れる。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(cfg.JWTSecret),
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		ContextKey:    ctxTokenKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(usecase.AccessClaims)
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get(ctxTokenKey).(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(*usecase.AccessClaims)
			if !ok {
				return
			}
			userID, err := claims.UserID()
			if err != nil || userID <= 0 || claims.Role == "" || claims.TokenVersion < 0 {
				return
			}
			c.Set(CtxUserIDKey, userID)
			c.Set(CtxUserRoleKey, claims.Role)
			c.Set(CtxTokenVersionKey, claims.TokenVersion)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, errorJSON(msgNotAuthenticated))
		},
	})
}

// AuthJWTが入れたuser_id。なければ0。
func UserID(c echo.Context) int64 {
	id, _ := c.Get(CtxUserIDKey).(int64)
	return id
}

func UserRole(c echo.Context) string {
	role, _ := c.Get(CtxUserRoleKey).(string)
	return role
}
