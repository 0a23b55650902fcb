package server

import (
	"github.com/labstack/echo/v4"

	"neighborhub/internal/config"
	"neighborhub/internal/repository"
)

// 各Handlerが実装する
type RouteRegistrar interface {
	RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository)
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, hs ...RouteRegistrar) {
	for _, h := range hs {
		h.RegisterRoutes(e, cfg, userRepo)
	}
}
