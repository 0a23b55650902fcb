package server

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"neighborhub/internal/config"
	"neighborhub/internal/handler"
	"neighborhub/internal/infra/cache"
	"neighborhub/internal/infra/messaging"
	infraRepo "neighborhub/internal/infra/repository"
	"neighborhub/internal/usecase"
	"neighborhub/internal/validator"
)

// Deps は外部につながる部品。Guard/Eventsはnilなら何もしない実装になる。
type Deps struct {
	DB     *gorm.DB
	Guard  cache.IdempotencyGuard
	Events messaging.OrderEventPublisher
}

// Build はRepository→Usecase→Handlerを組み立てて、ルート登録済みのechoを返す。
func Build(cfg config.Config, log zerolog.Logger, d Deps) *echo.Echo {
	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(d.DB)
	rtRepo := infraRepo.NewRefreshTokenRepository(d.DB)
	addressRepo := infraRepo.NewAddressGormRepository(d.DB)
	storeRepo := infraRepo.NewStoreGormRepository(d.DB)
	categoryRepo := infraRepo.NewCategoryGormRepository(d.DB)
	productRepo := infraRepo.NewProductGormRepository(d.DB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(d.DB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(d.DB)
	orderRepo := infraRepo.NewOrderGormRepository(d.DB)
	auditRepo := infraRepo.NewAuditLogGormRepository(d.DB)
	txm := infraRepo.NewTxManagerGorm(d.DB)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, rtRepo, validator.NewAuthValidator(userRepo), log)
	cartUC := usecase.NewCartUsecase(cartItemRepo, productRepo, inventoryRepo, storeRepo, log)
	orderUC := usecase.NewOrderUsecase(usecase.OrderDeps{
		Tx:        txm,
		Orders:    orderRepo,
		CartItems: cartItemRepo,
		Addresses: addressRepo,
		Products:  productRepo,
		Stores:    storeRepo,
		Guard:     d.Guard,
		Events:    d.Events,
		Log:       log,
	})
	merchantUC := usecase.NewMerchantOrderUsecase(txm, orderRepo, storeRepo, addressRepo, userRepo, d.Events, log)
	dashboardUC := usecase.NewDashboardUsecase(storeRepo, orderRepo, inventoryRepo, userRepo, cfg.Timezone, log)
	storeUC := usecase.NewStoreUsecase(storeRepo)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo, storeRepo)
	productUC := usecase.NewProductUsecase(productRepo, inventoryRepo, categoryRepo, storeRepo)
	inventoryUC := usecase.NewInventoryUsecase(inventoryRepo, storeRepo, auditRepo, log)
	addressUC := usecase.NewAddressUsecase(addressRepo)

	//Handler生成
	e := New(cfg, log)
	RegisterRoutes(e, cfg, userRepo,
		handler.NewAuthHandler(authUC),
		handler.NewCartHandler(cartUC),
		handler.NewOrderHandler(orderUC, merchantUC),
		handler.NewDashboardHandler(dashboardUC),
		handler.NewStoreHandler(storeUC, categoryUC),
		handler.NewProductHandler(productUC),
		handler.NewInventoryHandler(inventoryUC),
		handler.NewAddressHandler(addressUC),
	)
	return e
}
