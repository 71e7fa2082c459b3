package main

import (
	"context"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/ulule/limiter/v3"
	"go.uber.org/zap"

	"shop/internal/config"
	"shop/internal/domain/model"
	"shop/internal/gateway"
	"shop/internal/handler"
	"shop/internal/infra/cache"
	"shop/internal/infra/db"
	infraRepo "shop/internal/infra/repository"
	"shop/internal/middleware"
	repo "shop/internal/repository"
	"shop/internal/usecase"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if os.Getenv("GO_ENV") == "dev" {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Address{},
		&model.Product{},
		&model.Variant{},
		&model.PricingSlab{},
		&model.FlashSale{},
		&model.FlashSaleProduct{},
		&model.Coupon{},
		&model.UserCoupon{},
		&model.Cart{},
		&model.CartItem{},
		&model.CheckoutIntent{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryLog{},
		&model.Payment{},
		&model.PaymentConfig{},
		&model.ShippingSetting{},
	); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	variantRepo := infraRepo.NewVariantGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	couponRepo := infraRepo.NewCouponGormRepository(gormDB)
	intentRepo := infraRepo.NewCheckoutIntentGormRepository(gormDB)
	paymentRepo := infraRepo.NewPaymentGormRepository(gormDB)
	configRepo := infraRepo.NewPaymentConfigGormRepository(gormDB)
	shippingRepo := infraRepo.NewShippingSettingGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//フラッシュセール参照はRedisが設定されていればキャッシュを挟む
	var flashSaleRepo repo.FlashSaleRepository = infraRepo.NewFlashSaleGormRepository(gormDB)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unreachable, flash sale cache disabled", zap.Error(err))
		} else {
			flashSaleRepo = cache.NewFlashSaleCache(flashSaleRepo, rdb, 0)
		}
	}

	//決済ゲートウェイ
	cipher, err := gateway.NewCipher(cfg.PaymentCryptoKey)
	if err != nil {
		logger.Fatal("invalid PAYMENT_CRYPTO_KEY", zap.Error(err))
	}
	gatewayResolver := gateway.NewResolver(configRepo, cipher, cfg.GatewayTimeout, cfg.RazorpayBaseURL)

	//決済後の副作用（通知・配送連携・紹介報酬は実装を差し込む。未設定ならログのみ）
	effects := usecase.NewSideEffectDispatcher(nil, nil, nil, logger)

	//Usecase生成
	checkoutUC := usecase.NewCheckoutUsecase(usecase.CheckoutDeps{
		Tx:         txManager,
		Carts:      cartRepo,
		CartItems:  cartRepo,
		Variants:   variantRepo,
		FlashSales: flashSaleRepo,
		Coupons:    couponRepo,
		Intents:    intentRepo,
		Payments:   paymentRepo,
		Orders:     orderRepo,
		Addresses:  addressRepo,
		Users:      userRepo,
		Shipping:   shippingRepo,
		Gateways:   gatewayResolver,
		Effects:    effects,
	})
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, orderItemRepo, userRepo, effects)
	adminOrderUC := usecase.NewAdminOrderUsecase(orderRepo, orderUC)
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, variantRepo, flashSaleRepo)
	addressUC := usecase.NewAddressUsecase(addressRepo)

	//決済系のレート制限（書式が不正なら起動させない）
	var rl *limiter.Limiter
	if cfg.CheckoutRateLimit != "" {
		rl, err = middleware.NewRateLimiter(cfg.CheckoutRateLimit)
		if err != nil {
			logger.Fatal("invalid CHECKOUT_RATE_LIMIT", zap.Error(err))
		}
	}

	//Server起動
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	handler.NewCheckoutHandler(checkoutUC).RegisterRoutes(e, cfg, userRepo, rl)
	handler.NewOrderHandler(orderUC).RegisterRoutes(e, cfg, userRepo)
	handler.NewAdminOrderHandler(adminOrderUC).RegisterRoutes(e, cfg, userRepo)
	handler.NewCartHandler(cartUC).RegisterRoutes(e, cfg, userRepo)
	handler.NewAddressHandler(addressUC).RegisterRoutes(e, cfg, userRepo)

	addr := ":8080"
	if cfg.Port != "" {
		if cfg.Port[0] != ':' {
			addr = ":" + cfg.Port
		} else {
			addr = cfg.Port
		}
	}

	logger.Info("starting api server", zap.String("addr", addr))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
