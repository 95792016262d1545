package router

import (
	"time"

	"chopwell/config"
	"chopwell/internal/cache"
	"chopwell/internal/handler"
	"chopwell/internal/middleware"
	"chopwell/internal/payment"
	"chopwell/internal/repository"
	"chopwell/internal/service"
	"chopwell/internal/ws"
	"chopwell/pkg/momo"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, gateway momo.Gateway) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	guard := cache.NewPaymentGuard(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	paymentHub := ws.NewPaymentHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	notifSvc := service.NewNotificationService(notificationRepo)
	checkoutSvc := service.NewCheckoutService(cfg, orderRepo, cartRepo, paymentRepo, addressRepo, restaurantRepo, notifSvc, guard)

	// The payment manager drives live sessions; the checkout service is its
	// terminal-state collaborator and discards sessions that hand off.
	paymentMgr := payment.NewManager(gateway, checkoutSvc, paymentHub, payment.Timings{
		UssdGrace:    cfg.Payment.UssdGraceDelay,
		PollInterval: cfg.Payment.PollInterval,
		Deadline:     cfg.Payment.Deadline,
	})
	checkoutSvc.AttachSessions(paymentMgr)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	restaurantHandler := handler.NewRestaurantHandler(restaurantRepo)
	cartHandler := handler.NewCartHandler(cartRepo, restaurantRepo)
	addressHandler := handler.NewAddressHandler(addressRepo)
	orderHandler := handler.NewOrderHandler(orderRepo, checkoutSvc)
	paymentHandler := handler.NewPaymentHandler(paymentMgr, orderRepo, paymentRepo, guard)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		api.GET("/restaurants", restaurantHandler.List)
		api.GET("/restaurants/:id", restaurantHandler.Get)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/cart", cartHandler.List)
			me.POST("/cart", cartHandler.Add)
			me.DELETE("/cart/:id", cartHandler.Remove)
			me.GET("/addresses", addressHandler.List)
			me.POST("/addresses", addressHandler.Create)
			me.DELETE("/addresses/:id", addressHandler.Delete)
			me.GET("/orders", orderHandler.ListMine)
			me.GET("/orders/:ref", orderHandler.Get)
			me.GET("/notifications", notificationHandler.List)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		}

		api.POST("/orders/checkout", authMw, orderHandler.Checkout)
		payLimiter := middleware.NewInMemoryRateLimiter(10, time.Minute)
		api.POST("/payments/momo/initiate", authMw, middleware.UserRateLimit(payLimiter), paymentHandler.Initiate)
		api.GET("/payments/momo/:ref", authMw, paymentHandler.Status)
		api.POST("/payments/momo/:ref/cancel", authMw, paymentHandler.Cancel)
		api.POST("/payments/momo/:ref/retry", authMw, paymentHandler.Retry)
	}

	r.GET("/ws/payments", ws.UpgradePaymentsWS(&cfg.JWT, paymentHub))

	return r
}
