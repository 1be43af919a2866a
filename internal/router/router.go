package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pitstop/pitstop-api/internal/config"
	authHandler "github.com/pitstop/pitstop-api/internal/handler/auth"
	bookingHandler "github.com/pitstop/pitstop-api/internal/handler/booking"
	catalogHandler "github.com/pitstop/pitstop-api/internal/handler/catalog"
	chatHandler "github.com/pitstop/pitstop-api/internal/handler/chat"
	contentHandler "github.com/pitstop/pitstop-api/internal/handler/content"
	discountHandler "github.com/pitstop/pitstop-api/internal/handler/discount"
	healthHandler "github.com/pitstop/pitstop-api/internal/handler/health"
	paymentHandler "github.com/pitstop/pitstop-api/internal/handler/payment"
	planHandler "github.com/pitstop/pitstop-api/internal/handler/plan"
	reportHandler "github.com/pitstop/pitstop-api/internal/handler/report"
	settingHandler "github.com/pitstop/pitstop-api/internal/handler/setting"
	userHandler "github.com/pitstop/pitstop-api/internal/handler/user"
	walletHandler "github.com/pitstop/pitstop-api/internal/handler/wallet"
	"github.com/pitstop/pitstop-api/internal/middleware"
)

// Handlers bundles every route-owning handler for wiring.
type Handlers struct {
	Health   *healthHandler.Handler
	Auth     *authHandler.Handler
	User     *userHandler.Handler
	Catalog  *catalogHandler.Handler
	Booking  *bookingHandler.Handler
	Payment  *paymentHandler.Handler
	Discount *discountHandler.Handler
	Plan     *planHandler.Handler
	Content  *contentHandler.Handler
	Wallet   *walletHandler.Handler
	Chat     *chatHandler.Handler
	Report   *reportHandler.Handler
	Setting  *settingHandler.Handler
}

const availabilityCacheTTL = 30 * time.Second

// New assembles the gin engine: global middleware first, then the
// public surface, then everything behind JWT auth.
func New(cfg *config.Config, h *Handlers, authMW *middleware.AuthMiddleware, zl *zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	registerValidations()
	r := gin.New()

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(cfg.Server.RateLimitRPS),
		Burst: cfg.Server.RateLimitBurst,
	})

	r.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(zl),
		middleware.CORS(middleware.DefaultCORSConfig()),
		middleware.Timeout(middleware.TimeoutConfig{
			Duration: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		}),
		limiter.RateLimit(),
	)

	h.Health.RegisterRoutes(r)

	api := r.Group("/api/v1")

	// Public surface: no token required.
	h.Auth.RegisterRoutes(api)
	h.Payment.RegisterWebhookRoutes(api)
	h.Catalog.RegisterPublicRoutes(api)
	h.Plan.RegisterPublicRoutes(api)
	h.Content.RegisterPublicRoutes(api)
	h.Setting.RegisterPublicRoutes(api)

	cached := api.Group("", middleware.NewResponseCache(availabilityCacheTTL).Cache())
	h.Booking.RegisterPublicRoutes(cached)

	authed := api.Group("", authMW.Authenticate())
	h.User.RegisterRoutes(authed, authMW)
	h.Catalog.RegisterAdminRoutes(authed, authMW)
	h.Booking.RegisterRoutes(authed, authMW)
	h.Payment.RegisterRoutes(authed)
	h.Discount.RegisterRoutes(authed, authMW)
	h.Plan.RegisterRoutes(authed, authMW)
	h.Content.RegisterAdminRoutes(authed, authMW)
	h.Wallet.RegisterRoutes(authed, authMW)
	h.Chat.RegisterRoutes(authed)
	h.Report.RegisterRoutes(authed, authMW)
	h.Setting.RegisterAdminRoutes(authed, authMW)

	return r
}
