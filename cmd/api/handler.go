package api

import (
	authUsecase "fyndflip-backend/internal/auth/usecase"
	listingUsecasePkg "fyndflip-backend/internal/listing/usecase"
	notifUsecasePkg "fyndflip-backend/internal/notification/usecase"
	pricingUsecasePkg "fyndflip-backend/internal/pricing/usecase"
	"fyndflip-backend/pkg/config"
	"fyndflip-backend/pkg/metrics"
	"fyndflip-backend/pkg/oauth"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Handler struct {
	authUsecase    authUsecase.AuthUsecase
	notifUsecase   notifUsecasePkg.NotificationUsecase
	listingUsecase listingUsecasePkg.ListingUsecase
	pricingUsecase pricingUsecasePkg.PricingUsecase
	providers      *oauth.Registry
	db             *gorm.DB
	config         *config.Config
	metrics        *metrics.Metrics
	logger         zerolog.Logger
}

func NewHandler(
	authUc authUsecase.AuthUsecase,
	notifUc notifUsecasePkg.NotificationUsecase,
	listingUc listingUsecasePkg.ListingUsecase,
	pricingUc pricingUsecasePkg.PricingUsecase,
	providers *oauth.Registry,
	db *gorm.DB,
	cfg *config.Config,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		authUsecase:    authUc,
		notifUsecase:   notifUc,
		listingUsecase: listingUc,
		pricingUsecase: pricingUc,
		providers:      providers,
		db:             db,
		config:         cfg,
		metrics:        m,
		logger:         logger,
	}
}

func (h *Handler) Start(addr string) error {
	if !h.config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h)

	return r.Run(addr)
}
