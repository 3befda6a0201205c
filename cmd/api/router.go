package api

import (
	"net/http"

	"fyndflip-backend/internal/auth/delivery"
	authdomain "fyndflip-backend/internal/auth/domain"
	listingDelivery "fyndflip-backend/internal/listing/delivery"
	notifDelivery "fyndflip-backend/internal/notification/delivery"
	"fyndflip-backend/pkg/database"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	authHandler := delivery.NewAuthHandler(h.authUsecase, h.metrics)
	callbackHandler := delivery.NewCallbackHandler(h.authUsecase, h.logger)
	notifHandler := notifDelivery.NewNotificationHandler(h.notifUsecase)
	listingHandler := listingDelivery.NewListingHandler(h.listingUsecase)

	// Page gate runs on everything; it only bites on /dashboard paths.
	r.Use(delivery.AccessMiddleware(h.authUsecase, h.config.SessionRefreshWindow, h.metrics))

	r.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	api := r.Group("/api")
	{
		// Health check (no auth required). Readiness covers database
		// connectivity and the price-corpus threshold.
		api.GET("/health", func(c *gin.Context) {
			connected := database.Ping(h.db)
			status, statusErr := h.pricingUsecase.Status()

			body := gin.H{
				"status": "ok",
				"database": gin.H{
					"connected":             connected,
					"priceRecords":          status.Records,
					"priceDatabaseComplete": status.Complete,
				},
			}
			if !connected || statusErr != nil {
				body["status"] = "degraded"
				c.JSON(http.StatusServiceUnavailable, body)
				return
			}
			c.JSON(http.StatusOK, body)
		})

		// Price corpus readiness. Deal detection stays off until the corpus
		// crosses the record threshold, so an incomplete corpus reports 503.
		api.GET("/prices", func(c *gin.Context) {
			status, err := h.pricingUsecase.Status()
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "price data unavailable", "required": status.Required})
				return
			}
			if !status.Complete {
				c.JSON(http.StatusServiceUnavailable, status)
				return
			}
			c.JSON(http.StatusOK, status)
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			// Reserved for future credential tooling; not part of the
			// public surface yet.
			auth.POST("", func(c *gin.Context) {
				c.JSON(http.StatusNotImplemented, gin.H{"error": "not implemented"})
			})

			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)

			auth.GET("/providers", func(c *gin.Context) {
				enabled := h.providers.EnabledProviders()
				out := make([]gin.H, 0, len(enabled))
				for _, p := range enabled {
					out = append(out, gin.H{"provider": p, "name": h.providers.DisplayName(p)})
				}
				c.JSON(http.StatusOK, gin.H{"providers": out})
			})

			auth.GET("/oauth/:provider", authHandler.OAuthRedirect)

			auth.GET("/me", delivery.AuthMiddleware(h.authUsecase), authHandler.Me)
			auth.PUT("/password", delivery.AuthMiddleware(h.authUsecase), authHandler.UpdatePassword)
			auth.POST("/change-password", delivery.AuthMiddleware(h.authUsecase), authHandler.ChangePassword)
			auth.PUT("/profile", delivery.AuthMiddleware(h.authUsecase), authHandler.UpdateProfile)
			auth.DELETE("/account", delivery.AuthMiddleware(h.authUsecase), authHandler.DeleteAccount)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			notifications.GET("", notifHandler.List)
			notifications.GET("/unread-count", notifHandler.UnreadCount)
			notifications.PATCH("/:id/read", notifHandler.MarkRead)
			notifications.POST("/read-all", notifHandler.MarkAllRead)
		}

		// Listing routes (protected)
		listings := api.Group("/listings")
		listings.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			listings.GET("", listingHandler.List)
			listings.POST("", listingHandler.Create)
			listings.GET("/:id", listingHandler.Get)
			listings.PUT("/:id", listingHandler.Update)
			listings.DELETE("/:id", listingHandler.Delete)
		}
	}

	// OAuth providers land here after consent.
	r.GET("/auth/callback", callbackHandler.Handle)
	r.GET("/auth/error", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"page": "auth-error", "message": c.Query("message")})
	})

	// Page shells. The frontend renders these; the backend serves enough for
	// the gate middleware to have something to protect.
	for _, page := range []string{"/", "/login", "/register", "/forgot-password", "/reset-password"} {
		page := page
		r.GET(page, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"page": page})
		})
	}

	dashboard := r.Group("/dashboard")
	{
		dashboard.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"page": "/dashboard"})
		})
		dashboard.GET("/listings", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"page": "/dashboard/listings"})
		})
		dashboard.GET("/settings", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"page": "/dashboard/settings"})
		})
		dashboard.GET("/analytics",
			delivery.RequireTier(h.authUsecase, authdomain.TierGold, h.metrics),
			func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"page": "/dashboard/analytics"})
			})
	}
}
