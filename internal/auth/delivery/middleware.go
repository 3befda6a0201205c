package delivery

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	authdomain "fyndflip-backend/internal/auth/domain"
	"fyndflip-backend/internal/auth/usecase"
	"fyndflip-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

const (
	accessCookie  = "ff_access_token"
	refreshCookie = "ff_refresh_token"

	loginRoute = "/login"
)

// publicRoutes never require a session. The root matches exactly, the rest
// by prefix.
var publicRoutes = []string{
	"/",
	"/login",
	"/register",
	"/forgot-password",
	"/reset-password",
	"/auth",
	"/api",
	"/metrics",
	"/static",
	"/favicon.ico",
	"/robots.txt",
	"/manifest.json",
}

// AuthMiddleware guards JSON API routes with a bearer token.
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		token := parts[1]
		user, err := authUsecase.CurrentUser(token)
		if err != nil || user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("accessToken", token)
		c.Next()
	}
}

// AccessMiddleware gates protected page routes on the session cookie. The
// check order is load-bearing: cheap session checks precede the profile
// lookup, and the refresh attempt runs last so it only happens on requests
// that would otherwise succeed. Every failure redirects to login with the
// original destination preserved.
func AccessMiddleware(authUsecase usecase.AuthUsecase, refreshWindow time.Duration, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if isPublicRoute(path) || !isProtectedRoute(path) {
			c.Next()
			return
		}

		access, err := c.Cookie(accessCookie)
		if err != nil || access == "" {
			deny(c, m, "no_session")
			return
		}

		session, err := authUsecase.CurrentSession(access)
		if err != nil || session == nil {
			deny(c, m, "invalid_session")
			return
		}

		user, err := authUsecase.CurrentUser(access)
		if err != nil || user == nil {
			deny(c, m, "no_profile")
			return
		}
		if !user.IsActive {
			deny(c, m, "inactive")
			return
		}

		if time.Until(session.ExpiresAt) < refreshWindow {
			refresh, cookieErr := c.Cookie(refreshCookie)
			if cookieErr != nil || refresh == "" {
				deny(c, m, "refresh_failed")
				return
			}
			renewed, refreshErr := authUsecase.RefreshSession(refresh)
			if refreshErr != nil {
				deny(c, m, "refresh_failed")
				return
			}
			setSessionCookies(c, renewed.Session)
		}

		if m != nil {
			m.GateDecisions.WithLabelValues("allow").Inc()
		}
		c.Set("user", user)
		c.Next()
	}
}

// RequireTier gates a page route on the subscriber's tier. It runs after
// AccessMiddleware, so the session itself is already vouched for; a subscriber
// below the bar lands back on the dashboard with an upgrade hint instead of
// the login page.
func RequireTier(authUsecase usecase.AuthUsecase, tier authdomain.SubscriptionTier, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		access, err := c.Cookie(accessCookie)
		if err != nil || !authUsecase.HasRequiredTier(access, tier) {
			if m != nil {
				m.GateDecisions.WithLabelValues("tier_denied").Inc()
			}
			c.Redirect(http.StatusFound, "/dashboard?upgrade="+string(tier))
			c.Abort()
			return
		}
		c.Next()
	}
}

func deny(c *gin.Context, m *metrics.Metrics, reason string) {
	if m != nil {
		m.GateDecisions.WithLabelValues(reason).Inc()
	}
	c.Redirect(http.StatusFound, loginRedirectURL(c))
	c.Abort()
}

// loginRedirectURL preserves the intended destination for post-login
// redirect.
func loginRedirectURL(c *gin.Context) string {
	intended := c.Request.URL.Path
	if c.Request.URL.RawQuery != "" {
		intended += "?" + c.Request.URL.RawQuery
	}
	if intended == "" || intended == "/" || intended == loginRoute {
		return loginRoute
	}
	return loginRoute + "?redirectTo=" + url.QueryEscape(intended)
}

func isProtectedRoute(path string) bool {
	return path == "/dashboard" || strings.HasPrefix(path, "/dashboard/")
}

func isPublicRoute(path string) bool {
	for _, route := range publicRoutes {
		if route == "/" {
			if path == "/" {
				return true
			}
			continue
		}
		if path == route || strings.HasPrefix(path, route+"/") {
			return true
		}
	}
	return false
}
