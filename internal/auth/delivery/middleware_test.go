package delivery

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authdomain "fyndflip-backend/internal/auth/domain"

	"github.com/gin-gonic/gin"
)

func gateRouter(auth *stubAuth, refreshWindow time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AccessMiddleware(auth, refreshWindow, nil))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/", ok)
	r.GET("/login", ok)
	r.GET("/dashboard", ok)
	r.GET("/dashboard/listings", ok)
	return r
}

func get(r *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAccessMiddlewareAllowsPublicRoutes(t *testing.T) {
	r := gateRouter(validStubAuth(), time.Hour)

	for _, path := range []string{"/", "/login"} {
		if w := get(r, path); w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
		}
	}
}

func TestAccessMiddlewareDeniesWithoutSession(t *testing.T) {
	r := gateRouter(validStubAuth(), time.Hour)

	w := get(r, "/dashboard")
	if w.Code != http.StatusFound {
		t.Fatalf("code = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login?redirectTo=%2Fdashboard" {
		t.Errorf("Location = %q", loc)
	}
}

func TestAccessMiddlewarePreservesQueryInRedirect(t *testing.T) {
	r := gateRouter(validStubAuth(), time.Hour)

	w := get(r, "/dashboard/listings?sort=price")
	if loc := w.Header().Get("Location"); loc != "/login?redirectTo=%2Fdashboard%2Flistings%3Fsort%3Dprice" {
		t.Errorf("Location = %q", loc)
	}
}

func TestAccessMiddlewareDeniesInvalidSession(t *testing.T) {
	r := gateRouter(validStubAuth(), time.Hour)

	w := get(r, "/dashboard", &http.Cookie{Name: accessCookie, Value: "stale-access"})
	if w.Code != http.StatusFound {
		t.Fatalf("code = %d, want 302", w.Code)
	}
}

func TestAccessMiddlewareDeniesMissingProfile(t *testing.T) {
	auth := validStubAuth()
	auth.user = nil
	r := gateRouter(auth, time.Hour)

	w := get(r, "/dashboard", &http.Cookie{Name: accessCookie, Value: "valid-access"})
	if w.Code != http.StatusFound {
		t.Fatalf("code = %d, want 302", w.Code)
	}
}

func TestAccessMiddlewareDeniesInactiveUser(t *testing.T) {
	auth := validStubAuth()
	auth.user.IsActive = false
	r := gateRouter(auth, time.Hour)

	w := get(r, "/dashboard", &http.Cookie{Name: accessCookie, Value: "valid-access"})
	if w.Code != http.StatusFound {
		t.Fatalf("code = %d, want 302", w.Code)
	}
}

func TestAccessMiddlewareAllowsValidSession(t *testing.T) {
	r := gateRouter(validStubAuth(), time.Hour)

	w := get(r, "/dashboard", &http.Cookie{Name: accessCookie, Value: "valid-access"})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", w.Code)
	}
}

func TestAccessMiddlewareRefreshesNearExpiry(t *testing.T) {
	auth := validStubAuth()
	auth.session.ExpiresAt = time.Now().Add(10 * time.Minute)
	renewed := validStubAuth()
	renewed.session.AccessToken = "renewed-access"
	auth.refreshSession = renewed.authSession()
	r := gateRouter(auth, time.Hour)

	w := get(r, "/dashboard",
		&http.Cookie{Name: accessCookie, Value: "valid-access"},
		&http.Cookie{Name: refreshCookie, Value: "valid-refresh"},
	)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", w.Code)
	}

	var rotated bool
	for _, c := range w.Result().Cookies() {
		if c.Name == accessCookie && c.Value == "renewed-access" {
			rotated = true
		}
	}
	if !rotated {
		t.Error("renewed access token not set on response")
	}
}

func TestAccessMiddlewareDeniesWhenRefreshFails(t *testing.T) {
	auth := validStubAuth()
	auth.session.ExpiresAt = time.Now().Add(10 * time.Minute)
	auth.refreshErr = authdomain.ErrInvalidToken
	r := gateRouter(auth, time.Hour)

	w := get(r, "/dashboard",
		&http.Cookie{Name: accessCookie, Value: "valid-access"},
		&http.Cookie{Name: refreshCookie, Value: "stale-refresh"},
	)
	if w.Code != http.StatusFound {
		t.Fatalf("code = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.HasPrefix(loc, "/login") {
		t.Errorf("Location = %q", loc)
	}
}

func TestRequireTierRedirectsBelowBar(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := validStubAuth()
	r := gin.New()
	r.GET("/dashboard/analytics", RequireTier(auth, authdomain.TierGold, nil), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := get(r, "/dashboard/analytics", &http.Cookie{Name: accessCookie, Value: "valid-access"})
	if w.Code != http.StatusFound {
		t.Fatalf("code = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/dashboard?upgrade=gold" {
		t.Errorf("Location = %q", loc)
	}

	auth.tierAnswer = true
	w = get(r, "/dashboard/analytics", &http.Cookie{Name: accessCookie, Value: "valid-access"})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200 for qualifying tier", w.Code)
	}
}

func TestAuthMiddlewareRejectsMissingBearer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/auth/me", AuthMiddleware(validStubAuth()), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := get(r, "/api/auth/me")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer valid-access")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code with bearer = %d, want 200", rec.Code)
	}
}
