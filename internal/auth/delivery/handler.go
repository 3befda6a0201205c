package delivery

import (
	"errors"
	"net/http"
	"time"

	authdomain "fyndflip-backend/internal/auth/domain"
	authdto "fyndflip-backend/internal/auth/dto"
	"fyndflip-backend/internal/auth/usecase"
	"fyndflip-backend/pkg/metrics"
	"fyndflip-backend/pkg/oauth"

	"github.com/gin-gonic/gin"
)

// AuthHandler translates HTTP requests into usecase calls and usecase errors
// back into JSON. Errors only become responses here; the layers beneath stay
// on explicit values.
type AuthHandler struct {
	auth    usecase.AuthUsecase
	metrics *metrics.Metrics
}

func NewAuthHandler(auth usecase.AuthUsecase, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{auth: auth, metrics: m}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.auth.SignIn(req.Email, req.Password)
	if err != nil {
		h.count("sign_in", "failure")
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	h.count("sign_in", "success")
	setSessionCookies(c, session.Session)
	c.JSON(http.StatusOK, sessionResponse(session))
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req authdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.auth.SignUp(&req)
	if err != nil {
		h.count("sign_up", "failure")
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	h.count("sign_up", "success")
	setSessionCookies(c, session.Session)
	c.JSON(http.StatusCreated, sessionResponse(session))
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.auth.RefreshSession(req.RefreshToken)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	setSessionCookies(c, session.Session)
	c.JSON(http.StatusOK, sessionResponse(session))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req authdto.LogoutRequest
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(refreshCookie)
	}

	if err := h.auth.SignOut(req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// OAuthRedirect starts the authorization-code flow for an enabled provider.
func (h *AuthHandler) OAuthRedirect(c *gin.Context) {
	provider, ok := oauth.ParseProvider(c.Param("provider"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown provider"})
		return
	}

	redirectURL, err := h.auth.SignInWithOAuth(provider, authdto.OAuthSignInOptions{Next: c.Query("next")})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Redirect(http.StatusFound, redirectURL)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req authdto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.ResetPassword(req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process password reset"})
		return
	}

	// Same response whether or not the address is registered.
	c.JSON(http.StatusOK, gin.H{"message": "if the address is registered, a reset link has been sent"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req authdto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.CompletePasswordReset(req.Token, req.Password); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req authdto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.UpdatePassword(accessToken(c), req.NewPassword); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req authdto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.ChangePassword(accessToken(c), req.CurrentPassword, req.NewPassword); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req authdto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.UpdateProfile(accessToken(c), &req)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	var req authdto.DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.DeleteAccount(accessToken(c), req.CurrentPassword); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "account deactivated"})
}

func (h *AuthHandler) count(operation, outcome string) {
	if h.metrics != nil {
		h.metrics.AuthAttempts.WithLabelValues(operation, outcome).Inc()
	}
}

func sessionResponse(auth *authdomain.AuthSession) authdto.SessionResponse {
	return authdto.SessionResponse{
		AccessToken:  auth.Session.AccessToken,
		RefreshToken: auth.Session.RefreshToken,
		ExpiresAt:    auth.Session.ExpiresAt.Unix(),
		User:         auth.User,
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrNotAuthenticated),
		errors.Is(err, authdomain.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, authdomain.ErrEmailAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, authdomain.ErrCurrentPasswordIncorrect),
		errors.Is(err, authdomain.ErrInvalidRecoveryToken),
		errors.Is(err, authdomain.ErrWrongProvider):
		return http.StatusBadRequest
	case errors.Is(err, authdomain.ErrProfileNotFound),
		errors.Is(err, authdomain.ErrProfileUnavailable):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func setSessionCookies(c *gin.Context, session *authdomain.Session) {
	if session == nil {
		return
	}
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookie, session.AccessToken, maxAge, "/", "", false, true)
	c.SetCookie(refreshCookie, session.RefreshToken, 0, "/", "", false, true)
}

func clearSessionCookies(c *gin.Context) {
	c.SetCookie(accessCookie, "", -1, "/", "", false, true)
	c.SetCookie(refreshCookie, "", -1, "/", "", false, true)
}

func currentUser(c *gin.Context) *authdomain.User {
	if v, ok := c.Get("user"); ok {
		if user, ok := v.(*authdomain.User); ok {
			return user
		}
	}
	return nil
}

func accessToken(c *gin.Context) string {
	if v, ok := c.Get("accessToken"); ok {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}
