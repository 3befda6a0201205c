package delivery

import (
	"net/http"
	"net/url"
	"strings"

	"fyndflip-backend/internal/auth/usecase"
	"fyndflip-backend/pkg/oauth"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const errorRoute = "/auth/error"

// CallbackHandler is the terminal leg of the authorization-code flow.
type CallbackHandler struct {
	auth   usecase.AuthUsecase
	logger zerolog.Logger
}

func NewCallbackHandler(auth usecase.AuthUsecase, logger zerolog.Logger) *CallbackHandler {
	return &CallbackHandler{auth: auth, logger: logger.With().Str("component", "oauth-callback").Logger()}
}

// Handle processes GET /auth/callback. Errors never redirect back into the
// protected area; success routes by the type discriminator.
func (h *CallbackHandler) Handle(c *gin.Context) {
	oauthError := c.Query("error")
	errorDescription := c.Query("error_description")
	code := c.Query("code")
	callbackType := c.Query("type")

	// The authorization redirect packs the provider and return path into
	// state; an explicit next parameter still wins when present.
	provider, stateNext, stateOK := oauth.DecodeState(c.Query("state"))
	next := c.Query("next")
	if next == "" {
		next = stateNext
	}

	if oauthError != "" {
		reason := errorDescription
		if reason == "" {
			reason = oauthError
		}
		h.logger.Error().Str("error", oauthError).Str("description", errorDescription).Msg("oauth callback error")
		redirectToError(c, "Authentication failed: "+reason)
		return
	}

	if code == "" {
		h.logger.Error().Msg("missing authorization code in callback")
		redirectToError(c, "Missing authorization code")
		return
	}

	if !stateOK {
		// Exchanging against a guessed provider can only fail; some link
		// flows (recovery, invite) name the provider directly instead.
		p, ok := oauth.ParseProvider(c.Query("provider"))
		if !ok {
			h.logger.Error().Str("state", c.Query("state")).Msg("callback does not identify a provider")
			redirectToError(c, "Authentication failed. Please try again.")
			return
		}
		provider = p
	}

	session, err := h.auth.CompleteOAuth(c.Request.Context(), provider, code)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to exchange code for session")
		redirectToError(c, "Authentication failed. Please try again.")
		return
	}

	setSessionCookies(c, session.Session)

	switch callbackType {
	case "signup":
		c.Redirect(http.StatusFound, "/dashboard?welcome=true")
	case "recovery":
		c.Redirect(http.StatusFound, "/reset-password")
	case "invite":
		c.Redirect(http.StatusFound, "/dashboard?invited=true")
	default:
		if next == "" || !strings.HasPrefix(next, "/") {
			next = "/dashboard"
		}
		c.Redirect(http.StatusFound, next)
	}
}

func redirectToError(c *gin.Context, message string) {
	c.Redirect(http.StatusFound, errorRoute+"?message="+url.QueryEscape(message))
}
