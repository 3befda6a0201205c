package usecase

import (
	"context"

	authdomain "fyndflip-backend/internal/auth/domain"
	authdto "fyndflip-backend/internal/auth/dto"

	"fyndflip-backend/pkg/oauth"
)

// AuthUsecase is the single point of truth for credential operations and
// profile synchronization. Operations return (value, error); exactly one of
// the pair is meaningful. Accessors return (nil, nil) for plain absence.
type AuthUsecase interface {
	SignIn(email, password string) (*authdomain.AuthSession, error)
	SignUp(req *authdto.RegisterRequest) (*authdomain.AuthSession, error)
	SignOut(refreshToken string) error

	// SignInWithOAuth validates the provider against the registry and returns
	// the authorization redirect URL. The flow completes asynchronously via
	// CompleteOAuth.
	SignInWithOAuth(provider oauth.Provider, opts authdto.OAuthSignInOptions) (string, error)
	CompleteOAuth(ctx context.Context, provider oauth.Provider, code string) (*authdomain.AuthSession, error)

	CurrentUser(accessToken string) (*authdomain.User, error)
	CurrentSession(accessToken string) (*authdomain.Session, error)
	RefreshSession(refreshToken string) (*authdomain.AuthSession, error)

	ResetPassword(email string) error
	CompletePasswordReset(token, newPassword string) error
	UpdatePassword(accessToken, newPassword string) error
	ChangePassword(accessToken, currentPassword, newPassword string) error

	UpdateProfile(accessToken string, req *authdto.UpdateProfileRequest) (*authdomain.User, error)
	DeleteAccount(accessToken, currentPassword string) error

	HasRequiredTier(accessToken string, tier authdomain.SubscriptionTier) bool

	// SubscribeEvents registers a listener for auth change events, notified
	// synchronously. The returned func unregisters it; no callback fires
	// after it returns.
	SubscribeEvents(fn func(authdomain.AuthEvent)) func()
}

// OAuthRegistry is the provider-registry surface the usecase needs; satisfied
// by *oauth.Registry and by test fakes.
type OAuthRegistry interface {
	Enabled(p oauth.Provider) bool
	DisplayName(p oauth.Provider) string
	AuthCodeURL(p oauth.Provider, state string) (string, error)
	Exchange(ctx context.Context, p oauth.Provider, code string) (*oauth.UserInfo, error)
}

// Mailer delivers out-of-band messages. Failures are logged, never surfaced
// to the caller of ResetPassword.
type Mailer interface {
	SendPasswordReset(email, token string) error
}
