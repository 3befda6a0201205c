package delivery

import (
	"context"
	"errors"
	"time"

	authdomain "fyndflip-backend/internal/auth/domain"
	authdto "fyndflip-backend/internal/auth/dto"
	"fyndflip-backend/pkg/oauth"
)

// stubAuth is a scriptable AuthUsecase for handler and middleware tests.
type stubAuth struct {
	user    *authdomain.User
	session *authdomain.Session

	signInErr      error
	refreshSession *authdomain.AuthSession
	refreshErr     error

	completeOAuthCalls    int
	completeOAuthProvider oauth.Provider
	completeOAuthErr      error

	tierAnswer bool
}

func validStubAuth() *stubAuth {
	return &stubAuth{
		user: &authdomain.User{
			ID:               "user-1",
			AuthID:           "auth-1",
			Email:            "seller@example.com",
			SubscriptionTier: authdomain.TierFreemium,
			IsActive:         true,
		},
		session: &authdomain.Session{
			AuthID:       "auth-1",
			AccessToken:  "valid-access",
			RefreshToken: "valid-refresh",
			ExpiresAt:    time.Now().Add(12 * time.Hour),
		},
	}
}

func (a *stubAuth) authSession() *authdomain.AuthSession {
	return &authdomain.AuthSession{User: a.user, Session: a.session}
}

func (a *stubAuth) SignIn(email, password string) (*authdomain.AuthSession, error) {
	if a.signInErr != nil {
		return nil, a.signInErr
	}
	return a.authSession(), nil
}

func (a *stubAuth) SignUp(req *authdto.RegisterRequest) (*authdomain.AuthSession, error) {
	return a.SignIn(req.Email, req.Password)
}

func (a *stubAuth) SignOut(refreshToken string) error { return nil }

func (a *stubAuth) SignInWithOAuth(provider oauth.Provider, opts authdto.OAuthSignInOptions) (string, error) {
	return "https://provider.example/authorize?state=" + opts.Next, nil
}

func (a *stubAuth) CompleteOAuth(ctx context.Context, provider oauth.Provider, code string) (*authdomain.AuthSession, error) {
	a.completeOAuthCalls++
	a.completeOAuthProvider = provider
	if a.completeOAuthErr != nil {
		return nil, a.completeOAuthErr
	}
	return a.authSession(), nil
}

func (a *stubAuth) CurrentUser(accessToken string) (*authdomain.User, error) {
	if a.session != nil && accessToken == a.session.AccessToken {
		return a.user, nil
	}
	return nil, nil
}

func (a *stubAuth) CurrentSession(accessToken string) (*authdomain.Session, error) {
	if a.session != nil && accessToken == a.session.AccessToken {
		return a.session, nil
	}
	return nil, nil
}

func (a *stubAuth) RefreshSession(refreshToken string) (*authdomain.AuthSession, error) {
	if a.refreshErr != nil {
		return nil, a.refreshErr
	}
	if a.refreshSession != nil {
		return a.refreshSession, nil
	}
	return nil, errors.New("no refresh scripted")
}

func (a *stubAuth) ResetPassword(email string) error { return nil }

func (a *stubAuth) CompletePasswordReset(token, newPassword string) error { return nil }

func (a *stubAuth) UpdatePassword(accessToken, newPassword string) error { return nil }

func (a *stubAuth) ChangePassword(accessToken, currentPassword, newPassword string) error {
	return nil
}

func (a *stubAuth) UpdateProfile(accessToken string, req *authdto.UpdateProfileRequest) (*authdomain.User, error) {
	return a.user, nil
}

func (a *stubAuth) DeleteAccount(accessToken, currentPassword string) error { return nil }

func (a *stubAuth) HasRequiredTier(accessToken string, tier authdomain.SubscriptionTier) bool {
	return a.tierAnswer
}

func (a *stubAuth) SubscribeEvents(fn func(authdomain.AuthEvent)) func() {
	return func() {}
}
