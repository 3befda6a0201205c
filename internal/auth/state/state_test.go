package state

import (
	"context"
	"errors"
	"testing"
	"time"

	authdomain "fyndflip-backend/internal/auth/domain"
	authdto "fyndflip-backend/internal/auth/dto"
	"fyndflip-backend/pkg/oauth"
)

// scriptedAuth drives the cell through the same event stream the real
// usecase emits, without any persistence behind it.
type scriptedAuth struct {
	listener func(authdomain.AuthEvent)

	signInErr  error
	signOutErr error

	user    *authdomain.User
	session *authdomain.Session
}

func newScriptedAuth() *scriptedAuth {
	return &scriptedAuth{
		user:    &authdomain.User{ID: "user-1", AuthID: "auth-1", Email: "seller@example.com", IsActive: true, SubscriptionTier: authdomain.TierFreemium},
		session: &authdomain.Session{AuthID: "auth-1", AccessToken: "access", RefreshToken: "refresh", ExpiresAt: time.Now().Add(time.Hour)},
	}
}

func (a *scriptedAuth) SignIn(email, password string) (*authdomain.AuthSession, error) {
	if a.signInErr != nil {
		return nil, a.signInErr
	}
	a.emit(authdomain.AuthEvent{Type: authdomain.EventSignedIn, User: a.user, Session: a.session})
	return &authdomain.AuthSession{User: a.user, Session: a.session}, nil
}

func (a *scriptedAuth) SignUp(req *authdto.RegisterRequest) (*authdomain.AuthSession, error) {
	return a.SignIn(req.Email, req.Password)
}

func (a *scriptedAuth) SignOut(refreshToken string) error {
	if a.signOutErr != nil {
		return a.signOutErr
	}
	a.emit(authdomain.AuthEvent{Type: authdomain.EventSignedOut})
	return nil
}

func (a *scriptedAuth) SignInWithOAuth(provider oauth.Provider, opts authdto.OAuthSignInOptions) (string, error) {
	return "", errors.New("not scripted")
}

func (a *scriptedAuth) CompleteOAuth(ctx context.Context, provider oauth.Provider, code string) (*authdomain.AuthSession, error) {
	return nil, errors.New("not scripted")
}

func (a *scriptedAuth) CurrentUser(accessToken string) (*authdomain.User, error) {
	if accessToken == a.session.AccessToken {
		return a.user, nil
	}
	return nil, nil
}

func (a *scriptedAuth) CurrentSession(accessToken string) (*authdomain.Session, error) {
	if accessToken == a.session.AccessToken {
		return a.session, nil
	}
	return nil, nil
}

func (a *scriptedAuth) RefreshSession(refreshToken string) (*authdomain.AuthSession, error) {
	return nil, errors.New("not scripted")
}

func (a *scriptedAuth) ResetPassword(email string) error { return nil }

func (a *scriptedAuth) CompletePasswordReset(token, newPassword string) error { return nil }

func (a *scriptedAuth) UpdatePassword(accessToken, newPassword string) error { return nil }

func (a *scriptedAuth) ChangePassword(accessToken, currentPassword, newPassword string) error {
	return nil
}

func (a *scriptedAuth) UpdateProfile(accessToken string, req *authdto.UpdateProfileRequest) (*authdomain.User, error) {
	if req.FirstName != nil {
		a.user.FirstName = *req.FirstName
	}
	a.emit(authdomain.AuthEvent{Type: authdomain.EventUserUpdated, User: a.user})
	return a.user, nil
}

func (a *scriptedAuth) DeleteAccount(accessToken, currentPassword string) error { return nil }

func (a *scriptedAuth) HasRequiredTier(accessToken string, tier authdomain.SubscriptionTier) bool {
	return false
}

func (a *scriptedAuth) SubscribeEvents(fn func(authdomain.AuthEvent)) func() {
	a.listener = fn
	return func() { a.listener = nil }
}

func (a *scriptedAuth) emit(event authdomain.AuthEvent) {
	if a.listener != nil {
		a.listener(event)
	}
}

func TestCellStartsLoading(t *testing.T) {
	cell := NewCell(newScriptedAuth())
	defer cell.Close()

	state := cell.Current()
	if !state.IsLoading || state.IsAuthenticated {
		t.Fatalf("initial state = %+v, want loading anonymous", state)
	}
}

func TestCellInitWithoutToken(t *testing.T) {
	cell := NewCell(newScriptedAuth())
	defer cell.Close()

	cell.Init("")
	state := cell.Current()
	if state.IsLoading || state.IsAuthenticated || state.User != nil || state.Session != nil {
		t.Fatalf("anonymous init state = %+v", state)
	}
}

func TestCellInitWithStoredToken(t *testing.T) {
	auth := newScriptedAuth()
	cell := NewCell(auth)
	defer cell.Close()

	cell.Init("access")
	state := cell.Current()
	if !state.IsAuthenticated || state.User == nil || state.User.ID != "user-1" {
		t.Fatalf("restored state = %+v", state)
	}
}

func TestCellLoginTransitions(t *testing.T) {
	auth := newScriptedAuth()
	cell := NewCell(auth)
	defer cell.Close()
	cell.Init("")

	var seen []State
	unsubscribe := cell.Subscribe(func(s State) { seen = append(seen, s) })
	defer unsubscribe()

	if err := cell.Login("seller@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Loading first, then the event-driven authenticated snapshot.
	if len(seen) != 2 {
		t.Fatalf("got %d transitions, want 2", len(seen))
	}
	if !seen[0].IsLoading {
		t.Error("first transition should be loading")
	}
	final := seen[1]
	if !final.IsAuthenticated || final.User == nil || final.Session == nil || final.IsLoading {
		t.Fatalf("final state = %+v", final)
	}
}

func TestCellLoginFailureRestores(t *testing.T) {
	auth := newScriptedAuth()
	auth.signInErr = authdomain.ErrInvalidCredentials
	cell := NewCell(auth)
	defer cell.Close()
	cell.Init("")

	err := cell.Login("seller@example.com", "wrong")
	if !errors.Is(err, authdomain.ErrInvalidCredentials) {
		t.Fatalf("err = %v", err)
	}
	state := cell.Current()
	if state.IsLoading || state.IsAuthenticated {
		t.Fatalf("state after failed login = %+v, want settled anonymous", state)
	}
}

func TestCellLogoutClearsEverything(t *testing.T) {
	auth := newScriptedAuth()
	cell := NewCell(auth)
	defer cell.Close()
	cell.Init("access")

	if err := cell.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	state := cell.Current()
	if state.User != nil || state.Session != nil || state.IsAuthenticated || state.IsLoading {
		t.Fatalf("state after logout = %+v, want zero", state)
	}
}

func TestCellUserUpdatedKeepsSession(t *testing.T) {
	auth := newScriptedAuth()
	cell := NewCell(auth)
	defer cell.Close()
	cell.Init("access")

	first := "Ada"
	if err := cell.UpdateProfile(&authdto.UpdateProfileRequest{FirstName: &first}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	state := cell.Current()
	if state.User == nil || state.User.FirstName != "Ada" {
		t.Fatalf("user not updated: %+v", state.User)
	}
	if state.Session == nil {
		t.Fatal("session dropped on profile update")
	}
}

func TestCellUnsubscribeStopsNotifications(t *testing.T) {
	auth := newScriptedAuth()
	cell := NewCell(auth)
	defer cell.Close()

	calls := 0
	unsubscribe := cell.Subscribe(func(State) { calls++ })
	cell.Init("")
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	unsubscribe()
	cell.Init("")
	if calls != 1 {
		t.Fatalf("listener fired after unsubscribe: %d", calls)
	}
}

func TestCellCloseDetachesFromEvents(t *testing.T) {
	auth := newScriptedAuth()
	cell := NewCell(auth)
	cell.Init("")
	cell.Close()

	// Events after Close must not reach the cell.
	auth.emit(authdomain.AuthEvent{Type: authdomain.EventSignedIn, User: auth.user, Session: auth.session})
	if cell.Current().IsAuthenticated {
		t.Fatal("cell consumed an event after Close")
	}
}
