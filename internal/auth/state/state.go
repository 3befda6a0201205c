// Package state holds the reactive auth state for one client surface: a
// single-writer cell plus synchronously notified listeners, replacing the
// framework context/provider pattern the web client used.
//
// The server binary never constructs a Cell. This package ships for
// in-process embedders of the auth module (admin UIs, desktop clients,
// integration harnesses) that want a live session snapshot driven by the
// usecase event stream.
package state

import (
	"sync"

	authdomain "fyndflip-backend/internal/auth/domain"
	authdto "fyndflip-backend/internal/auth/dto"
	"fyndflip-backend/internal/auth/usecase"
)

// State is the full auth snapshot. Every transition replaces all four fields
// together so IsAuthenticated can never momentarily disagree with User.
type State struct {
	User            *authdomain.User
	Session         *authdomain.Session
	IsLoading       bool
	IsAuthenticated bool
}

// Cell owns one State and the listener set. The credential-store event
// subscription is authoritative: an event-driven replacement always wins over
// an in-flight operation's bookkeeping.
type Cell struct {
	auth usecase.AuthUsecase

	mu        sync.Mutex
	state     State
	listeners map[int]func(State)
	nextID    int

	unsubscribe func()
}

// NewCell constructs a cell in the loading state and subscribes it to the
// auth event stream. Call Close on teardown; no listener fires afterwards.
func NewCell(auth usecase.AuthUsecase) *Cell {
	c := &Cell{
		auth:      auth,
		state:     State{IsLoading: true},
		listeners: map[int]func(State){},
	}
	c.unsubscribe = auth.SubscribeEvents(c.onAuthEvent)
	return c
}

// Init performs the one initial resolve from a previously stored access
// token (empty for a fresh surface) and settles into authenticated or
// anonymous.
func (c *Cell) Init(accessToken string) {
	if accessToken == "" {
		c.replace(State{})
		return
	}
	user, _ := c.auth.CurrentUser(accessToken)
	session, _ := c.auth.CurrentSession(accessToken)
	c.replace(State{
		User:            user,
		Session:         session,
		IsAuthenticated: user != nil,
	})
}

// Close unsubscribes from the event stream. Idempotent.
func (c *Cell) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// Current returns the present snapshot.
func (c *Cell) Current() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers a listener notified synchronously on every state
// replacement. The returned func unregisters it.
func (c *Cell) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// Login signs in; the success transition arrives through the event stream,
// only the failure path restores IsLoading here.
func (c *Cell) Login(email, password string) error {
	c.setLoading()
	_, err := c.auth.SignIn(email, password)
	if err != nil {
		c.restoreLoading()
		return err
	}
	return nil
}

func (c *Cell) Register(req *authdto.RegisterRequest) error {
	c.setLoading()
	_, err := c.auth.SignUp(req)
	if err != nil {
		c.restoreLoading()
		return err
	}
	return nil
}

func (c *Cell) Logout() error {
	c.setLoading()
	refresh := ""
	if s := c.Current().Session; s != nil {
		refresh = s.RefreshToken
	}
	if err := c.auth.SignOut(refresh); err != nil {
		c.restoreLoading()
		return err
	}
	return nil
}

func (c *Cell) ResetPassword(email string) error {
	return c.auth.ResetPassword(email)
}

func (c *Cell) UpdatePassword(newPassword string) error {
	return c.auth.UpdatePassword(c.accessToken(), newPassword)
}

func (c *Cell) ChangePassword(currentPassword, newPassword string) error {
	return c.auth.ChangePassword(c.accessToken(), currentPassword, newPassword)
}

func (c *Cell) UpdateProfile(req *authdto.UpdateProfileRequest) error {
	_, err := c.auth.UpdateProfile(c.accessToken(), req)
	if err != nil {
		return err
	}
	return c.RefreshUser()
}

func (c *Cell) DeleteAccount(currentPassword string) error {
	return c.auth.DeleteAccount(c.accessToken(), currentPassword)
}

// RefreshUser re-reads the profile for the current session and replaces the
// snapshot.
func (c *Cell) RefreshUser() error {
	token := c.accessToken()
	user, err := c.auth.CurrentUser(token)
	if err != nil {
		return err
	}
	session, _ := c.auth.CurrentSession(token)
	c.replace(State{
		User:            user,
		Session:         session,
		IsAuthenticated: user != nil,
	})
	return nil
}

func (c *Cell) accessToken() string {
	if s := c.Current().Session; s != nil {
		return s.AccessToken
	}
	return ""
}

func (c *Cell) onAuthEvent(event authdomain.AuthEvent) {
	switch event.Type {
	case authdomain.EventSignedIn, authdomain.EventTokenRefreshed:
		c.replace(State{
			User:            event.User,
			Session:         event.Session,
			IsAuthenticated: event.User != nil,
		})
	case authdomain.EventSignedOut:
		c.replace(State{})
	case authdomain.EventUserUpdated:
		if event.User == nil {
			return
		}
		session := c.Current().Session
		c.replace(State{
			User:            event.User,
			Session:         session,
			IsAuthenticated: true,
		})
	}
}

func (c *Cell) setLoading() {
	prev := c.Current()
	c.replace(State{
		User:            prev.User,
		Session:         prev.Session,
		IsLoading:       true,
		IsAuthenticated: prev.IsAuthenticated,
	})
}

func (c *Cell) restoreLoading() {
	prev := c.Current()
	c.replace(State{
		User:            prev.User,
		Session:         prev.Session,
		IsAuthenticated: prev.IsAuthenticated,
	})
}

func (c *Cell) replace(next State) {
	c.mu.Lock()
	c.state = next
	fns := make([]func(State), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(next)
	}
}
