package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	authdomain "fyndflip-backend/internal/auth/domain"
	"fyndflip-backend/pkg/oauth"
)

// fakeCredRepo is an in-memory CredentialRepository.
type fakeCredRepo struct {
	mu             sync.Mutex
	creds          map[string]*authdomain.Credential // by email
	refreshTokens  map[string]*authdomain.RefreshToken
	recoveryTokens map[string]*authdomain.RecoveryToken

	failDeleteByAuthID bool
	failRotate         bool
}

func newFakeCredRepo() *fakeCredRepo {
	return &fakeCredRepo{
		creds:          map[string]*authdomain.Credential{},
		refreshTokens:  map[string]*authdomain.RefreshToken{},
		recoveryTokens: map[string]*authdomain.RecoveryToken{},
	}
}

func (r *fakeCredRepo) Create(cred *authdomain.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.creds[cred.Email]; ok {
		return errors.New("duplicate email")
	}
	c := *cred
	r.creds[cred.Email] = &c
	return nil
}

func (r *fakeCredRepo) FindByEmail(email string) (*authdomain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.creds[email]; ok {
		out := *c
		return &out, nil
	}
	return nil, nil
}

func (r *fakeCredRepo) FindByAuthID(authID string) (*authdomain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.creds {
		if c.AuthID == authID {
			out := *c
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeCredRepo) UpdatePasswordHash(authID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.creds {
		if c.AuthID == authID {
			c.PasswordHash = hash
			return nil
		}
	}
	return nil
}

func (r *fakeCredRepo) SaveRefreshToken(token *authdomain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := *token
	r.refreshTokens[token.Token] = &t
	return nil
}

func (r *fakeCredRepo) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.refreshTokens[token]; ok {
		out := *t
		return &out, nil
	}
	return nil, nil
}

func (r *fakeCredRepo) RotateRefreshToken(oldToken string, replacement *authdomain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failRotate {
		return errors.New("token store unavailable")
	}
	delete(r.refreshTokens, oldToken)
	t := *replacement
	r.refreshTokens[replacement.Token] = &t
	return nil
}

func (r *fakeCredRepo) DeleteRefreshToken(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.refreshTokens, token)
	return nil
}

func (r *fakeCredRepo) DeleteRefreshTokensByAuthID(authID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failDeleteByAuthID {
		return errors.New("token store unavailable")
	}
	for k, t := range r.refreshTokens {
		if t.AuthID == authID {
			delete(r.refreshTokens, k)
		}
	}
	return nil
}

func (r *fakeCredRepo) DeleteExpiredRefreshTokens(now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, t := range r.refreshTokens {
		if t.ExpiresAt.Before(now) {
			delete(r.refreshTokens, k)
			n++
		}
	}
	return n, nil
}

func (r *fakeCredRepo) SaveRecoveryToken(token *authdomain.RecoveryToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := *token
	r.recoveryTokens[token.Token] = &t
	return nil
}

func (r *fakeCredRepo) ConsumeRecoveryToken(token string, now time.Time) (*authdomain.RecoveryToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.recoveryTokens[token]
	if !ok || t.UsedAt != nil || !t.ExpiresAt.After(now) {
		return nil, nil
	}
	used := now
	t.UsedAt = &used
	out := *t
	return &out, nil
}

func (r *fakeCredRepo) DeleteExpiredRecoveryTokens(now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, t := range r.recoveryTokens {
		if t.ExpiresAt.Before(now) {
			delete(r.recoveryTokens, k)
			n++
		}
	}
	return n, nil
}

func (r *fakeCredRepo) refreshTokenCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.refreshTokens)
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*authdomain.User // by auth_id

	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*authdomain.User{}}
}

func (r *fakeUserRepo) Create(user *authdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	if user.SubscriptionTier == "" {
		user.SubscriptionTier = authdomain.TierFreemium
	}
	u := *user
	r.users[user.AuthID] = &u
	return nil
}

func (r *fakeUserRepo) FindByAuthID(authID string) (*authdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[authID]; ok {
		out := *u
		return &out, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(id string) (*authdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetOrCreate(user *authdomain.User) (*authdomain.User, error) {
	existing, err := r.FindByAuthID(user.AuthID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	if err := r.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *fakeUserRepo) Update(user *authdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := *user
	r.users[user.AuthID] = &u
	return nil
}

func (r *fakeUserRepo) UpdateFields(authID string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[authID]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "first_name":
			u.FirstName = v.(string)
		case "last_name":
			u.LastName = v.(string)
		case "avatar_url":
			u.AvatarURL = v.(string)
		case "location_city":
			u.LocationCity = v.(string)
		case "location_region":
			u.LocationRegion = v.(string)
		}
	}
	return nil
}

func (r *fakeUserRepo) Deactivate(authID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[authID]; ok {
		u.IsActive = false
	}
	return nil
}

func (r *fakeUserRepo) setTier(authID string, tier authdomain.SubscriptionTier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[authID]; ok {
		u.SubscriptionTier = tier
	}
}

// fakeRegistry satisfies OAuthRegistry without touching the network.
type fakeRegistry struct {
	enabled     map[oauth.Provider]bool
	info        *oauth.UserInfo
	exchangeErr error

	exchanged []string
	lastState string
}

func (r *fakeRegistry) Enabled(p oauth.Provider) bool { return r.enabled[p] }

func (r *fakeRegistry) DisplayName(p oauth.Provider) string { return string(p) }

func (r *fakeRegistry) AuthCodeURL(p oauth.Provider, state string) (string, error) {
	if !r.enabled[p] {
		return "", fmt.Errorf("%s authentication is not currently available", p)
	}
	r.lastState = state
	return "https://provider.example/authorize?state=" + state, nil
}

func (r *fakeRegistry) Exchange(ctx context.Context, p oauth.Provider, code string) (*oauth.UserInfo, error) {
	r.exchanged = append(r.exchanged, code)
	if r.exchangeErr != nil {
		return nil, r.exchangeErr
	}
	return r.info, nil
}

// fakeMailer records reset mails instead of sending them.
type fakeMailer struct {
	mu    sync.Mutex
	sent  []string // email addresses
	token string   // last token
	err   error
}

func (m *fakeMailer) SendPasswordReset(email, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	m.token = token
	return nil
}

func (m *fakeMailer) lastToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}
