package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	authdomain "fyndflip-backend/internal/auth/domain"
	authdto "fyndflip-backend/internal/auth/dto"
	"fyndflip-backend/internal/auth/repository"
	"fyndflip-backend/pkg/config"
	"fyndflip-backend/pkg/oauth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	credRepo  repository.CredentialRepository
	userRepo  repository.UserRepository
	providers OAuthRegistry
	mailer    Mailer
	config    *config.Config
	logger    zerolog.Logger

	mu        sync.Mutex
	listeners map[int]func(authdomain.AuthEvent)
	nextSubID int
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(credRepo repository.CredentialRepository, userRepo repository.UserRepository, providers OAuthRegistry, mailer Mailer, cfg *config.Config, logger zerolog.Logger) AuthUsecase {
	return &authUsecase{
		credRepo:  credRepo,
		userRepo:  userRepo,
		providers: providers,
		mailer:    mailer,
		config:    cfg,
		logger:    logger.With().Str("component", "auth").Logger(),
		listeners: map[int]func(authdomain.AuthEvent){},
	}
}

func (u *authUsecase) SignIn(email, password string) (*authdomain.AuthSession, error) {
	cred, err := u.credRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, authdomain.ErrInvalidCredentials
	}
	if cred.Provider != authdomain.ProviderEmail {
		return nil, fmt.Errorf("%w: please use %s sign-in for this account", authdomain.ErrWrongProvider, cred.Provider)
	}
	if !repository.CheckPasswordHash(password, cred.PasswordHash) {
		return nil, authdomain.ErrInvalidCredentials
	}

	user, err := u.getOrCreateProfile(cred)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", authdomain.ErrProfileUnavailable, err)
	}

	session, err := u.issueSession(cred)
	if err != nil {
		return nil, err
	}

	auth := &authdomain.AuthSession{User: user, Session: session}
	u.emit(authdomain.AuthEvent{Type: authdomain.EventSignedIn, User: user, Session: session})
	return auth, nil
}

func (u *authUsecase) SignUp(req *authdto.RegisterRequest) (*authdomain.AuthSession, error) {
	existing, err := u.credRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, authdomain.ErrEmailAlreadyRegistered
	}

	hash, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	cred := &authdomain.Credential{
		AuthID:       uuid.New().String(),
		Email:        req.Email,
		PasswordHash: hash,
		Provider:     authdomain.ProviderEmail,
	}
	if err := u.credRepo.Create(cred); err != nil {
		return nil, err
	}

	user := &authdomain.User{
		AuthID:           cred.AuthID,
		Email:            req.Email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		LocationCity:     req.LocationCity,
		LocationRegion:   req.LocationRegion,
		SubscriptionTier: authdomain.TierFreemium,
		IsActive:         true,
	}
	if err := u.userRepo.Create(user); err != nil {
		// Known gap: the credential row is not rolled back, leaving an
		// orphaned credential with no profile. Sign-up is the primary path,
		// so the failure is surfaced rather than swallowed.
		u.logger.Error().Err(err).Str("email", req.Email).Msg("profile insert failed after credential creation")
		return nil, fmt.Errorf("failed to create user profile: %w", err)
	}

	session, err := u.issueSession(cred)
	if err != nil {
		return nil, err
	}

	auth := &authdomain.AuthSession{User: user, Session: session}
	u.emit(authdomain.AuthEvent{Type: authdomain.EventSignedIn, User: user, Session: session})
	return auth, nil
}

func (u *authUsecase) SignInWithOAuth(provider oauth.Provider, opts authdto.OAuthSignInOptions) (string, error) {
	if !u.providers.Enabled(provider) {
		return "", fmt.Errorf("%s authentication is not currently available", u.providers.DisplayName(provider))
	}
	next := opts.Next
	if next == "" {
		next = "/dashboard"
	}
	// State carries the provider through the round trip; providers never
	// send their own name back on the callback.
	return u.providers.AuthCodeURL(provider, oauth.EncodeState(provider, next))
}

func (u *authUsecase) CompleteOAuth(ctx context.Context, provider oauth.Provider, code string) (*authdomain.AuthSession, error) {
	info, err := u.providers.Exchange(ctx, provider, code)
	if err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, fmt.Errorf("provider returned no email address")
	}

	cred, err := u.credRepo.FindByEmail(info.Email)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		cred = &authdomain.Credential{
			AuthID:   uuid.New().String(),
			Email:    info.Email,
			Provider: authdomain.AuthProvider(provider),
		}
		if err := u.credRepo.Create(cred); err != nil {
			return nil, err
		}
	}

	// Authentication success must not be undone by a profile-sync failure;
	// the middleware will deny dashboard access until the row exists.
	user, err := u.getOrCreateProfileFromOAuth(cred, info)
	if err != nil {
		u.logger.Error().Err(err).Str("email", info.Email).Msg("profile provisioning failed during oauth callback")
	}

	session, err := u.issueSession(cred)
	if err != nil {
		return nil, err
	}

	auth := &authdomain.AuthSession{User: user, Session: session}
	u.emit(authdomain.AuthEvent{Type: authdomain.EventSignedIn, User: user, Session: session})
	return auth, nil
}

func (u *authUsecase) SignOut(refreshToken string) error {
	if refreshToken != "" {
		if err := u.credRepo.DeleteRefreshToken(refreshToken); err != nil {
			return err
		}
	}
	u.emit(authdomain.AuthEvent{Type: authdomain.EventSignedOut})
	return nil
}

func (u *authUsecase) CurrentUser(accessToken string) (*authdomain.User, error) {
	authID, _, err := u.parseAccessToken(accessToken)
	if err != nil {
		return nil, nil
	}
	return u.userRepo.FindByAuthID(authID)
}

func (u *authUsecase) CurrentSession(accessToken string) (*authdomain.Session, error) {
	authID, expiresAt, err := u.parseAccessToken(accessToken)
	if err != nil {
		return nil, nil
	}
	return &authdomain.Session{AuthID: authID, AccessToken: accessToken, ExpiresAt: expiresAt}, nil
}

func (u *authUsecase) RefreshSession(refreshToken string) (*authdomain.AuthSession, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, authdomain.ErrInvalidToken
	}

	stored, err := u.credRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.ExpiresAt.Before(time.Now()) {
		return nil, authdomain.ErrInvalidToken
	}

	cred, err := u.credRepo.FindByAuthID(stored.AuthID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, authdomain.ErrInvalidToken
	}

	session, row, err := u.mintSession(cred)
	if err != nil {
		return nil, err
	}
	// Consume and replace in one step. A failure here leaves the old token
	// intact, so the client can retry instead of being forced to log in again.
	if err := u.credRepo.RotateRefreshToken(refreshToken, row); err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByAuthID(cred.AuthID)
	if err != nil {
		return nil, err
	}

	auth := &authdomain.AuthSession{User: user, Session: session}
	u.emit(authdomain.AuthEvent{Type: authdomain.EventTokenRefreshed, User: user, Session: session})
	return auth, nil
}

// ResetPassword triggers an out-of-band reset message. It never reveals
// whether the email is registered.
func (u *authUsecase) ResetPassword(email string) error {
	cred, err := u.credRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if cred == nil {
		return nil
	}

	recovery := &authdomain.RecoveryToken{
		Token:     uuid.New().String(),
		AuthID:    cred.AuthID,
		ExpiresAt: time.Now().Add(u.config.RecoveryTokenExpiry),
	}
	if err := u.credRepo.SaveRecoveryToken(recovery); err != nil {
		return err
	}
	if err := u.mailer.SendPasswordReset(email, recovery.Token); err != nil {
		u.logger.Error().Err(err).Msg("password reset mail failed")
	}
	return nil
}

func (u *authUsecase) CompletePasswordReset(token, newPassword string) error {
	recovery, err := u.credRepo.ConsumeRecoveryToken(token, time.Now())
	if err != nil {
		return err
	}
	if recovery == nil {
		return authdomain.ErrInvalidRecoveryToken
	}

	hash, err := repository.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := u.credRepo.UpdatePasswordHash(recovery.AuthID, hash); err != nil {
		return err
	}
	// A recovered password invalidates every open session.
	return u.credRepo.DeleteRefreshTokensByAuthID(recovery.AuthID)
}

// UpdatePassword sets a new password for the session's identity without a
// current-password check. ChangePassword is the strict variant; the two are
// deliberately distinct operations.
func (u *authUsecase) UpdatePassword(accessToken, newPassword string) error {
	authID, _, err := u.parseAccessToken(accessToken)
	if err != nil {
		return authdomain.ErrNotAuthenticated
	}
	hash, err := repository.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := u.credRepo.UpdatePasswordHash(authID, hash); err != nil {
		return err
	}
	u.emit(authdomain.AuthEvent{Type: authdomain.EventUserUpdated})
	return nil
}

// ChangePassword re-authenticates with the current password before setting
// the new one, so a hijacked long-lived session alone cannot rotate the
// credential. The verification completes before the update is issued.
func (u *authUsecase) ChangePassword(accessToken, currentPassword, newPassword string) error {
	authID, _, err := u.parseAccessToken(accessToken)
	if err != nil {
		return authdomain.ErrNotAuthenticated
	}
	cred, err := u.credRepo.FindByAuthID(authID)
	if err != nil {
		return err
	}
	if cred == nil {
		return authdomain.ErrNotAuthenticated
	}
	if !repository.CheckPasswordHash(currentPassword, cred.PasswordHash) {
		return authdomain.ErrCurrentPasswordIncorrect
	}

	hash, err := repository.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := u.credRepo.UpdatePasswordHash(authID, hash); err != nil {
		return err
	}
	u.emit(authdomain.AuthEvent{Type: authdomain.EventUserUpdated})
	return nil
}

func (u *authUsecase) UpdateProfile(accessToken string, req *authdto.UpdateProfileRequest) (*authdomain.User, error) {
	authID, _, err := u.parseAccessToken(accessToken)
	if err != nil {
		return nil, authdomain.ErrNotAuthenticated
	}

	fields := map[string]interface{}{}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = *req.AvatarURL
	}
	if req.LocationCity != nil {
		fields["location_city"] = *req.LocationCity
	}
	if req.LocationRegion != nil {
		fields["location_region"] = *req.LocationRegion
	}

	if err := u.userRepo.UpdateFields(authID, fields); err != nil {
		return nil, err
	}
	user, err := u.userRepo.FindByAuthID(authID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, authdomain.ErrProfileNotFound
	}
	u.emit(authdomain.AuthEvent{Type: authdomain.EventUserUpdated, User: user})
	return user, nil
}

// DeleteAccount re-authenticates, deactivates the profile, then signs out
// every session. The ordering is deliberate: a failure after deactivation
// still leaves the account deactivated, never re-activated.
func (u *authUsecase) DeleteAccount(accessToken, currentPassword string) error {
	authID, _, err := u.parseAccessToken(accessToken)
	if err != nil {
		return authdomain.ErrNotAuthenticated
	}
	cred, err := u.credRepo.FindByAuthID(authID)
	if err != nil {
		return err
	}
	if cred == nil {
		return authdomain.ErrNotAuthenticated
	}
	if !repository.CheckPasswordHash(currentPassword, cred.PasswordHash) {
		return authdomain.ErrCurrentPasswordIncorrect
	}

	if err := u.userRepo.Deactivate(authID); err != nil {
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	if err := u.credRepo.DeleteRefreshTokensByAuthID(authID); err != nil {
		u.logger.Error().Err(err).Str("auth_id", authID).Msg("sign-out after deactivation failed")
		return err
	}
	u.emit(authdomain.AuthEvent{Type: authdomain.EventSignedOut})
	return nil
}

func (u *authUsecase) HasRequiredTier(accessToken string, tier authdomain.SubscriptionTier) bool {
	user, err := u.CurrentUser(accessToken)
	if err != nil || user == nil {
		return false
	}
	return user.HasTier(tier)
}

func (u *authUsecase) SubscribeEvents(fn func(authdomain.AuthEvent)) func() {
	u.mu.Lock()
	defer u.mu.Unlock()
	id := u.nextSubID
	u.nextSubID++
	u.listeners[id] = fn
	return func() {
		u.mu.Lock()
		defer u.mu.Unlock()
		delete(u.listeners, id)
	}
}

func (u *authUsecase) emit(event authdomain.AuthEvent) {
	u.mu.Lock()
	fns := make([]func(authdomain.AuthEvent), 0, len(u.listeners))
	for _, fn := range u.listeners {
		fns = append(fns, fn)
	}
	u.mu.Unlock()
	for _, fn := range fns {
		fn(event)
	}
}

func (u *authUsecase) getOrCreateProfile(cred *authdomain.Credential) (*authdomain.User, error) {
	return u.userRepo.GetOrCreate(&authdomain.User{
		AuthID:           cred.AuthID,
		Email:            cred.Email,
		SubscriptionTier: authdomain.TierFreemium,
		IsActive:         true,
	})
}

func (u *authUsecase) getOrCreateProfileFromOAuth(cred *authdomain.Credential, info *oauth.UserInfo) (*authdomain.User, error) {
	first, last := splitName(info.Name)
	return u.userRepo.GetOrCreate(&authdomain.User{
		AuthID:           cred.AuthID,
		Email:            cred.Email,
		FirstName:        first,
		LastName:         last,
		AvatarURL:        info.Picture,
		SubscriptionTier: authdomain.TierFreemium,
		IsActive:         true,
	})
}

// mintSession signs a fresh token pair without persisting anything, so the
// caller chooses how the refresh row lands (plain save or rotation).
func (u *authUsecase) mintSession(cred *authdomain.Credential) (*authdomain.Session, *authdomain.RefreshToken, error) {
	expiresAt := time.Now().Add(u.config.JWTAccessExpiry)
	accessToken, err := u.signToken(jwt.MapClaims{
		"auth_id": cred.AuthID,
		"email":   cred.Email,
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
	})
	if err != nil {
		return nil, nil, err
	}

	refreshExpiry := time.Now().Add(u.config.JWTRefreshExpiry)
	refreshToken, err := u.signToken(jwt.MapClaims{
		"auth_id":  cred.AuthID,
		"token_id": uuid.New().String(),
		"exp":      refreshExpiry.Unix(),
		"iat":      time.Now().Unix(),
	})
	if err != nil {
		return nil, nil, err
	}

	session := &authdomain.Session{
		AuthID:       cred.AuthID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}
	row := &authdomain.RefreshToken{
		Token:     refreshToken,
		AuthID:    cred.AuthID,
		ExpiresAt: refreshExpiry,
	}
	return session, row, nil
}

func (u *authUsecase) issueSession(cred *authdomain.Credential) (*authdomain.Session, error) {
	session, row, err := u.mintSession(cred)
	if err != nil {
		return nil, err
	}
	if err := u.credRepo.SaveRefreshToken(row); err != nil {
		return nil, err
	}
	return session, nil
}

func (u *authUsecase) signToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) parseAccessToken(accessToken string) (authID string, expiresAt time.Time, err error) {
	if accessToken == "" {
		return "", time.Time{}, authdomain.ErrInvalidToken
	}
	token, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", time.Time{}, authdomain.ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", time.Time{}, authdomain.ErrInvalidToken
	}
	authID, ok = claims["auth_id"].(string)
	if !ok || authID == "" {
		return "", time.Time{}, authdomain.ErrInvalidToken
	}
	if exp, ok := claims["exp"].(float64); ok {
		expiresAt = time.Unix(int64(exp), 0)
	}
	return authID, expiresAt, nil
}

func splitName(full string) (first, last string) {
	for i := 0; i < len(full); i++ {
		if full[i] == ' ' {
			return full[:i], full[i+1:]
		}
	}
	return full, ""
}
