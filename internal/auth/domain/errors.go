package domain

import "errors"

// Credential errors are surfaced to the user verbatim and are never retried.
var (
	ErrInvalidCredentials       = errors.New("invalid login credentials")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
	ErrNotAuthenticated         = errors.New("not authenticated")
	ErrInvalidToken             = errors.New("invalid or expired token")
	ErrEmailAlreadyRegistered   = errors.New("email already registered")
	ErrInvalidRecoveryToken     = errors.New("invalid or expired recovery token")
	ErrWrongProvider            = errors.New("this account uses a social sign-in provider")
)

// Profile-sync errors block the primary sign-up path but are swallowed on
// side paths (OAuth callback, auto-provisioning).
var (
	ErrProfileNotFound    = errors.New("user profile not found")
	ErrProfileUnavailable = errors.New("failed to retrieve user profile")
)

// IsCredentialError reports whether err belongs to the credential error
// class. Retrying these can never succeed, so the retry wrapper treats them
// as permanent.
func IsCredentialError(err error) bool {
	for _, sentinel := range []error{
		ErrInvalidCredentials,
		ErrCurrentPasswordIncorrect,
		ErrNotAuthenticated,
		ErrInvalidToken,
		ErrInvalidRecoveryToken,
		ErrWrongProvider,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
