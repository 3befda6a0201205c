package domain

// AuthEventType enumerates the credential-store change events.
type AuthEventType string

const (
	EventSignedIn       AuthEventType = "SIGNED_IN"
	EventSignedOut      AuthEventType = "SIGNED_OUT"
	EventTokenRefreshed AuthEventType = "TOKEN_REFRESHED"
	EventUserUpdated    AuthEventType = "USER_UPDATED"
)

// AuthEvent is broadcast synchronously to subscribers after every successful
// state-changing auth operation. User and Session are nil on sign-out.
type AuthEvent struct {
	Type    AuthEventType
	User    *User
	Session *Session
}
