package domain

import "time"

// Session is the token bundle issued on successful authentication. It is
// valid only while ExpiresAt is in the future and the owning profile is
// active; both are rechecked on every protected-route entry.
type Session struct {
	AuthID       string    `json:"auth_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthSession pairs a session with its resolved profile, the composed result
// of a sign-in.
type AuthSession struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
}
