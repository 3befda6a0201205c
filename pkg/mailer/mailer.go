package mailer

import "github.com/rs/zerolog"

// LogMailer records outgoing messages instead of delivering them; stands in
// until a transactional mail provider is wired up.
type LogMailer struct {
	logger zerolog.Logger
}

func NewLogMailer(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger.With().Str("component", "mailer").Logger()}
}

func (m *LogMailer) SendPasswordReset(email, token string) error {
	m.logger.Info().Str("email", email).Str("token", token).Msg("password reset requested")
	return nil
}
