package scheduler

import (
	"time"

	"fyndflip-backend/internal/auth/repository"

	"github.com/rs/zerolog"
)

// TokenCleanupScheduler periodically purges expired refresh and recovery
// tokens so the credential tables do not grow without bound.
type TokenCleanupScheduler struct {
	credRepo repository.CredentialRepository
	interval time.Duration
	stopChan chan struct{}
	logger   zerolog.Logger
}

// NewTokenCleanupScheduler creates a new scheduler
func NewTokenCleanupScheduler(credRepo repository.CredentialRepository, interval time.Duration, logger zerolog.Logger) *TokenCleanupScheduler {
	return &TokenCleanupScheduler{
		credRepo: credRepo,
		interval: interval,
		stopChan: make(chan struct{}),
		logger:   logger.With().Str("component", "token-cleanup").Logger(),
	}
}

// Start begins the scheduler loop
func (s *TokenCleanupScheduler) Start() {
	s.logger.Info().Dur("interval", s.interval).Msg("starting token cleanup scheduler")

	go func() {
		// Run immediately on start
		s.purge()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.purge()
			case <-s.stopChan:
				s.logger.Info().Msg("token cleanup scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *TokenCleanupScheduler) Stop() {
	close(s.stopChan)
}

func (s *TokenCleanupScheduler) purge() {
	now := time.Now()

	refresh, err := s.credRepo.DeleteExpiredRefreshTokens(now)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to purge expired refresh tokens")
	}

	recovery, err := s.credRepo.DeleteExpiredRecoveryTokens(now)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to purge expired recovery tokens")
	}

	if refresh > 0 || recovery > 0 {
		s.logger.Debug().Int64("refresh", refresh).Int64("recovery", recovery).Msg("purged expired tokens")
	}
}
