// Package retry wraps capped exponential backoff for generic data
// operations. Credential and authorization failures must be marked Permanent
// by the caller; they are returned immediately and never retried.
package retry

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultMaxRetries    = 3
	defaultInitialFactor = 500 * time.Millisecond
	defaultMaxInterval   = 5 * time.Second
)

// Do runs op with the default policy: three retries, exponential intervals
// capped at five seconds.
func Do(op func() error) error {
	return DoWithMax(op, defaultMaxRetries)
}

// DoWithMax runs op with at most maxRetries retries after the first attempt.
func DoWithMax(op func() error, maxRetries uint64) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = defaultInitialFactor
	policy.MaxInterval = defaultMaxInterval
	return backoff.Retry(op, backoff.WithMaxRetries(policy, maxRetries))
}

// Permanent marks err as not retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}
