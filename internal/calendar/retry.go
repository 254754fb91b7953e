package calendar

import (
	"context"
	"errors"
	"time"

	backoff "github.com/cenkalti/backoff/v5"
	"google.golang.org/api/googleapi"
)

// RetryPolicy bounds how free/busy queries are retried. The zero value
// disables retries; DefaultRetryPolicy matches the Calendar API's
// rate-limit guidance.
type RetryPolicy struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy retries up to three times with exponential backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

func (p RetryPolicy) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	return b
}

// retryQuery runs op under the policy, retrying transient Calendar API
// failures and giving up immediately on permanent ones.
func retryQuery[T any](ctx context.Context, policy RetryPolicy, op func() (T, error)) (T, error) {
	attempts := policy.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}

	return backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err != nil && !isRetryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, backoff.WithBackOff(policy.backOff()), backoff.WithMaxTries(attempts))
}

// isRetryable reports whether a Calendar API error is worth retrying.
// Rate limits (403, 429) and server errors are transient; bad requests
// and revoked credentials are not.
func isRetryable(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		// Network-level errors have no status code; retry them.
		return true
	}
	switch {
	case apiErr.Code == 403, apiErr.Code == 429:
		return true
	case apiErr.Code >= 500:
		return true
	default:
		return false
	}
}
