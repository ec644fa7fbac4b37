package onenote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/OneNoteDev/onenote-client/internal/logger"
	"golang.org/x/oauth2"
)

// RetryPolicy bounds how often a transient failure is retried.
// Attempts counts retries after the first try; zero disables retrying.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: DefaultRetryAttempts,
		Delay:    DefaultRetryDelay,
		MaxDelay: DefaultMaxRetryDelay,
	}
}

// backoff returns the wait before retry number attempt (zero based),
// doubling from Delay and capped at MaxDelay.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	d := p.Delay
	for i := 0; i < attempt; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// retryTransient runs fn until it succeeds, fails permanently or the policy
// is exhausted.
func retryTransient(ctx context.Context, p RetryPolicy, log logger.Logger, op string, fn func(context.Context) error) error {
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil || attempt >= p.Attempts || !isTransient(ctx, err) {
			return err
		}
		wait := p.backoff(attempt)
		log.Debugf("%s failed with a transient error, retrying in %s: %v", op, wait, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// isTransient reports whether err is worth retrying: throttling, server side
// token endpoint failures and network errors while ctx is still live.
func isTransient(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, ErrRetryLater) {
		return true
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		switch retrieveErr.ErrorCode {
		case "server_error", "temporarily_unavailable":
			return true
		}
		return retrieveErr.Response != nil && retrieveErr.Response.StatusCode >= 500
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// mapOAuthError folds token endpoint errors into the SDK's sentinels.
func mapOAuthError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) {
		return err
	}
	switch retrieveErr.ErrorCode {
	case "authorization_pending", "slow_down":
		return fmt.Errorf("%w: %w", ErrAuthorizationPending, err)
	case "access_denied", "authorization_declined", "expired_token", "bad_verification_code":
		return fmt.Errorf("%w: %w", ErrAuthorizationDeclined, err)
	case "invalid_request", "invalid_client", "invalid_grant",
		"unauthorized_client", "unsupported_grant_type", "invalid_scope":
		return fmt.Errorf("%w: %w", ErrReauthRequired, err)
	case "server_error", "temporarily_unavailable":
		return fmt.Errorf("%w: %w", ErrRetryLater, err)
	default:
		return err
	}
}
