package onenote

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// PollingConfig controls how WaitOperation polls a copy operation.
type PollingConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	// MaxAttempts stops polling after that many status checks; zero means no limit.
	MaxAttempts int
}

// DefaultPollingConfig returns the polling schedule used when none is configured.
func DefaultPollingConfig() PollingConfig {
	return PollingConfig{
		InitialInterval: DefaultPollInterval,
		MaxInterval:     DefaultMaxInterval,
		Multiplier:      DefaultPollMultiplier,
	}
}

func (p PollingConfig) withDefaults() PollingConfig {
	def := DefaultPollingConfig()
	if p.InitialInterval <= 0 {
		p.InitialInterval = def.InitialInterval
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = def.MaxInterval
	}
	if p.Multiplier < 1 {
		p.Multiplier = def.Multiplier
	}
	return p
}

// next grows interval by the multiplier, capped at MaxInterval.
func (p PollingConfig) next(interval time.Duration) time.Duration {
	n := time.Duration(float64(interval) * p.Multiplier)
	if n > p.MaxInterval {
		return p.MaxInterval
	}
	return n
}

// GetOperation fetches the status of an async copy from the URL the copy call
// returned in Envelope.Location.
func (c *Client) GetOperation(ctx context.Context, operationURL string) (Envelope[CopyOperation], error) {
	c.logger.Debug("GetOperation called", "url", operationURL)
	if operationURL == "" {
		return Envelope[CopyOperation]{}, errors.New("operation URL is empty")
	}
	return getEntity[CopyOperation](ctx, c, operationURL)
}

// WaitOperation polls an operation until it completes or fails. onPoll, if
// given, sees every status received.
//
// The returned error is nil only when the operation completed. A failed
// operation is reported with ErrOperationFailed alongside its last envelope.
//
// Example:
//
//	env, _ := client.CopyNotebook(ctx, id, "Archive")
//	done, err := client.WaitOperation(ctx, env.Location, onenote.DefaultPollingConfig(), nil)
//	if err != nil { log.Fatal(err) }
//	fmt.Println(done.Entity.ResourceLocation)
func (c *Client) WaitOperation(ctx context.Context, operationURL string, polling PollingConfig, onPoll func(CopyOperation)) (Envelope[CopyOperation], error) {
	polling = polling.withDefaults()
	interval := polling.InitialInterval

	for attempt := 1; ; attempt++ {
		env, err := c.GetOperation(ctx, operationURL)
		if err != nil {
			return env, err
		}
		if err := env.Err(); err != nil {
			return env, err
		}
		if env.Entity == nil {
			return env, fmt.Errorf("%w: operation status has no body", ErrMalformedResponseBody)
		}

		op := *env.Entity
		if onPoll != nil {
			onPoll(op)
		}
		switch op.Status {
		case OperationCompleted:
			return env, nil
		case OperationFailed:
			if op.Error != nil {
				return env, fmt.Errorf("%w: %s: %s", ErrOperationFailed, op.Error.Code, op.Error.Message)
			}
			return env, ErrOperationFailed
		}

		if polling.MaxAttempts > 0 && attempt >= polling.MaxAttempts {
			return env, fmt.Errorf("%w: still %s after %d checks", ErrOperationTimeout, op.Status, attempt)
		}

		c.logger.Debugf("operation %s is %s, checking again in %s", op.ID, op.Status, interval)
		if err := c.sleep(ctx, interval); err != nil {
			return env, err
		}
		interval = polling.next(interval)
	}
}
