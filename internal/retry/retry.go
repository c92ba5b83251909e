/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package retry re-issues calls the Git hosting API turned away because of
// rate limiting, waiting as long as the server asked before the next attempt.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/chainguard-dev/clog"
)

// ErrWaitTooLong is returned when the server asks for a pause longer than
// Config.MaxWait.
var ErrWaitTooLong = errors.New("rate limit wait exceeds limit")

// Config configures retry behavior.
type Config struct {
	// MaxRetries is the number of attempts made after the first one.
	MaxRetries int
	// BaseBackoff is the pause before the first retry when the server gives
	// no hint. It doubles on every retry up to MaxBackoff.
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	// MaxJitter is the upper bound of the random delay added to every pause.
	MaxJitter time.Duration
	// MaxWait bounds how long a server hint may ask us to wait. Zero means
	// any hint is honoured.
	MaxWait time.Duration
}

// Validate checks that the configuration has valid values.
func (c Config) Validate() error {
	switch {
	case c.MaxRetries < 0:
		return errors.New("max retries cannot be negative")
	case c.BaseBackoff < 0, c.MaxBackoff < 0:
		return errors.New("backoff cannot be negative")
	case c.MaxJitter < 0:
		return errors.New("max jitter cannot be negative")
	case c.MaxWait < 0:
		return errors.New("max wait cannot be negative")
	}
	return nil
}

// DefaultConfig returns the configuration used for GitHub API calls.
// Secondary limits usually clear within a minute; an exhausted primary
// quota resets hourly, which is not worth blocking a launch on.
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		BaseBackoff: 2 * time.Second,
		MaxBackoff:  30 * time.Second,
		MaxJitter:   500 * time.Millisecond,
		MaxWait:     2 * time.Minute,
	}
}

// Verdict is a classifier's decision about a failed attempt.
type Verdict struct {
	Retry bool
	// After is how long the server asked us to wait. Zero when it did not say.
	After time.Duration
}

// Classifier inspects the error of a failed attempt.
type Classifier func(error) Verdict

// Pause returns how long to wait before retry number attempt (zero based).
// A server hint wins over the computed backoff when it is longer.
func (c Config) Pause(attempt int, v Verdict) time.Duration {
	d := min(c.BaseBackoff<<attempt, c.MaxBackoff)
	d = max(d, v.After)
	if c.MaxJitter > 0 {
		d += rand.N(c.MaxJitter)
	}
	return d
}

// Do calls fn until it succeeds, classify rejects its error, or the retries
// run out. Errors classify rejects are returned as is.
func Do[T any](ctx context.Context, cfg Config, operation string, classify Classifier, fn func() (T, error)) (T, error) {
	for attempt := 0; ; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		v := classify(err)
		switch {
		case !v.Retry:
			return result, err
		case cfg.MaxWait > 0 && v.After > cfg.MaxWait:
			return result, fmt.Errorf("%s: server asked to wait %v: %w: %w", operation, v.After.Round(time.Second), ErrWaitTooLong, err)
		case attempt >= cfg.MaxRetries:
			if attempt == 0 {
				return result, err
			}
			return result, fmt.Errorf("%s: giving up after %d retries: %w", operation, attempt, err)
		}

		pause := cfg.Pause(attempt, v)
		clog.FromContext(ctx).With("operation", operation, "attempt", attempt+1, "retry_after", v.After, "pause", pause).
			Warnf("Rate limited: %v", err)

		timer := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, ctx.Err()
		case <-timer.C:
		}
	}
}
