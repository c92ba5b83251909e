/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errLimited = errors.New("403 API rate limit exceeded")

func quickConfig() Config {
	return Config{
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  5 * time.Millisecond,
		MaxWait:     time.Second,
	}
}

func limitedAfter(d time.Duration) Classifier {
	return func(err error) Verdict {
		return Verdict{Retry: errors.Is(err, errLimited), After: d}
	}
}

func TestDo(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		classify  Classifier
		failures  int
		err       error
		wantCalls int
		wantErr   error
		wantSame  bool
		minTime   time.Duration
	}{{
		name:      "first attempt succeeds",
		cfg:       quickConfig(),
		classify:  limitedAfter(0),
		wantCalls: 1,
	}, {
		name:      "recovers after rate limiting",
		cfg:       quickConfig(),
		classify:  limitedAfter(0),
		failures:  2,
		err:       errLimited,
		wantCalls: 3,
	}, {
		name:      "honours the server hint",
		cfg:       quickConfig(),
		classify:  limitedAfter(50 * time.Millisecond),
		failures:  1,
		err:       errLimited,
		wantCalls: 2,
		minTime:   50 * time.Millisecond,
	}, {
		name:      "hint beyond max wait fails fast",
		cfg:       quickConfig(),
		classify:  limitedAfter(time.Hour),
		failures:  5,
		err:       errLimited,
		wantCalls: 1,
		wantErr:   ErrWaitTooLong,
	}, {
		name:      "exhausted retries",
		cfg:       quickConfig(),
		classify:  limitedAfter(0),
		failures:  5,
		err:       errLimited,
		wantCalls: 3,
		wantErr:   errLimited,
	}, {
		name:      "other errors are not retried",
		cfg:       quickConfig(),
		classify:  limitedAfter(0),
		failures:  5,
		err:       errors.New("404 Not Found"),
		wantCalls: 1,
		wantSame:  true,
	}, {
		name:      "no retries configured",
		cfg:       Config{},
		classify:  limitedAfter(0),
		failures:  5,
		err:       errLimited,
		wantCalls: 1,
		wantSame:  true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			calls := 0
			start := time.Now()
			got, err := Do(context.Background(), tt.cfg, "create hook", tt.classify, func() (int, error) {
				calls++
				if calls <= tt.failures {
					return 0, tt.err
				}
				return 42, nil
			})
			elapsed := time.Since(start)

			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if elapsed < tt.minTime {
				t.Errorf("returned after %v, want at least %v", elapsed, tt.minTime)
			}
			switch {
			case tt.wantSame:
				if err != tt.err {
					t.Errorf("err = %v, want %v unchanged", err, tt.err)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
			default:
				if err != nil {
					t.Fatalf("Do: %v", err)
				}
				if got != 42 {
					t.Errorf("result = %d, want 42", got)
				}
			}
		})
	}
}

func TestDoContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := quickConfig()
	cfg.BaseBackoff, cfg.MaxBackoff = time.Hour, time.Hour
	_, err := Do(ctx, cfg, "push", limitedAfter(0), func() (string, error) {
		return "", errLimited
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestPause(t *testing.T) {
	cfg := Config{BaseBackoff: 10 * time.Millisecond, MaxBackoff: 40 * time.Millisecond}
	tests := []struct {
		attempt int
		after   time.Duration
		want    time.Duration
	}{
		{attempt: 0, want: 10 * time.Millisecond},
		{attempt: 1, want: 20 * time.Millisecond},
		{attempt: 5, want: 40 * time.Millisecond},
		{attempt: 0, after: time.Second, want: time.Second},
		{attempt: 1, after: time.Millisecond, want: 20 * time.Millisecond},
		{attempt: 0, after: -time.Second, want: 10 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := cfg.Pause(tt.attempt, Verdict{Retry: true, After: tt.after}); got != tt.want {
			t.Errorf("Pause(%d, %v) = %v, want %v", tt.attempt, tt.after, got, tt.want)
		}
	}

	cfg.MaxJitter = 5 * time.Millisecond
	for range 20 {
		if got := cfg.Pause(0, Verdict{}); got < 10*time.Millisecond || got >= 15*time.Millisecond {
			t.Fatalf("Pause with jitter = %v, want within [10ms, 15ms)", got)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	for name, cfg := range map[string]Config{
		"negative retries": {MaxRetries: -1},
		"negative base":    {BaseBackoff: -1},
		"negative max":     {MaxBackoff: -1},
		"negative jitter":  {MaxJitter: -1},
		"negative wait":    {MaxWait: -1},
	} {
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
