/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubservice

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"chainguard.dev/launcher/internal/retry"
	"github.com/google/go-github/v84/github"
)

const duplicateHookMessage = "Hook already exists"

func statusCode(err error) int {
	var er *github.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return er.Response.StatusCode
	}
	return 0
}

func isNotFound(err error) bool {
	return statusCode(err) == http.StatusNotFound
}

// isDuplicateHook reports whether GitHub rejected a hook because one with the
// same configuration is already registered.
func isDuplicateHook(err error) bool {
	var er *github.ErrorResponse
	if !errors.As(err, &er) || er.Response == nil || er.Response.StatusCode != http.StatusUnprocessableEntity {
		return false
	}
	if strings.Contains(er.Message, duplicateHookMessage) {
		return true
	}
	for _, e := range er.Errors {
		if strings.Contains(e.Message, duplicateHookMessage) {
			return true
		}
	}
	return false
}

// rateLimitVerdict retries both kinds of GitHub rate limiting, waiting for
// the primary quota to reset or for the Retry-After of a secondary limit.
func rateLimitVerdict(err error) retry.Verdict {
	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		return retry.Verdict{Retry: true, After: max(time.Until(rle.Rate.Reset.Time), 0)}
	}
	var arle *github.AbuseRateLimitError
	if errors.As(err, &arle) {
		return retry.Verdict{Retry: true, After: max(arle.GetRetryAfter(), 0)}
	}
	return retry.Verdict{}
}
