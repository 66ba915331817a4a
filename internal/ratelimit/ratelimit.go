// Package ratelimit provides the fixed-window attempt counter consulted before
// public and login requests are processed.
//
// Counters are per backend: the memory limiter is per process, so a
// multi-instance deployment without Redis enforces the quota per instance.
// That is acceptable for coarse abuse deterrence and is not an exact quota.
package ratelimit

import (
	"context"
	"time"
)

type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts one attempt for key within window and reports whether it is
// within max.
type Limiter interface {
	Check(ctx context.Context, key string, window time.Duration, max int) (Result, error)
}

// RetryAfterSeconds rounds up to whole seconds, never below one.
func RetryAfterSeconds(d time.Duration) int {
	s := int((d + time.Second - 1) / time.Second)
	if s < 1 {
		s = 1
	}
	return s
}
