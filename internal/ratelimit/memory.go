package ratelimit

import (
	"context"
	"sync"
	"time"
)

const cleanupInterval = time.Minute

type window struct {
	attempts int
	start    time.Time
	length   time.Duration
}

// Memory is an in-process fixed-window limiter.
type Memory struct {
	mu          sync.Mutex
	entries     map[string]*window
	now         func() time.Time
	lastCleanup time.Time
}

func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{entries: map[string]*window{}, now: now, lastCleanup: now()}
}

func (m *Memory) Check(_ context.Context, key string, length time.Duration, max int) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.cleanup(now)

	w, ok := m.entries[key]
	if !ok || now.Sub(w.start) > length {
		m.entries[key] = &window{attempts: 1, start: now, length: length}
		return Result{Allowed: true, Remaining: max - 1}, nil
	}

	if w.attempts >= max {
		return Result{Allowed: false, RetryAfter: w.start.Add(length).Sub(now)}, nil
	}

	w.attempts++
	return Result{Allowed: true, Remaining: max - w.attempts}, nil
}

// Len reports how many keys are tracked.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) cleanup(now time.Time) {
	if now.Sub(m.lastCleanup) <= cleanupInterval {
		return
	}
	for k, w := range m.entries {
		if now.Sub(w.start) > w.length {
			delete(m.entries, k)
		}
	}
	m.lastCleanup = now
}
