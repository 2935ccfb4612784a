package service

import (
	"errors"
	"sync"
	"time"
)

// feedStaleAfter is how long the primary feed may keep failing before the
// health endpoint reports degraded.
const feedStaleAfter = 5 * time.Minute

// ErrFeedStale is returned when the upstream feed has not succeeded recently
var ErrFeedStale = errors.New("upstream feed has not succeeded recently")

// FeedHealth tracks the last successful primary-feed fetch. A process that
// has never served a request is healthy; one that keeps failing upstream
// flips to degraded once the last success is older than feedStaleAfter.
type FeedHealth struct {
	stateMutex  sync.RWMutex
	lastSuccess time.Time
	attempted   bool
	now         func() time.Time
}

// NewFeedHealth creates a feed health tracker.
func NewFeedHealth() *FeedHealth {
	return &FeedHealth{
		now: time.Now,
	}
}

// SetClock overrides the time source.
func (h *FeedHealth) SetClock(now func() time.Time) {
	h.stateMutex.Lock()
	defer h.stateMutex.Unlock()
	h.now = now
}

// RecordAttempt notes that a feed fetch was attempted.
func (h *FeedHealth) RecordAttempt() {
	h.stateMutex.Lock()
	defer h.stateMutex.Unlock()
	h.attempted = true
}

// RecordSuccess notes that a feed fetch returned usable data.
func (h *FeedHealth) RecordSuccess() {
	h.stateMutex.Lock()
	defer h.stateMutex.Unlock()
	h.attempted = true
	h.lastSuccess = h.now()
}

// CheckHealth verifies the feed is not stale.
func (h *FeedHealth) CheckHealth() error {
	h.stateMutex.RLock()
	defer h.stateMutex.RUnlock()

	if !h.attempted {
		return nil
	}
	if h.lastSuccess.IsZero() || h.now().Sub(h.lastSuccess) > feedStaleAfter {
		return ErrFeedStale
	}
	return nil
}

// LastSuccess returns the timestamp of the last successful fetch.
func (h *FeedHealth) LastSuccess() time.Time {
	h.stateMutex.RLock()
	defer h.stateMutex.RUnlock()
	return h.lastSuccess
}
