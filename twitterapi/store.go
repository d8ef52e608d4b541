package twitterapi

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/luma-collective/gatehouse/telemetry"
)

const (
	// Maximum number of pending handshakes to keep in memory.
	maxPending = 10000
)

type pendingEntry struct {
	secret    string
	expiresAt time.Time
}

// PendingStore holds request-token secrets between the first and second leg of
// the handshake. Tokens are single-use: Consume removes the entry under the
// same lock that reads it, so a replayed callback misses. Entries expire after
// the configured TTL whether or not the user ever returns.
type PendingStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]pendingEntry
	now     func() time.Time
}

// NewPendingStore creates a store whose entries live for ttl.
func NewPendingStore(ttl time.Duration) *PendingStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &PendingStore{
		ttl:     ttl,
		entries: make(map[string]pendingEntry),
		now:     time.Now,
	}
}

// Put records a token/secret pair. Over the cap it refuses the entry, which
// fails that handshake; better than letting an abusive client grow the map
// without bound.
func (s *PendingStore) Put(token, secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries)%100 == 0 {
		s.removeExpiredLocked()
	}
	if len(s.entries) >= maxPending {
		slog.Warn("pending store full, dropping handshake", slog.Int("size", len(s.entries)))
		return
	}
	s.entries[token] = pendingEntry{secret: secret, expiresAt: s.now().Add(s.ttl)}
	telemetry.SetPendingDepth(len(s.entries))
}

// Consume atomically removes and returns the secret for token. A second call
// with the same token, or a call for an expired entry, reports ok=false.
func (s *PendingStore) Consume(token string) (secret string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return "", false
	}
	delete(s.entries, token)
	telemetry.SetPendingDepth(len(s.entries))
	if s.now().After(e.expiresAt) {
		return "", false
	}
	return e.secret, true
}

// Evict removes token if present. Unknown tokens are ignored, which keeps the
// denied-callback path idempotent.
func (s *PendingStore) Evict(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
	telemetry.SetPendingDepth(len(s.entries))
}

// Len reports the current number of pending entries.
func (s *PendingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *PendingStore) removeExpiredLocked() {
	now := s.now()
	for token, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, token)
		}
	}
	telemetry.SetPendingDepth(len(s.entries))
}

// StartSweeper launches a goroutine that periodically drops expired entries
// until ctx is done.
func (s *PendingStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.mu.Lock()
				s.removeExpiredLocked()
				s.mu.Unlock()
			}
		}
	}()
}
