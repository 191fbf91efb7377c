package webx403

import (
	"context"
	"sync"
	"time"
)

// InMemoryReplayStore is the reference [ReplayStore]: a mutex-protected
// map from (publicKey, nonce) to retention deadline. MarkIfAbsent is a
// single check-and-set under one lock acquisition, so concurrent callers
// with the same pair race for exactly one first-use answer and there is no
// check-then-insert gap.
//
// The store never consults the wall clock on its own; entries persist
// until an explicit or engine-driven EvictExpired call. Keeping a consumed
// pair past its deadline costs memory, never correctness.
type InMemoryReplayStore struct {
	mu      sync.Mutex
	entries map[string]int64
}

// NewInMemoryReplayStore creates an empty in-process replay store.
func NewInMemoryReplayStore() *InMemoryReplayStore {
	return &InMemoryReplayStore{
		entries: make(map[string]int64),
	}
}

// MarkIfAbsent records the pair and reports whether this call inserted it.
func (s *InMemoryReplayStore) MarkIfAbsent(_ context.Context, publicKey, nonce []byte, expiresAt time.Time) (bool, error) {
	key := replayKey(publicKey, nonce)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, used := s.entries[key]; used {
		return false, nil
	}
	s.entries[key] = expiresAt.Unix()
	return true, nil
}

// Seen reports whether the pair has been consumed.
func (s *InMemoryReplayStore) Seen(_ context.Context, publicKey, nonce []byte) (bool, error) {
	key := replayKey(publicKey, nonce)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, used := s.entries[key]
	return used, nil
}

// EvictExpired removes entries whose retention deadline is at or before
// now and returns how many were removed.
func (s *InMemoryReplayStore) EvictExpired(_ context.Context, now time.Time) (int, error) {
	deadline := now.Unix()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for key, expires := range s.entries {
		if expires <= deadline {
			delete(s.entries, key)
			evicted++
		}
	}
	return evicted, nil
}

// Len returns the number of retained entries.
func (s *InMemoryReplayStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}
