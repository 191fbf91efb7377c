package webx403

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestInMemoryReplayStoreMarkIfAbsent(t *testing.T) {
	store := NewInMemoryReplayStore()
	ctx := context.Background()
	pk := testNonce(9)
	nonce := testNonce(1)
	deadline := time.Unix(2000, 0)

	first, err := store.MarkIfAbsent(ctx, pk, nonce, deadline)
	if err != nil || !first {
		t.Fatalf("first mark: %v err=%v", first, err)
	}

	second, err := store.MarkIfAbsent(ctx, pk, nonce, deadline)
	if err != nil || second {
		t.Fatalf("second mark: %v err=%v", second, err)
	}

	seen, err := store.Seen(ctx, pk, nonce)
	if err != nil || !seen {
		t.Fatalf("seen: %v err=%v", seen, err)
	}
}

func TestInMemoryReplayStoreKeysScopedToPublicKey(t *testing.T) {
	store := NewInMemoryReplayStore()
	ctx := context.Background()
	nonce := testNonce(1)
	deadline := time.Unix(2000, 0)

	if first, _ := store.MarkIfAbsent(ctx, testNonce(8), nonce, deadline); !first {
		t.Fatal("first wallet should consume")
	}
	// Same nonce under a different wallet is a distinct pair.
	if first, _ := store.MarkIfAbsent(ctx, testNonce(9), nonce, deadline); !first {
		t.Fatal("different wallet must not collide")
	}
}

func TestInMemoryReplayStoreConcurrentExactlyOneWinner(t *testing.T) {
	store := NewInMemoryReplayStore()
	ctx := context.Background()
	pk := testNonce(9)
	nonce := testNonce(1)
	deadline := time.Unix(2000, 0)

	const workers = 64
	var wins atomic.Int64
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			first, err := store.MarkIfAbsent(ctx, pk, nonce, deadline)
			if err != nil {
				t.Errorf("mark: %v", err)
				return
			}
			if first {
				wins.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("winners = %d, want exactly 1", wins.Load())
	}
}

func TestInMemoryReplayStoreEvictExpired(t *testing.T) {
	store := NewInMemoryReplayStore()
	ctx := context.Background()
	pk := testNonce(9)

	_, _ = store.MarkIfAbsent(ctx, pk, testNonce(1), time.Unix(1000, 0))
	_, _ = store.MarkIfAbsent(ctx, pk, testNonce(2), time.Unix(2000, 0))
	_, _ = store.MarkIfAbsent(ctx, pk, testNonce(3), time.Unix(3000, 0))

	// Deadline exactly at now is eligible for eviction.
	evicted, err := store.EvictExpired(ctx, time.Unix(2000, 0))
	if err != nil {
		t.Fatalf("evict: %v", err)
	}
	if evicted != 2 {
		t.Fatalf("evicted = %d, want 2", evicted)
	}
	if store.Len() != 1 {
		t.Fatalf("len = %d, want 1", store.Len())
	}
	if seen, _ := store.Seen(ctx, pk, testNonce(3)); !seen {
		t.Fatal("unexpired entry was evicted")
	}
}

func TestInMemoryReplayStoreNeverReadsWallClock(t *testing.T) {
	store := NewInMemoryReplayStore()
	ctx := context.Background()
	pk := testNonce(9)
	nonce := testNonce(1)

	// Deadline far in the past relative to the wall clock. Without an
	// explicit eviction the entry must still count as consumed.
	_, _ = store.MarkIfAbsent(ctx, pk, nonce, time.Unix(1, 0))

	first, err := store.MarkIfAbsent(ctx, pk, nonce, time.Unix(1, 0))
	if err != nil || first {
		t.Fatalf("expired-by-wall-clock entry was forgotten: first=%v err=%v", first, err)
	}
}
