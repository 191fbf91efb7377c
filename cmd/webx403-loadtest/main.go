package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	webx403 "github.com/webx403/webx403-go"
)

func main() {
	var (
		wallets     = flag.Int("wallets", 1000, "number of signing keypairs to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "verifications to run")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		domain      = flag.String("domain", "load.example.com", "configured audience")
	)
	flag.Parse()

	if *wallets <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "wallets, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		rdb     redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		rdb = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = rdb.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		rdb = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = rdb.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := webx403.DefaultConfig()
	cfg.Domain = *domain
	cfg.Metrics.EnableLatencyHistograms = true

	engine, err := webx403.New().WithConfig(cfg).WithRedis(rdb).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	fmt.Printf("seeding %d wallets...\n", *wallets)
	startSeed := time.Now()
	keys := make([]ed25519.PrivateKey, *wallets)
	for i := range keys {
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			fmt.Fprintf(os.Stderr, "keygen: %v\n", err)
			os.Exit(1)
		}
		keys[i] = priv
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	validStats := runVerifyPhase(ctx, engine, keys, *domain, *ops, *concurrency, false)
	replayStats := runVerifyPhase(ctx, engine, keys, *domain, *ops, *concurrency, true)

	fmt.Println("---- results ----")
	printStats("verify", validStats)
	printStats("replay", replayStats)

	snap := engine.MetricsSnapshot()
	fmt.Println("---- engine metrics ----")
	fmt.Printf("challenge_issued: %d\n", snap.Counters[webx403.MetricChallengeIssued])
	fmt.Printf("verify_valid:     %d\n", snap.Counters[webx403.MetricVerifyValid])
	fmt.Printf("verify_replayed:  %d\n", snap.Counters[webx403.MetricVerifyReplayed])
	if buckets, ok := snap.Histograms[webx403.MetricVerifyLatency]; ok {
		fmt.Printf("verify_latency buckets: %v\n", buckets)
	}
}

// runVerifyPhase drives the verification hot path. When replay is true
// every worker reuses one consumed header per wallet, so every attempt
// must be rejected as a replay; otherwise each attempt carries a fresh
// nonce and must verify.
func runVerifyPhase(ctx context.Context, engine *webx403.Engine, keys []ed25519.PrivateKey, domain string, ops, concurrency int, replay bool) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	replayParams := make([]*webx403.AuthorizationParams, len(keys))
	if replay {
		for i, priv := range keys {
			p := signedRequest(priv, domain, uint64(i), 0)
			if result, err := engine.VerifyAuthorization(ctx, p); err != nil || !result.OK {
				fmt.Fprintf(os.Stderr, "replay seed rejected: %+v err=%v\n", result, err)
				os.Exit(1)
			}
			replayParams[i] = p
		}
	}

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := i % len(keys)

				var params *webx403.AuthorizationParams
				if replay {
					params = replayParams[idx]
				} else {
					params = signedRequest(keys[idx], domain, uint64(idx), uint64(i)+1)
				}

				t0 := time.Now()
				result, err := engine.VerifyAuthorization(ctx, params)
				d := time.Since(t0)

				ok := err == nil && result.OK != replay
				if !ok {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

// signedRequest builds a fresh signed request whose nonce encodes the
// wallet and attempt indices, so no two attempts collide.
func signedRequest(priv ed25519.PrivateKey, domain string, wallet, attempt uint64) *webx403.AuthorizationParams {
	nonce := make([]byte, 16)
	binary.BigEndian.PutUint64(nonce[:8], wallet)
	binary.BigEndian.PutUint64(nonce[8:], attempt)

	timestamp := time.Now().Unix()
	message := webx403.BuildSigningString(domain, nonce, timestamp, nil)

	return &webx403.AuthorizationParams{
		PublicKey: priv.Public().(ed25519.PublicKey),
		Signature: ed25519.Sign(priv, []byte(message)),
		Nonce:     nonce,
		Timestamp: timestamp,
		Domain:    domain,
	}
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples)*p + 99) / 100
	if idx >= len(samples) {
		idx = len(samples) - 1
	}
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%-8s ops=%d failures=%d total=%s rate=%.0f/s p50=%s p95=%s p99=%s\n",
		name, s.ops, s.failures, s.total.Round(time.Millisecond), s.opsPerS,
		s.p50.Round(time.Microsecond), s.p95.Round(time.Microsecond), s.p99.Round(time.Microsecond))
}
