package webx403

import (
	"fmt"
	"strings"
	"time"
)

// Config carries every tunable of the verification engine. Instances are
// validated once at [Builder.Build]; a misconfigured engine never reaches
// verification time.
type Config struct {
	// Domain is the expected audience string. Requests declaring any other
	// domain are rejected before signature verification.
	Domain string

	// ChallengeTTL is the lifetime of issued challenges.
	ChallengeTTL time.Duration

	// MaxChallengeTTL bounds ChallengeTTL, rejecting absurdly long-lived
	// challenges at construction.
	MaxChallengeTTL time.Duration

	// MaxChallengeAge is the past-timestamp tolerance: a request is
	// accepted while now - timestamp <= MaxChallengeAge (inclusive).
	MaxChallengeAge time.Duration

	// ClockSkewTolerance is the future-timestamp tolerance: a request is
	// accepted while timestamp - now <= ClockSkewTolerance (inclusive).
	ClockSkewTolerance time.Duration

	// NonceLength is the byte length of generated nonces.
	NonceLength int

	Replay  ReplayConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

// ReplayConfig tunes replay-store housekeeping.
type ReplayConfig struct {
	// SweepEvery triggers an opportunistic EvictExpired pass after that
	// many successful nonce consumptions. Zero disables engine-driven
	// sweeps; eviction then happens only through explicit calls or the
	// backend's own TTLs.
	SweepEvery int

	// RedisPrefix namespaces keys when the Redis adapter is used.
	RedisPrefix string
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process metrics system.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the recommended production settings: five-minute
// challenges, a five-minute acceptance window, thirty seconds of clock
// skew, and 32-byte nonces.
func DefaultConfig() Config {
	return Config{
		ChallengeTTL:       5 * time.Minute,
		MaxChallengeTTL:    15 * time.Minute,
		MaxChallengeAge:    5 * time.Minute,
		ClockSkewTolerance: 30 * time.Second,
		NonceLength:        DefaultNonceLength,
		Replay: ReplayConfig{
			SweepEvery:  1024,
			RedisPrefix: "wx403",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks every field against its documented range. All violations
// wrap [ErrInvalidConfig].
func (c Config) Validate() error {
	if strings.TrimSpace(c.Domain) == "" {
		return fmt.Errorf("%w: Domain must not be blank", ErrInvalidConfig)
	}
	if c.ChallengeTTL <= 0 {
		return fmt.Errorf("%w: ChallengeTTL must be positive", ErrInvalidConfig)
	}
	if c.MaxChallengeTTL <= 0 {
		return fmt.Errorf("%w: MaxChallengeTTL must be positive", ErrInvalidConfig)
	}
	if c.ChallengeTTL > c.MaxChallengeTTL {
		return fmt.Errorf("%w: ChallengeTTL exceeds MaxChallengeTTL", ErrInvalidConfig)
	}
	if c.MaxChallengeAge <= 0 {
		return fmt.Errorf("%w: MaxChallengeAge must be positive", ErrInvalidConfig)
	}
	if c.ClockSkewTolerance < 0 {
		return fmt.Errorf("%w: ClockSkewTolerance must not be negative", ErrInvalidConfig)
	}
	if c.ClockSkewTolerance > 5*time.Minute {
		return fmt.Errorf("%w: ClockSkewTolerance exceeds 5m", ErrInvalidConfig)
	}
	if c.NonceLength < MinNonceLength || c.NonceLength > MaxNonceLength {
		return fmt.Errorf("%w: NonceLength outside [%d,%d]", ErrInvalidConfig, MinNonceLength, MaxNonceLength)
	}
	if c.Replay.SweepEvery < 0 {
		return fmt.Errorf("%w: Replay.SweepEvery must not be negative", ErrInvalidConfig)
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return fmt.Errorf("%w: Audit.BufferSize must be positive when audit is enabled", ErrInvalidConfig)
	}
	return nil
}
