package webx403

import (
	"crypto/rand"
	"errors"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. Configure it with the With* methods and
// call Build exactly once; the zero-value path uses [DefaultConfig], the
// in-memory replay store, the wall clock, and crypto/rand.
type Builder struct {
	config  Config
	store   ReplayStore
	redis   redis.UniversalClient
	sink    AuditSink
	clock   func() time.Time
	entropy io.Reader

	built bool
}

// New creates a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithDomain sets the expected audience string.
func (b *Builder) WithDomain(domain string) *Builder {
	b.config.Domain = domain
	return b
}

// WithReplayStore installs a custom [ReplayStore] implementation.
func (b *Builder) WithReplayStore(store ReplayStore) *Builder {
	b.store = store
	return b
}

// WithRedis installs a [RedisReplayStore] over the given client, using
// Config.Replay.RedisPrefix as the key namespace.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink installs the audit event consumer. Audit must also be
// enabled through Config.Audit.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	return b
}

// WithMetricsEnabled toggles the in-process metrics system.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithClock replaces the wall clock. Intended for deterministic tests; a
// production engine should keep the default.
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	b.clock = clock
	return b
}

// WithEntropy replaces the nonce entropy source. Intended for
// deterministic tests only; the default is crypto/rand.
func (b *Builder) WithEntropy(source io.Reader) *Builder {
	b.entropy = source
	return b
}

// Build validates the configuration and assembles the engine. Violations
// of any configured bound fail here, never at verification time.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	store := b.store
	if store == nil && b.redis != nil {
		store = NewRedisReplayStore(b.redis, b.config.Replay.RedisPrefix)
	}
	if store == nil {
		store = NewInMemoryReplayStore()
	}

	clock := b.clock
	if clock == nil {
		clock = time.Now
	}

	entropy := b.entropy
	if entropy == nil {
		entropy = rand.Reader
	}

	engine := &Engine{
		config:  b.config,
		store:   store,
		audit:   newAuditDispatcher(b.config.Audit, b.sink),
		metrics: NewMetrics(b.config.Metrics),
		now:     clock,
		entropy: entropy,
	}

	b.built = true

	return engine, nil
}
