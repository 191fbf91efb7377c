package webx403

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"
)

func auditTestEngine(t *testing.T, sink AuditSink, mutate func(*Config)) *Engine {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Domain = "example.com"
	cfg.Audit.Enabled = true
	if mutate != nil {
		mutate(&cfg)
	}

	engine, err := New().
		WithConfig(cfg).
		WithClock(func() time.Time { return time.Unix(1100, 0) }).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func TestAuditChallengeIssuedEvent(t *testing.T) {
	sink := NewChannelSink(8)
	engine := auditTestEngine(t, sink, nil)

	ch, err := engine.CreateChallenge(context.Background())
	if err != nil {
		t.Fatalf("create challenge: %v", err)
	}

	select {
	case event := <-sink.Events():
		if event.EventType != AuditChallengeIssued {
			t.Fatalf("event type = %q", event.EventType)
		}
		if event.Nonce != EncodeBase64URL(ch.Nonce) {
			t.Fatalf("nonce = %q", event.Nonce)
		}
		if !event.Success {
			t.Fatal("issuance event must be marked successful")
		}
		if !event.Timestamp.Equal(time.Unix(1100, 0)) {
			t.Fatalf("timestamp = %v", event.Timestamp)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no audit event delivered")
	}
}

func TestAuditVerifyEventsCarryContext(t *testing.T) {
	sink := NewChannelSink(8)
	engine := auditTestEngine(t, sink, nil)
	_, priv := testKeypair(t)

	ctx := WithClientIP(context.Background(), "203.0.113.7")
	ctx = WithRequestID(ctx, "req-42")

	params := signedParams(t, priv, "example.com", testNonce(1), 1000, nil)
	if _, err := engine.VerifyAuthorization(ctx, params); err != nil {
		t.Fatalf("verify: %v", err)
	}

	select {
	case event := <-sink.Events():
		if event.EventType != AuditVerifyValid {
			t.Fatalf("event type = %q", event.EventType)
		}
		if event.IP != "203.0.113.7" || event.RequestID != "req-42" {
			t.Fatalf("context not stamped: ip=%q request_id=%q", event.IP, event.RequestID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no audit event delivered")
	}
}

func TestAuditRejectionCarriesReason(t *testing.T) {
	sink := NewChannelSink(8)
	engine := auditTestEngine(t, sink, nil)
	_, priv := testKeypair(t)

	params := signedParams(t, priv, "example.com", testNonce(1), 1000, nil)
	params.Signature[0] ^= 0xFF
	if _, err := engine.VerifyAuthorization(context.Background(), params); err != nil {
		t.Fatalf("verify: %v", err)
	}

	select {
	case event := <-sink.Events():
		if event.EventType != AuditVerifyRejected {
			t.Fatalf("event type = %q", event.EventType)
		}
		if event.Reason != "bad_signature" {
			t.Fatalf("reason = %q", event.Reason)
		}
		if event.Success {
			t.Fatal("rejection must not be marked successful")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no audit event delivered")
	}
}

type blockingSink struct {
	release chan struct{}
}

func (s *blockingSink) Emit(_ context.Context, _ AuditEvent) {
	<-s.release
}

func TestAuditDropIfFullCountsDrops(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	defer close(sink.release)

	engine := auditTestEngine(t, sink, func(c *Config) {
		c.Audit.BufferSize = 1
		c.Audit.DropIfFull = true
	})

	// One event may be in flight in the sink, one fits in the buffer;
	// everything past that must be dropped, not block issuance.
	for i := 0; i < 10; i++ {
		if _, err := engine.CreateChallenge(context.Background()); err != nil {
			t.Fatalf("create challenge: %v", err)
		}
	}

	if engine.AuditDropped() == 0 {
		t.Fatal("expected dropped events under backpressure")
	}
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		Timestamp: time.Unix(1100, 0),
		EventType: AuditVerifyValid,
		Domain:    "example.com",
		Success:   true,
	})

	var decoded AuditEvent
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("sink output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.EventType != AuditVerifyValid || decoded.Domain != "example.com" {
		t.Fatalf("decoded = %+v", decoded)
	}
}
