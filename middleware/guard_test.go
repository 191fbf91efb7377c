package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	webx403 "github.com/webx403/webx403-go"
	"github.com/webx403/webx403-go/client"
)

func guardTestSetup(t *testing.T) (*webx403.Engine, *client.Client) {
	t.Helper()

	cfg := webx403.DefaultConfig()
	cfg.Domain = "example.com"
	engine, err := webx403.New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(engine.Close)

	wallet, err := client.Generate()
	if err != nil {
		t.Fatalf("generate wallet: %v", err)
	}

	return engine, wallet
}

func protectedHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			t.Fatal("no user in protected handler context")
		}
		w.Header().Set("X-Wallet", user.Address())
		w.WriteHeader(http.StatusOK)
	})
}

func TestGuardAllowsSignedRequest(t *testing.T) {
	engine, wallet := guardTestSetup(t)
	handler := Guard(engine)(protectedHandler(t))

	challenge, err := engine.CreateChallenge(context.Background())
	if err != nil {
		t.Fatalf("challenge: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", wallet.Authorization(challenge, nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Wallet"); got != wallet.Address() {
		t.Fatalf("wallet = %q, want %q", got, wallet.Address())
	}
}

func TestGuardRejectsMissingHeaderWithFreshChallenge(t *testing.T) {
	engine, _ := guardTestSetup(t)
	handler := Guard(engine)(protectedHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	wwwAuth := rec.Header().Get("WWW-Authenticate")
	if !strings.HasPrefix(wwwAuth, webx403.Scheme+" ") {
		t.Fatalf("WWW-Authenticate = %q", wwwAuth)
	}
	if !strings.Contains(wwwAuth, `domain="example.com"`) {
		t.Fatalf("challenge header missing domain: %q", wwwAuth)
	}
}

func TestGuardRejectsReplayedHeader(t *testing.T) {
	engine, wallet := guardTestSetup(t)
	handler := Guard(engine)(protectedHandler(t))

	challenge, err := engine.CreateChallenge(context.Background())
	if err != nil {
		t.Fatalf("challenge: %v", err)
	}
	header := wallet.Authorization(challenge, nil)

	for attempt, want := range []int{http.StatusOK, http.StatusUnauthorized} {
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != want {
			t.Fatalf("attempt %d status = %d, want %d", attempt, rec.Code, want)
		}
	}
}

func TestGuardRejectsGarbageHeader(t *testing.T) {
	engine, _ := guardTestSetup(t)
	handler := Guard(engine)(protectedHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer not-webx403")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestGuardNilEngineFailsClosed(t *testing.T) {
	handler := Guard(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestChallengeHandlerServesSignableChallenge(t *testing.T) {
	engine, wallet := guardTestSetup(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/challenge", nil)
	rec := httptest.NewRecorder()
	ChallengeHandler(engine).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}

	var payload ChallengePayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Scheme != webx403.Scheme || payload.Domain != "example.com" {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.ExpiresAt <= payload.IssuedAt {
		t.Fatalf("window = [%d,%d]", payload.IssuedAt, payload.ExpiresAt)
	}

	nonce, err := webx403.DecodeBase64URL(payload.Nonce)
	if err != nil {
		t.Fatalf("payload nonce: %v", err)
	}

	// The served challenge must verify end to end.
	header := wallet.Sign(payload.Domain, nonce, payload.IssuedAt, nil)
	result, err := engine.VerifyHeader(context.Background(), header)
	if err != nil || !result.OK {
		t.Fatalf("served challenge did not verify: %+v err=%v", result, err)
	}
}

func TestGuardBoundFieldsReachHandler(t *testing.T) {
	engine, wallet := guardTestSetup(t)

	handler := Guard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		if len(user.BoundFields) != 1 || user.BoundFields[0].Value != "/api/orders" {
			t.Fatalf("bound fields = %v", user.BoundFields)
		}
		w.WriteHeader(http.StatusOK)
	}))

	challenge, err := engine.CreateChallenge(context.Background())
	if err != nil {
		t.Fatalf("challenge: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", wallet.Authorization(challenge, []webx403.BoundField{
		{Key: "uri", Value: "/api/orders"},
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestChallengeExpiryWindowMatchesConfig(t *testing.T) {
	engine, _ := guardTestSetup(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/challenge", nil)
	rec := httptest.NewRecorder()
	ChallengeHandler(engine).ServeHTTP(rec, req)

	var payload ChallengePayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if got := time.Duration(payload.ExpiresAt-payload.IssuedAt) * time.Second; got != engine.Config().ChallengeTTL {
		t.Fatalf("ttl = %v, want %v", got, engine.Config().ChallengeTTL)
	}
}
