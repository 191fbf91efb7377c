package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	webx403 "github.com/webx403/webx403-go"
)

type userContextKey struct{}

// UserFromContext returns the authenticated user injected by [Guard].
func UserFromContext(ctx context.Context) (*webx403.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*webx403.User)
	return user, ok
}

// Guard returns middleware that verifies the WebX403 Authorization header
// on every request. Verified requests continue with the authenticated
// [webx403.User] in their context; everything else gets a 401 with a
// fresh challenge in the WWW-Authenticate header. Replay-store backend
// failures map to 503: the guard fails closed rather than admit an
// unverifiable request.
func Guard(engine *webx403.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := webx403.WithRequestID(r.Context(), uuid.NewString())
			ctx = webx403.WithClientIP(ctx, remoteIP(r))

			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, engine, ctx)
				return
			}

			result, err := engine.VerifyHeader(ctx, header)
			if err != nil {
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}
			if !result.OK {
				unauthorized(w, engine, ctx)
				return
			}

			user := &webx403.User{
				PublicKey:   result.PublicKey,
				BoundFields: result.BoundFields,
			}
			ctx = context.WithValue(ctx, userContextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// unauthorized responds 401 and, when a challenge can be issued, attaches
// it as a WWW-Authenticate header so clients can sign and retry without a
// separate round-trip to the challenge endpoint.
func unauthorized(w http.ResponseWriter, engine *webx403.Engine, ctx context.Context) {
	if challenge, err := engine.CreateChallenge(ctx); err == nil {
		w.Header().Set("WWW-Authenticate", challengeHeader(challenge))
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func challengeHeader(c webx403.Challenge) string {
	return webx403.Scheme +
		` domain="` + c.Domain +
		`", nonce="` + webx403.EncodeBase64URL(c.Nonce) +
		`", issuedAt="` + strconv.FormatInt(c.IssuedAt, 10) +
		`", expiresAt="` + strconv.FormatInt(c.ExpiresAt, 10) + `"`
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
