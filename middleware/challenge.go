package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	webx403 "github.com/webx403/webx403-go"
)

// ChallengePayload is the JSON body served by [ChallengeHandler]. It
// carries every field a client needs to reconstruct the canonical signing
// string byte-for-byte.
type ChallengePayload struct {
	Scheme    string `json:"scheme"`
	Domain    string `json:"domain"`
	Nonce     string `json:"nonce"`
	IssuedAt  int64  `json:"issuedAt"`
	ExpiresAt int64  `json:"expiresAt"`
}

// ChallengeHandler serves a fresh challenge per request as JSON. Mount it
// on an unauthenticated route (typically POST /auth/challenge).
func ChallengeHandler(engine *webx403.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}

		ctx := webx403.WithRequestID(r.Context(), uuid.NewString())
		ctx = webx403.WithClientIP(ctx, remoteIP(r))

		challenge, err := engine.CreateChallenge(ctx)
		if err != nil {
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ChallengePayload{
			Scheme:    webx403.Scheme,
			Domain:    challenge.Domain,
			Nonce:     webx403.EncodeBase64URL(challenge.Nonce),
			IssuedAt:  challenge.IssuedAt,
			ExpiresAt: challenge.ExpiresAt,
		})
	})
}
