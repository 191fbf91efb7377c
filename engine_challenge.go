package webx403

import "context"

// CreateChallenge issues a fresh challenge for the configured domain: a
// random nonce of Config.NonceLength bytes, issuedAt from the engine
// clock, and expiresAt = issuedAt + Config.ChallengeTTL. TTL bounds were
// enforced at [Builder.Build]; this call only fails when the entropy
// source does.
func (e *Engine) CreateChallenge(ctx context.Context) (Challenge, error) {
	nonce, err := GenerateNonce(e.entropy, e.config.NonceLength)
	if err != nil {
		return Challenge{}, err
	}

	issuedAt := e.now().Unix()
	challenge := Challenge{
		Nonce:     nonce,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt + int64(e.config.ChallengeTTL.Seconds()),
		Domain:    e.config.Domain,
	}

	e.metricInc(MetricChallengeIssued)
	e.auditEmit(ctx, AuditEvent{
		EventType: AuditChallengeIssued,
		Domain:    challenge.Domain,
		Nonce:     EncodeBase64URL(challenge.Nonce),
		Success:   true,
	})

	return challenge, nil
}
