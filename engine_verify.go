package webx403

import (
	"context"
	"crypto/ed25519"
	"time"
)

// VerifyHeader parses a raw Authorization header and runs the verification
// state machine. Parse failures short-circuit to ReasonMalformed without
// touching any cryptographic material. The error return is reserved for
// replay-store backend failures; protocol rejections are reported through
// the result, never as errors.
func (e *Engine) VerifyHeader(ctx context.Context, raw string) (VerifyResult, error) {
	params, err := ParseAuthorizationHeader(raw)
	if err != nil {
		e.metricInc(MetricVerifyMalformed)
		e.auditEmit(ctx, AuditEvent{
			EventType: AuditVerifyRejected,
			Reason:    ReasonMalformed.String(),
		})
		return VerifyResult{Reason: ReasonMalformed}, nil
	}
	return e.VerifyAuthorization(ctx, params)
}

// VerifyAuthorization runs the verification state machine over parsed
// params, short-circuiting at the first failure:
//
//  1. Audience check: the declared domain must equal the configured one.
//  2. Signature check over the reconstructed signing string. Running this
//     before the replay mark means an attacker cannot burn a victim's
//     nonce with an unsigned or mis-signed request.
//  3. Timestamp window, both bounds inclusive: a request at exactly
//     now-maxAge or now+skew is accepted. Running this before the replay
//     mark keeps routinely expired requests out of the store.
//  4. Atomic replay mark; a consumed (publicKey, nonce) pair rejects.
//
// The replay entry is retained until timestamp + maxAge + skew, past the
// last instant at which any clock within tolerance could accept the pair.
func (e *Engine) VerifyAuthorization(ctx context.Context, params *AuthorizationParams) (VerifyResult, error) {
	start := e.now()

	if params.Domain != e.config.Domain {
		return e.reject(ctx, params, ReasonMalformed), nil
	}

	message := BuildSigningString(params.Domain, params.Nonce, params.Timestamp, params.BoundFields)
	if !ed25519.Verify(params.PublicKey, []byte(message), params.Signature) {
		return e.reject(ctx, params, ReasonBadSignature), nil
	}

	now := start.Unix()
	maxAge := int64(e.config.MaxChallengeAge.Seconds())
	skew := int64(e.config.ClockSkewTolerance.Seconds())
	if now-params.Timestamp > maxAge {
		return e.reject(ctx, params, ReasonExpired), nil
	}
	if params.Timestamp-now > skew {
		return e.reject(ctx, params, ReasonNotYetValid), nil
	}

	retainUntil := time.Unix(params.Timestamp+maxAge+skew, 0)
	first, err := e.store.MarkIfAbsent(ctx, params.PublicKey, params.Nonce, retainUntil)
	if err != nil {
		return VerifyResult{}, err
	}
	if !first {
		return e.reject(ctx, params, ReasonReplayed), nil
	}

	e.sweepIfDue(ctx)
	e.metricInc(MetricVerifyValid)
	e.metrics.Observe(MetricVerifyLatency, e.now().Sub(start).Seconds())
	e.auditEmit(ctx, AuditEvent{
		EventType: AuditVerifyValid,
		PublicKey: EncodeBase64URL(params.PublicKey),
		Domain:    params.Domain,
		Nonce:     EncodeBase64URL(params.Nonce),
		Success:   true,
	})

	return VerifyResult{
		OK:          true,
		PublicKey:   params.PublicKey,
		BoundFields: params.BoundFields,
	}, nil
}

func (e *Engine) reject(ctx context.Context, params *AuthorizationParams, reason Reason) VerifyResult {
	switch reason {
	case ReasonMalformed:
		e.metricInc(MetricVerifyMalformed)
	case ReasonBadSignature:
		e.metricInc(MetricVerifyBadSignature)
	case ReasonExpired:
		e.metricInc(MetricVerifyExpired)
	case ReasonNotYetValid:
		e.metricInc(MetricVerifyNotYetValid)
	case ReasonReplayed:
		e.metricInc(MetricVerifyReplayed)
	}

	e.auditEmit(ctx, AuditEvent{
		EventType: AuditVerifyRejected,
		PublicKey: EncodeBase64URL(params.PublicKey),
		Domain:    params.Domain,
		Nonce:     EncodeBase64URL(params.Nonce),
		Reason:    reason.String(),
	})

	return VerifyResult{Reason: reason}
}
