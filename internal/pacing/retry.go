package pacing

import (
	"context"
	"time"

	stderrors "prospector/internal/common/errors"
	"prospector/internal/common/logger"
	"prospector/internal/common/metrics"
)

// Policy parameterizes the retrying fetch: attempt count and the backoff
// schedule applied before attempts 2..N.
type Policy struct {
	MaxAttempts int
	Backoff     []time.Duration
}

// DefaultPolicy matches the upstream discipline for founders, employees and
// contact-info calls: 3 attempts with 5s/10s/20s waits.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		Backoff:     []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second},
	}
}

// NoRetryPolicy is the single-shot path used by acquisitions and investors.
func NoRetryPolicy() Policy {
	return Policy{MaxAttempts: 1}
}

// Fetch runs op until it succeeds, hits a terminal error, or exhausts the
// policy. A throttled (429) or transport error is retried after backoff; any
// other failure is terminal. On terminal failure or exhaustion the zero value
// is returned with ok=false so callers proceed with partial data.
func Fetch[T any](ctx context.Context, log logger.Logger, policy Policy, resource string, op func(context.Context) (T, error)) (T, bool) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			metrics.UpstreamRetriesTotal.WithLabelValues(resource).Inc()
			delay := policy.Backoff[min(attempt-2, len(policy.Backoff)-1)]
			log.Warn("retrying upstream call", map[string]interface{}{
				"resource": resource,
				"attempt":  attempt,
				"delayS":   delay.Seconds(),
				"error":    lastErr.Error(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, false
			}
		}

		result, err := op(ctx)
		if err == nil {
			metrics.UpstreamCallsTotal.WithLabelValues(resource, "ok").Inc()
			return result, true
		}
		lastErr = err

		if !retryable(err) {
			metrics.UpstreamCallsTotal.WithLabelValues(resource, "rejected").Inc()
			log.Warn("upstream call rejected", map[string]interface{}{
				"resource": resource,
				"error":    err.Error(),
			})
			return zero, false
		}
		metrics.UpstreamCallsTotal.WithLabelValues(resource, "retryable_error").Inc()
	}

	log.Error("upstream call failed after all attempts", map[string]interface{}{
		"resource": resource,
		"attempts": policy.MaxAttempts,
		"error":    lastErr.Error(),
	})
	return zero, false
}

// retryable treats 429s and raw transport errors as transient. A
// StandardError that is explicitly non-retryable (non-200 status, malformed
// body) is terminal.
func retryable(err error) bool {
	if se, ok := err.(*stderrors.StandardError); ok {
		return se.Retryable
	}
	return true
}
