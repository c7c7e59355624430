package utils

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// RetryTransport retries transient failures: unreachable backends and 5xx statuses.
// Auth failures and malformed responses are returned immediately.
type RetryTransport struct {
	next     Transport
	attempts int
	delay    time.Duration
	logger   *zap.Logger
}

// WithRetry returns next unchanged when attempts <= 1.
func WithRetry(next Transport, attempts int, delay time.Duration, logger *zap.Logger) Transport {
	if attempts <= 1 {
		return next
	}
	return &RetryTransport{next: next, attempts: attempts, delay: delay, logger: logger}
}

func (r *RetryTransport) Name() string {
	return r.next.Name()
}

func (r *RetryTransport) Complete(ctx context.Context, req GenerateRequest) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		text, err := r.next.Complete(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable(err) || attempt == r.attempts {
			break
		}

		r.logger.Info("Retrying generation request",
			zap.String("provider", r.next.Name()),
			zap.Int("attempt", attempt),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(r.delay * time.Duration(attempt)):
		}
	}
	return "", lastErr
}

func (r *RetryTransport) Ping(ctx context.Context) error {
	if p, ok := r.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return ErrPingUnsupported
}

func retryable(err error) bool {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		if errors.Is(genErr.Kind, ErrBackendUnreachable) {
			return true
		}
		return errors.Is(genErr.Kind, ErrBackendStatus) && genErr.StatusCode >= 500
	}
	return isUnreachable(err)
}
