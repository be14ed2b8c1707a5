package ai

import (
	"context"
	"errors"
	"net"
	"net/url"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/codegen/internal/model"
)

type RetryConfig struct {
	MaxAttempts     int
	InitialInterval time.Duration
	Multiplier      float64
}

// WithRetry retries transport failures, 429 and 5xx answers with
// exponential backoff. Everything else fails on the first attempt.
func WithRetry(p IProvider, cfg RetryConfig) IProvider {
	if p == nil || cfg.MaxAttempts <= 1 {
		return p
	}
	return &retryProvider{next: p, cfg: cfg}
}

type retryProvider struct {
	next IProvider
	cfg  RetryConfig
}

func (r *retryProvider) Name() string {
	return r.next.Name()
}

func (r *retryProvider) Chat(ctx context.Context, req ChatRequest) (*model.ChatResponse, error) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.cfg.InitialInterval
	exp.Multiplier = r.cfg.Multiplier
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(r.cfg.MaxAttempts-1)), ctx)

	var out *model.ChatResponse
	attempt := 0
	op := func() error {
		attempt++
		res, err := r.next.Chat(ctx, req)
		if err != nil {
			if !isRetryable(ctx, err) {
				return backoff.Permanent(err)
			}
			return err
		}
		out = res
		return nil
	}
	notify := func(err error, wait time.Duration) {
		logutil.GetLogger(ctx).Info("retrying llm request",
			zap.String("provider", r.next.Name()),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, err
	}
	return out, nil
}

func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
