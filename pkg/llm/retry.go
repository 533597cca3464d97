package llm

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
)

type RetryOptions struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Jitter     float64
}

// Retrying retries a wrapped LLM with exponential backoff. Rate-limit
// answers wait at least attempt² seconds.
type Retrying struct {
	next   LLM
	opts   RetryOptions
	logger *zap.Logger
}

func NewRetrying(next LLM, opts RetryOptions, logger *zap.Logger) *Retrying {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 500 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 8 * time.Second
	}
	if opts.Jitter < 0 {
		opts.Jitter = 0
	}
	if opts.Jitter > 1 {
		opts.Jitter = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retrying{next: next, opts: opts, logger: logger}
}

func (r *Retrying) Chat(ctx context.Context, prompt Prompt) (string, error) {
	attempts := r.opts.MaxRetries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		text, err := r.next.Chat(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if attempt == attempts || !retryable(ctx, err) {
			break
		}

		wait := backoffDuration(attempt, r.opts.BaseDelay, r.opts.MaxDelay, r.opts.Jitter)
		if isRateLimitError(err) {
			rateLimitWait := time.Duration(attempt*attempt) * time.Second
			if wait < rateLimitWait {
				wait = rateLimitWait
			}
			if wait > 60*time.Second {
				wait = 60 * time.Second
			}
		}
		r.logger.Warn("LLM call failed, retrying",
			zap.String("model", r.next.GetModel()),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return "", lastErr
}

func (r *Retrying) GetModel() string {
	return r.next.GetModel()
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, ErrMissingAPIKey) || errors.Is(err, ErrUnsupportedProvider) {
		return false
	}
	s := err.Error()
	// 4xx other than 429 will not get better on a second try.
	return !strings.Contains(s, "(status 4") || strings.Contains(s, "(status 429)")
}

func backoffDuration(attempt int, base, maxDelay time.Duration, jitter float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	shift := attempt - 1
	if shift > 30 {
		shift = 30
	}
	delay := base << shift
	if delay > maxDelay || delay < 0 {
		delay = maxDelay
	}
	if jitter == 0 {
		return delay
	}
	low := 1 - jitter
	high := 1 + jitter
	return time.Duration(float64(delay) * (low + rand.Float64()*(high-low)))
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "429") || strings.Contains(s, "rate limit")
}
