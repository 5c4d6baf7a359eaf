package deploy

import (
	"context"
	"time"

	"github.com/goliatone/go-sitebuilder/internal/hosting"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

// retryPolicy bounds transient-failure retries: up to maxAttempts tries with
// exponential backoff doubling from baseBackoff (1s, 2s, 4s by default).
// Backoff state belongs to one attempt and is never reset mid-attempt, so
// total wall-clock retry time stays bounded.
type retryPolicy struct {
	maxAttempts int
	baseBackoff time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	logger      interfaces.Logger
}

func newRetryPolicy(maxAttempts int, baseBackoff time.Duration, logger interfaces.Logger) *retryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseBackoff <= 0 {
		baseBackoff = time.Second
	}
	return &retryPolicy{
		maxAttempts: maxAttempts,
		baseBackoff: baseBackoff,
		sleep:       sleepContext,
		logger:      logger,
	}
}

// Do runs op, retrying on retryable failures (network errors, 5xx, 429).
// Non-retryable errors surface immediately; the final error surfaces after
// the budget is exhausted.
func (p *retryPolicy) Do(ctx context.Context, label string, op func() error) error {
	backoff := p.baseBackoff

	var err error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if !hosting.IsRetryable(err) {
			return err
		}
		if attempt == p.maxAttempts {
			break
		}

		p.logger.Warn("retrying after transient failure",
			"operation", label,
			"attempt", attempt,
			"backoff", backoff.String(),
			"error", err.Error(),
		)
		if sleepErr := p.sleep(ctx, backoff); sleepErr != nil {
			return sleepErr
		}
		backoff *= 2
	}
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
