package commands

import (
	"context"
	"errors"
	"time"

	"parcellocker/internal/pkg/errs"
	"parcellocker/internal/pkg/metrics"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds how often a command is re-run after losing an
// optimistic concurrency race.
type RetryPolicy struct {
	// MaxAttempts counts the first run; values below 1 mean 1.
	MaxAttempts uint64
	Interval    time.Duration
}

// DefaultRetryPolicy allows twelve runs 5ms apart. Each lost race means
// another caller won a locker, so a caller keeps retrying at most until the
// matching lockers run out.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 12,
	Interval:    5 * time.Millisecond,
}

// retryOnConflict runs op until it succeeds, fails with anything other than
// errs.ErrVersionIsInvalid, the attempts run out, or ctx is done. The last
// error is returned.
func retryOnConflict(ctx context.Context, policy RetryPolicy, op func() error) error {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(policy.Interval), attempts-1),
		ctx,
	)

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			metrics.ReservationConflictsTotal.Inc()
			return err
		}
		return backoff.Permanent(err)
	}, b)
}
