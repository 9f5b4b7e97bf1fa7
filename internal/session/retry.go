package session

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// errReadGap marks a read that came back empty right after a write.
var errReadGap = errors.New("read returned no data after write")

// readAfterWrite runs fetch and, when empty reports the result as empty,
// waits delay and runs it once more. A result that is still empty is returned
// without error. Fetch errors are not retried.
func readAfterWrite[T any](ctx context.Context, delay time.Duration, fetch func(context.Context) (T, error), empty func(T) bool) (T, error) {
	op := func() (T, error) {
		v, err := fetch(ctx)
		if err != nil {
			return v, backoff.Permanent(err)
		}
		if empty(v) {
			return v, errReadGap
		}
		return v, nil
	}

	v, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(delay)),
		backoff.WithMaxTries(2),
	)
	if errors.Is(err, errReadGap) {
		var zero T
		return zero, nil
	}
	return v, err
}
