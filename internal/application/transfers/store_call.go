package transfers

import (
	"context"
	"errors"
	"time"
)

func (s *Service) timeout() time.Duration {
	if s.StoreTimeout <= 0 {
		return DefaultStoreTimeout
	}
	return s.StoreTimeout
}

// bounded runs one store call under the store timeout. A call that runs out
// of time is reported as a TimeoutError, even when the store ignores ctx; the
// call is then left to finish in the background.
func (s *Service) bounded(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	cctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn(cctx) }()

	var err error
	select {
	case err = <-done:
	case <-cctx.Done():
		err = cctx.Err()
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(cctx.Err(), context.DeadlineExceeded) {
		if ctx.Err() == nil || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &Error{Kind: KindTimeout, Message: "Store call timed out: " + op, Err: err}
		}
	}
	return err
}

// read retries once after a timeout, provided the caller's context is still live.
func (s *Service) read(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	err := s.bounded(ctx, op, fn)
	if KindOf(err) == KindTimeout && ctx.Err() == nil {
		s.logger().Warn().Str("op", op).Msg("store read timed out, retrying")
		err = s.bounded(ctx, op, fn)
	}
	return err
}

// write is never retried: a timed-out write may still have been applied.
func (s *Service) write(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return s.bounded(ctx, op, fn)
}
