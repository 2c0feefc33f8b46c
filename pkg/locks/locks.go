package locks

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "smartparking/pkg/errors"

	"github.com/cenkalti/backoff/v4"
)

// Release frees a held lock. It is safe to call after the lock expired.
type Release func(ctx context.Context) error

// Locker grants exclusive ownership of a key for a bounded time.
type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}

type Options struct {
	TTL      time.Duration
	Wait     time.Duration
	Interval time.Duration
}

var errBusy = errors.New("lock held by another owner")

// SlotKey is the lock key serializing writes for one slot of one site.
func SlotKey(siteID, slotNumber string) string {
	return fmt.Sprintf("slot_lock_%s_%s", siteID, slotNumber)
}

// WithLock runs fn while holding key. The lock is released with a fresh context
// so an expired caller deadline does not leave it behind.
func WithLock(ctx context.Context, l Locker, key string, fn func(ctx context.Context) error) error {
	release, err := l.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = release(releaseCtx)
	}()
	return fn(ctx)
}

// poll calls try until it reports success, the wait budget is spent or ctx ends.
func poll(ctx context.Context, opts Options, try func(ctx context.Context) (bool, error)) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = opts.Interval
	b.MaxInterval = 4 * opts.Interval
	b.MaxElapsedTime = opts.Wait

	op := func() error {
		ok, err := try(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return errBusy
		}
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(b, ctx))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errBusy):
		return apperrors.Conflict("slot is being booked by another request, retry shortly")
	case ctx.Err() != nil:
		return apperrors.FromStorage(ctx.Err(), "timed out waiting for slot lock")
	default:
		return apperrors.FromStorage(err, "failed to acquire slot lock")
	}
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = 10 * time.Second
	}
	if o.Wait <= 0 {
		o.Wait = 3 * time.Second
	}
	if o.Interval <= 0 {
		o.Interval = 25 * time.Millisecond
	}
	return o
}
