package locks

import (
	"context"
	"sync"
	"time"
)

// MemoryLocker serializes keys within a single process.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
	opts Options
}

func NewMemoryLocker(opts Options) *MemoryLocker {
	return &MemoryLocker{
		held: make(map[string]time.Time),
		opts: opts.withDefaults(),
	}
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string) (Release, error) {
	var acquiredAt time.Time
	err := poll(ctx, l.opts, func(context.Context) (bool, error) {
		l.mu.Lock()
		defer l.mu.Unlock()

		now := time.Now()
		if expires, ok := l.held[key]; ok && now.Before(expires) {
			return false, nil
		}
		acquiredAt = now
		l.held[key] = now.Add(l.opts.TTL)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if expires, ok := l.held[key]; ok && expires.Equal(acquiredAt.Add(l.opts.TTL)) {
			delete(l.held, key)
		}
		return nil
	}, nil
}
