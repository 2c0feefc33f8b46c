package bootstrap

import (
	"context"
	"fmt"
	"time"

	"smartparking/pkg/config"
	"smartparking/pkg/model"

	"github.com/cenkalti/backoff/v4"
)

type CatalogStore interface {
	CountSites(ctx context.Context) (int64, error)
	UpsertSite(ctx context.Context, site *model.Site, slots []*model.Slot) error
}

// Preloader seeds an empty catalog at startup. It is the only place transient
// storage failures are retried.
type Preloader struct {
	store CatalogStore
	cfg   *config.Config
	now   func() time.Time
}

func NewPreloader(store CatalogStore, cfg *config.Config) *Preloader {
	return &Preloader{
		store: store,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Run returns nil once the catalog holds sites. After BootstrapRetries failed
// retries it logs that the service is degraded and returns the last error; the
// caller keeps serving.
func (p *Preloader) Run(ctx context.Context) error {
	log := p.cfg.Log.With("bootstrap")

	attempt := 0
	op := func() error {
		attempt++
		count, err := p.store.CountSites(ctx)
		if err != nil {
			return fmt.Errorf("count sites: %w", err)
		}
		if count > 0 {
			log.Info("Catalog already seeded", "sites", count)
			return nil
		}

		seeds := DefaultCatalog(p.now().Truncate(time.Millisecond))
		for _, seed := range seeds {
			if err := p.store.UpsertSite(ctx, seed.Site, seed.Slots); err != nil {
				return fmt.Errorf("seed site %s: %w", seed.Site.ID, err)
			}
		}
		log.Info("Catalog seeded", "sites", len(seeds))
		return nil
	}

	notify := func(err error, wait time.Duration) {
		log.Warn("Catalog preload failed, retrying",
			"attempt", attempt,
			"retry_in", wait,
			"error", err,
		)
	}

	err := backoff.RetryNotify(op, p.policy(ctx), notify)
	if err != nil {
		log.Error("Catalog preload gave up, continuing in degraded mode",
			"attempts", attempt,
			"error", err,
		)
		return err
	}
	return nil
}

func (p *Preloader) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.cfg.BootstrapBackoff
	b.MaxInterval = p.cfg.BootstrapMaxBackoff
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.cfg.BootstrapRetries)), ctx)
}
