package bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartparking/pkg/config"
	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	count      int64
	failCounts int
	countCalls int
	sites      map[string][]*model.Slot
}

func (f *fakeStore) CountSites(ctx context.Context) (int64, error) {
	f.countCalls++
	if f.countCalls <= f.failCounts {
		return 0, errors.New("server selection timeout")
	}
	return f.count, nil
}

func (f *fakeStore) UpsertSite(ctx context.Context, site *model.Site, slots []*model.Slot) error {
	f.sites[site.ID] = slots
	return nil
}

func testConfig(retries int) *config.Config {
	return &config.Config{
		Log:                 logger.Discard(),
		BootstrapRetries:    retries,
		BootstrapBackoff:    time.Millisecond,
		BootstrapMaxBackoff: 2 * time.Millisecond,
	}
}

func TestDefaultCatalog(t *testing.T) {
	seeds := DefaultCatalog(time.Now())
	require.Len(t, seeds, 5)

	rates := map[string]float64{}
	for _, s := range seeds {
		rates[s.Site.ID] = s.Site.PricePerHour
		require.Len(t, s.Slots, 30)
		assert.Equal(t, 30, s.Site.SpotsAvailable)
		assert.Equal(t, s.Site.ID+" Avtoturargohi", s.Site.Name)

		ids := map[string]bool{}
		for _, slot := range s.Slots {
			assert.Equal(t, s.Site.ID, slot.SiteID)
			assert.False(t, ids[slot.ID], "duplicate slot id %s", slot.ID)
			ids[slot.ID] = true
		}
		assert.Equal(t, "A1", s.Slots[0].SlotNumber)
		assert.Equal(t, 1, s.Slots[0].Floor)
		assert.Equal(t, "C10", s.Slots[29].SlotNumber)
		assert.Equal(t, 3, s.Slots[29].Floor)
	}
	assert.Equal(t, map[string]float64{
		"TATU": 5000, "URDU": 4000, "GIPER": 6000, "SUM": 5500, "DARITAL": 4000,
	}, rates)
}

func TestRun_SeedsEmptyCatalog(t *testing.T) {
	store := &fakeStore{sites: map[string][]*model.Slot{}}

	require.NoError(t, NewPreloader(store, testConfig(3)).Run(context.Background()))
	assert.Len(t, store.sites, 5)
}

func TestRun_SkipsSeededCatalog(t *testing.T) {
	store := &fakeStore{count: 2, sites: map[string][]*model.Slot{}}

	require.NoError(t, NewPreloader(store, testConfig(3)).Run(context.Background()))
	assert.Empty(t, store.sites)
}

func TestRun_RetriesTransientFailures(t *testing.T) {
	store := &fakeStore{failCounts: 2, sites: map[string][]*model.Slot{}}

	require.NoError(t, NewPreloader(store, testConfig(3)).Run(context.Background()))
	assert.Equal(t, 3, store.countCalls)
	assert.Len(t, store.sites, 5)
}

func TestRun_GivesUpAfterCeiling(t *testing.T) {
	store := &fakeStore{failCounts: 100, sites: map[string][]*model.Slot{}}

	err := NewPreloader(store, testConfig(3)).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 4, store.countCalls, "one attempt plus three retries")
	assert.Empty(t, store.sites)
}
