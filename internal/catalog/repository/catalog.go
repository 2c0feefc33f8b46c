package repository

import (
	"context"
	"errors"
	"fmt"

	catalogerrors "smartparking/internal/catalog/errors"
	"smartparking/pkg/config"
	mongotx "smartparking/pkg/db/mongo"
	"smartparking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	SitesCollection = "Sites"
	SlotsCollection = "Slots"
)

type CatalogRepository interface {
	FindSites(ctx context.Context) ([]*model.Site, error)
	FindSiteByID(ctx context.Context, id string) (*model.Site, error)
	FindSlotsBySite(ctx context.Context, siteID string) ([]*model.Slot, error)
	FindSlot(ctx context.Context, siteID, slotNumber string) (*model.Slot, error)
	CountSites(ctx context.Context) (int64, error)
	UpsertSite(ctx context.Context, site *model.Site, slots []*model.Slot) error
}

type mongoCatalogRepository struct {
	cfg   *config.Config
	sites *mongo.Collection
	slots *mongo.Collection
}

func NewMongoCatalogRepository(cfg *config.Config) CatalogRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCatalogRepository{
		cfg:   cfg,
		sites: db.Collection(SitesCollection),
		slots: db.Collection(SlotsCollection),
	}
}

func (r *mongoCatalogRepository) FindSites(ctx context.Context) ([]*model.Site, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.sites.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find sites: %w", err)
	}
	defer cursor.Close(ctx)

	var sites []*model.Site
	if err = cursor.All(ctx, &sites); err != nil {
		return nil, fmt.Errorf("failed to decode sites: %w", err)
	}
	return sites, nil
}

func (r *mongoCatalogRepository) FindSiteByID(ctx context.Context, id string) (*model.Site, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreReadTimeout)
	defer cancel()

	var site model.Site
	err := r.sites.FindOne(ctx, bson.M{"_id": id}).Decode(&site)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrSiteNotFound
		}
		return nil, fmt.Errorf("failed to find site: %w", err)
	}
	return &site, nil
}

func (r *mongoCatalogRepository) FindSlotsBySite(ctx context.Context, siteID string) ([]*model.Slot, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "floor", Value: 1}, {Key: "slotNumber", Value: 1}})
	cursor, err := r.slots.Find(ctx, bson.M{"parkingSpotID": siteID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*model.Slot
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}

func (r *mongoCatalogRepository) FindSlot(ctx context.Context, siteID, slotNumber string) (*model.Slot, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreReadTimeout)
	defer cancel()

	var slot model.Slot
	err := r.slots.FindOne(ctx, bson.M{"parkingSpotID": siteID, "slotNumber": slotNumber}).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}
	return &slot, nil
}

func (r *mongoCatalogRepository) CountSites(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreReadTimeout)
	defer cancel()

	count, err := r.sites.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count sites: %w", err)
	}
	return count, nil
}

// UpsertSite writes the site and its slots. Re-running it with the same input is a no-op.
func (r *mongoCatalogRepository) UpsertSite(ctx context.Context, site *model.Site, slots []*model.Slot) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreWriteTimeout)
	defer cancel()

	upsert := options.Replace().SetUpsert(true)
	if _, err := r.sites.ReplaceOne(ctx, bson.M{"_id": site.ID}, site, upsert); err != nil {
		return fmt.Errorf("failed to upsert site %s: %w", site.ID, err)
	}

	if len(slots) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(slots))
	for _, slot := range slots {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": slot.ID}).
			SetReplacement(slot).
			SetUpsert(true))
	}
	if _, err := r.slots.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("failed to upsert slots for site %s: %w", site.ID, err)
	}
	return nil
}
