package mongo

import (
	"context"
	"fmt"

	catalogrepo "smartparking/internal/catalog/repository"
	favoriterepo "smartparking/internal/favorites/repository"
	"smartparking/internal/migrations/mongo/validators"
	paymentrepo "smartparking/internal/payments/repository"
	reservationrepo "smartparking/internal/reservations/repository"
	reviewrepo "smartparking/internal/reviews/repository"
	vehiclerepo "smartparking/internal/vehicles/repository"
	"smartparking/pkg/locks"
	"smartparking/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	SitesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "rating", Value: -1}}},
	}

	SlotsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "parkingSpotID", Value: 1}, {Key: "slotNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "parkingSpotID", Value: 1}, {Key: "floor", Value: 1}}},
	}

	ReservationsIndexes = []mongo.IndexModel{
		// overlap scan under the slot lock
		{Keys: bson.D{
			{Key: "parkingSpotID", Value: 1},
			{Key: "slotNumber", Value: 1},
			{Key: "status", Value: 1},
			{Key: "startTime", Value: 1},
			{Key: "endTime", Value: 1},
		}},
		{Keys: bson.D{{Key: "userID", Value: 1}, {Key: "startTime", Value: -1}}},
		// completion sweep
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "endTime", Value: 1}}},
	}

	PaymentsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "userID", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "reservationID", Value: 1}}},
	}

	FavoritesIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userID", Value: 1}, {Key: "parkingSpotID", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "userID", Value: 1}, {Key: "addedAt", Value: -1}}},
	}

	VehiclesIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userID", Value: 1}, {Key: "plate", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "userID", Value: 1}, {Key: "createdAt", Value: -1}}},
	}

	ReviewsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "parkingSpotID", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userID", Value: 1}}},
	}

	SlotLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

type CollectionDef struct {
	Name      string
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func Collections() []CollectionDef {
	return []CollectionDef{
		{Name: catalogrepo.SitesCollection, Indexes: SitesIndexes, Validator: validators.SiteValidator},
		{Name: catalogrepo.SlotsCollection, Indexes: SlotsIndexes, Validator: validators.SlotValidator},
		{Name: reservationrepo.CollectionName, Indexes: ReservationsIndexes, Validator: validators.ReservationValidator},
		{Name: paymentrepo.CollectionName, Indexes: PaymentsIndexes, Validator: validators.PaymentValidator},
		{Name: favoriterepo.CollectionName, Indexes: FavoritesIndexes, Validator: validators.FavoriteValidator},
		{Name: vehiclerepo.CollectionName, Indexes: VehiclesIndexes, Validator: validators.VehicleValidator},
		{Name: reviewrepo.CollectionName, Indexes: ReviewsIndexes, Validator: validators.ReviewValidator},
		{Name: locks.CollectionName, Indexes: SlotLocksIndexes, Validator: validators.SlotLockValidator},
	}
}

func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for _, def := range Collections() {
		if err := ensureCollection(ctx, db, def.Name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
		if err := ensureIndexes(ctx, db, def.Name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
