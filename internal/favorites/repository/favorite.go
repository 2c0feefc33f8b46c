package repository

import (
	"context"
	"fmt"
	"time"

	favoriteerrors "smartparking/internal/favorites/errors"
	"smartparking/pkg/config"
	mongotx "smartparking/pkg/db/mongo"
	"smartparking/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Favorites"

type FavoriteRepository interface {
	// Add is idempotent: adding an existing favorite reports created=false.
	Add(ctx context.Context, userID, siteID string, at time.Time) (created bool, err error)
	Remove(ctx context.Context, userID, siteID string) error
	FindByUser(ctx context.Context, userID string) ([]*model.Favorite, error)
}

type mongoFavoriteRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoFavoriteRepository(cfg *config.Config) FavoriteRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoFavoriteRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoFavoriteRepository) Add(ctx context.Context, userID, siteID string, at time.Time) (bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreWriteTimeout)
	defer cancel()

	filter := bson.M{"userID": userID, "parkingSpotID": siteID}
	update := bson.M{"$setOnInsert": bson.M{
		"_id":           uuid.NewString(),
		"userID":        userID,
		"parkingSpotID": siteID,
		"addedAt":       at,
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}
	return result.UpsertedCount > 0, nil
}

func (r *mongoFavoriteRepository) Remove(ctx context.Context, userID, siteID string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreWriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"userID": userID, "parkingSpotID": siteID})
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if result.DeletedCount == 0 {
		return favoriteerrors.ErrFavoriteNotFound
	}
	return nil
}

func (r *mongoFavoriteRepository) FindByUser(ctx context.Context, userID string) ([]*model.Favorite, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userID": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find favorites: %w", err)
	}
	defer cursor.Close(ctx)

	var favorites []*model.Favorite
	if err := cursor.All(ctx, &favorites); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}
	return favorites, nil
}
