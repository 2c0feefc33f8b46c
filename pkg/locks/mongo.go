package locks

import (
	"context"
	"time"

	apperrors "smartparking/pkg/errors"
	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "Slot_locks"

// MongoLocker stores one document per held key. The unique _id rejects a second
// owner and a TTL index on expires_at reaps locks whose owner died.
type MongoLocker struct {
	collection *mongo.Collection
	opts       Options
	log        *logger.Logger
}

func NewMongoLocker(db *mongo.Database, opts Options, log *logger.Logger) *MongoLocker {
	return &MongoLocker{
		collection: db.Collection(CollectionName),
		opts:       opts.withDefaults(),
		log:        log.With("mongo_locker"),
	}
}

func (l *MongoLocker) Acquire(ctx context.Context, key string) (Release, error) {
	token := uuid.NewString()

	err := poll(ctx, l.opts, func(ctx context.Context) (bool, error) {
		now := time.Now().UTC()
		// The TTL monitor runs once a minute; clear a stale lock ourselves.
		if _, err := l.collection.DeleteOne(ctx, bson.M{"_id": key, "expires_at": bson.M{"$lte": now}}); err != nil {
			return false, err
		}

		_, err := l.collection.InsertOne(ctx, model.SlotLock{
			ID:        key,
			Owner:     token,
			ExpiresAt: now.Add(l.opts.TTL),
			CreatedAt: now,
		})
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return err == nil, err
	})
	if err != nil {
		if !apperrors.Is(err, apperrors.CodeConflict) {
			l.log.Error("Failed to acquire slot lock", "lock_id", key, "error", err)
		}
		return nil, err
	}

	return func(ctx context.Context) error {
		_, err := l.collection.DeleteOne(ctx, bson.M{"_id": key, "owner": token})
		if err != nil {
			l.log.Warn("Failed to release slot lock", "lock_id", key, "error", err)
		}
		return err
	}, nil
}
