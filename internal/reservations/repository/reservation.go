package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationerrors "smartparking/internal/reservations/errors"
	"smartparking/pkg/config"
	mongotx "smartparking/pkg/db/mongo"
	"smartparking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Reservations"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	FindActiveBySite(ctx context.Context, siteID string) ([]*model.Reservation, error)
	FindActiveOverlapping(ctx context.Context, siteID, slotNumber string, start, end time.Time) ([]*model.Reservation, error)
	FindByUser(ctx context.Context, userID string, status model.ReservationStatus) ([]*model.Reservation, error)
	FindActiveEndedBy(ctx context.Context, now time.Time) ([]*model.Reservation, error)
	Cancel(ctx context.Context, id, reason string, at time.Time) error
	Extend(ctx context.Context, id string, currentEnd, newEnd time.Time, priceDelta float64, paymentID string, at time.Time) error
	Complete(ctx context.Context, id string, at time.Time) error
}

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreWriteTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, reservation); err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreReadTimeout)
	defer cancel()

	var reservation model.Reservation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	return &reservation, nil
}

func (r *mongoReservationRepository) FindActiveBySite(ctx context.Context, siteID string) ([]*model.Reservation, error) {
	return r.find(ctx, bson.M{
		"parkingSpotID": siteID,
		"status":        model.StatusActive,
	}, bson.D{{Key: "startTime", Value: 1}})
}

// FindActiveOverlapping returns active reservations of the slot whose window
// intersects [start, end).
func (r *mongoReservationRepository) FindActiveOverlapping(ctx context.Context, siteID, slotNumber string, start, end time.Time) ([]*model.Reservation, error) {
	return r.find(ctx, bson.M{
		"parkingSpotID": siteID,
		"slotNumber":    slotNumber,
		"status":        model.StatusActive,
		"startTime":     bson.M{"$lt": end},
		"endTime":       bson.M{"$gt": start},
	}, bson.D{{Key: "startTime", Value: 1}})
}

func (r *mongoReservationRepository) FindByUser(ctx context.Context, userID string, status model.ReservationStatus) ([]*model.Reservation, error) {
	filter := bson.M{"userID": userID}
	if status != "" {
		filter["status"] = status
	}
	return r.find(ctx, filter, bson.D{{Key: "startTime", Value: -1}})
}

func (r *mongoReservationRepository) FindActiveEndedBy(ctx context.Context, now time.Time) ([]*model.Reservation, error) {
	return r.find(ctx, bson.M{
		"status":  model.StatusActive,
		"endTime": bson.M{"$lte": now},
	}, bson.D{{Key: "endTime", Value: 1}})
}

func (r *mongoReservationRepository) find(ctx context.Context, filter bson.M, sort bson.D) ([]*model.Reservation, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}
	return reservations, nil
}

func (r *mongoReservationRepository) Cancel(ctx context.Context, id, reason string, at time.Time) error {
	set := bson.M{
		"status":      model.StatusCancelled,
		"cancelledAt": at,
	}
	if reason != "" {
		set["cancellationReason"] = reason
	}
	return r.updateActive(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

// Extend is conditional on the end time the caller read, so two extensions of the
// same reservation cannot both apply their price delta.
func (r *mongoReservationRepository) Extend(ctx context.Context, id string, currentEnd, newEnd time.Time, priceDelta float64, paymentID string, at time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"endTime":        newEnd,
			"lastExtendedAt": at,
		},
		"$inc": bson.M{"totalPrice": priceDelta},
	}
	if paymentID != "" {
		update["$push"] = bson.M{"extensionPaymentIDs": paymentID}
	}
	return r.updateActive(ctx, bson.M{"_id": id, "endTime": currentEnd}, update)
}

func (r *mongoReservationRepository) Complete(ctx context.Context, id string, at time.Time) error {
	return r.updateActive(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":      model.StatusCompleted,
		"completedAt": at,
	}})
}

// updateActive applies update only while the reservation is still active.
func (r *mongoReservationRepository) updateActive(ctx context.Context, filter, update bson.M) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreWriteTimeout)
	defer cancel()

	filter["status"] = model.StatusActive
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	if result.MatchedCount == 0 {
		return reservationerrors.ErrStateChanged
	}
	return nil
}
