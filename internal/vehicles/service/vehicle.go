package service

import (
	"context"
	"errors"
	"time"

	vehicleerrors "smartparking/internal/vehicles/errors"
	"smartparking/internal/vehicles/repository"
	"smartparking/internal/vehicles/validator"
	"smartparking/pkg/config"
	apperrors "smartparking/pkg/errors"
	"smartparking/pkg/events"
	"smartparking/pkg/model"
	"smartparking/pkg/sanitizer"

	"github.com/google/uuid"
)

const VehiclesTab = "vehicles"

type VehicleService interface {
	Add(ctx context.Context, userID string, req *model.VehicleRequest) (*model.Vehicle, error)
	// Get returns the vehicle only to its owner. Anyone else sees NotFound.
	Get(ctx context.Context, userID, vehicleID string) (*model.Vehicle, error)
	List(ctx context.Context, userID string) ([]*model.Vehicle, error)
	Remove(ctx context.Context, userID, vehicleID string) error
}

type vehicleService struct {
	repo      repository.VehicleRepository
	validator *validator.VehicleValidator
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewVehicleService(repo repository.VehicleRepository, validator *validator.VehicleValidator, publisher events.Publisher, cfg *config.Config) VehicleService {
	return &vehicleService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *vehicleService) Add(ctx context.Context, userID string, req *model.VehicleRequest) (*model.Vehicle, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("Authentication required")
	}
	if req == nil {
		return nil, apperrors.InvalidInput("Vehicle request is required")
	}
	req.Brand = sanitizer.SanitizeText(req.Brand)
	req.Name = sanitizer.SanitizeText(req.Name)
	req.Plate = sanitizer.SanitizePlate(req.Plate)
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Vehicle validation failed", "user_id", userID, "error", err)
		return nil, apperrors.InvalidInput("Vehicle validation failed").WithDetails(map[string]any{"error": err.Error()})
	}

	vehicle := &model.Vehicle{
		ID:        uuid.NewString(),
		UserID:    userID,
		Brand:     req.Brand,
		Name:      req.Name,
		Type:      req.Type,
		Plate:     req.Plate,
		Image:     req.Image,
		CreatedAt: model.StoredTime(s.now()),
	}
	if err := s.repo.Create(ctx, vehicle); err != nil {
		if errors.Is(err, vehicleerrors.ErrDuplicatePlate) {
			return nil, apperrors.Conflict("Vehicle with this plate is already registered").WithDetails(map[string]any{
				"plate": vehicle.Plate,
			})
		}
		s.cfg.Log.Error("Failed to add vehicle", "user_id", userID, "error", err)
		return nil, apperrors.FromStorage(err, "Failed to add vehicle")
	}

	s.cfg.Log.Info("Vehicle added", "user_id", userID, "vehicle_id", vehicle.ID)
	s.refresh(ctx, userID)
	return vehicle, nil
}

func (s *vehicleService) Get(ctx context.Context, userID, vehicleID string) (*model.Vehicle, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("Authentication required")
	}
	if vehicleID == "" {
		return nil, apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	vehicle, err := s.repo.FindByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, vehicleerrors.ErrVehicleNotFound) {
			return nil, apperrors.NotFoundWithID("Vehicle", vehicleID)
		}
		s.cfg.Log.Error("Failed to get vehicle", "vehicle_id", vehicleID, "error", err)
		return nil, apperrors.FromStorage(err, "Failed to get vehicle")
	}
	if vehicle.UserID != userID {
		return nil, apperrors.NotFoundWithID("Vehicle", vehicleID)
	}
	return vehicle, nil
}

func (s *vehicleService) List(ctx context.Context, userID string) ([]*model.Vehicle, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("Authentication required")
	}
	vehicles, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list vehicles", "user_id", userID, "error", err)
		return nil, apperrors.FromStorage(err, "Failed to list vehicles")
	}
	if vehicles == nil {
		vehicles = []*model.Vehicle{}
	}
	return vehicles, nil
}

// Remove deletes a vehicle. Reservations keep the ID they were booked with.
func (s *vehicleService) Remove(ctx context.Context, userID, vehicleID string) error {
	if userID == "" {
		return apperrors.Unauthenticated("Authentication required")
	}
	if vehicleID == "" {
		return apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, userID, vehicleID); err != nil {
		if errors.Is(err, vehicleerrors.ErrVehicleNotFound) {
			return apperrors.NotFoundWithID("Vehicle", vehicleID)
		}
		s.cfg.Log.Error("Failed to remove vehicle", "user_id", userID, "vehicle_id", vehicleID, "error", err)
		return apperrors.FromStorage(err, "Failed to remove vehicle")
	}
	s.cfg.Log.Info("Vehicle removed", "user_id", userID, "vehicle_id", vehicleID)
	s.refresh(ctx, userID)
	return nil
}

func (s *vehicleService) refresh(ctx context.Context, userID string) {
	s.publisher.Publish(ctx, events.New(events.TabRefresh, events.TabRefreshPayload{
		UserID: userID,
		Tab:    VehiclesTab,
	}))
}
