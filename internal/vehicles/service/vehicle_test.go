package service

import (
	"context"
	"errors"
	"testing"

	vehicleerrors "smartparking/internal/vehicles/errors"
	"smartparking/internal/vehicles/validator"
	"smartparking/pkg/config"
	apperrors "smartparking/pkg/errors"
	"smartparking/pkg/events"
	"smartparking/pkg/logger"
	"smartparking/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryVehicles struct {
	byID map[string]*model.Vehicle
	err  error
}

func (m *memoryVehicles) Create(ctx context.Context, v *model.Vehicle) error {
	if m.err != nil {
		return m.err
	}
	for _, existing := range m.byID {
		if existing.UserID == v.UserID && existing.Plate == v.Plate {
			return vehicleerrors.ErrDuplicatePlate
		}
	}
	cp := *v
	m.byID[v.ID] = &cp
	return nil
}

func (m *memoryVehicles) FindByID(ctx context.Context, id string) (*model.Vehicle, error) {
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.byID[id]
	if !ok {
		return nil, vehicleerrors.ErrVehicleNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *memoryVehicles) FindByUser(ctx context.Context, userID string) ([]*model.Vehicle, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*model.Vehicle
	for _, v := range m.byID {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memoryVehicles) Delete(ctx context.Context, userID, id string) error {
	v, ok := m.byID[id]
	if !ok || v.UserID != userID {
		return vehicleerrors.ErrVehicleNotFound
	}
	delete(m.byID, id)
	return nil
}

func newService(repo *memoryVehicles) (VehicleService, *events.Bus) {
	log := logger.Discard()
	bus := events.NewBus(log)
	return NewVehicleService(repo, validator.NewVehicleValidator(log), bus, &config.Config{Log: log}), bus
}

func cobalt() *model.VehicleRequest {
	return &model.VehicleRequest{Brand: "Chevrolet", Name: " Cobalt ", Type: model.VehicleTypeSedan, Plate: "01 a 123-bc"}
}

func TestAdd_NormalizesAndStores(t *testing.T) {
	repo := &memoryVehicles{byID: map[string]*model.Vehicle{}}
	svc, bus := newService(repo)

	var tabs []events.TabRefreshPayload
	sub := bus.Subscribe(events.TabRefresh, func(ctx context.Context, ev events.Event) {
		tabs = append(tabs, ev.Payload.(events.TabRefreshPayload))
	})
	defer sub.Unsubscribe()

	v, err := svc.Add(context.Background(), "u1", cobalt())
	require.NoError(t, err)
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, "u1", v.UserID)
	assert.Equal(t, "Cobalt", v.Name)
	assert.Equal(t, "01A123BC", v.Plate)
	assert.False(t, v.CreatedAt.IsZero())
	assert.Contains(t, repo.byID, v.ID)
	assert.Equal(t, []events.TabRefreshPayload{{UserID: "u1", Tab: VehiclesTab}}, tabs)
}

func TestAdd_DuplicatePlateConflicts(t *testing.T) {
	svc, _ := newService(&memoryVehicles{byID: map[string]*model.Vehicle{}})
	ctx := context.Background()

	_, err := svc.Add(ctx, "u1", cobalt())
	require.NoError(t, err)

	req := cobalt()
	req.Plate = "01A123BC"
	_, err = svc.Add(ctx, "u1", req)
	assert.Equal(t, apperrors.CodeConflict, apperrors.KindOf(err))

	_, err = svc.Add(ctx, "u2", cobalt())
	assert.NoError(t, err, "plates are unique per user")
}

func TestAdd_Invalid(t *testing.T) {
	svc, _ := newService(&memoryVehicles{byID: map[string]*model.Vehicle{}})

	req := cobalt()
	req.Plate = " - "
	_, err := svc.Add(context.Background(), "u1", req)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.KindOf(err))

	_, err = svc.Add(context.Background(), "u1", nil)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.KindOf(err))
}

func TestGet_OwnerOnly(t *testing.T) {
	svc, _ := newService(&memoryVehicles{byID: map[string]*model.Vehicle{
		"v1": {ID: "v1", UserID: "u1", Plate: "01A123BC"},
	}})
	ctx := context.Background()

	v, err := svc.Get(ctx, "u1", "v1")
	require.NoError(t, err)
	assert.Equal(t, "01A123BC", v.Plate)

	_, err = svc.Get(ctx, "u2", "v1")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.KindOf(err))

	_, err = svc.Get(ctx, "u1", "missing")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.KindOf(err))

	_, err = svc.Get(ctx, "", "v1")
	assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.KindOf(err))
}

func TestRemove(t *testing.T) {
	repo := &memoryVehicles{byID: map[string]*model.Vehicle{
		"v1": {ID: "v1", UserID: "u1"},
	}}
	svc, _ := newService(repo)
	ctx := context.Background()

	assert.Equal(t, apperrors.CodeNotFound, apperrors.KindOf(svc.Remove(ctx, "u2", "v1")))
	require.NoError(t, svc.Remove(ctx, "u1", "v1"))
	assert.Empty(t, repo.byID)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.KindOf(svc.Remove(ctx, "u1", "v1")))
}

func TestList(t *testing.T) {
	svc, _ := newService(&memoryVehicles{byID: map[string]*model.Vehicle{}})

	vehicles, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, vehicles)
	assert.Empty(t, vehicles)
}

func TestStorageFailureIsUnavailable(t *testing.T) {
	svc, _ := newService(&memoryVehicles{byID: map[string]*model.Vehicle{}, err: errors.New("socket closed")})

	_, err := svc.List(context.Background(), "u1")
	assert.Equal(t, apperrors.CodeUnavailable, apperrors.KindOf(err))
	_, err = svc.Get(context.Background(), "u1", "v1")
	assert.Equal(t, apperrors.CodeUnavailable, apperrors.KindOf(err))
}
