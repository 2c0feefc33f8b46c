package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCollections_CoverEveryStore(t *testing.T) {
	names := make([]string, 0)
	for _, def := range Collections() {
		names = append(names, def.Name)
		assert.NotEmpty(t, def.Indexes, def.Name)
		assert.Contains(t, def.Validator, "$jsonSchema", def.Name)
	}
	assert.ElementsMatch(t, []string{"Sites", "Slots", "Reservations", "Payments", "Favorites", "Vehicles", "Reviews", "Slot_locks"}, names)
}

func TestSlotsIndexes_SlotLabelUniquePerSite(t *testing.T) {
	idx := SlotsIndexes[0]
	assert.Equal(t, bson.D{{Key: "parkingSpotID", Value: 1}, {Key: "slotNumber", Value: 1}}, idx.Keys)
	require.NotNil(t, idx.Options)
	require.NotNil(t, idx.Options.Unique)
	assert.True(t, *idx.Options.Unique)
}

func TestSlotLocksIndexes_ExpireOnDeadline(t *testing.T) {
	idx := SlotLocksIndexes[0]
	assert.Equal(t, bson.D{{Key: "expires_at", Value: 1}}, idx.Keys)
	require.NotNil(t, idx.Options.ExpireAfterSeconds)
	assert.Equal(t, int32(0), *idx.Options.ExpireAfterSeconds)
}

func TestVehiclesIndexes_PlateUniquePerUser(t *testing.T) {
	idx := VehiclesIndexes[0]
	assert.Equal(t, bson.D{{Key: "userID", Value: 1}, {Key: "plate", Value: 1}}, idx.Keys)
	require.NotNil(t, idx.Options)
	require.NotNil(t, idx.Options.Unique)
	assert.True(t, *idx.Options.Unique)
}
