package model

const (
	SlotTypeStandard = "standard"
	SlotTypeCompact  = "compact"
)

// Slot is a numbered space inside a site. IsAvailable is a display cache only;
// occupancy is always derived from active reservations.
type Slot struct {
	ID          string `json:"id" bson:"_id"`
	SiteID      string `json:"parkingSpotID" bson:"parkingSpotID"`
	SlotNumber  string `json:"slotNumber" bson:"slotNumber"`
	IsAvailable bool   `json:"isAvailable" bson:"isAvailable"`
	Type        string `json:"type,omitempty" bson:"type,omitempty"`
	Floor       int    `json:"floor" bson:"floor"`
}

type FloorSlots struct {
	Floor int    `json:"floor"`
	Slots []Slot `json:"slots"`
}

type SlotAvailability struct {
	Slot   Slot `json:"slot"`
	IsFree bool `json:"isFree"`
}
