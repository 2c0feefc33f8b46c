package testutil

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	catalogrepo "smartparking/internal/catalog/repository"
	"smartparking/pkg/model"
)

type SiteBuilder struct {
	site  model.Site
	slots []model.Slot
}

func NewSiteBuilder(id string) *SiteBuilder {
	return &SiteBuilder{
		site: model.Site{
			ID:             id,
			Name:           "Test Parking",
			Address:        "Urganch shahri",
			PricePerHour:   5000,
			SpotsAvailable: 0,
			Location:       model.GeoPoint{Lat: 41.55, Lng: 60.625},
			Features:       []string{},
			CreatedAt:      time.Now().UTC(),
		},
	}
}

func (b *SiteBuilder) WithPrice(perHour float64) *SiteBuilder {
	b.site.PricePerHour = perHour
	return b
}

// WithSlots adds count slots on floor, labelled with prefix and a 1-based index.
func (b *SiteBuilder) WithSlots(prefix string, floor, count int) *SiteBuilder {
	for i := 1; i <= count; i++ {
		label := fmt.Sprintf("%s%d", prefix, i)
		b.slots = append(b.slots, model.Slot{
			ID:          b.site.ID + "-" + label,
			SiteID:      b.site.ID,
			SlotNumber:  label,
			IsAvailable: true,
			Type:        "Standard",
			Floor:       floor,
		})
	}
	b.site.SpotsAvailable = len(b.slots)
	return b
}

// Seed writes the site and its slots straight to the catalog collections.
func (b *SiteBuilder) Seed(t *testing.T, mongo *MongoHelper) model.Site {
	t.Helper()
	mongo.Insert(t, catalogrepo.SitesCollection, b.site)
	if len(b.slots) > 0 {
		docs := make([]any, 0, len(b.slots))
		for _, s := range b.slots {
			docs = append(docs, s)
		}
		mongo.Insert(t, catalogrepo.SlotsCollection, docs...)
	}
	return b.site
}

// Window returns a start aligned to the next whole hour plus hours, and its end.
func Window(offset time.Duration, hours int) (time.Time, time.Time) {
	start := time.Now().UTC().Truncate(time.Hour).Add(time.Hour + offset)
	return start, start.Add(time.Duration(hours) * time.Hour)
}

// RegisterVehicle adds a sedan with the given plate for the client's user and
// returns its ID.
func RegisterVehicle(t *testing.T, c *Client, plate string) string {
	t.Helper()
	resp := c.POST(t, "/api/v1/vehicles", model.VehicleRequest{
		Brand: "Chevrolet",
		Name:  "Cobalt",
		Type:  model.VehicleTypeSedan,
		Plate: plate,
	})
	AssertStatusCode(t, resp, http.StatusCreated)
	var vehicle model.Vehicle
	resp.Data(t, &vehicle)
	return vehicle.ID
}

func BookingRequest(siteID, slot, vehicleID string, start, end time.Time) model.CheckoutRequest {
	return model.CheckoutRequest{
		SiteID:        siteID,
		SlotNumber:    slot,
		VehicleID:     vehicleID,
		StartTime:     start,
		EndTime:       end,
		PaymentMethod: model.PaymentMethodWallet,
	}
}
