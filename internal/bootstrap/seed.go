package bootstrap

import (
	"fmt"
	"time"

	"smartparking/pkg/model"
)

const slotsPerFloor = 10

var floorLetters = []string{"A", "B", "C"}

type seedSite struct {
	id          string
	rate        float64
	lat, lng    float64
	features    []string
	rating      float64
	reviews     int
	category    string
	description string
	images      []string
}

var defaultSites = []seedSite{
	{
		id: "TATU", rate: 5000, lat: 41.5500, lng: 60.6250,
		features: []string{"Kamera nazorati", "24/7 ishlash"},
		rating:   4.5, reviews: 20, category: "Ta'lim",
		description: "TATU hududidagi avtoturargoh. Keng joylar va zamonaviy xizmatlar.",
		images:      []string{"https://example.com/image1.jpg", "https://example.com/image2.jpg"},
	},
	{
		id: "URDU", rate: 4000, lat: 41.5525, lng: 60.6255,
		features: []string{"Kamera nazorati", "Qo'riqlash"},
		rating:   4.3, reviews: 18, category: "Ta'lim",
		description: "URDU hududida joylashgan maxsus avtoturargoh. Xavfsiz va qulay.",
		images:      []string{"https://example.com/image3.jpg", "https://example.com/image4.jpg"},
	},
	{
		id: "GIPER", rate: 6000, lat: 41.5550, lng: 60.6200,
		features: []string{"Kamera nazorati", "24/7 ishlash", "To'lov terminali"},
		rating:   4.7, reviews: 25, category: "Savdo markazi",
		description: "GIPER hududida zamonaviy avtoturargoh. Xavfsiz va qulay joylar.",
		images:      []string{"https://example.com/image5.jpg", "https://example.com/image6.jpg"},
	},
	{
		id: "SUM", rate: 5500, lat: 41.5400, lng: 60.6150,
		features: []string{"Kamera nazorati", "Qo'riqlash", "Yopiq avtoturargoh"},
		rating:   4.6, reviews: 30, category: "Savdo markazi",
		description: "SUM hududidagi keng va xavfsiz avtoturargoh.",
		images:      []string{"https://example.com/image7.jpg", "https://example.com/image8.jpg"},
	},
	{
		id: "DARITAL", rate: 4000, lat: 41.5600, lng: 60.6180,
		features: []string{"Kamera nazorati", "Qo'riqlash", "Talabalar uchun chegirma"},
		rating:   4.4, reviews: 15, category: "Ta'lim",
		description: "DARITAL hududidagi keng va qulay avtoturargoh.",
		images:      []string{"https://example.com/image9.jpg", "https://example.com/image10.jpg"},
	},
}

// SiteSeed is one site with its full slot inventory.
type SiteSeed struct {
	Site  *model.Site
	Slots []*model.Slot
}

// DefaultCatalog returns the sites loaded into an empty catalog.
func DefaultCatalog(now time.Time) []SiteSeed {
	seeds := make([]SiteSeed, 0, len(defaultSites))
	for _, s := range defaultSites {
		rating, reviews := s.rating, s.reviews
		slots := seedSlots(s.id)
		seeds = append(seeds, SiteSeed{
			Site: &model.Site{
				ID:             s.id,
				Name:           s.id + " Avtoturargohi",
				Address:        s.id + ", Urganch shahri",
				PricePerHour:   s.rate,
				SpotsAvailable: len(slots),
				Location:       model.GeoPoint{Lat: s.lat, Lng: s.lng},
				Features:       s.features,
				Rating:         &rating,
				ReviewCount:    &reviews,
				Category:       s.category,
				Description:    s.description,
				OperatedBy:     s.id + " Parking",
				Images:         s.images,
				CreatedAt:      now,
			},
			Slots: slots,
		})
	}
	return seeds
}

func seedSlots(siteID string) []*model.Slot {
	slots := make([]*model.Slot, 0, len(floorLetters)*slotsPerFloor)
	for i, letter := range floorLetters {
		for n := 1; n <= slotsPerFloor; n++ {
			label := fmt.Sprintf("%s%d", letter, n)
			slots = append(slots, &model.Slot{
				ID:          siteID + "-" + label,
				SiteID:      siteID,
				SlotNumber:  label,
				IsAvailable: true,
				Type:        model.SlotTypeStandard,
				Floor:       i + 1,
			})
		}
	}
	return slots
}
