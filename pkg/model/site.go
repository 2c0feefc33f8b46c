package model

import "time"

type GeoPoint struct {
	Lat float64 `json:"lat" bson:"lat" validate:"latitude"`
	Lng float64 `json:"lng" bson:"lng" validate:"longitude"`
}

// Site is a parking location. PricePerHour feeds the pricing calculator.
type Site struct {
	ID             string    `json:"id" bson:"_id" validate:"required"`
	Name           string    `json:"name" bson:"name" validate:"required,min=2,max=200"`
	Address        string    `json:"address" bson:"address" validate:"required,min=2,max=300"`
	PricePerHour   float64   `json:"pricePerHour" bson:"pricePerHour" validate:"gte=0"`
	SpotsAvailable int       `json:"spotsAvailable" bson:"spotsAvailable" validate:"gte=0"`
	Location       GeoPoint  `json:"location" bson:"location"`
	Features       []string  `json:"features" bson:"features"`
	Rating         *float64  `json:"rating,omitempty" bson:"rating,omitempty"`
	ReviewCount    *int      `json:"reviewCount,omitempty" bson:"reviewCount,omitempty"`
	Category       string    `json:"category,omitempty" bson:"category,omitempty"`
	Description    string    `json:"description,omitempty" bson:"description,omitempty"`
	OperatedBy     string    `json:"operatedBy,omitempty" bson:"operatedBy,omitempty"`
	Images         []string  `json:"images,omitempty" bson:"images,omitempty"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}
