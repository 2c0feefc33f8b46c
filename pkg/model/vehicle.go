package model

import "time"

// Vehicle types offered when a car is registered.
const (
	VehicleTypeSedan = "Sedan"
	VehicleTypeSUV   = "SUV"
	VehicleTypeMPV   = "MPV"
)

type Vehicle struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userID" bson:"userID"`
	Brand     string    `json:"brand" bson:"brand"`
	Name      string    `json:"name" bson:"name"`
	Type      string    `json:"type,omitempty" bson:"type,omitempty"`
	Plate     string    `json:"plate" bson:"plate"`
	Image     string    `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type VehicleRequest struct {
	Brand string `json:"brand" validate:"required,min=1,max=64"`
	Name  string `json:"name" validate:"required,min=1,max=64"`
	Type  string `json:"type" validate:"omitempty,oneof=Sedan SUV MPV"`
	Plate string `json:"plate" validate:"required,min=2,max=16"`
	Image string `json:"image,omitempty" validate:"omitempty,url,max=512"`
}
