package model

import "time"

type Review struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userID" bson:"userID"`
	SiteID    string    `json:"parkingSpotID" bson:"parkingSpotID"`
	Rating    float64   `json:"rating" bson:"rating"`
	Comment   string    `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type ReviewRequest struct {
	Rating  float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string  `json:"comment,omitempty" validate:"max=1000"`
}
