package model

import "time"

type Favorite struct {
	ID      string    `json:"id" bson:"_id"`
	UserID  string    `json:"userID" bson:"userID"`
	SiteID  string    `json:"parkingSpotID" bson:"parkingSpotID"`
	AddedAt time.Time `json:"addedAt" bson:"addedAt"`
}
