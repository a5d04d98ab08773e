package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocationModel is a GeoJSON point; the 2dsphere index reads type and
// coordinates and ignores the address fields.
type LocationModel struct {
	Type             string    `bson:"type"`
	Coordinates      []float64 `bson:"coordinates"`
	FormattedAddress string    `bson:"formattedAddress,omitempty"`
	Street           string    `bson:"street,omitempty"`
	City             string    `bson:"city,omitempty"`
	State            string    `bson:"state,omitempty"`
	Zipcode          string    `bson:"zipcode,omitempty"`
	Country          string    `bson:"country,omitempty"`
}

type BootcampModel struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Slug          string             `bson:"slug"`
	Description   string             `bson:"description"`
	Website       string             `bson:"website,omitempty"`
	Phone         string             `bson:"phone,omitempty"`
	Email         string             `bson:"email,omitempty"`
	Address       string             `bson:"address,omitempty"`
	Location      *LocationModel     `bson:"location,omitempty"`
	Careers       []string           `bson:"careers"`
	AverageRating *float64           `bson:"averageRating,omitempty"`
	AverageCost   *float64           `bson:"averageCost,omitempty"`
	Photo         string             `bson:"photo"`
	Housing       bool               `bson:"housing"`
	JobAssistance bool               `bson:"jobAssistance"`
	JobGuarantee  bool               `bson:"jobGuarantee"`
	AcceptGi      bool               `bson:"acceptGi"`
	User          primitive.ObjectID `bson:"user"`
	CreatedAt     time.Time          `bson:"createdAt"`
}
