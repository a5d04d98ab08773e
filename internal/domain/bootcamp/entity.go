package bootcamp

import "time"

// Location is a GeoJSON point plus the address components returned by the
// geocoder. Coordinates are [longitude, latitude].
type Location struct {
	Type             string
	Coordinates      []float64
	FormattedAddress string
	Street           string
	City             string
	State            string
	Zipcode          string
	Country          string
}

type Bootcamp struct {
	ID            string
	Name          string
	Slug          string
	Description   string
	Website       string
	Phone         string
	Email         string
	Address       string
	Location      *Location
	Careers       []string
	AverageRating *float64
	AverageCost   *float64
	Photo         string
	Housing       bool
	JobAssistance bool
	JobGuarantee  bool
	AcceptGi      bool
	UserID        string
	CreatedAt     time.Time
}

func (b *Bootcamp) OwnerID() string {
	return b.UserID
}

const (
	DefaultPhoto = "no-photo.jpg"

	// EarthRadiusMiles converts a distance in miles to radians for
	// $centerSphere queries.
	EarthRadiusMiles = 3963
)
