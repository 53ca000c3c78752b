// Package trip provides trip and itinerary management services.
package trip

import (
	"errors"
	"time"
)

// dateLayout is the calendar date form used for trip and item dates.
const dateLayout = "2006-01-02"

// Repository errors.
var (
	ErrTripNotFound = errors.New("trip not found")
	ErrItemNotFound = errors.New("itinerary item not found")
)

// Trip represents a planned trip owned by a user.
type Trip struct {
	ID          string
	UserID      string
	Name        string
	Destination Destination

	// StartDate and EndDate are calendar dates in YYYY-MM-DD form.
	// StartDate is never after EndDate.
	StartDate string
	EndDate   string

	CoverPhoto *string

	// ShareToken grants read-only public access when set. Opaque, random,
	// revocable.
	ShareToken *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Destination is where the trip goes.
type Destination struct {
	Name string
	Lat  float64
	Lon  float64
}

// ItemType classifies an itinerary item.
type ItemType string

const (
	TypeFlight     ItemType = "flight"
	TypeHotel      ItemType = "hotel"
	TypeTransport  ItemType = "transport"
	TypeActivity   ItemType = "activity"
	TypeRestaurant ItemType = "restaurant"
	TypeOther      ItemType = "other"
)

// Valid reports whether the type is one of the recognized item types.
func (t ItemType) Valid() bool {
	switch t {
	case TypeFlight, TypeHotel, TypeTransport, TypeActivity, TypeRestaurant, TypeOther:
		return true
	}
	return false
}

// ItineraryItem is one scheduled entry in a trip.
type ItineraryItem struct {
	ID     string
	TripID string
	Type   ItemType

	// Date is a calendar date in YYYY-MM-DD form.
	Date string

	// StartTime is local HH:MM, empty for all-day entries.
	StartTime string
	EndTime   *string

	Title   string
	Details ItemDetails

	Location Geo
	Notes    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Geo is a latitude/longitude pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
