package models

import "encoding/json"

// Destination is where a trip goes.
type Destination struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Trip represents a trip in API responses.
type Trip struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Destination Destination `json:"destination"`
	StartDate   string      `json:"startDate"`
	EndDate     string      `json:"endDate"`
	CoverPhoto  *string     `json:"coverPhoto,omitempty"`
	Shared      bool        `json:"shared"`
	CreatedAt   Timestamp   `json:"createdAt"`
	UpdatedAt   Timestamp   `json:"updatedAt"`
}

// PagedTrips is a paginated list of trips.
type PagedTrips struct {
	Items []Trip            `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}

// TripCreateRequest is the request body for creating a trip.
type TripCreateRequest struct {
	Name        string      `json:"name"`
	Destination Destination `json:"destination"`
	StartDate   string      `json:"startDate"`
	EndDate     string      `json:"endDate"`
	CoverPhoto  *string     `json:"coverPhoto,omitempty"`
}

// TripUpdateRequest is the request body for updating a trip.
// Nil fields are left unchanged.
type TripUpdateRequest struct {
	Name        *string      `json:"name,omitempty"`
	Destination *Destination `json:"destination,omitempty"`
	StartDate   *string      `json:"startDate,omitempty"`
	EndDate     *string      `json:"endDate,omitempty"`
	CoverPhoto  *string      `json:"coverPhoto,omitempty"`
}

// ItineraryItem represents an itinerary item in API responses.
type ItineraryItem struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Date      string          `json:"date"`
	StartTime string          `json:"startTime,omitempty"`
	EndTime   *string         `json:"endTime,omitempty"`
	Title     string          `json:"title"`
	Details   json.RawMessage `json:"details"`
	Location  *Point          `json:"location,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt Timestamp       `json:"createdAt"`
	UpdatedAt Timestamp       `json:"updatedAt"`
}

// ItineraryItemInput is the request body for creating or replacing an
// itinerary item.
type ItineraryItemInput struct {
	Type      string          `json:"type"`
	Date      string          `json:"date"`
	StartTime string          `json:"startTime,omitempty"`
	EndTime   *string         `json:"endTime,omitempty"`
	Title     string          `json:"title"`
	Details   json.RawMessage `json:"details,omitempty"`
	Location  *Point          `json:"location,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// ItineraryItemsRequest is the request body for adding items in bulk.
type ItineraryItemsRequest struct {
	Items []ItineraryItemInput `json:"items"`
}

// ItineraryItems is a list of itinerary items.
type ItineraryItems struct {
	Items []ItineraryItem `json:"items"`
}

// ShareResponse is the response after creating or fetching a share link.
type ShareResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// SharedTrip is the public view of a shared trip.
type SharedTrip struct {
	Trip  Trip            `json:"trip"`
	Items []ItineraryItem `json:"items"`
}
