package trip

import (
	"context"
	"time"
)

// ListOptions contains options for listing trips.
type ListOptions struct {
	Limit  int
	Cursor string
}

// ListResult contains the results of listing trips.
type ListResult struct {
	Items      []*Trip
	NextCursor string
}

// Repository defines the interface for trip and itinerary persistence.
type Repository interface {
	// Get retrieves a trip by ID.
	Get(ctx context.Context, id string) (*Trip, error)

	// GetByUserAndID retrieves a trip by user ID and trip ID.
	// Returns ErrTripNotFound if the trip doesn't exist or doesn't belong to the user.
	GetByUserAndID(ctx context.Context, userID, tripID string) (*Trip, error)

	// GetByShareToken retrieves a trip by its share token.
	GetByShareToken(ctx context.Context, token string) (*Trip, error)

	// List retrieves all trips for a user with pagination.
	List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error)

	// ListStartingBetween retrieves trips whose start date falls in [from, to].
	// Used by the background weather warm-up.
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]*Trip, error)

	// Create creates a new trip.
	Create(ctx context.Context, trip *Trip) error

	// Update updates an existing trip.
	Update(ctx context.Context, trip *Trip) error

	// Delete deletes a trip and its itinerary items.
	Delete(ctx context.Context, id string) error

	// ListItems retrieves all itinerary items for a trip, ordered by date
	// ascending then start time ascending.
	ListItems(ctx context.Context, tripID string) ([]*ItineraryItem, error)

	// GetItem retrieves an itinerary item by trip ID and item ID.
	GetItem(ctx context.Context, tripID, itemID string) (*ItineraryItem, error)

	// CreateItems creates itinerary items in a single batch.
	CreateItems(ctx context.Context, items []*ItineraryItem) error

	// UpdateItem updates an existing itinerary item.
	UpdateItem(ctx context.Context, item *ItineraryItem) error

	// DeleteItem deletes an itinerary item.
	DeleteItem(ctx context.Context, tripID, itemID string) error
}
