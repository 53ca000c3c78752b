package trip

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu    sync.RWMutex
	trips map[string]*Trip
	items map[string]*ItineraryItem
}

// NewInMemoryRepository creates a new in-memory trip repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		trips: make(map[string]*Trip),
		items: make(map[string]*ItineraryItem),
	}
}

// Get retrieves a trip by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[id]
	if !ok {
		return nil, ErrTripNotFound
	}

	cpy := *t
	return &cpy, nil
}

// GetByUserAndID retrieves a trip by user ID and trip ID.
func (r *InMemoryRepository) GetByUserAndID(_ context.Context, userID, tripID string) (*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[tripID]
	if !ok || t.UserID != userID {
		return nil, ErrTripNotFound
	}

	cpy := *t
	return &cpy, nil
}

// GetByShareToken retrieves a trip by its share token.
func (r *InMemoryRepository) GetByShareToken(_ context.Context, token string) (*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.trips {
		if t.ShareToken != nil && *t.ShareToken == token {
			cpy := *t
			return &cpy, nil
		}
	}

	return nil, ErrTripNotFound
}

// List retrieves all trips for a user with pagination.
func (r *InMemoryRepository) List(_ context.Context, userID string, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var trips []*Trip
	for _, t := range r.trips {
		if t.UserID == userID {
			cpy := *t
			trips = append(trips, &cpy)
		}
	}

	sort.Slice(trips, func(i, j int) bool {
		if trips[i].StartDate != trips[j].StartDate {
			return trips[i].StartDate > trips[j].StartDate
		}
		return trips[i].CreatedAt.After(trips[j].CreatedAt)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	result := &ListResult{
		Items: trips,
	}

	if len(trips) > limit {
		result.Items = trips[:limit]
		result.NextCursor = trips[limit-1].ID
	}

	return result, nil
}

// ListStartingBetween retrieves trips whose start date falls in [from, to].
func (r *InMemoryRepository) ListStartingBetween(_ context.Context, from, to time.Time) ([]*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fromDate := from.Format(dateLayout)
	toDate := to.Format(dateLayout)

	var trips []*Trip
	for _, t := range r.trips {
		if t.StartDate >= fromDate && t.StartDate <= toDate {
			cpy := *t
			trips = append(trips, &cpy)
		}
	}

	sort.Slice(trips, func(i, j int) bool {
		return trips[i].StartDate < trips[j].StartDate
	})

	return trips, nil
}

// Create creates a new trip.
func (r *InMemoryRepository) Create(_ context.Context, t *Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *t
	r.trips[t.ID] = &cpy
	return nil
}

// Update updates an existing trip.
func (r *InMemoryRepository) Update(_ context.Context, t *Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trips[t.ID]; !ok {
		return ErrTripNotFound
	}

	cpy := *t
	r.trips[t.ID] = &cpy
	return nil
}

// Delete deletes a trip and its itinerary items.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.trips, id)
	for itemID, item := range r.items {
		if item.TripID == id {
			delete(r.items, itemID)
		}
	}
	return nil
}

// ListItems retrieves all itinerary items for a trip, ordered by date
// ascending then start time ascending.
func (r *InMemoryRepository) ListItems(_ context.Context, tripID string) ([]*ItineraryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*ItineraryItem
	for _, item := range r.items {
		if item.TripID == tripID {
			cpy := *item
			items = append(items, &cpy)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		if items[i].StartTime != items[j].StartTime {
			return items[i].StartTime < items[j].StartTime
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	return items, nil
}

// GetItem retrieves an itinerary item by trip ID and item ID.
func (r *InMemoryRepository) GetItem(_ context.Context, tripID, itemID string) (*ItineraryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemID]
	if !ok || item.TripID != tripID {
		return nil, ErrItemNotFound
	}

	cpy := *item
	return &cpy, nil
}

// CreateItems creates itinerary items in a single batch.
func (r *InMemoryRepository) CreateItems(_ context.Context, items []*ItineraryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		cpy := *item
		r.items[item.ID] = &cpy
	}
	return nil
}

// UpdateItem updates an existing itinerary item.
func (r *InMemoryRepository) UpdateItem(_ context.Context, item *ItineraryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[item.ID]
	if !ok || existing.TripID != item.TripID {
		return ErrItemNotFound
	}

	cpy := *item
	r.items[item.ID] = &cpy
	return nil
}

// DeleteItem deletes an itinerary item.
func (r *InMemoryRepository) DeleteItem(_ context.Context, tripID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[itemID]
	if ok && item.TripID == tripID {
		delete(r.items, itemID)
	}
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
