package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Validation constants.
const (
	MaxNameLength  = 120
	MaxTitleLength = 200
	MaxNotesLength = 2000
)

// timeHHMMRegex validates HH:mm format.
var timeHHMMRegex = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// CreateTripInput is the input for creating a trip.
type CreateTripInput struct {
	Name        string
	Destination Destination
	StartDate   string
	EndDate     string
	CoverPhoto  *string
}

// UpdateTripInput is the input for updating a trip. Nil fields are left
// unchanged.
type UpdateTripInput struct {
	Name        *string
	Destination *Destination
	StartDate   *string
	EndDate     *string
	CoverPhoto  *string
}

// ItemInput is the input for creating or updating an itinerary item.
// Details carries the raw type-specific payload and is decoded against the
// item type.
type ItemInput struct {
	Type      ItemType
	Date      string
	StartTime string
	EndTime   *string
	Title     string
	Details   json.RawMessage
	Location  Geo
	Notes     string
}

// SharedTrip is the read-only public view of a trip.
type SharedTrip struct {
	Trip  *Trip
	Items []*ItineraryItem
}

// Service provides trip and itinerary operations.
type Service struct {
	repo Repository
}

// NewService creates a new trip service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List retrieves a page of the user's trips.
func (s *Service) List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error) {
	return s.repo.List(ctx, userID, opts)
}

// Get retrieves a trip by ID for a user.
func (s *Service) Get(ctx context.Context, userID, tripID string) (*Trip, error) {
	return s.repo.GetByUserAndID(ctx, userID, tripID)
}

// Create creates a new trip for a user.
func (s *Service) Create(ctx context.Context, userID string, input *CreateTripInput) (*Trip, error) {
	if fieldErrors := s.validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	trip := &Trip{
		ID:          "trp_" + uuid.New().String()[:22],
		UserID:      userID,
		Name:        input.Name,
		Destination: input.Destination,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CoverPhoto:  input.CoverPhoto,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// Update updates an existing trip for a user.
func (s *Service) Update(ctx context.Context, userID, tripID string, input *UpdateTripInput) (*Trip, error) {
	trip, err := s.repo.GetByUserAndID(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	if fieldErrors := s.validateUpdateInput(trip, input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if input.Name != nil {
		trip.Name = *input.Name
	}
	if input.Destination != nil {
		trip.Destination = *input.Destination
	}
	if input.StartDate != nil {
		trip.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		trip.EndDate = *input.EndDate
	}
	if input.CoverPhoto != nil {
		trip.CoverPhoto = input.CoverPhoto
	}
	trip.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// Delete deletes a trip for a user.
func (s *Service) Delete(ctx context.Context, userID, tripID string) error {
	// Verify ownership
	if _, err := s.repo.GetByUserAndID(ctx, userID, tripID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, tripID)
}

// GenerateShareToken returns the trip's share token, minting one if the trip
// has never been shared. Repeated calls return the same token until it is
// revoked.
func (s *Service) GenerateShareToken(ctx context.Context, userID, tripID string) (string, error) {
	trip, err := s.repo.GetByUserAndID(ctx, userID, tripID)
	if err != nil {
		return "", err
	}

	if trip.ShareToken != nil && *trip.ShareToken != "" {
		return *trip.ShareToken, nil
	}

	token := uuid.New().String()
	trip.ShareToken = &token
	trip.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, trip); err != nil {
		return "", err
	}

	return token, nil
}

// RevokeShareToken removes the trip's share token. Existing share links stop
// working immediately.
func (s *Service) RevokeShareToken(ctx context.Context, userID, tripID string) error {
	trip, err := s.repo.GetByUserAndID(ctx, userID, tripID)
	if err != nil {
		return err
	}

	if trip.ShareToken == nil {
		return nil
	}

	trip.ShareToken = nil
	trip.UpdatedAt = time.Now()

	return s.repo.Update(ctx, trip)
}

// GetShared retrieves the public view of a trip by its share token.
func (s *Service) GetShared(ctx context.Context, token string) (*SharedTrip, error) {
	trip, err := s.repo.GetByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListItems(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	return &SharedTrip{Trip: trip, Items: items}, nil
}

// ListItems retrieves all itinerary items for a user's trip.
func (s *Service) ListItems(ctx context.Context, userID, tripID string) ([]*ItineraryItem, error) {
	if _, err := s.repo.GetByUserAndID(ctx, userID, tripID); err != nil {
		return nil, err
	}

	return s.repo.ListItems(ctx, tripID)
}

// AddItems creates itinerary items on a user's trip in a single batch.
func (s *Service) AddItems(ctx context.Context, userID, tripID string, inputs []*ItemInput) ([]*ItineraryItem, error) {
	if _, err := s.repo.GetByUserAndID(ctx, userID, tripID); err != nil {
		return nil, err
	}

	var fieldErrors []FieldError
	for i, input := range inputs {
		fieldErrors = append(fieldErrors, s.validateItemInput(input, fmt.Sprintf("items[%d]", i))...)
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	items := make([]*ItineraryItem, 0, len(inputs))
	for _, input := range inputs {
		details, err := DecodeDetails(input.Type, input.Details)
		if err != nil {
			return nil, err
		}

		items = append(items, &ItineraryItem{
			ID:        "itm_" + uuid.New().String()[:22],
			TripID:    tripID,
			Type:      input.Type,
			Date:      input.Date,
			StartTime: input.StartTime,
			EndTime:   input.EndTime,
			Title:     input.Title,
			Details:   details,
			Location:  input.Location,
			Notes:     input.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.repo.CreateItems(ctx, items); err != nil {
		return nil, err
	}

	return items, nil
}

// UpdateItem replaces an itinerary item on a user's trip.
func (s *Service) UpdateItem(ctx context.Context, userID, tripID, itemID string, input *ItemInput) (*ItineraryItem, error) {
	if _, err := s.repo.GetByUserAndID(ctx, userID, tripID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, tripID, itemID)
	if err != nil {
		return nil, err
	}

	if fieldErrors := s.validateItemInput(input, ""); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	details, err := DecodeDetails(input.Type, input.Details)
	if err != nil {
		return nil, err
	}

	item.Type = input.Type
	item.Date = input.Date
	item.StartTime = input.StartTime
	item.EndTime = input.EndTime
	item.Title = input.Title
	item.Details = details
	item.Location = input.Location
	item.Notes = input.Notes
	item.UpdatedAt = time.Now()

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// DeleteItem deletes an itinerary item on a user's trip.
func (s *Service) DeleteItem(ctx context.Context, userID, tripID, itemID string) error {
	if _, err := s.repo.GetByUserAndID(ctx, userID, tripID); err != nil {
		return err
	}

	if _, err := s.repo.GetItem(ctx, tripID, itemID); err != nil {
		return err
	}

	return s.repo.DeleteItem(ctx, tripID, itemID)
}

// validateCreateInput validates the create trip input.
func (s *Service) validateCreateInput(input *CreateTripInput) []FieldError {
	var errs []FieldError

	if input.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "is required"})
	} else if len(input.Name) > MaxNameLength {
		errs = append(errs, FieldError{Field: "name", Message: "must be at most 120 characters"})
	}

	if input.Destination.Name == "" {
		errs = append(errs, FieldError{Field: "destination.name", Message: "is required"})
	}
	errs = append(errs, validateCoordinates(input.Destination.Lat, input.Destination.Lon, "destination")...)

	errs = append(errs, validateDate(input.StartDate, "startDate", true)...)
	errs = append(errs, validateDate(input.EndDate, "endDate", true)...)

	if validDate(input.StartDate) && validDate(input.EndDate) && input.StartDate > input.EndDate {
		errs = append(errs, FieldError{Field: "endDate", Message: "must not be before startDate"})
	}

	return errs
}

// validateUpdateInput validates the update trip input against the trip it
// will be applied to, so a partial date update cannot invert the range.
func (s *Service) validateUpdateInput(trip *Trip, input *UpdateTripInput) []FieldError {
	var errs []FieldError

	if input.Name != nil {
		if *input.Name == "" {
			errs = append(errs, FieldError{Field: "name", Message: "cannot be empty"})
		} else if len(*input.Name) > MaxNameLength {
			errs = append(errs, FieldError{Field: "name", Message: "must be at most 120 characters"})
		}
	}

	if input.Destination != nil {
		if input.Destination.Name == "" {
			errs = append(errs, FieldError{Field: "destination.name", Message: "cannot be empty"})
		}
		errs = append(errs, validateCoordinates(input.Destination.Lat, input.Destination.Lon, "destination")...)
	}

	start := trip.StartDate
	if input.StartDate != nil {
		errs = append(errs, validateDate(*input.StartDate, "startDate", true)...)
		start = *input.StartDate
	}

	end := trip.EndDate
	if input.EndDate != nil {
		errs = append(errs, validateDate(*input.EndDate, "endDate", true)...)
		end = *input.EndDate
	}

	if validDate(start) && validDate(end) && start > end {
		errs = append(errs, FieldError{Field: "endDate", Message: "must not be before startDate"})
	}

	return errs
}

// validateItemInput validates an itinerary item input. The prefix is
// prepended to field names when validating a batch.
func (s *Service) validateItemInput(input *ItemInput, prefix string) []FieldError {
	field := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + "." + name
	}

	var errs []FieldError

	if !input.Type.Valid() {
		errs = append(errs, FieldError{Field: field("type"), Message: "must be one of flight, hotel, transport, activity, restaurant, other"})
	}

	errs = append(errs, validateDate(input.Date, field("date"), true)...)

	if input.StartTime != "" && !timeHHMMRegex.MatchString(input.StartTime) {
		errs = append(errs, FieldError{Field: field("startTime"), Message: "must be in HH:mm format"})
	}
	if input.EndTime != nil && *input.EndTime != "" && !timeHHMMRegex.MatchString(*input.EndTime) {
		errs = append(errs, FieldError{Field: field("endTime"), Message: "must be in HH:mm format"})
	}

	if input.Title == "" {
		errs = append(errs, FieldError{Field: field("title"), Message: "is required"})
	} else if len(input.Title) > MaxTitleLength {
		errs = append(errs, FieldError{Field: field("title"), Message: "must be at most 200 characters"})
	}

	if len(input.Notes) > MaxNotesLength {
		errs = append(errs, FieldError{Field: field("notes"), Message: "must be at most 2000 characters"})
	}

	if input.Location != (Geo{}) {
		errs = append(errs, validateCoordinates(input.Location.Lat, input.Location.Lon, field("location"))...)
	}

	return errs
}

// validateDate validates a YYYY-MM-DD calendar date.
func validateDate(date, field string, required bool) []FieldError {
	if date == "" {
		if required {
			return []FieldError{{Field: field, Message: "is required"}}
		}
		return nil
	}
	if !validDate(date) {
		return []FieldError{{Field: field, Message: "must be a valid date in YYYY-MM-DD format"}}
	}
	return nil
}

func validDate(date string) bool {
	_, err := time.Parse(dateLayout, date)
	return err == nil
}

// validateCoordinates validates a latitude/longitude pair.
func validateCoordinates(lat, lon float64, prefix string) []FieldError {
	var errs []FieldError

	if lat < -90 || lat > 90 {
		errs = append(errs, FieldError{
			Field:   prefix + ".lat",
			Message: "must be between -90 and 90",
		})
	}

	if lon < -180 || lon > 180 {
		errs = append(errs, FieldError{
			Field:   prefix + ".lon",
			Message: "must be between -180 and 180",
		})
	}

	return errs
}

// IsNotFound reports whether the error is a trip or item lookup miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTripNotFound) || errors.Is(err, ErrItemNotFound)
}
