package trip

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL trip repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const tripColumns = `
	id, user_id, name,
	destination_name, destination_lat, destination_lon,
	start_date, end_date, cover_photo, share_token,
	created_at, updated_at
`

// Get retrieves a trip by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	return r.scanTrip(r.pool.QueryRow(ctx, query, id))
}

// GetByUserAndID retrieves a trip by user ID and trip ID.
func (r *PostgresRepository) GetByUserAndID(ctx context.Context, userID, tripID string) (*Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1 AND user_id = $2`
	return r.scanTrip(r.pool.QueryRow(ctx, query, tripID, userID))
}

// GetByShareToken retrieves a trip by its share token.
func (r *PostgresRepository) GetByShareToken(ctx context.Context, token string) (*Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE share_token = $1`
	return r.scanTrip(r.pool.QueryRow(ctx, query, token))
}

// scanTrip scans a trip from a query row.
func (r *PostgresRepository) scanTrip(row pgx.Row) (*Trip, error) {
	var trip Trip

	err := row.Scan(
		&trip.ID,
		&trip.UserID,
		&trip.Name,
		&trip.Destination.Name,
		&trip.Destination.Lat,
		&trip.Destination.Lon,
		&trip.StartDate,
		&trip.EndDate,
		&trip.CoverPhoto,
		&trip.ShareToken,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	return &trip, nil
}

// List retrieves all trips for a user with pagination.
func (r *PostgresRepository) List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra to determine if there are more results
	fetchLimit := limit + 1

	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = $1
		ORDER BY start_date DESC, created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, fetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips, err := collectTrips(rows)
	if err != nil {
		return nil, err
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
func (r *PostgresRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]*Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE start_date >= $1 AND start_date <= $2
		ORDER BY start_date ASC
	`

	rows, err := r.pool.Query(ctx, query, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTrips(rows)
}

func collectTrips(rows pgx.Rows) ([]*Trip, error) {
	var trips []*Trip
	for rows.Next() {
		var trip Trip
		err := rows.Scan(
			&trip.ID,
			&trip.UserID,
			&trip.Name,
			&trip.Destination.Name,
			&trip.Destination.Lat,
			&trip.Destination.Lon,
			&trip.StartDate,
			&trip.EndDate,
			&trip.CoverPhoto,
			&trip.ShareToken,
			&trip.CreatedAt,
			&trip.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		trips = append(trips, &trip)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return trips, nil
}

// Create creates a new trip.
func (r *PostgresRepository) Create(ctx context.Context, trip *Trip) error {
	query := `
		INSERT INTO trips (
			id, user_id, name,
			destination_name, destination_lat, destination_lon,
			start_date, end_date, cover_photo, share_token,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		trip.ID,
		trip.UserID,
		trip.Name,
		trip.Destination.Name,
		trip.Destination.Lat,
		trip.Destination.Lon,
		trip.StartDate,
		trip.EndDate,
		trip.CoverPhoto,
		trip.ShareToken,
		trip.CreatedAt,
		trip.UpdatedAt,
	)
	return err
}

// Update updates an existing trip.
func (r *PostgresRepository) Update(ctx context.Context, trip *Trip) error {
	query := `
		UPDATE trips SET
			name = $2,
			destination_name = $3,
			destination_lat = $4,
			destination_lon = $5,
			start_date = $6,
			end_date = $7,
			cover_photo = $8,
			share_token = $9,
			updated_at = $10
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		trip.ID,
		trip.Name,
		trip.Destination.Name,
		trip.Destination.Lat,
		trip.Destination.Lon,
		trip.StartDate,
		trip.EndDate,
		trip.CoverPhoto,
		trip.ShareToken,
		trip.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrTripNotFound
	}

	return nil
}

// Delete deletes a trip and its itinerary items.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	// itinerary_items.trip_id has ON DELETE CASCADE
	query := `DELETE FROM trips WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

const itemColumns = `
	id, trip_id, type, date, start_time, end_time,
	title, details, location_lat, location_lon, notes,
	created_at, updated_at
`

// ListItems retrieves all itinerary items for a trip, ordered by date
// ascending then start time ascending.
func (r *PostgresRepository) ListItems(ctx context.Context, tripID string) ([]*ItineraryItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM itinerary_items
		WHERE trip_id = $1
		ORDER BY date ASC, start_time ASC, created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*ItineraryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// GetItem retrieves an itinerary item by trip ID and item ID.
func (r *PostgresRepository) GetItem(ctx context.Context, tripID, itemID string) (*ItineraryItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM itinerary_items
		WHERE id = $1 AND trip_id = $2
	`

	item, err := scanItem(r.pool.QueryRow(ctx, query, itemID, tripID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	return item, nil
}

// scanItem scans an itinerary item, decoding the details jsonb column into
// the variant matching the item type.
func scanItem(row pgx.Row) (*ItineraryItem, error) {
	var (
		item       ItineraryItem
		rawDetails []byte
	)

	err := row.Scan(
		&item.ID,
		&item.TripID,
		&item.Type,
		&item.Date,
		&item.StartTime,
		&item.EndTime,
		&item.Title,
		&rawDetails,
		&item.Location.Lat,
		&item.Location.Lon,
		&item.Notes,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Details, err = DecodeDetails(item.Type, rawDetails)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// CreateItems creates itinerary items in a single batch.
func (r *PostgresRepository) CreateItems(ctx context.Context, items []*ItineraryItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO itinerary_items (
			id, trip_id, type, date, start_time, end_time,
			title, details, location_lat, location_lon, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		details, err := EncodeDetails(item.Details)
		if err != nil {
			return err
		}
		batch.Queue(query,
			item.ID,
			item.TripID,
			item.Type,
			item.Date,
			item.StartTime,
			item.EndTime,
			item.Title,
			details,
			item.Location.Lat,
			item.Location.Lon,
			item.Notes,
			item.CreatedAt,
			item.UpdatedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range items {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return nil
}

// UpdateItem updates an existing itinerary item.
func (r *PostgresRepository) UpdateItem(ctx context.Context, item *ItineraryItem) error {
	details, err := EncodeDetails(item.Details)
	if err != nil {
		return err
	}

	query := `
		UPDATE itinerary_items SET
			type = $3,
			date = $4,
			start_time = $5,
			end_time = $6,
			title = $7,
			details = $8,
			location_lat = $9,
			location_lon = $10,
			notes = $11,
			updated_at = $12
		WHERE id = $1 AND trip_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		item.ID,
		item.TripID,
		item.Type,
		item.Date,
		item.StartTime,
		item.EndTime,
		item.Title,
		details,
		item.Location.Lat,
		item.Location.Lon,
		item.Notes,
		item.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

// DeleteItem deletes an itinerary item.
func (r *PostgresRepository) DeleteItem(ctx context.Context, tripID, itemID string) error {
	query := `DELETE FROM itinerary_items WHERE id = $1 AND trip_id = $2`
	_, err := r.pool.Exec(ctx, query, itemID, tripID)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
