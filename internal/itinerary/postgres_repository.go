package itinerary

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

// NewPostgresRepository creates a new PostgreSQL itinerary repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetTrip retrieves a trip by ID.
func (r *PostgresRepository) GetTrip(ctx context.Context, tripID string) (*Trip, error) {
	query := `
		SELECT id, user_id, name, start_date, end_date, created_at, updated_at
		FROM trips
		WHERE id = $1
	`

	var trip Trip
	err := r.pool.QueryRow(ctx, query, tripID).Scan(
		&trip.ID,
		&trip.UserID,
		&trip.Name,
		&trip.StartDate,
		&trip.EndDate,
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

// ListSegments retrieves all segments for a trip ordered by position.
func (r *PostgresRepository) ListSegments(ctx context.Context, tripID string) ([]Segment, error) {
	query := `
		SELECT
			id, trip_id, name, start_location, end_location,
			start_date, end_date, position, segment_type,
			created_at, updated_at
		FROM segments
		WHERE trip_id = $1
		ORDER BY position ASC
	`

	rows, err := r.pool.Query(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var segments []Segment
	for rows.Next() {
		var s Segment
		err := rows.Scan(
			&s.ID,
			&s.TripID,
			&s.Name,
			&s.StartLocation,
			&s.EndLocation,
			&s.StartDate,
			&s.EndDate,
			&s.Order,
			&s.Type,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		segments = append(segments, s)
	}

	return segments, rows.Err()
}

// ListReservations retrieves all reservations for a trip.
func (r *PostgresRepository) ListReservations(ctx context.Context, tripID string) ([]Reservation, error) {
	query := `
		SELECT
			id, trip_id, segment_id, name, vendor,
			start_time, end_time, location_lat, location_lon,
			created_at, updated_at
		FROM reservations
		WHERE trip_id = $1
		ORDER BY start_time ASC NULLS LAST
	`

	rows, err := r.pool.Query(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []Reservation
	for rows.Next() {
		var res Reservation
		var lat, lon *float64
		err := rows.Scan(
			&res.ID,
			&res.TripID,
			&res.SegmentID,
			&res.Name,
			&res.Vendor,
			&res.StartTime,
			&res.EndTime,
			&lat,
			&lon,
			&res.CreatedAt,
			&res.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if lat != nil && lon != nil {
			res.Location = &Point{Lat: *lat, Lon: *lon}
		}
		reservations = append(reservations, res)
	}

	return reservations, rows.Err()
}

// CreateSegment creates a new segment.
func (r *PostgresRepository) CreateSegment(ctx context.Context, segment *Segment) error {
	query := `
		INSERT INTO segments (
			id, trip_id, name, start_location, end_location,
			start_date, end_date, position, segment_type,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		segment.ID,
		segment.TripID,
		segment.Name,
		segment.StartLocation,
		segment.EndLocation,
		segment.StartDate,
		segment.EndDate,
		segment.Order,
		segment.Type,
		segment.CreatedAt,
		segment.UpdatedAt,
	)
	return err
}

// CreateReservation creates a new reservation.
func (r *PostgresRepository) CreateReservation(ctx context.Context, reservation *Reservation) error {
	query := `
		INSERT INTO reservations (
			id, trip_id, segment_id, name, vendor,
			start_time, end_time, location_lat, location_lon,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var lat, lon *float64
	if reservation.Location != nil {
		lat = &reservation.Location.Lat
		lon = &reservation.Location.Lon
	}

	_, err := r.pool.Exec(ctx, query,
		reservation.ID,
		reservation.TripID,
		reservation.SegmentID,
		reservation.Name,
		reservation.Vendor,
		reservation.StartTime,
		reservation.EndTime,
		lat,
		lon,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	)
	return err
}

// UpdateTripDates moves a trip's start and end dates.
func (r *PostgresRepository) UpdateTripDates(ctx context.Context, tripID string, start, end time.Time) error {
	query := `
		UPDATE trips
		SET start_date = $2, end_date = $3, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, tripID, start, end)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTripNotFound
	}
	return nil
}
