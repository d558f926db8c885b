// Package store persists reconciled vacations to Postgres — the durable
// "vacation list" the pipeline's results merge into. Only SQL and type
// mapping live here; no business logic.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ekaravadi/roam/client/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows
// integration tests to pass a transaction that is rolled back after each
// test, giving free per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// VacationStore defines the persistence operations for vacations.
// The pipeline depends on this interface, not the Postgres implementation,
// so it can be unit-tested with a mock.
type VacationStore interface {
	// Save inserts a vacation and its full location/activity/photo graph in
	// one transaction. The vacation's IDs are client-side (reconciler-
	// assigned) and stored as-is.
	Save(ctx context.Context, v domain.Vacation) error

	// GetByID retrieves a vacation with its full graph.
	// Returns domain.ErrNotFound if no vacation with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Vacation, error)

	// List returns all vacations ordered by start_date descending, without
	// their location graphs (the map overview only needs titles and dates).
	List(ctx context.Context) ([]domain.Vacation, error)

	// Delete removes a vacation and, via cascade, its locations, activities,
	// and photos. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgVacationStore is the Postgres implementation of VacationStore.
type pgVacationStore struct {
	db db
}

// NewVacationStore constructs a VacationStore backed by the provided db.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback
// isolation (nested transactions become savepoints).
func NewVacationStore(db db) VacationStore {
	return &pgVacationStore{db: db}
}

// Save writes the whole vacation graph transactionally: either the vacation
// and every location, activity, and photo land together, or nothing does.
func (s *pgVacationStore) Save(ctx context.Context, v domain.Vacation) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("store.VacationStore.Save: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	const insertVacation = `
		INSERT INTO vacations (id, title, start_date, end_date, ai_itinerary, owner_id, owner_name, owner_color)
		VALUES (@id, @title, @start_date, @end_date, @ai_itinerary, @owner_id, @owner_name, @owner_color)`

	args := pgx.NamedArgs{
		"id":           v.ID,
		"title":        v.Title,
		"start_date":   v.StartDate, // nil becomes NULL
		"end_date":     v.EndDate,
		"ai_itinerary": v.AIItinerary,
		"owner_id":     nil,
		"owner_name":   nil,
		"owner_color":  nil,
	}
	if v.Owner != nil {
		args["owner_id"] = v.Owner.ID
		args["owner_name"] = v.Owner.Name
		args["owner_color"] = v.Owner.Color
	}
	if _, err := tx.Exec(ctx, insertVacation, args); err != nil {
		return fmt.Errorf("store.VacationStore.Save: vacation: %w", err)
	}

	const insertLocation = `
		INSERT INTO locations (id, vacation_id, name, latitude, longitude, visit_date)
		VALUES (@id, @vacation_id, @name, @latitude, @longitude, @visit_date)`
	const insertActivity = `
		INSERT INTO activities (id, location_id, title, description, time, ai_generated)
		VALUES (@id, @location_id, @title, @description, @time, @ai_generated)`
	const insertPhoto = `
		INSERT INTO photos (id, location_id, image_url, thumbnail_url, capture_date, latitude, longitude)
		VALUES (@id, @location_id, @image_url, @thumbnail_url, @capture_date, @latitude, @longitude)`

	for _, loc := range v.Locations {
		_, err := tx.Exec(ctx, insertLocation, pgx.NamedArgs{
			"id":          loc.ID,
			"vacation_id": v.ID,
			"name":        loc.Name,
			"latitude":    loc.Coordinate.Latitude,
			"longitude":   loc.Coordinate.Longitude,
			"visit_date":  loc.VisitDate,
		})
		if err != nil {
			return fmt.Errorf("store.VacationStore.Save: location: %w", err)
		}

		for _, act := range loc.Activities {
			_, err := tx.Exec(ctx, insertActivity, pgx.NamedArgs{
				"id":           act.ID,
				"location_id":  loc.ID,
				"title":        act.Title,
				"description":  act.Description,
				"time":         act.Time,
				"ai_generated": act.AIGenerated,
			})
			if err != nil {
				return fmt.Errorf("store.VacationStore.Save: activity: %w", err)
			}
		}

		for _, photo := range loc.Photos {
			args := pgx.NamedArgs{
				"id":            photo.ID,
				"location_id":   loc.ID,
				"image_url":     photo.ImageURL,
				"thumbnail_url": photo.ThumbnailURL,
				"capture_date":  photo.CaptureDate,
				"latitude":      nil,
				"longitude":     nil,
			}
			if photo.Coordinate != nil {
				args["latitude"] = photo.Coordinate.Latitude
				args["longitude"] = photo.Coordinate.Longitude
			}
			if _, err := tx.Exec(ctx, insertPhoto, args); err != nil {
				return fmt.Errorf("store.VacationStore.Save: photo: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("store.VacationStore.Save: commit: %w", err)
	}
	return nil
}

// GetByID retrieves a vacation and rebuilds its full graph.
func (s *pgVacationStore) GetByID(ctx context.Context, id uuid.UUID) (domain.Vacation, error) {
	const q = `
		SELECT id, title, start_date, end_date, ai_itinerary, owner_id, owner_name, owner_color
		FROM vacations
		WHERE id = @id`

	row := s.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	v, err := scanVacation(row)
	if err != nil {
		return domain.Vacation{}, fmt.Errorf("store.VacationStore.GetByID: %w", err)
	}

	locations, err := s.locationsByVacation(ctx, v.ID)
	if err != nil {
		return domain.Vacation{}, fmt.Errorf("store.VacationStore.GetByID: %w", err)
	}
	v.Locations = locations

	return v, nil
}

// List returns all vacations, most recent start date first. NULL start
// dates sort last — undated vacations sit at the bottom of the list.
func (s *pgVacationStore) List(ctx context.Context) ([]domain.Vacation, error) {
	const q = `
		SELECT id, title, start_date, end_date, ai_itinerary, owner_id, owner_name, owner_color
		FROM vacations
		ORDER BY start_date DESC NULLS LAST`

	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("store.VacationStore.List: %w", err)
	}
	defer rows.Close()

	var vacations []domain.Vacation
	for rows.Next() {
		v, err := scanVacation(rows)
		if err != nil {
			return nil, fmt.Errorf("store.VacationStore.List: scan: %w", err)
		}
		vacations = append(vacations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store.VacationStore.List: rows: %w", err)
	}

	return vacations, nil
}

// Delete removes a vacation by primary key; the schema cascades to its graph.
func (s *pgVacationStore) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM vacations WHERE id = @id`

	tag, err := s.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("store.VacationStore.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store.VacationStore.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// locationsByVacation loads the location rows for a vacation together with
// their activities and photos.
func (s *pgVacationStore) locationsByVacation(ctx context.Context, vacationID uuid.UUID) ([]domain.VacationLocation, error) {
	const q = `
		SELECT id, name, latitude, longitude, visit_date
		FROM locations
		WHERE vacation_id = @vacation_id
		ORDER BY visit_date ASC NULLS LAST, name ASC`

	rows, err := s.db.Query(ctx, q, pgx.NamedArgs{"vacation_id": vacationID})
	if err != nil {
		return nil, fmt.Errorf("locations: %w", err)
	}
	defer rows.Close()

	locations := []domain.VacationLocation{}
	for rows.Next() {
		var (
			loc       domain.VacationLocation
			id        pgtype.UUID
			visitDate pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &loc.Name, &loc.Coordinate.Latitude, &loc.Coordinate.Longitude, &visitDate); err != nil {
			return nil, fmt.Errorf("locations: scan: %w", err)
		}
		loc.ID = uuid.UUID(id.Bytes)
		if visitDate.Valid {
			vd := visitDate.Time
			loc.VisitDate = &vd
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("locations: rows: %w", err)
	}

	for i := range locations {
		if locations[i].Activities, err = s.activitiesByLocation(ctx, locations[i].ID); err != nil {
			return nil, err
		}
		if locations[i].Photos, err = s.photosByLocation(ctx, locations[i].ID); err != nil {
			return nil, err
		}
	}

	return locations, nil
}

func (s *pgVacationStore) activitiesByLocation(ctx context.Context, locationID uuid.UUID) ([]domain.Activity, error) {
	const q = `
		SELECT id, title, description, time, ai_generated
		FROM activities
		WHERE location_id = @location_id
		ORDER BY time ASC NULLS LAST, title ASC`

	rows, err := s.db.Query(ctx, q, pgx.NamedArgs{"location_id": locationID})
	if err != nil {
		return nil, fmt.Errorf("activities: %w", err)
	}
	defer rows.Close()

	activities := []domain.Activity{}
	for rows.Next() {
		var (
			act domain.Activity
			id  pgtype.UUID
			at  pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &act.Title, &act.Description, &at, &act.AIGenerated); err != nil {
			return nil, fmt.Errorf("activities: scan: %w", err)
		}
		act.ID = uuid.UUID(id.Bytes)
		if at.Valid {
			t := at.Time
			act.Time = &t
		}
		activities = append(activities, act)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activities: rows: %w", err)
	}
	return activities, nil
}

func (s *pgVacationStore) photosByLocation(ctx context.Context, locationID uuid.UUID) ([]domain.Photo, error) {
	const q = `
		SELECT id, image_url, thumbnail_url, capture_date, latitude, longitude
		FROM photos
		WHERE location_id = @location_id
		ORDER BY capture_date ASC NULLS LAST`

	rows, err := s.db.Query(ctx, q, pgx.NamedArgs{"location_id": locationID})
	if err != nil {
		return nil, fmt.Errorf("photos: %w", err)
	}
	defer rows.Close()

	photos := []domain.Photo{}
	for rows.Next() {
		var (
			photo    domain.Photo
			id       pgtype.UUID
			captured pgtype.Timestamptz
			lat, lon pgtype.Float8
		)
		if err := rows.Scan(&id, &photo.ImageURL, &photo.ThumbnailURL, &captured, &lat, &lon); err != nil {
			return nil, fmt.Errorf("photos: scan: %w", err)
		}
		photo.ID = uuid.UUID(id.Bytes)
		if captured.Valid {
			t := captured.Time
			photo.CaptureDate = &t
		}
		if lat.Valid && lon.Valid {
			photo.Coordinate = &domain.Coordinate{Latitude: lat.Float64, Longitude: lon.Float64}
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("photos: rows: %w", err)
	}
	return photos, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanVacation
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanVacation maps a vacation row into a domain.Vacation (without its
// location graph). It handles the UUID and nullable column conversions.
func scanVacation(s scanner) (domain.Vacation, error) {
	var (
		v          domain.Vacation
		id         pgtype.UUID
		start, end pgtype.Timestamptz
		ownerID    pgtype.UUID
		ownerName  pgtype.Text
		ownerColor pgtype.Text
	)

	err := s.Scan(&id, &v.Title, &start, &end, &v.AIItinerary, &ownerID, &ownerName, &ownerColor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Vacation{}, domain.ErrNotFound
		}
		return domain.Vacation{}, err
	}

	v.ID = uuid.UUID(id.Bytes)
	if start.Valid {
		t := start.Time
		v.StartDate = &t
	}
	if end.Valid {
		t := end.Time
		v.EndDate = &t
	}
	if ownerID.Valid {
		v.Owner = &domain.Owner{
			ID:    uuid.UUID(ownerID.Bytes),
			Name:  ownerName.String,
			Color: ownerColor.String,
		}
	}

	return v, nil
}
