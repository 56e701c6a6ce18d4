// AngelaMos | 2026
// repository.go

package tour

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/greenpath/bookings-api/internal/core"
)

const occupancyColumns = `
	t.id, t.title, t.description, t.destination, t.image_url, t.price,
	t.duration_days, t.max_capacity, t.start_date, t.end_date, t.is_active,
	t.created_at, t.updated_at,
	COALESCE(SUM(b.number_of_people)
		FILTER (WHERE b.status IN ('pending', 'confirmed')), 0) AS booked_people,
	COUNT(b.id)
		FILTER (WHERE b.status IN ('pending', 'confirmed')) AS active_bookings`

type Repository interface {
	Create(ctx context.Context, tour *Tour) error
	GetByID(ctx context.Context, id string) (*TourWithOccupancy, error)
	List(ctx context.Context, onlyActive bool) ([]TourWithOccupancy, error)
	Update(ctx context.Context, tour *Tour) error
	Delete(ctx context.Context, id string) error
	CountBookings(ctx context.Context, tourID string) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tour *Tour) error {
	query := `
		INSERT INTO tours (
			id, title, description, destination, image_url, price,
			duration_days, max_capacity, start_date, end_date, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, tour, query,
		tour.ID,
		tour.Title,
		tour.Description,
		tour.Destination,
		tour.ImageURL,
		tour.Price,
		tour.DurationDays,
		tour.MaxCapacity,
		tour.StartDate,
		tour.EndDate,
		tour.IsActive,
	)
	if err != nil {
		return fmt.Errorf("create tour: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*TourWithOccupancy, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tours t
		LEFT JOIN bookings b ON b.tour_id = t.id
		WHERE t.id = $1
		GROUP BY t.id`, occupancyColumns)

	var tour TourWithOccupancy
	err := r.db.GetContext(ctx, &tour, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tour: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tour: %w", err)
	}

	return &tour, nil
}

func (r *repository) List(
	ctx context.Context,
	onlyActive bool,
) ([]TourWithOccupancy, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tours t
		LEFT JOIN bookings b ON b.tour_id = t.id
		%s
		GROUP BY t.id
		ORDER BY t.created_at DESC`, occupancyColumns, listFilter(onlyActive))

	var tours []TourWithOccupancy
	if err := r.db.SelectContext(ctx, &tours, query); err != nil {
		return nil, fmt.Errorf("list tours: %w", err)
	}

	return tours, nil
}

func listFilter(onlyActive bool) string {
	if onlyActive {
		return "WHERE t.is_active = true"
	}
	return ""
}

func (r *repository) Update(ctx context.Context, tour *Tour) error {
	query := `
		UPDATE tours
		SET title = $2, description = $3, destination = $4, image_url = $5,
		    price = $6, duration_days = $7, max_capacity = $8,
		    start_date = $9, end_date = $10, is_active = $11,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &tour.UpdatedAt, query,
		tour.ID,
		tour.Title,
		tour.Description,
		tour.Destination,
		tour.ImageURL,
		tour.Price,
		tour.DurationDays,
		tour.MaxCapacity,
		tour.StartDate,
		tour.EndDate,
		tour.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update tour: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update tour: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tours WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete tour: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete tour: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete tour: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CountBookings(
	ctx context.Context,
	tourID string,
) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE tour_id = $1`

	var count int
	if err := r.db.GetContext(ctx, &count, query, tourID); err != nil {
		return 0, fmt.Errorf("count tour bookings: %w", err)
	}

	return count, nil
}
