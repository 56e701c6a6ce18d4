// AngelaMos | 2026
// analytics.go

package admin

import (
	"context"
	"fmt"

	"github.com/greenpath/bookings-api/internal/core"
)

// AnalyticsRepository aggregates booking activity for the admin
// dashboard. Revenue only counts bookings that were paid or delivered;
// pending and cancelled money is excluded.
type AnalyticsRepository interface {
	Summary(ctx context.Context) (*AnalyticsSummary, error)
}

type AnalyticsSummary struct {
	TotalRevenue    float64        `json:"total_revenue"`
	TotalBookings   int            `json:"total_bookings"`
	BookingsByState map[string]int `json:"bookings_by_status"`
	TotalUsers      int            `json:"total_users"`
	TotalTours      int            `json:"total_tours"`
	ActiveTours     int            `json:"active_tours"`
	Tours           []TourStats    `json:"tours"`
}

type TourStats struct {
	TourID         string  `json:"tour_id" db:"tour_id"`
	Title          string  `json:"title" db:"title"`
	Destination    string  `json:"destination" db:"destination"`
	MaxCapacity    int     `json:"max_capacity" db:"max_capacity"`
	BookedPeople   int     `json:"booked_people" db:"booked_people"`
	ActiveBookings int     `json:"active_bookings" db:"active_bookings"`
	Revenue        float64 `json:"revenue" db:"revenue"`
	OccupancyRate  float64 `json:"occupancy_rate" db:"-"`
}

type analyticsRepository struct {
	db core.DBTX
}

func NewAnalyticsRepository(db core.DBTX) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) Summary(
	ctx context.Context,
) (*AnalyticsSummary, error) {
	summary := &AnalyticsSummary{
		BookingsByState: make(map[string]int),
	}

	if err := r.loadTotals(ctx, summary); err != nil {
		return nil, err
	}
	if err := r.loadStatusCounts(ctx, summary); err != nil {
		return nil, err
	}
	if err := r.loadTourStats(ctx, summary); err != nil {
		return nil, err
	}

	return summary, nil
}

func (r *analyticsRepository) loadTotals(
	ctx context.Context,
	summary *AnalyticsSummary,
) error {
	query := `
		SELECT
			(SELECT COALESCE(SUM(total_price), 0)
			 FROM bookings
			 WHERE status IN ('confirmed', 'completed')) AS total_revenue,
			(SELECT COUNT(*) FROM bookings) AS total_bookings,
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL) AS total_users,
			(SELECT COUNT(*) FROM tours) AS total_tours,
			(SELECT COUNT(*) FROM tours WHERE is_active) AS active_tours`

	var row struct {
		TotalRevenue  float64 `db:"total_revenue"`
		TotalBookings int     `db:"total_bookings"`
		TotalUsers    int     `db:"total_users"`
		TotalTours    int     `db:"total_tours"`
		ActiveTours   int     `db:"active_tours"`
	}

	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return fmt.Errorf("analytics totals: %w", err)
	}

	summary.TotalRevenue = row.TotalRevenue
	summary.TotalBookings = row.TotalBookings
	summary.TotalUsers = row.TotalUsers
	summary.TotalTours = row.TotalTours
	summary.ActiveTours = row.ActiveTours

	return nil
}

func (r *analyticsRepository) loadStatusCounts(
	ctx context.Context,
	summary *AnalyticsSummary,
) error {
	query := `
		SELECT status, COUNT(*) AS count
		FROM bookings
		GROUP BY status`

	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return fmt.Errorf("analytics status counts: %w", err)
	}

	for _, row := range rows {
		summary.BookingsByState[row.Status] = row.Count
	}

	return nil
}

func (r *analyticsRepository) loadTourStats(
	ctx context.Context,
	summary *AnalyticsSummary,
) error {
	query := `
		SELECT
			t.id AS tour_id,
			t.title,
			t.destination,
			t.max_capacity,
			COALESCE(SUM(b.number_of_people) FILTER (
				WHERE b.status IN ('pending', 'confirmed')
			), 0) AS booked_people,
			COUNT(b.id) FILTER (
				WHERE b.status IN ('pending', 'confirmed')
			) AS active_bookings,
			COALESCE(SUM(b.total_price) FILTER (
				WHERE b.status IN ('confirmed', 'completed')
			), 0) AS revenue
		FROM tours t
		LEFT JOIN bookings b ON b.tour_id = t.id
		GROUP BY t.id
		ORDER BY revenue DESC, t.created_at DESC`

	var stats []TourStats
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return fmt.Errorf("analytics tour stats: %w", err)
	}

	for i := range stats {
		if stats[i].MaxCapacity > 0 {
			stats[i].OccupancyRate = float64(stats[i].BookedPeople) /
				float64(stats[i].MaxCapacity)
		}
	}

	summary.Tours = stats
	return nil
}
