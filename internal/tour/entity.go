// AngelaMos | 2026
// entity.go

package tour

import (
	"time"
)

type Tour struct {
	ID           string    `db:"id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	Destination  string    `db:"destination"`
	ImageURL     *string   `db:"image_url"`
	Price        float64   `db:"price"`
	DurationDays int       `db:"duration_days"`
	MaxCapacity  int       `db:"max_capacity"`
	StartDate    time.Time `db:"start_date"`
	EndDate      time.Time `db:"end_date"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// TourWithOccupancy carries a tour plus the seat accounting derived from
// its bookings at read time. BookedPeople sums number_of_people over
// pending and confirmed bookings only; cancelled and completed bookings
// release their seats.
type TourWithOccupancy struct {
	Tour
	BookedPeople   int `db:"booked_people"`
	ActiveBookings int `db:"active_bookings"`
}

// AvailableSpots reports the remaining bookable capacity, clamped at
// zero. The raw difference can go negative if a tour was overbooked
// before the capacity check became transactional; callers must never
// see a negative count.
func (t *TourWithOccupancy) AvailableSpots() int {
	spots := t.MaxCapacity - t.BookedPeople
	if spots < 0 {
		return 0
	}
	return spots
}
