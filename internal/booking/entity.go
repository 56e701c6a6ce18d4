// AngelaMos | 2026
// entity.go

package booking

import (
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// ConsumesCapacity reports whether a booking in this status holds seats
// on its tour. Cancelled and completed bookings release them.
func (s Status) ConsumesCapacity() bool {
	return s == StatusPending || s == StatusConfirmed
}

// PaymentStatusCompleted is the status the checkout layer reports for a
// captured payment. Anything else on an attached confirmation rejects
// the booking.
const PaymentStatusCompleted = "COMPLETED"

type Booking struct {
	ID             string    `db:"id"`
	TourID         string    `db:"tour_id"`
	UserID         string    `db:"user_id"`
	NumberOfPeople int       `db:"number_of_people"`
	TotalPrice     float64   `db:"total_price"`
	Status         Status    `db:"status"`
	PaymentID      *string   `db:"payment_id"`
	PaymentStatus  *string   `db:"payment_status"`
	PaymentMethod  *string   `db:"payment_method"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Detail is a booking joined with the tour and traveller summaries the
// presentation layer shows alongside it.
type Detail struct {
	Booking
	TourTitle       string    `db:"tour_title"`
	TourDestination string    `db:"tour_destination"`
	TourStartDate   time.Time `db:"tour_start_date"`
	TourPrice       float64   `db:"tour_price"`
	UserEmail       string    `db:"user_email"`
	UserFirstName   string    `db:"user_first_name"`
	UserLastName    string    `db:"user_last_name"`
}
