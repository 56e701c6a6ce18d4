// AngelaMos | 2026
// repository.go

package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/greenpath/bookings-api/internal/core"
	"github.com/greenpath/bookings-api/internal/tour"
)

const detailColumns = `
	b.id, b.tour_id, b.user_id, b.number_of_people, b.total_price, b.status,
	b.payment_id, b.payment_status, b.payment_method, b.created_at, b.updated_at,
	t.title AS tour_title, t.destination AS tour_destination,
	t.start_date AS tour_start_date, t.price AS tour_price,
	u.email AS user_email, u.first_name AS user_first_name,
	u.last_name AS user_last_name`

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Detail, error)
	// ListAll and ListByUser return bookings newest first.
	ListAll(ctx context.Context) ([]Detail, error)
	ListByUser(ctx context.Context, userID string) ([]Detail, error)
	UpdateQuantity(
		ctx context.Context,
		id string,
		numberOfPeople int,
	) (*Booking, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository takes the full pool rather than core.DBTX because the
// capacity-sensitive writes open their own transactions.
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

type tourRow struct {
	ID          string  `db:"id"`
	Price       float64 `db:"price"`
	MaxCapacity int     `db:"max_capacity"`
	IsActive    bool    `db:"is_active"`
}

// lockTour takes a row lock on the tour so that the capacity check and
// the write it guards are atomic against concurrent bookings.
func lockTour(
	ctx context.Context,
	tx *sqlx.Tx,
	tourID string,
) (*tourRow, error) {
	query := `
		SELECT id, price, max_capacity, is_active
		FROM tours
		WHERE id = $1
		FOR UPDATE`

	var t tourRow
	err := tx.GetContext(ctx, &t, query, tourID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lock tour: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock tour: %w", err)
	}

	return &t, nil
}

func bookedPeople(
	ctx context.Context,
	tx *sqlx.Tx,
	tourID, excludeBookingID string,
) (int, error) {
	query := `
		SELECT COALESCE(SUM(number_of_people), 0)
		FROM bookings
		WHERE tour_id = $1
			AND status IN ('pending', 'confirmed')
			AND ($2 = '' OR id::text <> $2)`

	var booked int
	err := tx.GetContext(ctx, &booked, query, tourID, excludeBookingID)
	if err != nil {
		return 0, fmt.Errorf("sum booked people: %w", err)
	}

	return booked, nil
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		t, err := lockTour(ctx, tx, booking.TourID)
		if err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		if !t.IsActive {
			return fmt.Errorf("create booking: %w", tour.ErrInactive)
		}

		booked, err := bookedPeople(ctx, tx, booking.TourID, "")
		if err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		if booking.NumberOfPeople > t.MaxCapacity-booked {
			return fmt.Errorf("create booking: %w", ErrCapacityExceeded)
		}

		// Payment state is judged last: the tour has to exist, be
		// active, and have room before a confirmation is looked at.
		if booking.PaymentStatus != nil &&
			*booking.PaymentStatus != PaymentStatusCompleted {
			return fmt.Errorf("create booking: %w", ErrPaymentIncomplete)
		}

		booking.TotalPrice = t.Price * float64(booking.NumberOfPeople)

		query := `
			INSERT INTO bookings (
				id, tour_id, user_id, number_of_people, total_price, status,
				payment_id, payment_status, payment_method
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9
			)
			RETURNING created_at, updated_at`

		err = tx.GetContext(ctx, booking, query,
			booking.ID,
			booking.TourID,
			booking.UserID,
			booking.NumberOfPeople,
			booking.TotalPrice,
			booking.Status,
			booking.PaymentID,
			booking.PaymentStatus,
			booking.PaymentMethod,
		)
		if err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id string) (*Detail, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings b
		JOIN tours t ON t.id = b.tour_id
		JOIN users u ON u.id = b.user_id
		WHERE b.id = $1`, detailColumns)

	var detail Detail
	err := r.db.GetContext(ctx, &detail, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get booking: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	return &detail, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Detail, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings b
		JOIN tours t ON t.id = b.tour_id
		JOIN users u ON u.id = b.user_id
		ORDER BY b.created_at DESC`, detailColumns)

	var details []Detail
	if err := r.db.SelectContext(ctx, &details, query); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return details, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
) ([]Detail, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings b
		JOIN tours t ON t.id = b.tour_id
		JOIN users u ON u.id = b.user_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC`, detailColumns)

	var details []Detail
	if err := r.db.SelectContext(ctx, &details, query, userID); err != nil {
		return nil, fmt.Errorf("list bookings by user: %w", err)
	}

	return details, nil
}

func (r *repository) UpdateQuantity(
	ctx context.Context,
	id string,
	numberOfPeople int,
) (*Booking, error) {
	var updated Booking

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var current Booking
		getQuery := `
			SELECT id, tour_id, user_id, number_of_people, total_price, status,
			       payment_id, payment_status, payment_method,
			       created_at, updated_at
			FROM bookings
			WHERE id = $1`

		err := tx.GetContext(ctx, &current, getQuery, id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update booking quantity: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("update booking quantity: %w", err)
		}

		t, err := lockTour(ctx, tx, current.TourID)
		if err != nil {
			return fmt.Errorf("update booking quantity: %w", err)
		}

		// Capacity is rechecked with this booking's own seats excluded,
		// so shrinking or keeping the quantity never self-collides.
		booked, err := bookedPeople(ctx, tx, current.TourID, id)
		if err != nil {
			return fmt.Errorf("update booking quantity: %w", err)
		}

		if numberOfPeople > t.MaxCapacity-booked {
			return fmt.Errorf(
				"update booking quantity: %w",
				ErrCapacityExceeded,
			)
		}

		updateQuery := `
			UPDATE bookings
			SET number_of_people = $2, total_price = $3, updated_at = NOW()
			WHERE id = $1
			RETURNING id, tour_id, user_id, number_of_people, total_price,
			          status, payment_id, payment_status, payment_method,
			          created_at, updated_at`

		err = tx.GetContext(ctx, &updated, updateQuery,
			id,
			numberOfPeople,
			t.Price*float64(numberOfPeople),
		)
		if err != nil {
			return fmt.Errorf("update booking quantity: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id string,
	status Status,
) error {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update booking status: %w", core.ErrNotFound)
	}

	return nil
}
