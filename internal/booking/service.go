// AngelaMos | 2026
// service.go

package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/greenpath/bookings-api/internal/core"
)

var (
	// ErrCapacityExceeded means the requested seats do not fit in what
	// the tour has left. The booking is not recorded.
	ErrCapacityExceeded = errors.New("not enough spots available")
	// ErrPaymentIncomplete rejects a payment confirmation whose status
	// is anything other than a completed capture. It is raised inside
	// the create transaction, after the tour checks.
	ErrPaymentIncomplete = errors.New("payment is not completed")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create books seats on a tour for the given user. With no payment
// attached the booking starts out pending; a completed payment
// confirmation moves it straight to confirmed. A payment in any other
// state fails the whole request, but only after the tour and its
// capacity have been checked, so a bad tour never reports as a
// payment problem.
func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateBookingRequest,
) (*Booking, error) {
	booking := &Booking{
		ID:             uuid.New().String(),
		TourID:         req.TourID,
		UserID:         userID,
		NumberOfPeople: req.NumberOfPeople,
		Status:         StatusPending,
	}

	if req.Payment != nil {
		booking.PaymentID = &req.Payment.PaymentID
		booking.PaymentStatus = &req.Payment.PaymentStatus
		booking.PaymentMethod = &req.Payment.PaymentMethod
		if req.Payment.PaymentStatus == PaymentStatusCompleted {
			booking.Status = StatusConfirmed
		}
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// List returns every booking for admins and only the caller's own
// bookings otherwise, newest first.
func (s *Service) List(
	ctx context.Context,
	userID string,
	isAdmin bool,
) ([]Detail, error) {
	if isAdmin {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByUser(ctx, userID)
}

// Get fetches a single booking. Non-admins can only reach their own;
// anyone else's booking reads as not found rather than forbidden so
// booking IDs leak nothing.
func (s *Service) Get(
	ctx context.Context,
	id, userID string,
	isAdmin bool,
) (*Detail, error) {
	detail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && detail.UserID != userID {
		return nil, fmt.Errorf("get booking: %w", core.ErrNotFound)
	}

	return detail, nil
}

// UpdateQuantity changes how many seats a booking holds, rechecking
// the tour's remaining capacity with this booking's current seats
// excluded from the count.
func (s *Service) UpdateQuantity(
	ctx context.Context,
	id, userID string,
	isAdmin bool,
	numberOfPeople int,
) (*Booking, error) {
	if _, err := s.Get(ctx, id, userID, isAdmin); err != nil {
		return nil, err
	}

	return s.repo.UpdateQuantity(ctx, id, numberOfPeople)
}

// UpdateStatus is the admin lever over the booking lifecycle; any
// transition between valid statuses is allowed.
func (s *Service) UpdateStatus(
	ctx context.Context,
	id string,
	status Status,
) (*Detail, error) {
	if !status.Valid() {
		return nil, fmt.Errorf(
			"update booking status: %q: %w",
			status,
			core.ErrInvalidInput,
		)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// Cancel soft-cancels a booking, releasing its seats while keeping the
// record for history. Bookings are never hard-deleted.
func (s *Service) Cancel(
	ctx context.Context,
	id, userID string,
	isAdmin bool,
) error {
	if _, err := s.Get(ctx, id, userID, isAdmin); err != nil {
		return err
	}

	return s.repo.UpdateStatus(ctx, id, StatusCancelled)
}
