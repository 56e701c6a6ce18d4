// AngelaMos | 2026
// service.go

package tour

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrInactive marks a tour that exists but is closed for booking.
	ErrInactive = errors.New("tour is not active")
	// ErrHasBookings blocks hard deletion of a tour that bookings still
	// reference; such tours can only be deactivated.
	ErrHasBookings = errors.New("tour has existing bookings")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	req CreateTourRequest,
) (*TourWithOccupancy, error) {
	tour := &Tour{
		ID:           uuid.New().String(),
		Title:        req.Title,
		Description:  req.Description,
		Destination:  req.Destination,
		ImageURL:     req.ImageURL,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		MaxCapacity:  req.MaxCapacity,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, tour); err != nil {
		return nil, err
	}

	return &TourWithOccupancy{Tour: *tour}, nil
}

func (s *Service) Get(
	ctx context.Context,
	id string,
) (*TourWithOccupancy, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns tours newest first. Non-admin callers only ever see
// active tours; admins see everything unless they ask for the active
// subset explicitly.
func (s *Service) List(
	ctx context.Context,
	isAdmin, activeOnly bool,
) ([]TourWithOccupancy, error) {
	onlyActive := !isAdmin || activeOnly
	return s.repo.List(ctx, onlyActive)
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateTourRequest,
) (*TourWithOccupancy, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tour := existing.Tour

	if req.Title != nil {
		tour.Title = *req.Title
	}
	if req.Description != nil {
		tour.Description = *req.Description
	}
	if req.Destination != nil {
		tour.Destination = *req.Destination
	}
	if req.ImageURL != nil {
		tour.ImageURL = req.ImageURL
	}
	if req.Price != nil {
		tour.Price = *req.Price
	}
	if req.DurationDays != nil {
		tour.DurationDays = *req.DurationDays
	}
	if req.MaxCapacity != nil {
		tour.MaxCapacity = *req.MaxCapacity
	}
	if req.StartDate != nil {
		tour.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		tour.EndDate = *req.EndDate
	}
	if req.IsActive != nil {
		tour.IsActive = *req.IsActive
	}

	if tour.EndDate.Before(tour.StartDate) {
		return nil, fmt.Errorf(
			"update tour: end date before start date: %w",
			errInvalidDates,
		)
	}

	if err := s.repo.Update(ctx, &tour); err != nil {
		return nil, err
	}

	existing.Tour = tour
	return existing, nil
}

var errInvalidDates = errors.New("invalid date range")

// ToggleActive flips a tour between bookable and deactivated. This is
// the supported way to retire a tour that has bookings.
func (s *Service) ToggleActive(
	ctx context.Context,
	id string,
) (*TourWithOccupancy, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tour := existing.Tour
	tour.IsActive = !tour.IsActive

	if err := s.repo.Update(ctx, &tour); err != nil {
		return nil, err
	}

	existing.Tour = tour
	return existing, nil
}

// Delete hard-deletes a tour, but only if no booking references it.
// Tours with booking history must be deactivated instead so the
// bookings keep a valid reference.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountBookings(ctx, id)
	if err != nil {
		return err
	}

	if count > 0 {
		return fmt.Errorf("delete tour: %w", ErrHasBookings)
	}

	return s.repo.Delete(ctx, id)
}

func IsInvalidDates(err error) bool {
	return errors.Is(err, errInvalidDates)
}
