// AngelaMos | 2026
// service_test.go

package tour

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/greenpath/bookings-api/internal/core"
)

type fakeRepository struct {
	tours        map[string]*TourWithOccupancy
	bookingCount map[string]int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		tours:        make(map[string]*TourWithOccupancy),
		bookingCount: make(map[string]int),
	}
}

func (f *fakeRepository) Create(ctx context.Context, tour *Tour) error {
	tour.CreatedAt = time.Now()
	tour.UpdatedAt = tour.CreatedAt
	f.tours[tour.ID] = &TourWithOccupancy{Tour: *tour}
	return nil
}

func (f *fakeRepository) GetByID(
	ctx context.Context,
	id string,
) (*TourWithOccupancy, error) {
	t, ok := f.tours[id]
	if !ok {
		return nil, fmt.Errorf("get tour: %w", core.ErrNotFound)
	}
	copied := *t
	return &copied, nil
}

func (f *fakeRepository) List(
	ctx context.Context,
	onlyActive bool,
) ([]TourWithOccupancy, error) {
	var tours []TourWithOccupancy
	for _, t := range f.tours {
		if onlyActive && !t.IsActive {
			continue
		}
		tours = append(tours, *t)
	}
	return tours, nil
}

func (f *fakeRepository) Update(ctx context.Context, tour *Tour) error {
	existing, ok := f.tours[tour.ID]
	if !ok {
		return fmt.Errorf("update tour: %w", core.ErrNotFound)
	}
	tour.UpdatedAt = time.Now()
	existing.Tour = *tour
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id string) error {
	if _, ok := f.tours[id]; !ok {
		return fmt.Errorf("delete tour: %w", core.ErrNotFound)
	}
	delete(f.tours, id)
	return nil
}

func (f *fakeRepository) CountBookings(
	ctx context.Context,
	tourID string,
) (int, error) {
	return f.bookingCount[tourID], nil
}

func seedTour(repo *fakeRepository, id string, active bool) {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	repo.tours[id] = &TourWithOccupancy{
		Tour: Tour{
			ID:           id,
			Title:        "Rainforest Trek",
			Description:  "Five days in the canopy",
			Destination:  "Costa Rica",
			Price:        899,
			DurationDays: 5,
			MaxCapacity:  12,
			StartDate:    start,
			EndDate:      start.AddDate(0, 0, 5),
			IsActive:     active,
		},
	}
}

func TestAvailableSpots_ClampedAtZero(t *testing.T) {
	tour := TourWithOccupancy{
		Tour:         Tour{MaxCapacity: 10},
		BookedPeople: 14,
	}

	if got := tour.AvailableSpots(); got != 0 {
		t.Errorf("expected available spots clamped to 0, got: %d", got)
	}

	tour.BookedPeople = 6
	if got := tour.AvailableSpots(); got != 4 {
		t.Errorf("expected 4 available spots, got: %d", got)
	}
}

func TestList_NonAdminOnlySeesActiveTours(t *testing.T) {
	repo := newFakeRepository()
	seedTour(repo, "tour-1", true)
	seedTour(repo, "tour-2", false)
	svc := NewService(repo)

	visible, err := svc.List(context.Background(), false, false)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != "tour-1" {
		t.Errorf("expected only the active tour, got: %d", len(visible))
	}

	all, err := svc.List(context.Background(), true, false)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected admin to see both tours, got: %d", len(all))
	}

	// An admin can still ask for the traveller view.
	active, err := svc.List(context.Background(), true, true)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("expected active subset for admin, got: %d", len(active))
	}
}

func TestCreate_StartsActive(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	tour, err := svc.Create(context.Background(), CreateTourRequest{
		Title:        "Fjord Kayaking",
		Description:  "Paddling the Norwegian coast",
		Destination:  "Norway",
		Price:        1200,
		DurationDays: 7,
		MaxCapacity:  8,
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !tour.IsActive {
		t.Error("expected new tour to start active")
	}
	if tour.ID == "" {
		t.Error("expected generated tour id")
	}
}

func TestUpdate_RejectsEndBeforeStart(t *testing.T) {
	repo := newFakeRepository()
	seedTour(repo, "tour-1", true)
	svc := NewService(repo)

	badEnd := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Update(context.Background(), "tour-1", UpdateTourRequest{
		EndDate: &badEnd,
	})
	if !IsInvalidDates(err) {
		t.Fatalf("expected invalid dates error, got: %v", err)
	}
}

func TestUpdate_MergesOnlyProvidedFields(t *testing.T) {
	repo := newFakeRepository()
	seedTour(repo, "tour-1", true)
	svc := NewService(repo)

	newPrice := 999.0
	updated, err := svc.Update(context.Background(), "tour-1", UpdateTourRequest{
		Price: &newPrice,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if updated.Price != 999 {
		t.Errorf("expected price 999, got: %v", updated.Price)
	}
	if updated.Title != "Rainforest Trek" {
		t.Errorf("expected title untouched, got: %s", updated.Title)
	}
}

func TestToggleActive_Flips(t *testing.T) {
	repo := newFakeRepository()
	seedTour(repo, "tour-1", true)
	svc := NewService(repo)

	tour, err := svc.ToggleActive(context.Background(), "tour-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if tour.IsActive {
		t.Error("expected tour deactivated")
	}

	tour, err = svc.ToggleActive(context.Background(), "tour-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !tour.IsActive {
		t.Error("expected tour reactivated")
	}
}

func TestDelete_BlockedWhileBookingsExist(t *testing.T) {
	repo := newFakeRepository()
	seedTour(repo, "tour-1", true)
	repo.bookingCount["tour-1"] = 3
	svc := NewService(repo)

	err := svc.Delete(context.Background(), "tour-1")
	if !errors.Is(err, ErrHasBookings) {
		t.Fatalf("expected ErrHasBookings, got: %v", err)
	}

	if _, ok := repo.tours["tour-1"]; !ok {
		t.Error("expected tour to survive blocked delete")
	}
}

func TestDelete_WithoutBookings(t *testing.T) {
	repo := newFakeRepository()
	seedTour(repo, "tour-1", true)
	svc := NewService(repo)

	if err := svc.Delete(context.Background(), "tour-1"); err != nil {
		t.Fatalf("expected delete to succeed, got: %v", err)
	}

	if _, ok := repo.tours["tour-1"]; ok {
		t.Error("expected tour removed")
	}
}

func TestDelete_UnknownTour(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	err := svc.Delete(context.Background(), "missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}
