// AngelaMos | 2026
// service_test.go

package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/greenpath/bookings-api/internal/core"
	"github.com/greenpath/bookings-api/internal/tour"
)

type fakeTour struct {
	price       float64
	maxCapacity int
	isActive    bool
}

// fakeRepository mirrors the capacity semantics of the SQL repository:
// only pending and confirmed bookings hold seats, and quantity updates
// exclude the booking's own seats from the count.
type fakeRepository struct {
	tours    map[string]*fakeTour
	bookings map[string]*Booking
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		tours:    make(map[string]*fakeTour),
		bookings: make(map[string]*Booking),
	}
}

func (f *fakeRepository) bookedPeople(tourID, excludeID string) int {
	total := 0
	for id, b := range f.bookings {
		if b.TourID == tourID && b.Status.ConsumesCapacity() && id != excludeID {
			total += b.NumberOfPeople
		}
	}
	return total
}

func (f *fakeRepository) Create(ctx context.Context, b *Booking) error {
	t, ok := f.tours[b.TourID]
	if !ok {
		return fmt.Errorf("create booking: %w", core.ErrNotFound)
	}
	if !t.isActive {
		return fmt.Errorf("create booking: %w", tour.ErrInactive)
	}
	if b.NumberOfPeople > t.maxCapacity-f.bookedPeople(b.TourID, "") {
		return fmt.Errorf("create booking: %w", ErrCapacityExceeded)
	}
	if b.PaymentStatus != nil && *b.PaymentStatus != PaymentStatusCompleted {
		return fmt.Errorf("create booking: %w", ErrPaymentIncomplete)
	}

	b.TotalPrice = t.price * float64(b.NumberOfPeople)
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt

	stored := *b
	f.bookings[b.ID] = &stored
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id string) (*Detail, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("get booking: %w", core.ErrNotFound)
	}
	return &Detail{Booking: *b}, nil
}

func (f *fakeRepository) ListAll(ctx context.Context) ([]Detail, error) {
	details := make([]Detail, 0, len(f.bookings))
	for _, b := range f.bookings {
		details = append(details, Detail{Booking: *b})
	}
	sortNewestFirst(details)
	return details, nil
}

func (f *fakeRepository) ListByUser(
	ctx context.Context,
	userID string,
) ([]Detail, error) {
	var details []Detail
	for _, b := range f.bookings {
		if b.UserID == userID {
			details = append(details, Detail{Booking: *b})
		}
	}
	sortNewestFirst(details)
	return details, nil
}

// sortNewestFirst matches the ordering the SQL repository produces
// with its ORDER BY created_at DESC.
func sortNewestFirst(details []Detail) {
	sort.Slice(details, func(i, j int) bool {
		return details[i].CreatedAt.After(details[j].CreatedAt)
	})
}

func (f *fakeRepository) UpdateQuantity(
	ctx context.Context,
	id string,
	numberOfPeople int,
) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("update booking quantity: %w", core.ErrNotFound)
	}

	t := f.tours[b.TourID]
	if numberOfPeople > t.maxCapacity-f.bookedPeople(b.TourID, id) {
		return nil, fmt.Errorf(
			"update booking quantity: %w",
			ErrCapacityExceeded,
		)
	}

	b.NumberOfPeople = numberOfPeople
	b.TotalPrice = t.price * float64(numberOfPeople)
	b.UpdatedAt = time.Now()

	updated := *b
	return &updated, nil
}

func (f *fakeRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status Status,
) error {
	b, ok := f.bookings[id]
	if !ok {
		return fmt.Errorf("update booking status: %w", core.ErrNotFound)
	}
	b.Status = status
	return nil
}

func seedBooking(
	repo *fakeRepository,
	id, tourID, userID string,
	people int,
	status Status,
) {
	repo.bookings[id] = &Booking{
		ID:             id,
		TourID:         tourID,
		UserID:         userID,
		NumberOfPeople: people,
		Status:         status,
	}
}

func TestCreate_PendingWithoutPayment(t *testing.T) {
	repo := newFakeRepository()
	repo.tours["tour-1"] = &fakeTour{price: 100, maxCapacity: 10, isActive: true}
	svc := NewService(repo)

	b, err := svc.Create(context.Background(), "user-1", CreateBookingRequest{
		TourID:         "tour-1",
		NumberOfPeople: 3,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if b.Status != StatusPending {
		t.Errorf("expected status pending, got: %s", b.Status)
	}
	if b.TotalPrice != 300 {
		t.Errorf("expected total price 300, got: %v", b.TotalPrice)
	}
	if b.PaymentID != nil {
		t.Errorf("expected no payment recorded, got: %v", *b.PaymentID)
	}
}

func TestCreate_ConfirmedWithCompletedPayment(t *testing.T) {
	repo := newFakeRepository()
	repo.tours["tour-1"] = &fakeTour{price: 50, maxCapacity: 10, isActive: true}
	svc := NewService(repo)

	b, err := svc.Create(context.Background(), "user-1", CreateBookingRequest{
		TourID:         "tour-1",
		NumberOfPeople: 2,
		Payment: &PaymentConfirmation{
			PaymentID:     "PAY-123",
			PaymentStatus: "COMPLETED",
			PaymentMethod: "paypal",
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if b.Status != StatusConfirmed {
		t.Errorf("expected status confirmed, got: %s", b.Status)
	}
	if b.PaymentID == nil || *b.PaymentID != "PAY-123" {
		t.Errorf("expected payment id PAY-123, got: %v", b.PaymentID)
	}
}

func TestCreate_IncompletePaymentRejected(t *testing.T) {
	repo := newFakeRepository()
	repo.tours["tour-1"] = &fakeTour{price: 50, maxCapacity: 10, isActive: true}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), "user-1", CreateBookingRequest{
		TourID:         "tour-1",
		NumberOfPeople: 2,
		Payment: &PaymentConfirmation{
			PaymentID:     "PAY-123",
			PaymentStatus: "PENDING",
			PaymentMethod: "paypal",
		},
	})
	if !errors.Is(err, ErrPaymentIncomplete) {
		t.Fatalf("expected ErrPaymentIncomplete, got: %v", err)
	}

	if len(repo.bookings) != 0 {
		t.Errorf("expected no booking persisted, got: %d", len(repo.bookings))
	}
}

func TestCreate_TourErrorsWinOverIncompletePayment(t *testing.T) {
	incomplete := &PaymentConfirmation{
		PaymentID:     "PAY-123",
		PaymentStatus: "PENDING",
		PaymentMethod: "paypal",
	}

	repo := newFakeRepository()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), "user-1", CreateBookingRequest{
		TourID:         "tour-missing",
		NumberOfPeople: 2,
		Payment:        incomplete,
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing tour, got: %v", err)
	}

	repo.tours["tour-1"] = &fakeTour{price: 50, maxCapacity: 10, isActive: false}
	_, err = svc.Create(context.Background(), "user-1", CreateBookingRequest{
		TourID:         "tour-1",
		NumberOfPeople: 2,
		Payment:        incomplete,
	})
	if !errors.Is(err, tour.ErrInactive) {
		t.Fatalf("expected ErrInactive for inactive tour, got: %v", err)
	}

	repo.tours["tour-1"].isActive = true
	seedBooking(repo, "b-1", "tour-1", "user-2", 9, StatusConfirmed)
	_, err = svc.Create(context.Background(), "user-1", CreateBookingRequest{
		TourID:         "tour-1",
		NumberOfPeople: 2,
		Payment:        incomplete,
	})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded for full tour, got: %v", err)
	}
}

func TestCreate_CapacityExceeded(t *testing.T) {
	repo := newFakeRepository()
	repo.tours["tour-1"] = &fakeTour{price: 100, maxCapacity: 10, isActive: true}
	seedBooking(repo, "b-1", "tour-1", "user-1", 4, StatusConfirmed)
	seedBooking(repo, "b-2", "tour-1", "user-2", 2, StatusPending)
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), "user-3", CreateBookingRequest{
		TourID:         "tour-1",
		NumberOfPeople: 5,
	})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got: %v", err)
	}

	if len(repo.bookings) != 2 {
		t.Errorf("expected no new booking persisted, got: %d", len(repo.bookings))
	}

	b, err := svc.Create(context.Background(), "user-3", CreateBookingRequest{
		TourID:         "tour-1",
		NumberOfPeople: 4,
	})
	if err != nil {
		t.Fatalf("expected booking of 4 to fit, got: %v", err)
	}
	if b.NumberOfPeople != 4 {
		t.Errorf("expected 4 people, got: %d", b.NumberOfPeople)
	}
}

func TestCreate_CancelledBookingsFreeCapacity(t *testing.T) {
	repo := newFakeRepository()
	repo.tours["tour-1"] = &fakeTour{price: 100, maxCapacity: 10, isActive: true}
	seedBooking(repo, "b-1", "tour-1", "user-1", 8, StatusCancelled)
	seedBooking(repo, "b-2", "tour-1", "user-2", 2, StatusCompleted)
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), "user-3", CreateBookingRequest{
		TourID:         "tour-1",
		NumberOfPeople: 10,
	})
	if err != nil {
		t.Fatalf("expected full capacity to be free, got: %v", err)
	}
}

func TestCreate_InactiveTour(t *testing.T) {
	repo := newFakeRepository()
	repo.tours["tour-1"] = &fakeTour{price: 100, maxCapacity: 10, isActive: false}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), "user-1", CreateBookingRequest{
		TourID:         "tour-1",
		NumberOfPeople: 1,
	})
	if !errors.Is(err, tour.ErrInactive) {
		t.Fatalf("expected ErrInactive, got: %v", err)
	}
}

func TestGet_OtherUsersBookingReadsAsNotFound(t *testing.T) {
	repo := newFakeRepository()
	repo.tours["tour-1"] = &fakeTour{price: 100, maxCapacity: 10, isActive: true}
	seedBooking(repo, "b-1", "tour-1", "user-1", 2, StatusConfirmed)
	svc := NewService(repo)

	_, err := svc.Get(context.Background(), "b-1", "user-2", false)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}

	if _, err := svc.Get(context.Background(), "b-1", "user-2", true); err != nil {
		t.Errorf("expected admin to see any booking, got: %v", err)
	}
}

func TestUpdateQuantity_ExcludesOwnSeats(t *testing.T) {
	repo := newFakeRepository()
	repo.tours["tour-1"] = &fakeTour{price: 100, maxCapacity: 10, isActive: true}
	seedBooking(repo, "b-1", "tour-1", "user-1", 2, StatusConfirmed)
	seedBooking(repo, "b-2", "tour-1", "user-2", 7, StatusPending)
	svc := NewService(repo)

	// 7 held by others, so the owner can grow from 2 to 3 but not 4.
	b, err := svc.UpdateQuantity(context.Background(), "b-1", "user-1", false, 3)
	if err != nil {
		t.Fatalf("expected update to 3 to succeed, got: %v", err)
	}
	if b.TotalPrice != 300 {
		t.Errorf("expected total price recomputed to 300, got: %v", b.TotalPrice)
	}

	_, err = svc.UpdateQuantity(context.Background(), "b-1", "user-1", false, 4)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got: %v", err)
	}
}

func TestUpdateQuantity_OwnershipEnforced(t *testing.T) {
	repo := newFakeRepository()
	repo.tours["tour-1"] = &fakeTour{price: 100, maxCapacity: 10, isActive: true}
	seedBooking(repo, "b-1", "tour-1", "user-1", 2, StatusConfirmed)
	svc := NewService(repo)

	_, err := svc.UpdateQuantity(context.Background(), "b-1", "user-2", false, 3)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner, got: %v", err)
	}
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	repo := newFakeRepository()
	seedBooking(repo, "b-1", "tour-1", "user-1", 2, StatusPending)
	svc := NewService(repo)

	_, err := svc.UpdateStatus(context.Background(), "b-1", Status("shipped"))
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got: %v", err)
	}

	if repo.bookings["b-1"].Status != StatusPending {
		t.Errorf("expected status unchanged, got: %s", repo.bookings["b-1"].Status)
	}
}

func TestUpdateStatus_AnyTransitionAllowed(t *testing.T) {
	repo := newFakeRepository()
	seedBooking(repo, "b-1", "tour-1", "user-1", 2, StatusCancelled)
	svc := NewService(repo)

	detail, err := svc.UpdateStatus(
		context.Background(),
		"b-1",
		StatusConfirmed,
	)
	if err != nil {
		t.Fatalf("expected cancelled -> confirmed to be allowed, got: %v", err)
	}
	if detail.Status != StatusConfirmed {
		t.Errorf("expected status confirmed, got: %s", detail.Status)
	}
}

func TestCancel_SoftCancelKeepsRecord(t *testing.T) {
	repo := newFakeRepository()
	repo.tours["tour-1"] = &fakeTour{price: 100, maxCapacity: 10, isActive: true}
	seedBooking(repo, "b-1", "tour-1", "user-1", 2, StatusConfirmed)
	svc := NewService(repo)

	if err := svc.Cancel(context.Background(), "b-1", "user-1", false); err != nil {
		t.Fatalf("expected cancel to succeed, got: %v", err)
	}

	b, ok := repo.bookings["b-1"]
	if !ok {
		t.Fatal("expected booking record to survive cancellation")
	}
	if b.Status != StatusCancelled {
		t.Errorf("expected status cancelled, got: %s", b.Status)
	}

	// The freed seats are immediately bookable again.
	_, err := svc.Create(context.Background(), "user-2", CreateBookingRequest{
		TourID:         "tour-1",
		NumberOfPeople: 10,
	})
	if err != nil {
		t.Errorf("expected freed capacity to be bookable, got: %v", err)
	}
}

func TestList_ScopedByRole(t *testing.T) {
	repo := newFakeRepository()
	seedBooking(repo, "b-1", "tour-1", "user-1", 2, StatusConfirmed)
	seedBooking(repo, "b-2", "tour-1", "user-2", 3, StatusPending)
	svc := NewService(repo)

	own, err := svc.List(context.Background(), "user-1", false)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(own) != 1 || own[0].ID != "b-1" {
		t.Errorf("expected only own booking, got: %d", len(own))
	}

	all, err := svc.List(context.Background(), "user-1", true)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected admin to see all bookings, got: %d", len(all))
	}
}

func TestList_NewestFirst(t *testing.T) {
	repo := newFakeRepository()
	seedBooking(repo, "b-1", "tour-1", "user-1", 2, StatusConfirmed)
	seedBooking(repo, "b-2", "tour-1", "user-1", 3, StatusPending)
	seedBooking(repo, "b-3", "tour-1", "user-2", 1, StatusPending)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	repo.bookings["b-1"].CreatedAt = base
	repo.bookings["b-2"].CreatedAt = base.Add(2 * time.Hour)
	repo.bookings["b-3"].CreatedAt = base.Add(time.Hour)

	svc := NewService(repo)

	all, err := svc.List(context.Background(), "user-1", true)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	wantAll := []string{"b-2", "b-3", "b-1"}
	for i, id := range wantAll {
		if all[i].ID != id {
			t.Fatalf("expected %s at position %d, got: %s", id, i, all[i].ID)
		}
	}

	own, err := svc.List(context.Background(), "user-1", false)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(own) != 2 || own[0].ID != "b-2" || own[1].ID != "b-1" {
		t.Errorf("expected own bookings newest first, got: %v", own)
	}
}
