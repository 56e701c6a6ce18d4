// AngelaMos | 2026
// handler_test.go

package booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/greenpath/bookings-api/internal/middleware"
)

// newBookingRouter mounts the booking routes behind a middleware that
// stamps the given identity onto every request, standing in for the
// token authenticator.
func newBookingRouter(repo *fakeRepository, userID, role string) http.Handler {
	identity := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			ctx = context.WithValue(ctx, middleware.UserRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	r := chi.NewRouter()
	NewHandler(NewService(repo)).RegisterRoutes(r, identity)
	return r
}

func putBooking(
	t *testing.T,
	router http.Handler,
	bookingID, body string,
) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(
		http.MethodPut,
		"/bookings/"+bookingID,
		strings.NewReader(body),
	)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUpdateBooking_StatusOnlyFromNonAdminRejected(t *testing.T) {
	repo := newFakeRepository()
	repo.tours["tour-1"] = &fakeTour{price: 100, maxCapacity: 10, isActive: true}
	seedBooking(repo, "b-1", "tour-1", "user-1", 2, StatusPending)

	router := newBookingRouter(repo, "user-1", "user")
	rec := putBooking(t, router, "b-1", `{"status":"confirmed"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got: %d", rec.Code)
	}
	if repo.bookings["b-1"].Status != StatusPending {
		t.Errorf(
			"expected status untouched, got: %s",
			repo.bookings["b-1"].Status,
		)
	}
}

func TestUpdateBooking_NonAdminStatusFieldIgnored(t *testing.T) {
	repo := newFakeRepository()
	repo.tours["tour-1"] = &fakeTour{price: 100, maxCapacity: 10, isActive: true}
	seedBooking(repo, "b-1", "tour-1", "user-1", 2, StatusPending)

	router := newBookingRouter(repo, "user-1", "user")
	rec := putBooking(
		t,
		router,
		"b-1",
		`{"number_of_people":3,"status":"completed"}`,
	)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got: %d, body: %s", rec.Code, rec.Body.String())
	}

	b := repo.bookings["b-1"]
	if b.NumberOfPeople != 3 {
		t.Errorf("expected quantity applied, got: %d", b.NumberOfPeople)
	}
	if b.Status != StatusPending {
		t.Errorf("expected status untouched for non-admin, got: %s", b.Status)
	}
}

func TestUpdateBooking_AdminAppliesStatusChange(t *testing.T) {
	repo := newFakeRepository()
	repo.tours["tour-1"] = &fakeTour{price: 100, maxCapacity: 10, isActive: true}
	seedBooking(repo, "b-1", "tour-1", "user-1", 2, StatusPending)

	router := newBookingRouter(repo, "admin-1", "admin")
	rec := putBooking(t, router, "b-1", `{"status":"confirmed"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got: %d, body: %s", rec.Code, rec.Body.String())
	}
	if repo.bookings["b-1"].Status != StatusConfirmed {
		t.Errorf(
			"expected status confirmed, got: %s",
			repo.bookings["b-1"].Status,
		)
	}
}

func TestUpdateBooking_EmptyBodyRejected(t *testing.T) {
	repo := newFakeRepository()
	repo.tours["tour-1"] = &fakeTour{price: 100, maxCapacity: 10, isActive: true}
	seedBooking(repo, "b-1", "tour-1", "user-1", 2, StatusPending)

	router := newBookingRouter(repo, "admin-1", "admin")
	rec := putBooking(t, router, "b-1", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got: %d", rec.Code)
	}
}
