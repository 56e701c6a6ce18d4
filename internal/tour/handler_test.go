// AngelaMos | 2026
// handler_test.go

package tour

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/greenpath/bookings-api/internal/middleware"
)

// newTourRouter mounts the tour routes with a stand-in authenticator
// that stamps the given identity, and the real admin gate behind it.
func newTourRouter(repo *fakeRepository, userID, role string) http.Handler {
	identity := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			ctx = context.WithValue(ctx, middleware.UserRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	r := chi.NewRouter()
	NewHandler(NewService(repo)).RegisterRoutes(
		r,
		identity,
		identity,
		middleware.RequireAdmin,
	)
	return r
}

func doTourRequest(
	t *testing.T,
	router http.Handler,
	method, path, body string,
) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const validTourBody = `{
	"title": "Fjord Kayaking",
	"description": "Paddling the Norwegian coast",
	"destination": "Norway",
	"price": 1200,
	"duration_days": 7,
	"max_capacity": 8,
	"start_date": "2026-11-01T00:00:00Z",
	"end_date": "2026-11-08T00:00:00Z"
}`

func TestTourMutations_ForbiddenForNonAdmin(t *testing.T) {
	repo := newFakeRepository()
	seedTour(repo, "tour-1", true)
	router := newTourRouter(repo, "user-1", "user")

	cases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/tours", validTourBody},
		{http.MethodPut, "/tours/tour-1", `{"price": 999}`},
		{http.MethodPost, "/tours/tour-1/toggle", ""},
		{http.MethodDelete, "/tours/tour-1", ""},
	}

	for _, tc := range cases {
		rec := doTourRequest(t, router, tc.method, tc.path, tc.body)
		if rec.Code != http.StatusForbidden {
			t.Errorf(
				"%s %s: expected 403, got: %d",
				tc.method, tc.path, rec.Code,
			)
		}
	}

	if repo.tours["tour-1"].Price != 899 {
		t.Errorf(
			"expected tour untouched, got price: %v",
			repo.tours["tour-1"].Price,
		)
	}
}

func TestTourMutations_AllowedForAdmin(t *testing.T) {
	repo := newFakeRepository()
	router := newTourRouter(repo, "admin-1", "admin")

	rec := doTourRequest(t, router, http.MethodPost, "/tours", validTourBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got: %d, body: %s", rec.Code, rec.Body.String())
	}
	if len(repo.tours) != 1 {
		t.Errorf("expected one tour created, got: %d", len(repo.tours))
	}
}

func TestTourReads_OpenToNonAdmin(t *testing.T) {
	repo := newFakeRepository()
	seedTour(repo, "tour-1", true)
	router := newTourRouter(repo, "user-1", "user")

	rec := doTourRequest(t, router, http.MethodGet, "/tours", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got: %d", rec.Code)
	}

	rec = doTourRequest(t, router, http.MethodGet, "/tours/tour-1", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got: %d", rec.Code)
	}
}
