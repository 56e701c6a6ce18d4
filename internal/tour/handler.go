// AngelaMos | 2026
// handler.go

package tour

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/greenpath/bookings-api/internal/core"
	"github.com/greenpath/bookings-api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the tour endpoints. Reads are open to any
// caller (authentication optional, it only widens what admins see);
// every mutation is admin-only.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	optionalAuth, authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/tours", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/", h.ListTours)
			r.Get("/{tourID}", h.GetTour)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)
			r.Post("/", h.CreateTour)
			r.Put("/{tourID}", h.UpdateTour)
			r.Post("/{tourID}/toggle", h.ToggleTour)
			r.Delete("/{tourID}", h.DeleteTour)
		})
	})
}

func (h *Handler) ListTours(w http.ResponseWriter, r *http.Request) {
	isAdmin := middleware.IsAdmin(r.Context())
	activeOnly := r.URL.Query().Get("active") == "true"

	tours, err := h.service.List(r.Context(), isAdmin, activeOnly)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToTourResponseList(tours))
}

func (h *Handler) GetTour(w http.ResponseWriter, r *http.Request) {
	tourID := chi.URLParam(r, "tourID")

	tour, err := h.service.Get(r.Context(), tourID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "tour")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToTourResponse(tour))
}

func (h *Handler) CreateTour(w http.ResponseWriter, r *http.Request) {
	var req CreateTourRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	tour, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToTourResponse(tour))
}

func (h *Handler) UpdateTour(w http.ResponseWriter, r *http.Request) {
	tourID := chi.URLParam(r, "tourID")

	var req UpdateTourRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	tour, err := h.service.Update(r.Context(), tourID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "tour")
			return
		}
		if IsInvalidDates(err) {
			core.BadRequest(w, "end_date must not be before start_date")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToTourResponse(tour))
}

func (h *Handler) ToggleTour(w http.ResponseWriter, r *http.Request) {
	tourID := chi.URLParam(r, "tourID")

	tour, err := h.service.ToggleActive(r.Context(), tourID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "tour")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToTourResponse(tour))
}

func (h *Handler) DeleteTour(w http.ResponseWriter, r *http.Request) {
	tourID := chi.URLParam(r, "tourID")

	if err := h.service.Delete(r.Context(), tourID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "tour")
			return
		}
		if errors.Is(err, ErrHasBookings) {
			core.Conflict(
				w,
				ErrHasBookings,
				"cannot delete a tour with existing bookings; deactivate it instead",
				"TOUR_HAS_BOOKINGS",
			)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}
