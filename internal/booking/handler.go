// AngelaMos | 2026
// handler.go

package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/greenpath/bookings-api/internal/core"
	"github.com/greenpath/bookings-api/internal/middleware"
	"github.com/greenpath/bookings-api/internal/tour"
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

// RegisterRoutes mounts the booking endpoints. Everything requires an
// authenticated caller; per-booking access is decided in the service.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/bookings", func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/", h.CreateBooking)
		r.Get("/", h.ListBookings)
		r.Get("/{bookingID}", h.GetBooking)
		r.Put("/{bookingID}", h.UpdateBooking)
		r.Delete("/{bookingID}", h.CancelBooking)
	})
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	userID := middleware.GetUserID(r.Context())

	booking, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		// A not-found here is the tour, not a booking.
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "tour")
			return
		}
		h.writeBookingError(w, err)
		return
	}

	core.Created(w, ToBookingResponse(booking))
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	isAdmin := middleware.IsAdmin(r.Context())

	details, err := h.service.List(r.Context(), userID, isAdmin)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToDetailResponseList(details))
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")
	userID := middleware.GetUserID(r.Context())
	isAdmin := middleware.IsAdmin(r.Context())

	detail, err := h.service.Get(r.Context(), bookingID, userID, isAdmin)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "booking")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToDetailResponse(detail))
}

// UpdateBooking handles quantity changes for the owner (or an admin)
// and status changes for admins only. A status field sent by a
// non-admin is ignored rather than rejected; a request carrying
// nothing applicable is a bad request.
func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")
	userID := middleware.GetUserID(r.Context())
	isAdmin := middleware.IsAdmin(r.Context())

	var req UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	statusChange := isAdmin && req.Status != nil
	if req.NumberOfPeople == nil && !statusChange {
		core.BadRequest(w, "no valid updates provided")
		return
	}

	if req.NumberOfPeople != nil {
		_, err := h.service.UpdateQuantity(
			r.Context(),
			bookingID,
			userID,
			isAdmin,
			*req.NumberOfPeople,
		)
		if err != nil {
			h.writeBookingError(w, err)
			return
		}
	}

	if statusChange {
		_, err := h.service.UpdateStatus(
			r.Context(),
			bookingID,
			Status(*req.Status),
		)
		if err != nil {
			h.writeBookingError(w, err)
			return
		}
	}

	detail, err := h.service.Get(r.Context(), bookingID, userID, isAdmin)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	core.OK(w, ToDetailResponse(detail))
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")
	userID := middleware.GetUserID(r.Context())
	isAdmin := middleware.IsAdmin(r.Context())

	err := h.service.Cancel(r.Context(), bookingID, userID, isAdmin)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "booking")
	case errors.Is(err, tour.ErrInactive):
		core.BadRequest(w, "tour is not available for booking")
	case errors.Is(err, ErrCapacityExceeded):
		core.Conflict(
			w,
			err,
			"not enough spots available for this tour",
			"CAPACITY_EXCEEDED",
		)
	case errors.Is(err, ErrPaymentIncomplete):
		core.BadRequest(w, "payment has not been completed")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid booking status")
	default:
		core.InternalServerError(w, err)
	}
}
