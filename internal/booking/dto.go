// AngelaMos | 2026
// dto.go

package booking

import (
	"time"
)

// PaymentConfirmation is what the checkout layer hands back after a
// successful PayPal capture. The API never talks to PayPal itself; it
// only records the confirmation and refuses anything not completed.
type PaymentConfirmation struct {
	PaymentID     string `json:"payment_id"     validate:"required,max=255"`
	PaymentStatus string `json:"payment_status" validate:"required,max=50"`
	PaymentMethod string `json:"payment_method" validate:"required,max=50"`
}

type CreateBookingRequest struct {
	TourID         string               `json:"tour_id"          validate:"required,uuid4"`
	NumberOfPeople int                  `json:"number_of_people" validate:"required,min=1"`
	Payment        *PaymentConfirmation `json:"payment,omitempty"`
}

// UpdateBookingRequest carries a quantity change (owner or admin), a
// status change (admin only), or both. A request with neither is
// rejected.
type UpdateBookingRequest struct {
	NumberOfPeople *int    `json:"number_of_people,omitempty" validate:"omitempty,min=1"`
	Status         *string `json:"status,omitempty"           validate:"omitempty,oneof=pending confirmed cancelled completed"`
}

type BookingResponse struct {
	ID             string       `json:"id"`
	TourID         string       `json:"tour_id"`
	UserID         string       `json:"user_id"`
	NumberOfPeople int          `json:"number_of_people"`
	TotalPrice     float64      `json:"total_price"`
	Status         string       `json:"status"`
	PaymentID      *string      `json:"payment_id,omitempty"`
	PaymentStatus  *string      `json:"payment_status,omitempty"`
	PaymentMethod  *string      `json:"payment_method,omitempty"`
	Tour           *TourSummary `json:"tour,omitempty"`
	User           *UserSummary `json:"user,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type TourSummary struct {
	Title       string    `json:"title"`
	Destination string    `json:"destination"`
	StartDate   time.Time `json:"start_date"`
	Price       float64   `json:"price"`
}

type UserSummary struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func ToBookingResponse(b *Booking) BookingResponse {
	return BookingResponse{
		ID:             b.ID,
		TourID:         b.TourID,
		UserID:         b.UserID,
		NumberOfPeople: b.NumberOfPeople,
		TotalPrice:     b.TotalPrice,
		Status:         string(b.Status),
		PaymentID:      b.PaymentID,
		PaymentStatus:  b.PaymentStatus,
		PaymentMethod:  b.PaymentMethod,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func ToDetailResponse(d *Detail) BookingResponse {
	resp := ToBookingResponse(&d.Booking)
	resp.Tour = &TourSummary{
		Title:       d.TourTitle,
		Destination: d.TourDestination,
		StartDate:   d.TourStartDate,
		Price:       d.TourPrice,
	}
	resp.User = &UserSummary{
		Email:     d.UserEmail,
		FirstName: d.UserFirstName,
		LastName:  d.UserLastName,
	}
	return resp
}

func ToDetailResponseList(details []Detail) []BookingResponse {
	responses := make([]BookingResponse, 0, len(details))
	for i := range details {
		responses = append(responses, ToDetailResponse(&details[i]))
	}
	return responses
}
