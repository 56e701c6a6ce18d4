// AngelaMos | 2026
// dto.go

package tour

import (
	"time"
)

type CreateTourRequest struct {
	Title        string    `json:"title"         validate:"required,min=1,max=200"`
	Description  string    `json:"description"   validate:"required,min=1"`
	Destination  string    `json:"destination"   validate:"required,min=1,max=200"`
	ImageURL     *string   `json:"image_url,omitempty" validate:"omitempty,url,max=2048"`
	Price        float64   `json:"price"         validate:"required,gt=0"`
	DurationDays int       `json:"duration_days" validate:"required,gt=0"`
	MaxCapacity  int       `json:"max_capacity"  validate:"required,gt=0"`
	StartDate    time.Time `json:"start_date"    validate:"required"`
	EndDate      time.Time `json:"end_date"      validate:"required,gtefield=StartDate"`
}

type UpdateTourRequest struct {
	Title        *string    `json:"title,omitempty"         validate:"omitempty,min=1,max=200"`
	Description  *string    `json:"description,omitempty"   validate:"omitempty,min=1"`
	Destination  *string    `json:"destination,omitempty"   validate:"omitempty,min=1,max=200"`
	ImageURL     *string    `json:"image_url,omitempty"     validate:"omitempty,url,max=2048"`
	Price        *float64   `json:"price,omitempty"         validate:"omitempty,gt=0"`
	DurationDays *int       `json:"duration_days,omitempty" validate:"omitempty,gt=0"`
	MaxCapacity  *int       `json:"max_capacity,omitempty"  validate:"omitempty,gt=0"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	IsActive     *bool      `json:"is_active,omitempty"`
}

type TourResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Destination    string    `json:"destination"`
	ImageURL       *string   `json:"image_url,omitempty"`
	Price          float64   `json:"price"`
	DurationDays   int       `json:"duration_days"`
	MaxCapacity    int       `json:"max_capacity"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	IsActive       bool      `json:"is_active"`
	AvailableSpots int       `json:"available_spots"`
	TotalBookings  int       `json:"total_bookings"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ToTourResponse(t *TourWithOccupancy) TourResponse {
	return TourResponse{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Destination:    t.Destination,
		ImageURL:       t.ImageURL,
		Price:          t.Price,
		DurationDays:   t.DurationDays,
		MaxCapacity:    t.MaxCapacity,
		StartDate:      t.StartDate,
		EndDate:        t.EndDate,
		IsActive:       t.IsActive,
		AvailableSpots: t.AvailableSpots(),
		TotalBookings:  t.ActiveBookings,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func ToTourResponseList(tours []TourWithOccupancy) []TourResponse {
	responses := make([]TourResponse, 0, len(tours))
	for i := range tours {
		responses = append(responses, ToTourResponse(&tours[i]))
	}
	return responses
}
