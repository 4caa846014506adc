package models

import "time"

// TourStatus values mirror the lifecycle used by organizer screens.
const (
	TourStatusOpen   = "open"
	TourStatusFull   = "full"
	TourStatusClosed = "closed"
)

// Tour represents an organizer-run group tour whose package can include
// hotel stays.
type Tour struct {
	ID          int64     `json:"id" db:"id"`
	OrganizerID int64     `json:"organizer_id" db:"organizer_id"`
	Title       string    `json:"title" db:"title" binding:"required"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	EndDate     time.Time `json:"end_date" db:"end_date"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Span returns the outer interval a tour-linked hotel stay must fall within:
// tour start through the day after tour end (guests check out the morning
// after the last tour day).
func (t *Tour) Span() StayInterval {
	return StayInterval{CheckIn: t.StartDate, CheckOut: t.EndDate.AddDate(0, 0, 1)}
}

// TourHotelStay is an organizer-planned stay segment at a linked hotel.
// When a tour has no stay rows for a hotel, the stay defaults to the tour's
// own span.
type TourHotelStay struct {
	ID           int64     `json:"id" db:"id"`
	TourID       int64     `json:"tour_id" db:"tour_id"`
	HotelID      int64     `json:"hotel_id" db:"hotel_id"`
	CheckInDate  time.Time `json:"check_in_date" db:"check_in_date"`
	CheckOutDate time.Time `json:"check_out_date" db:"check_out_date"`
	Nights       int       `json:"nights" db:"nights"`
	StayNotes    *string   `json:"stay_notes,omitempty" db:"stay_notes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
