package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReservationStatus defines the type for reservation statuses.
type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusCompleted ReservationStatus = "completed"
)

// IsValidReservationStatus checks if the provided status string is a valid ReservationStatus.
func IsValidReservationStatus(status string) bool {
	switch ReservationStatus(status) {
	case ReservationStatusConfirmed,
		ReservationStatusCancelled,
		ReservationStatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminalReservationStatus reports whether no further transition is
// allowed from the given status. Re-booking after cancellation requires a new
// reservation.
func IsTerminalReservationStatus(status string) bool {
	s := ReservationStatus(status)
	return s == ReservationStatusCancelled || s == ReservationStatusCompleted
}

// StayInterval is a resolved half-open [CheckIn, CheckOut) date range. Both
// endpoints are dates at UTC midnight; CheckOut is always strictly after
// CheckIn, so Nights() is at least 1.
type StayInterval struct {
	CheckIn  time.Time `json:"check_in_date"`
	CheckOut time.Time `json:"check_out_date"`
}

// Nights returns the number of nights covered by the interval.
func (si StayInterval) Nights() int {
	return int(si.CheckOut.Sub(si.CheckIn).Hours() / 24)
}

// Overlaps reports whether the interval shares at least one night with
// [checkIn, checkOut). Intervals that merely touch at a boundary date do not
// overlap: the night of a check-out day belongs to the next guest.
func (si StayInterval) Overlaps(checkIn, checkOut time.Time) bool {
	return si.CheckIn.Before(checkOut) && checkIn.Before(si.CheckOut)
}

// Contains reports whether [checkIn, checkOut) lies entirely within the
// interval.
func (si StayInterval) Contains(checkIn, checkOut time.Time) bool {
	return !checkIn.Before(si.CheckIn) && !checkOut.After(si.CheckOut)
}

// Reservation is a claim on RoomsBooked units of a room type for the
// half-open date range [CheckInDate, CheckOutDate). Only confirmed
// reservations count against stock. Rows are never deleted and the quantity
// is never edited; capacity changes happen through status transitions only.
type Reservation struct {
	ID            int64           `json:"id" db:"id"`
	ReferenceCode string          `json:"reference_code" db:"reference_code"`
	UserID        int64           `json:"user_id" db:"user_id"`
	HotelID       int64           `json:"hotel_id" db:"hotel_id"`
	RoomTypeID    int64           `json:"room_type_id" db:"room_type_id"`
	TourID        *int64          `json:"tour_id,omitempty" db:"tour_id"`
	CheckInDate   time.Time       `json:"check_in_date" db:"check_in_date"`
	CheckOutDate  time.Time       `json:"check_out_date" db:"check_out_date"`
	RoomsBooked   int             `json:"rooms_booked" db:"rooms_booked"`
	GuestsCount   int             `json:"guests_count" db:"guests_count"`
	Nights        int             `json:"nights" db:"nights"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status        string          `json:"status" db:"status"`
	Note          *string         `json:"note,omitempty" db:"note"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
	RoomType      *RoomType       `json:"room_type,omitempty"` // For joining with RoomType details
	Guest         *User           `json:"guest,omitempty"`     // For joining with the booking user
}

// Interval returns the reservation's stay range as a StayInterval.
func (r *Reservation) Interval() StayInterval {
	return StayInterval{CheckIn: r.CheckInDate, CheckOut: r.CheckOutDate}
}

// ReservationRequest is the payload for booking rooms. Either both date
// fields are set (direct hotel booking) or TourID is set (tour-linked
// booking); the stay range of a tour booking comes from the tour's plan.
type ReservationRequest struct {
	HotelID      int64   `json:"hotel_id" binding:"required"`
	RoomTypeID   int64   `json:"room_type_id" binding:"required"`
	TourID       *int64  `json:"tour_id"`
	CheckInDate  string  `json:"check_in_date"`
	CheckOutDate string  `json:"check_out_date"`
	RoomsBooked  int     `json:"rooms_booked" binding:"required,min=1"`
	GuestsCount  int     `json:"guests_count"`
	Note         *string `json:"note"`
}

// AvailabilityQuery asks how many rooms of a type are free over a date range.
// RoomTypeID comes from the URL path, the rest from query parameters.
type AvailabilityQuery struct {
	RoomTypeID   int64  `form:"-"`
	TourID       *int64 `form:"tour_id"`
	CheckInDate  string `form:"check_in"`
	CheckOutDate string `form:"check_out"`
}

// AvailabilityResult reports free stock for a room type over an interval.
// FreeRooms is derived from confirmed reservations at read time and is not
// a hold; a later SubmitReservation can still fail.
type AvailabilityResult struct {
	RoomTypeID   int64           `json:"room_type_id"`
	CheckInDate  time.Time       `json:"check_in_date"`
	CheckOutDate time.Time       `json:"check_out_date"`
	Nights       int             `json:"nights"`
	TotalRooms   int             `json:"total_rooms"`
	BookedRooms  int             `json:"booked_rooms"`
	FreeRooms    int             `json:"free_rooms"`
	BasePrice    decimal.Decimal `json:"base_price"`
}

// ReservationFilters defines the available filters for querying reservations.
type ReservationFilters struct {
	UserID     *int64     `form:"user_id"`
	HotelID    *int64     `form:"hotel_id"`
	RoomTypeID *int64     `form:"room_type_id"`
	TourID     *int64     `form:"tour_id"`
	Status     *string    `form:"status"`
	DateFrom   *time.Time `form:"date_from"` // Expect YYYY-MM-DD
	DateTo     *time.Time `form:"date_to"`   // Expect YYYY-MM-DD
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}
