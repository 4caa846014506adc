package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Hotel represents a bookable property owned by a provider.
type Hotel struct {
	ID         int64     `json:"id" db:"id"`
	ProviderID int64     `json:"provider_id" db:"provider_id"`
	Name       string    `json:"name" db:"name" binding:"required"`
	City       *string   `json:"city,omitempty" db:"city"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// RoomType represents a class of identical rooms within a hotel.
//
// TotalRooms is the authoritative physical stock and changes only through
// explicit provider action. AvailableRooms is the advertised counter shown on
// listing pages; it is a denormalized projection maintained alongside
// reservations and provider adjustments, and every change to it is recorded
// in room_inventory_logs. Live availability for a date range is always
// derived from TotalRooms minus overlapping confirmed reservations, never
// from AvailableRooms.
type RoomType struct {
	ID             int64           `json:"id" db:"id"`
	HotelID        int64           `json:"hotel_id" db:"hotel_id"`
	Name           string          `json:"name" db:"name" binding:"required"`
	MaxGuests      int             `json:"max_guests" db:"max_guests"`
	TotalRooms     int             `json:"total_rooms" db:"total_rooms"`
	AvailableRooms int             `json:"available_rooms" db:"available_rooms"`
	BasePrice      decimal.Decimal `json:"base_price" db:"base_price"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
	Hotel          *Hotel          `json:"hotel,omitempty"` // For joining with Hotel details
}

// RoomTypeRequest is the payload for creating or updating a room type.
type RoomTypeRequest struct {
	Name       string          `json:"name" binding:"required"`
	MaxGuests  int             `json:"max_guests" binding:"required,min=1"`
	TotalRooms int             `json:"total_rooms" binding:"required,min=0"`
	BasePrice  decimal.Decimal `json:"base_price" binding:"required"`
}

// InventoryAdjustmentRequest is the payload for a provider's manual change to
// the advertised available-rooms counter.
type InventoryAdjustmentRequest struct {
	AvailableRooms int     `json:"available_rooms" binding:"min=0"`
	Note           *string `json:"note"`
}
