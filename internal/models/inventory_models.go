package models

import "time"

// RoomInventoryLog is an immutable record of one change to a room type's
// advertised available-rooms counter. Entries are only ever inserted; there
// are no update or delete paths. Providers use the log to reconcile the
// advertised counter against actual bookings.
type RoomInventoryLog struct {
	ID            int64     `json:"id" db:"id"`
	RoomTypeID    int64     `json:"room_type_id" db:"room_type_id"`
	ChangedBy     int64     `json:"changed_by" db:"changed_by"`
	OldAvailable  int       `json:"old_available" db:"old_available"`
	NewAvailable  int       `json:"new_available" db:"new_available"`
	Note          *string   `json:"note,omitempty" db:"note"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	RoomType      *RoomType `json:"room_type,omitempty"` // For joining with RoomType details
	ChangedByUser *User     `json:"changed_by_user,omitempty"`
}
