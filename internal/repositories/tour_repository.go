package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"tripnest_backend/internal/models"
)

// TourRepository defines the read operations the stay resolver needs over
// tours and their planned hotel stays.
type TourRepository interface {
	GetTourByID(id int64) (*models.Tour, error)
	GetTourHotelStays(tourID, hotelID int64) ([]models.TourHotelStay, error)
}

type tourRepository struct {
	db *sql.DB
}

// NewTourRepository creates a new instance of TourRepository.
func NewTourRepository(db *sql.DB) TourRepository {
	return &tourRepository{db: db}
}

func (r *tourRepository) GetTourByID(id int64) (*models.Tour, error) {
	var tour models.Tour
	query := `SELECT id, organizer_id, title, start_date, end_date, status, created_at, updated_at
	          FROM tours WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&tour.ID, &tour.OrganizerID, &tour.Title, &tour.StartDate, &tour.EndDate,
		&tour.Status, &tour.CreatedAt, &tour.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: fetching tour ID %d: %v", ErrDatabaseError, id, err)
	}
	return &tour, nil
}

func (r *tourRepository) GetTourHotelStays(tourID, hotelID int64) ([]models.TourHotelStay, error) {
	query := `SELECT id, tour_id, hotel_id, check_in_date, check_out_date, nights, stay_notes, created_at, updated_at
	          FROM tour_hotel_stays
	          WHERE tour_id = $1 AND hotel_id = $2
	          ORDER BY check_in_date ASC, id ASC`
	rows, err := r.db.Query(query, tourID, hotelID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying tour hotel stays: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	stays := []models.TourHotelStay{}
	for rows.Next() {
		var stay models.TourHotelStay
		if err := rows.Scan(
			&stay.ID, &stay.TourID, &stay.HotelID, &stay.CheckInDate, &stay.CheckOutDate,
			&stay.Nights, &stay.StayNotes, &stay.CreatedAt, &stay.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning tour hotel stay: %v", ErrDatabaseError, err)
		}
		stays = append(stays, stay)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating tour hotel stays: %v", ErrDatabaseError, err)
	}
	return stays, nil
}
