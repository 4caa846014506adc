package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tripnest_backend/internal/models"
)

// ReservationRepository defines the interface for reservation database operations.
type ReservationRepository interface {
	CreateReservation(executor SQLExecutor, reservation *models.Reservation) (*models.Reservation, error)
	GetReservationByID(id int64) (*models.Reservation, error)
	GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error)
	// SumOverlappingRooms returns the total rooms_booked of confirmed
	// reservations on the room type whose date range overlaps the half-open
	// interval [checkIn, checkOut). Run it on the same executor that holds
	// the room-type row lock when the result gates a write.
	SumOverlappingRooms(executor SQLExecutor, roomTypeID int64, checkIn, checkOut time.Time) (int, error)
	UpdateReservationStatus(executor SQLExecutor, id int64, fromStatus, status models.ReservationStatus) error
}

type reservationRepository struct {
	db *sql.DB
}

// NewReservationRepository creates a new instance of ReservationRepository.
func NewReservationRepository(db *sql.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationJoins = `
	FROM reservations r
	JOIN room_types rt ON r.room_type_id = rt.id
	JOIN users u ON r.user_id = u.id
`

const selectReservationFields = `
	r.id, r.reference_code, r.user_id, r.hotel_id, r.room_type_id, r.tour_id,
	r.check_in_date, r.check_out_date, r.rooms_booked, r.guests_count, r.nights,
	r.total_amount, r.status, r.note, r.created_at, r.updated_at,
	rt.name, rt.max_guests, rt.total_rooms, rt.available_rooms, rt.base_price,
	u.full_name, u.email
`

// scanReservationRow scans a reservation row with its joined room-type and
// guest details. Used by GetReservationByID and GetReservations.
func scanReservationRow(row scanner, isList bool) (*models.Reservation, int, error) {
	var res models.Reservation
	var roomType models.RoomType
	var guest models.User
	var totalCount int

	scanDest := []interface{}{
		&res.ID, &res.ReferenceCode, &res.UserID, &res.HotelID, &res.RoomTypeID, &res.TourID,
		&res.CheckInDate, &res.CheckOutDate, &res.RoomsBooked, &res.GuestsCount, &res.Nights,
		&res.TotalAmount, &res.Status, &res.Note, &res.CreatedAt, &res.UpdatedAt,
		&roomType.Name, &roomType.MaxGuests, &roomType.TotalRooms, &roomType.AvailableRooms, &roomType.BasePrice,
		&guest.FullName, &guest.Email,
	}
	if isList {
		scanDest = append(scanDest, &totalCount)
	}

	if err := row.Scan(scanDest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("%w: scanning reservation with details: %v", ErrDatabaseError, err)
	}

	roomType.ID = res.RoomTypeID
	roomType.HotelID = res.HotelID
	res.RoomType = &roomType
	guest.ID = res.UserID
	res.Guest = &guest
	return &res, totalCount, nil
}

func (r *reservationRepository) CreateReservation(executor SQLExecutor, reservation *models.Reservation) (*models.Reservation, error) {
	query := `INSERT INTO reservations
	            (reference_code, user_id, hotel_id, room_type_id, tour_id, check_in_date, check_out_date,
	             rooms_booked, guests_count, nights, total_amount, status, note, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	reservation.CreatedAt = currentTime
	reservation.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		reservation.ReferenceCode, reservation.UserID, reservation.HotelID, reservation.RoomTypeID,
		reservation.TourID, reservation.CheckInDate, reservation.CheckOutDate,
		reservation.RoomsBooked, reservation.GuestsCount, reservation.Nights,
		reservation.TotalAmount, reservation.Status, reservation.Note,
		reservation.CreatedAt, reservation.UpdatedAt,
	).Scan(&reservation.ID, &reservation.CreatedAt, &reservation.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("%w: creating reservation: %v", ErrDatabaseError, err)
	}
	return reservation, nil
}

func (r *reservationRepository) GetReservationByID(id int64) (*models.Reservation, error) {
	query := "SELECT " + selectReservationFields + reservationJoins + " WHERE r.id = $1"
	reservation, _, err := scanReservationRow(r.db.QueryRow(query, id), false)
	return reservation, err
}

func (r *reservationRepository) GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error) {
	reservations := []models.Reservation{}
	var totalCount int

	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + selectReservationFields + ", COUNT(*) OVER() AS total_count " + reservationJoins)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("r.user_id = $%d", argCount))
		args = append(args, *filters.UserID)
		argCount++
	}
	if filters.HotelID != nil {
		conditions = append(conditions, fmt.Sprintf("r.hotel_id = $%d", argCount))
		args = append(args, *filters.HotelID)
		argCount++
	}
	if filters.RoomTypeID != nil {
		conditions = append(conditions, fmt.Sprintf("r.room_type_id = $%d", argCount))
		args = append(args, *filters.RoomTypeID)
		argCount++
	}
	if filters.TourID != nil {
		conditions = append(conditions, fmt.Sprintf("r.tour_id = $%d", argCount))
		args = append(args, *filters.TourID)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("r.check_in_date >= $%d", argCount))
		args = append(args, *filters.DateFrom)
		argCount++
	}
	if filters.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("r.check_out_date <= $%d", argCount))
		args = append(args, *filters.DateTo)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY r.check_in_date DESC, r.id DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, filters.PageSize)
		argCount++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying reservations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		reservation, scannedTotalCount, scanErr := scanReservationRow(rows, true)
		if scanErr != nil {
			return nil, 0, scanErr
		}
		reservations = append(reservations, *reservation)
		totalCount = scannedTotalCount
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating reservation rows: %v", ErrDatabaseError, err)
	}
	if len(reservations) == 0 {
		totalCount = 0
	}
	return reservations, totalCount, nil
}

func (r *reservationRepository) SumOverlappingRooms(executor SQLExecutor, roomTypeID int64, checkIn, checkOut time.Time) (int, error) {
	// Half-open interval overlap: an existing stay [in, out) overlaps the
	// requested [checkIn, checkOut) iff in < checkOut AND out > checkIn.
	// A shared boundary date (back-to-back stays) is not an overlap.
	query := `SELECT COALESCE(SUM(rooms_booked), 0)
	          FROM reservations
	          WHERE room_type_id = $1
	            AND status = $2
	            AND check_in_date < $3
	            AND check_out_date > $4`

	var overlapping int
	err := executor.QueryRow(query, roomTypeID, models.ReservationStatusConfirmed, checkOut, checkIn).Scan(&overlapping)
	if err != nil {
		return 0, fmt.Errorf("%w: summing overlapping reservations: %v", ErrDatabaseError, err)
	}
	return overlapping, nil
}

// UpdateReservationStatus transitions a reservation from fromStatus to
// status. The guard on the current status makes the transition atomic under
// concurrent updates: if another transaction already moved the row, zero rows
// match and ErrStatusConflict is returned.
func (r *reservationRepository) UpdateReservationStatus(executor SQLExecutor, id int64, fromStatus, status models.ReservationStatus) error {
	query := `UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := executor.Exec(query, string(status), time.Now(), id, string(fromStatus))
	if err != nil {
		return fmt.Errorf("%w: updating reservation %d status: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		var exists bool
		if scanErr := executor.QueryRow(`SELECT EXISTS(SELECT 1 FROM reservations WHERE id = $1)`, id).Scan(&exists); scanErr == nil && !exists {
			return ErrNotFound
		}
		return ErrStatusConflict
	}
	return nil
}
