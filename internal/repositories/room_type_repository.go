package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tripnest_backend/internal/models"

	"github.com/lib/pq"
)

// RoomTypeRepository defines the interface for room-type catalog database operations.
type RoomTypeRepository interface {
	CreateRoomType(executor SQLExecutor, roomType *models.RoomType) (int64, error)
	GetRoomTypeByID(id int64) (*models.RoomType, error)
	GetRoomTypesByHotel(hotelID int64) ([]models.RoomType, error)
	UpdateRoomType(executor SQLExecutor, roomType *models.RoomType) error
	// LockRoomType acquires an exclusive row lock on the room type and returns
	// its current state. Must be called on a *sql.Tx; the lock is held until
	// that transaction commits or rolls back.
	LockRoomType(executor SQLExecutor, id int64) (*models.RoomType, error)
	SetAvailableRooms(executor SQLExecutor, id int64, available int) error
	GetHotelByID(id int64) (*models.Hotel, error)
}

type roomTypeRepository struct {
	db *sql.DB
}

// NewRoomTypeRepository creates a new instance of RoomTypeRepository.
func NewRoomTypeRepository(db *sql.DB) RoomTypeRepository {
	return &roomTypeRepository{db: db}
}

const roomTypeFields = `id, hotel_id, name, max_guests, total_rooms, available_rooms, base_price, created_at, updated_at`

func scanRoomType(row scanner) (*models.RoomType, error) {
	var rt models.RoomType
	err := row.Scan(
		&rt.ID, &rt.HotelID, &rt.Name, &rt.MaxGuests, &rt.TotalRooms,
		&rt.AvailableRooms, &rt.BasePrice, &rt.CreatedAt, &rt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning room type: %v", ErrDatabaseError, err)
	}
	return &rt, nil
}

func (r *roomTypeRepository) CreateRoomType(executor SQLExecutor, roomType *models.RoomType) (int64, error) {
	query := `INSERT INTO room_types
	            (hotel_id, name, max_guests, total_rooms, available_rooms, base_price, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	currentTime := time.Now()
	roomType.CreatedAt = currentTime
	roomType.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		roomType.HotelID, roomType.Name, roomType.MaxGuests, roomType.TotalRooms,
		roomType.AvailableRooms, roomType.BasePrice, roomType.CreatedAt, roomType.UpdatedAt,
	).Scan(&roomType.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateKey, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating room type: %v", ErrDatabaseError, err)
	}
	return roomType.ID, nil
}

func (r *roomTypeRepository) GetRoomTypeByID(id int64) (*models.RoomType, error) {
	query := "SELECT " + roomTypeFields + " FROM room_types WHERE id = $1"
	return scanRoomType(r.db.QueryRow(query, id))
}

func (r *roomTypeRepository) GetRoomTypesByHotel(hotelID int64) ([]models.RoomType, error) {
	query := "SELECT " + roomTypeFields + " FROM room_types WHERE hotel_id = $1 ORDER BY base_price ASC, id ASC"
	rows, err := r.db.Query(query, hotelID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying room types for hotel %d: %v", ErrDatabaseError, hotelID, err)
	}
	defer rows.Close()

	roomTypes := []models.RoomType{}
	for rows.Next() {
		rt, scanErr := scanRoomType(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		roomTypes = append(roomTypes, *rt)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating room type rows: %v", ErrDatabaseError, err)
	}
	return roomTypes, nil
}

func (r *roomTypeRepository) UpdateRoomType(executor SQLExecutor, roomType *models.RoomType) error {
	query := `UPDATE room_types SET
	            name = $1, max_guests = $2, total_rooms = $3, available_rooms = $4,
	            base_price = $5, updated_at = $6
	          WHERE id = $7
	          RETURNING updated_at`
	roomType.UpdatedAt = time.Now()

	err := executor.QueryRow(query,
		roomType.Name, roomType.MaxGuests, roomType.TotalRooms, roomType.AvailableRooms,
		roomType.BasePrice, roomType.UpdatedAt, roomType.ID,
	).Scan(&roomType.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: updating room type ID %d: %v", ErrDatabaseError, roomType.ID, err)
	}
	return nil
}

func (r *roomTypeRepository) LockRoomType(executor SQLExecutor, id int64) (*models.RoomType, error) {
	query := "SELECT " + roomTypeFields + " FROM room_types WHERE id = $1 FOR UPDATE"
	return scanRoomType(executor.QueryRow(query, id))
}

func (r *roomTypeRepository) SetAvailableRooms(executor SQLExecutor, id int64, available int) error {
	query := `UPDATE room_types SET available_rooms = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, available, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: setting available rooms for room type %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roomTypeRepository) GetHotelByID(id int64) (*models.Hotel, error) {
	var hotel models.Hotel
	query := `SELECT id, provider_id, name, city, created_at, updated_at FROM hotels WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&hotel.ID, &hotel.ProviderID, &hotel.Name, &hotel.City, &hotel.CreatedAt, &hotel.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: fetching hotel ID %d: %v", ErrDatabaseError, id, err)
	}
	return &hotel, nil
}
