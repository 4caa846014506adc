package services

import (
	"time"

	"tripnest_backend/internal/models"
	"tripnest_backend/internal/repositories"
)

// In-memory repository fakes. They ignore the executor argument: unit tests
// drive the Tx service methods directly and cover locking behavior in the
// integration tests instead.

type mockTourRepo struct {
	tours map[int64]*models.Tour
	stays []models.TourHotelStay
}

func newMockTourRepo() *mockTourRepo {
	return &mockTourRepo{tours: make(map[int64]*models.Tour)}
}

func (m *mockTourRepo) GetTourByID(id int64) (*models.Tour, error) {
	tour, ok := m.tours[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *tour
	return &copied, nil
}

func (m *mockTourRepo) GetTourHotelStays(tourID, hotelID int64) ([]models.TourHotelStay, error) {
	var result []models.TourHotelStay
	for _, stay := range m.stays {
		if stay.TourID == tourID && stay.HotelID == hotelID {
			result = append(result, stay)
		}
	}
	return result, nil
}

type mockRoomTypeRepo struct {
	roomTypes map[int64]*models.RoomType
	hotels    map[int64]*models.Hotel
	nextID    int64
}

func newMockRoomTypeRepo() *mockRoomTypeRepo {
	return &mockRoomTypeRepo{
		roomTypes: make(map[int64]*models.RoomType),
		hotels:    make(map[int64]*models.Hotel),
		nextID:    1,
	}
}

func (m *mockRoomTypeRepo) CreateRoomType(_ repositories.SQLExecutor, roomType *models.RoomType) (int64, error) {
	id := m.nextID
	m.nextID++
	copied := *roomType
	copied.ID = id
	m.roomTypes[id] = &copied
	return id, nil
}

func (m *mockRoomTypeRepo) GetRoomTypeByID(id int64) (*models.RoomType, error) {
	roomType, ok := m.roomTypes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *roomType
	return &copied, nil
}

func (m *mockRoomTypeRepo) GetRoomTypesByHotel(hotelID int64) ([]models.RoomType, error) {
	var result []models.RoomType
	for _, roomType := range m.roomTypes {
		if roomType.HotelID == hotelID {
			result = append(result, *roomType)
		}
	}
	return result, nil
}

func (m *mockRoomTypeRepo) UpdateRoomType(_ repositories.SQLExecutor, roomType *models.RoomType) error {
	if _, ok := m.roomTypes[roomType.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *roomType
	m.roomTypes[roomType.ID] = &copied
	return nil
}

func (m *mockRoomTypeRepo) LockRoomType(_ repositories.SQLExecutor, id int64) (*models.RoomType, error) {
	return m.GetRoomTypeByID(id)
}

func (m *mockRoomTypeRepo) SetAvailableRooms(_ repositories.SQLExecutor, id int64, available int) error {
	roomType, ok := m.roomTypes[id]
	if !ok {
		return repositories.ErrNotFound
	}
	roomType.AvailableRooms = available
	return nil
}

func (m *mockRoomTypeRepo) GetHotelByID(id int64) (*models.Hotel, error) {
	hotel, ok := m.hotels[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *hotel
	return &copied, nil
}

type mockReservationRepo struct {
	reservations map[int64]*models.Reservation
	nextID       int64
}

func newMockReservationRepo() *mockReservationRepo {
	return &mockReservationRepo{
		reservations: make(map[int64]*models.Reservation),
		nextID:       1,
	}
}

func (m *mockReservationRepo) CreateReservation(_ repositories.SQLExecutor, reservation *models.Reservation) (*models.Reservation, error) {
	copied := *reservation
	copied.ID = m.nextID
	m.nextID++
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	m.reservations[copied.ID] = &copied
	result := copied
	return &result, nil
}

func (m *mockReservationRepo) GetReservationByID(id int64) (*models.Reservation, error) {
	reservation, ok := m.reservations[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *reservation
	return &copied, nil
}

func (m *mockReservationRepo) GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error) {
	var result []models.Reservation
	for _, reservation := range m.reservations {
		if filters.UserID != nil && reservation.UserID != *filters.UserID {
			continue
		}
		if filters.RoomTypeID != nil && reservation.RoomTypeID != *filters.RoomTypeID {
			continue
		}
		if filters.Status != nil && reservation.Status != *filters.Status {
			continue
		}
		result = append(result, *reservation)
	}
	return result, len(result), nil
}

func (m *mockReservationRepo) SumOverlappingRooms(_ repositories.SQLExecutor, roomTypeID int64, checkIn, checkOut time.Time) (int, error) {
	sum := 0
	for _, reservation := range m.reservations {
		if reservation.RoomTypeID != roomTypeID {
			continue
		}
		if reservation.Status != string(models.ReservationStatusConfirmed) {
			continue
		}
		if reservation.Interval().Overlaps(checkIn, checkOut) {
			sum += reservation.RoomsBooked
		}
	}
	return sum, nil
}

func (m *mockReservationRepo) UpdateReservationStatus(_ repositories.SQLExecutor, id int64, fromStatus, status models.ReservationStatus) error {
	reservation, ok := m.reservations[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if reservation.Status != string(fromStatus) {
		return repositories.ErrStatusConflict
	}
	reservation.Status = string(status)
	reservation.UpdatedAt = time.Now()
	return nil
}

type mockInventoryLogRepo struct {
	entries []models.RoomInventoryLog
	nextID  int64
}

func newMockInventoryLogRepo() *mockInventoryLogRepo {
	return &mockInventoryLogRepo{nextID: 1}
}

func (m *mockInventoryLogRepo) CreateLogEntry(_ repositories.SQLExecutor, entry *models.RoomInventoryLog) (int64, error) {
	copied := *entry
	copied.ID = m.nextID
	m.nextID++
	copied.CreatedAt = time.Now()
	m.entries = append(m.entries, copied)
	return copied.ID, nil
}

func (m *mockInventoryLogRepo) GetLogEntries(roomTypeID *int64, hotelID *int64, page, pageSize int) ([]models.RoomInventoryLog, int, error) {
	var result []models.RoomInventoryLog
	for _, entry := range m.entries {
		if roomTypeID != nil && entry.RoomTypeID != *roomTypeID {
			continue
		}
		result = append(result, entry)
	}
	return result, len(result), nil
}

func date(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}
