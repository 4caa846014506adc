package services

import (
	"database/sql"
	"errors"
	"fmt"

	"tripnest_backend/internal/models"
	"tripnest_backend/internal/repositories"
)

var ErrHotelNotFound = errors.New("hotel not found")

// RoomTypeService manages the room type catalog of a hotel.
type RoomTypeService interface {
	CreateRoomType(actorID, hotelID int64, req models.RoomTypeRequest) (*models.RoomType, error)
	GetRoomTypeByID(id int64) (*models.RoomType, error)
	GetRoomTypesByHotel(hotelID int64) ([]models.RoomType, error)
	UpdateRoomType(actorID, id int64, req models.RoomTypeRequest) (*models.RoomType, error)
	GetHotelByID(id int64) (*models.Hotel, error)
}

type roomTypeService struct {
	db           *sql.DB
	roomTypeRepo repositories.RoomTypeRepository
	logRepo      repositories.InventoryLogRepository
}

// NewRoomTypeService creates a new instance of RoomTypeService.
func NewRoomTypeService(db *sql.DB, rtr repositories.RoomTypeRepository, lr repositories.InventoryLogRepository) RoomTypeService {
	return &roomTypeService{db: db, roomTypeRepo: rtr, logRepo: lr}
}

// CreateRoomType adds a room type to a hotel. The advertised counter starts
// at the full stock, and the initial value gets its own audit entry so the
// log reconstructs the counter from zero.
func (s *roomTypeService) CreateRoomType(actorID, hotelID int64, req models.RoomTypeRequest) (*models.RoomType, error) {
	if _, err := s.GetHotelByID(hotelID); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: could not begin transaction: %v", ErrTransactionFailed, err)
	}
	defer tx.Rollback()

	roomType := &models.RoomType{
		HotelID:        hotelID,
		Name:           req.Name,
		MaxGuests:      req.MaxGuests,
		TotalRooms:     req.TotalRooms,
		AvailableRooms: req.TotalRooms,
		BasePrice:      req.BasePrice,
	}
	id, err := s.roomTypeRepo.CreateRoomType(tx, roomType)
	if err != nil {
		return nil, fmt.Errorf("failed to create room type: %w", err)
	}
	roomType.ID = id

	note := fmt.Sprintf("room type created with %d room(s)", req.TotalRooms)
	entry := &models.RoomInventoryLog{
		RoomTypeID:   id,
		ChangedBy:    actorID,
		OldAvailable: 0,
		NewAvailable: req.TotalRooms,
		Note:         &note,
	}
	if _, err := s.logRepo.CreateLogEntry(tx, entry); err != nil {
		return nil, fmt.Errorf("failed to write inventory log entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: could not commit transaction: %v", ErrTransactionFailed, err)
	}
	return s.roomTypeRepo.GetRoomTypeByID(id)
}

func (s *roomTypeService) GetRoomTypeByID(id int64) (*models.RoomType, error) {
	roomType, err := s.roomTypeRepo.GetRoomTypeByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrRoomTypeNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch room type: %w", err)
	}
	return roomType, nil
}

func (s *roomTypeService) GetRoomTypesByHotel(hotelID int64) ([]models.RoomType, error) {
	if _, err := s.GetHotelByID(hotelID); err != nil {
		return nil, err
	}
	roomTypes, err := s.roomTypeRepo.GetRoomTypesByHotel(hotelID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room types: %w", err)
	}
	return roomTypes, nil
}

// UpdateRoomType changes a room type's descriptive fields and total stock.
// Shrinking the stock below the advertised counter clamps the counter down,
// with an audit entry for the clamp.
func (s *roomTypeService) UpdateRoomType(actorID, id int64, req models.RoomTypeRequest) (*models.RoomType, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: could not begin transaction: %v", ErrTransactionFailed, err)
	}
	defer tx.Rollback()

	current, err := s.roomTypeRepo.LockRoomType(tx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrRoomTypeNotFound, id)
		}
		return nil, fmt.Errorf("failed to lock room type: %w", err)
	}

	newAvailable := current.AvailableRooms
	if newAvailable > req.TotalRooms {
		newAvailable = req.TotalRooms
	}

	updated := &models.RoomType{
		ID:             id,
		HotelID:        current.HotelID,
		Name:           req.Name,
		MaxGuests:      req.MaxGuests,
		TotalRooms:     req.TotalRooms,
		AvailableRooms: newAvailable,
		BasePrice:      req.BasePrice,
	}
	if err := s.roomTypeRepo.UpdateRoomType(tx, updated); err != nil {
		return nil, fmt.Errorf("failed to update room type: %w", err)
	}

	if newAvailable != current.AvailableRooms {
		note := fmt.Sprintf("total rooms changed %d -> %d, counter clamped", current.TotalRooms, req.TotalRooms)
		entry := &models.RoomInventoryLog{
			RoomTypeID:   id,
			ChangedBy:    actorID,
			OldAvailable: current.AvailableRooms,
			NewAvailable: newAvailable,
			Note:         &note,
		}
		if _, err := s.logRepo.CreateLogEntry(tx, entry); err != nil {
			return nil, fmt.Errorf("failed to write inventory log entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: could not commit transaction: %v", ErrTransactionFailed, err)
	}
	return s.roomTypeRepo.GetRoomTypeByID(id)
}

func (s *roomTypeService) GetHotelByID(id int64) (*models.Hotel, error) {
	hotel, err := s.roomTypeRepo.GetHotelByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrHotelNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch hotel: %w", err)
	}
	return hotel, nil
}
