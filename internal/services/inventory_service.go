package services

import (
	"database/sql"
	"errors"
	"fmt"

	"tripnest_backend/internal/models"
	"tripnest_backend/internal/repositories"
)

// InventoryService handles manual inventory adjustments and the audit trail
// behind the advertised available-rooms counter.
type InventoryService interface {
	AdjustAvailableRooms(actorID, roomTypeID int64, req models.InventoryAdjustmentRequest) (*models.RoomType, error)
	AdjustAvailableRoomsTx(executor repositories.SQLExecutor, actorID, roomTypeID int64, req models.InventoryAdjustmentRequest) (*models.RoomType, error)
	GetInventoryLogs(roomTypeID, hotelID *int64, page, pageSize int) ([]models.RoomInventoryLog, int, error)
}

type inventoryService struct {
	db           *sql.DB
	roomTypeRepo repositories.RoomTypeRepository
	logRepo      repositories.InventoryLogRepository
}

// NewInventoryService creates a new instance of InventoryService.
func NewInventoryService(db *sql.DB, rtr repositories.RoomTypeRepository, lr repositories.InventoryLogRepository) InventoryService {
	return &inventoryService{db: db, roomTypeRepo: rtr, logRepo: lr}
}

// AdjustAvailableRooms sets the advertised counter to the requested value,
// clamped to [0, total_rooms], and records the change in the audit log. The
// adjustment runs under the room-type row lock so it serializes with
// concurrent bookings and cancellations.
func (s *inventoryService) AdjustAvailableRooms(actorID, roomTypeID int64, req models.InventoryAdjustmentRequest) (*models.RoomType, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: could not begin transaction: %v", ErrTransactionFailed, err)
	}
	defer tx.Rollback()

	roomType, err := s.AdjustAvailableRoomsTx(tx, actorID, roomTypeID, req)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: could not commit transaction: %v", ErrTransactionFailed, err)
	}
	return roomType, nil
}

// AdjustAvailableRoomsTx performs the adjustment on the caller's transaction.
func (s *inventoryService) AdjustAvailableRoomsTx(executor repositories.SQLExecutor, actorID, roomTypeID int64, req models.InventoryAdjustmentRequest) (*models.RoomType, error) {
	roomType, err := s.roomTypeRepo.LockRoomType(executor, roomTypeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrRoomTypeNotFound, roomTypeID)
		}
		return nil, fmt.Errorf("failed to lock room type: %w", err)
	}

	newAvailable := req.AvailableRooms
	if newAvailable < 0 {
		newAvailable = 0
	}
	if newAvailable > roomType.TotalRooms {
		newAvailable = roomType.TotalRooms
	}

	if newAvailable != roomType.AvailableRooms {
		if err := s.roomTypeRepo.SetAvailableRooms(executor, roomTypeID, newAvailable); err != nil {
			return nil, fmt.Errorf("failed to update available rooms: %w", err)
		}
		note := fmt.Sprintf("manual adjustment: %d -> %d", roomType.AvailableRooms, newAvailable)
		if req.Note != nil && *req.Note != "" {
			note = fmt.Sprintf("%s (%s)", note, *req.Note)
		}
		entry := &models.RoomInventoryLog{
			RoomTypeID:   roomTypeID,
			ChangedBy:    actorID,
			OldAvailable: roomType.AvailableRooms,
			NewAvailable: newAvailable,
			Note:         &note,
		}
		if _, err := s.logRepo.CreateLogEntry(executor, entry); err != nil {
			return nil, fmt.Errorf("failed to write inventory log entry: %w", err)
		}
		roomType.AvailableRooms = newAvailable
	}
	return roomType, nil
}

func (s *inventoryService) GetInventoryLogs(roomTypeID, hotelID *int64, page, pageSize int) ([]models.RoomInventoryLog, int, error) {
	logs, total, err := s.logRepo.GetLogEntries(roomTypeID, hotelID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch inventory logs: %w", err)
	}
	return logs, total, nil
}
