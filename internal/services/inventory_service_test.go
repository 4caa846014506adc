package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"tripnest_backend/internal/models"
)

func newInventoryFixture() (InventoryService, *mockRoomTypeRepo, *mockInventoryLogRepo) {
	roomTypeRepo := newMockRoomTypeRepo()
	roomTypeRepo.hotels[1] = &models.Hotel{ID: 1, ProviderID: 10, Name: "Seaside Inn"}
	roomTypeRepo.roomTypes[1] = &models.RoomType{
		ID:             1,
		HotelID:        1,
		Name:           "Double",
		MaxGuests:      2,
		TotalRooms:     10,
		AvailableRooms: 6,
		BasePrice:      decimal.RequireFromString("80.00"),
	}
	logRepo := newMockInventoryLogRepo()
	return NewInventoryService(nil, roomTypeRepo, logRepo), roomTypeRepo, logRepo
}

func TestAdjustAvailableRooms(t *testing.T) {
	svc, roomTypeRepo, logRepo := newInventoryFixture()

	note := "walk-in block released"
	updated, err := svc.AdjustAvailableRoomsTx(nil, 10, 1, models.InventoryAdjustmentRequest{
		AvailableRooms: 9,
		Note:           &note,
	})
	if err != nil {
		t.Fatalf("AdjustAvailableRoomsTx returned error: %v", err)
	}
	if updated.AvailableRooms != 9 {
		t.Errorf("expected counter 9, got %d", updated.AvailableRooms)
	}
	if roomTypeRepo.roomTypes[1].AvailableRooms != 9 {
		t.Errorf("expected stored counter 9, got %d", roomTypeRepo.roomTypes[1].AvailableRooms)
	}
	if len(logRepo.entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(logRepo.entries))
	}
	entry := logRepo.entries[0]
	if entry.OldAvailable != 6 || entry.NewAvailable != 9 || entry.ChangedBy != 10 {
		t.Errorf("unexpected log entry: %+v", entry)
	}
}

func TestAdjustAvailableRooms_ClampedToTotal(t *testing.T) {
	svc, roomTypeRepo, _ := newInventoryFixture()

	updated, err := svc.AdjustAvailableRoomsTx(nil, 10, 1, models.InventoryAdjustmentRequest{
		AvailableRooms: 25,
	})
	if err != nil {
		t.Fatalf("AdjustAvailableRoomsTx returned error: %v", err)
	}
	if updated.AvailableRooms != roomTypeRepo.roomTypes[1].TotalRooms {
		t.Errorf("expected counter clamped to %d, got %d", roomTypeRepo.roomTypes[1].TotalRooms, updated.AvailableRooms)
	}
}

func TestAdjustAvailableRooms_NoChangeWritesNoLog(t *testing.T) {
	svc, _, logRepo := newInventoryFixture()

	if _, err := svc.AdjustAvailableRoomsTx(nil, 10, 1, models.InventoryAdjustmentRequest{AvailableRooms: 6}); err != nil {
		t.Fatalf("AdjustAvailableRoomsTx returned error: %v", err)
	}
	if len(logRepo.entries) != 0 {
		t.Errorf("expected no log entries, got %d", len(logRepo.entries))
	}
}

func TestAdjustAvailableRooms_RoomTypeNotFound(t *testing.T) {
	svc, _, _ := newInventoryFixture()

	_, err := svc.AdjustAvailableRoomsTx(nil, 10, 99, models.InventoryAdjustmentRequest{AvailableRooms: 1})
	if !errors.Is(err, ErrRoomTypeNotFound) {
		t.Errorf("expected ErrRoomTypeNotFound, got %v", err)
	}
}
