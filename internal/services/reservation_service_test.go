package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"tripnest_backend/internal/models"
)

type reservationFixture struct {
	svc             ReservationService
	reservationRepo *mockReservationRepo
	roomTypeRepo    *mockRoomTypeRepo
	logRepo         *mockInventoryLogRepo
	tourRepo        *mockTourRepo
}

func newReservationFixture(totalRooms int) *reservationFixture {
	roomTypeRepo := newMockRoomTypeRepo()
	roomTypeRepo.hotels[1] = &models.Hotel{ID: 1, ProviderID: 10, Name: "Seaside Inn"}
	roomTypeRepo.roomTypes[1] = &models.RoomType{
		ID:             1,
		HotelID:        1,
		Name:           "Double",
		MaxGuests:      2,
		TotalRooms:     totalRooms,
		AvailableRooms: totalRooms,
		BasePrice:      decimal.RequireFromString("100.50"),
	}

	reservationRepo := newMockReservationRepo()
	logRepo := newMockInventoryLogRepo()
	tourRepo := newMockTourRepo()
	stayService := NewStayService(tourRepo)

	return &reservationFixture{
		svc:             NewReservationService(nil, reservationRepo, roomTypeRepo, logRepo, stayService),
		reservationRepo: reservationRepo,
		roomTypeRepo:    roomTypeRepo,
		logRepo:         logRepo,
		tourRepo:        tourRepo,
	}
}

func (f *reservationFixture) submit(t *testing.T, checkIn, checkOut string, rooms int) *models.Reservation {
	t.Helper()
	reservation, err := f.svc.SubmitReservationTx(nil, 100, models.ReservationRequest{
		HotelID:      1,
		RoomTypeID:   1,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		RoomsBooked:  rooms,
	})
	if err != nil {
		t.Fatalf("SubmitReservationTx(%s, %s, %d rooms) returned error: %v", checkIn, checkOut, rooms, err)
	}
	return reservation
}

func TestSubmitReservation_BackToBackStaysShareNoNight(t *testing.T) {
	f := newReservationFixture(1)

	f.submit(t, "2027-01-10", "2027-01-12", 1)

	// Check-in on another guest's check-out day must succeed.
	f.submit(t, "2027-01-12", "2027-01-14", 1)

	// A stay spanning a booked night must not.
	_, err := f.svc.SubmitReservationTx(nil, 100, models.ReservationRequest{
		HotelID:      1,
		RoomTypeID:   1,
		CheckInDate:  "2027-01-11",
		CheckOutDate: "2027-01-13",
		RoomsBooked:  1,
	})
	if !errors.Is(err, ErrInsufficientAvailability) {
		t.Errorf("expected ErrInsufficientAvailability, got %v", err)
	}
}

func TestSubmitReservation_StockExhaustion(t *testing.T) {
	f := newReservationFixture(3)

	f.submit(t, "2027-02-01", "2027-02-05", 2)
	f.submit(t, "2027-02-03", "2027-02-06", 1)

	_, err := f.svc.SubmitReservationTx(nil, 100, models.ReservationRequest{
		HotelID:      1,
		RoomTypeID:   1,
		CheckInDate:  "2027-02-04",
		CheckOutDate: "2027-02-07",
		RoomsBooked:  1,
	})
	if !errors.Is(err, ErrInsufficientAvailability) {
		t.Errorf("expected ErrInsufficientAvailability, got %v", err)
	}

	// Outside the congested nights the same request is fine.
	f.submit(t, "2027-02-06", "2027-02-09", 3)
}

func TestSubmitReservation_TotalAmountAndReference(t *testing.T) {
	f := newReservationFixture(3)

	reservation := f.submit(t, "2027-03-01", "2027-03-04", 2)

	if reservation.Nights != 3 {
		t.Errorf("expected 3 nights, got %d", reservation.Nights)
	}
	// 100.50 * 2 rooms * 3 nights
	expected := decimal.RequireFromString("603.00")
	if !reservation.TotalAmount.Equal(expected) {
		t.Errorf("expected total %s, got %s", expected, reservation.TotalAmount)
	}
	if reservation.ReferenceCode == "" {
		t.Error("expected a reference code")
	}
	if reservation.Status != string(models.ReservationStatusConfirmed) {
		t.Errorf("expected confirmed status, got %s", reservation.Status)
	}
}

func TestSubmitReservation_DecrementsCounterAndWritesLog(t *testing.T) {
	f := newReservationFixture(3)

	f.submit(t, "2027-03-01", "2027-03-04", 2)

	roomType := f.roomTypeRepo.roomTypes[1]
	if roomType.AvailableRooms != 1 {
		t.Errorf("expected advertised counter 1, got %d", roomType.AvailableRooms)
	}
	if len(f.logRepo.entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(f.logRepo.entries))
	}
	entry := f.logRepo.entries[0]
	if entry.OldAvailable != 3 || entry.NewAvailable != 1 {
		t.Errorf("expected log 3 -> 1, got %d -> %d", entry.OldAvailable, entry.NewAvailable)
	}
	if entry.ChangedBy != 100 {
		t.Errorf("expected log actor 100, got %d", entry.ChangedBy)
	}
}

func TestSubmitReservation_TooManyGuests(t *testing.T) {
	f := newReservationFixture(3)

	_, err := f.svc.SubmitReservationTx(nil, 100, models.ReservationRequest{
		HotelID:      1,
		RoomTypeID:   1,
		CheckInDate:  "2027-03-01",
		CheckOutDate: "2027-03-04",
		RoomsBooked:  1,
		GuestsCount:  3, // room sleeps 2
	})
	if !errors.Is(err, ErrTooManyGuests) {
		t.Errorf("expected ErrTooManyGuests, got %v", err)
	}
}

func TestSubmitReservation_RoomTypeHotelMismatch(t *testing.T) {
	f := newReservationFixture(3)

	_, err := f.svc.SubmitReservationTx(nil, 100, models.ReservationRequest{
		HotelID:      2,
		RoomTypeID:   1,
		CheckInDate:  "2027-03-01",
		CheckOutDate: "2027-03-04",
		RoomsBooked:  1,
	})
	if !errors.Is(err, ErrRoomTypeNotFound) {
		t.Errorf("expected ErrRoomTypeNotFound, got %v", err)
	}
}

func TestSubmitReservation_TourLinkedDates(t *testing.T) {
	f := newReservationFixture(3)
	f.tourRepo.tours[5] = &models.Tour{
		ID:        5,
		StartDate: date("2027-07-01"),
		EndDate:   date("2027-07-05"),
	}
	f.tourRepo.stays = []models.TourHotelStay{
		{TourID: 5, HotelID: 1, CheckInDate: date("2027-07-02"), CheckOutDate: date("2027-07-04")},
	}

	tourID := int64(5)
	reservation, err := f.svc.SubmitReservationTx(nil, 100, models.ReservationRequest{
		HotelID:     1,
		RoomTypeID:  1,
		TourID:      &tourID,
		RoomsBooked: 1,
	})
	if err != nil {
		t.Fatalf("SubmitReservationTx returned error: %v", err)
	}
	if !reservation.CheckInDate.Equal(date("2027-07-02")) || !reservation.CheckOutDate.Equal(date("2027-07-04")) {
		t.Errorf("expected dates from tour plan, got %v .. %v", reservation.CheckInDate, reservation.CheckOutDate)
	}
	if reservation.TourID == nil || *reservation.TourID != 5 {
		t.Error("expected reservation linked to tour 5")
	}
}

func TestCancelReservation_FreesCapacityForNewBooking(t *testing.T) {
	f := newReservationFixture(1)

	first := f.submit(t, "2027-04-01", "2027-04-05", 1)

	// Sold out across those nights.
	_, err := f.svc.SubmitReservationTx(nil, 101, models.ReservationRequest{
		HotelID:      1,
		RoomTypeID:   1,
		CheckInDate:  "2027-04-02",
		CheckOutDate: "2027-04-04",
		RoomsBooked:  1,
	})
	if !errors.Is(err, ErrInsufficientAvailability) {
		t.Fatalf("expected ErrInsufficientAvailability, got %v", err)
	}

	if err := f.svc.CancelReservationTx(nil, 100, first.ID, nil); err != nil {
		t.Fatalf("CancelReservationTx returned error: %v", err)
	}

	// The cancelled rooms no longer count against stock.
	f.submit(t, "2027-04-02", "2027-04-04", 1)
}

func TestCancelReservation_RestoresCounterAndLogs(t *testing.T) {
	f := newReservationFixture(3)

	reservation := f.submit(t, "2027-04-01", "2027-04-05", 2)
	if err := f.svc.CancelReservationTx(nil, 100, reservation.ID, nil); err != nil {
		t.Fatalf("CancelReservationTx returned error: %v", err)
	}

	roomType := f.roomTypeRepo.roomTypes[1]
	if roomType.AvailableRooms != 3 {
		t.Errorf("expected counter restored to 3, got %d", roomType.AvailableRooms)
	}
	if len(f.logRepo.entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(f.logRepo.entries))
	}
	restore := f.logRepo.entries[1]
	if restore.OldAvailable != 1 || restore.NewAvailable != 3 {
		t.Errorf("expected log 1 -> 3, got %d -> %d", restore.OldAvailable, restore.NewAvailable)
	}

	stored, err := f.svc.GetReservationByID(reservation.ID)
	if err != nil {
		t.Fatalf("GetReservationByID returned error: %v", err)
	}
	if stored.Status != string(models.ReservationStatusCancelled) {
		t.Errorf("expected cancelled status, got %s", stored.Status)
	}
}

func TestCancelReservation_TerminalStatesAreFinal(t *testing.T) {
	f := newReservationFixture(3)

	reservation := f.submit(t, "2027-04-01", "2027-04-05", 1)
	if err := f.svc.CancelReservationTx(nil, 100, reservation.ID, nil); err != nil {
		t.Fatalf("CancelReservationTx returned error: %v", err)
	}

	err := f.svc.CancelReservationTx(nil, 100, reservation.ID, nil)
	if !errors.Is(err, ErrAlreadyTerminal) {
		t.Errorf("expected ErrAlreadyTerminal on second cancel, got %v", err)
	}

	// The counter must not be restored twice.
	if f.roomTypeRepo.roomTypes[1].AvailableRooms != 3 {
		t.Errorf("expected counter 3, got %d", f.roomTypeRepo.roomTypes[1].AvailableRooms)
	}
}

func TestCancelReservation_ClosedAfterCheckout(t *testing.T) {
	f := newReservationFixture(3)

	// Seed a reservation whose stay already ended.
	past, _ := f.reservationRepo.CreateReservation(nil, &models.Reservation{
		ReferenceCode: "past-stay",
		UserID:        100,
		HotelID:       1,
		RoomTypeID:    1,
		CheckInDate:   date("2020-01-01"),
		CheckOutDate:  date("2020-01-05"),
		RoomsBooked:   1,
		Status:        string(models.ReservationStatusConfirmed),
	})

	err := f.svc.CancelReservationTx(nil, 100, past.ID, nil)
	if !errors.Is(err, ErrCancellationClosed) {
		t.Errorf("expected ErrCancellationClosed, got %v", err)
	}
}

func TestCompleteReservation(t *testing.T) {
	f := newReservationFixture(3)

	past, _ := f.reservationRepo.CreateReservation(nil, &models.Reservation{
		ReferenceCode: "past-stay",
		UserID:        100,
		HotelID:       1,
		RoomTypeID:    1,
		CheckInDate:   date("2020-01-01"),
		CheckOutDate:  date("2020-01-05"),
		RoomsBooked:   1,
		Status:        string(models.ReservationStatusConfirmed),
	})

	completed, err := f.svc.CompleteReservation(10, past.ID)
	if err != nil {
		t.Fatalf("CompleteReservation returned error: %v", err)
	}
	if completed.Status != string(models.ReservationStatusCompleted) {
		t.Errorf("expected completed status, got %s", completed.Status)
	}

	// Completion does not touch the advertised counter.
	if f.roomTypeRepo.roomTypes[1].AvailableRooms != 3 {
		t.Errorf("expected counter 3, got %d", f.roomTypeRepo.roomTypes[1].AvailableRooms)
	}

	_, err = f.svc.CompleteReservation(10, past.ID)
	if !errors.Is(err, ErrAlreadyTerminal) {
		t.Errorf("expected ErrAlreadyTerminal on second complete, got %v", err)
	}
}

func TestCompleteReservation_BeforeCheckout(t *testing.T) {
	f := newReservationFixture(3)

	reservation := f.submit(t, "2027-04-01", "2027-04-05", 1)

	_, err := f.svc.CompleteReservation(10, reservation.ID)
	if !errors.Is(err, ErrStayNotFinished) {
		t.Errorf("expected ErrStayNotFinished, got %v", err)
	}
}

func TestPreviewAvailability(t *testing.T) {
	f := newReservationFixture(3)

	f.submit(t, "2027-05-01", "2027-05-04", 2)

	query := models.AvailabilityQuery{
		RoomTypeID:   1,
		CheckInDate:  "2027-05-02",
		CheckOutDate: "2027-05-03",
	}
	result, err := f.svc.PreviewAvailability(query)
	if err != nil {
		t.Fatalf("PreviewAvailability returned error: %v", err)
	}
	if result.TotalRooms != 3 || result.BookedRooms != 2 || result.FreeRooms != 1 {
		t.Errorf("unexpected availability: %+v", result)
	}

	// Previewing is a pure read: repeating it changes nothing and the audit
	// log gains no entries.
	logEntries := len(f.logRepo.entries)
	again, err := f.svc.PreviewAvailability(query)
	if err != nil {
		t.Fatalf("PreviewAvailability returned error: %v", err)
	}
	if again.FreeRooms != result.FreeRooms || again.BookedRooms != result.BookedRooms {
		t.Errorf("preview not idempotent: %+v vs %+v", result, again)
	}
	if len(f.logRepo.entries) != logEntries {
		t.Errorf("preview wrote %d log entries", len(f.logRepo.entries)-logEntries)
	}

	// Outside the booked range everything is free.
	free, err := f.svc.PreviewAvailability(models.AvailabilityQuery{
		RoomTypeID:   1,
		CheckInDate:  "2027-05-04",
		CheckOutDate: "2027-05-06",
	})
	if err != nil {
		t.Fatalf("PreviewAvailability returned error: %v", err)
	}
	if free.FreeRooms != 3 {
		t.Errorf("expected 3 free rooms, got %d", free.FreeRooms)
	}
}
