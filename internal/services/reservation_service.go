package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tripnest_backend/internal/models"
	"tripnest_backend/internal/repositories"
)

// --- Custom Service Errors for Reservations ---
var (
	ErrReservationNotFound      = errors.New("reservation not found")
	ErrRoomTypeNotFound         = errors.New("room type not found")
	ErrInsufficientAvailability = errors.New("not enough rooms available for the requested dates")
	ErrAlreadyTerminal          = errors.New("reservation is already cancelled or completed")
	ErrCancellationClosed       = errors.New("reservation can no longer be cancelled after check-out")
	ErrStayNotFinished          = errors.New("reservation cannot be completed before check-out")
	ErrTooManyGuests            = errors.New("guest count exceeds the capacity of the booked rooms")
	ErrTransactionFailed        = errors.New("reservation transaction failed")
)

// ReservationService implements the booking flow: availability reads,
// the locked reservation transaction, and status transitions.
//
// SubmitReservationTx is exported separately so callers that already hold a
// transaction (for example a tour checkout that books several hotels) can run
// the reservation as one step of their own unit of work.
type ReservationService interface {
	PreviewAvailability(query models.AvailabilityQuery) (*models.AvailabilityResult, error)
	SubmitReservation(actorID int64, req models.ReservationRequest) (*models.Reservation, error)
	SubmitReservationTx(executor repositories.SQLExecutor, actorID int64, req models.ReservationRequest) (*models.Reservation, error)
	CancelReservation(actorID, reservationID int64, note *string) (*models.Reservation, error)
	CancelReservationTx(executor repositories.SQLExecutor, actorID, reservationID int64, note *string) error
	CompleteReservation(actorID, reservationID int64) (*models.Reservation, error)
	GetReservationByID(id int64) (*models.Reservation, error)
	GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error)
}

type reservationService struct {
	db              *sql.DB
	reservationRepo repositories.ReservationRepository
	roomTypeRepo    repositories.RoomTypeRepository
	logRepo         repositories.InventoryLogRepository
	stayService     StayService
}

// NewReservationService creates a new instance of ReservationService.
func NewReservationService(
	db *sql.DB,
	rr repositories.ReservationRepository,
	rtr repositories.RoomTypeRepository,
	lr repositories.InventoryLogRepository,
	ss StayService,
) ReservationService {
	return &reservationService{
		db:              db,
		reservationRepo: rr,
		roomTypeRepo:    rtr,
		logRepo:         lr,
		stayService:     ss,
	}
}

// resolveInterval turns a booking request into a stay interval. Tour-linked
// requests take their dates from the tour's hotel plan; any explicit dates on
// the request are ignored in that case.
func (s *reservationService) resolveInterval(req models.ReservationRequest) (models.StayInterval, error) {
	if req.TourID != nil {
		return s.stayService.ResolveTourStay(*req.TourID, req.HotelID)
	}
	if req.CheckInDate == "" || req.CheckOutDate == "" {
		return models.StayInterval{}, fmt.Errorf("%w: check-in and check-out dates are required for a direct booking", ErrInvalidDateRange)
	}
	return s.stayService.ResolveDirectStay(req.CheckInDate, req.CheckOutDate)
}

func (s *reservationService) PreviewAvailability(query models.AvailabilityQuery) (*models.AvailabilityResult, error) {
	roomType, err := s.roomTypeRepo.GetRoomTypeByID(query.RoomTypeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrRoomTypeNotFound, query.RoomTypeID)
		}
		return nil, fmt.Errorf("failed to fetch room type for availability: %w", err)
	}

	var interval models.StayInterval
	if query.TourID != nil {
		interval, err = s.stayService.ResolveTourStay(*query.TourID, roomType.HotelID)
	} else {
		interval, err = s.stayService.ResolveDirectStay(query.CheckInDate, query.CheckOutDate)
	}
	if err != nil {
		return nil, err
	}

	booked, err := s.reservationRepo.SumOverlappingRooms(s.db, roomType.ID, interval.CheckIn, interval.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("failed to sum overlapping reservations: %w", err)
	}

	free := roomType.TotalRooms - booked
	if free < 0 {
		free = 0
	}
	return &models.AvailabilityResult{
		RoomTypeID:   roomType.ID,
		CheckInDate:  interval.CheckIn,
		CheckOutDate: interval.CheckOut,
		Nights:       interval.Nights(),
		TotalRooms:   roomType.TotalRooms,
		BookedRooms:  booked,
		FreeRooms:    free,
		BasePrice:    roomType.BasePrice,
	}, nil
}

// SubmitReservation runs SubmitReservationTx inside its own transaction.
func (s *reservationService) SubmitReservation(actorID int64, req models.ReservationRequest) (*models.Reservation, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: could not begin transaction: %v", ErrTransactionFailed, err)
	}
	defer tx.Rollback()

	reservation, err := s.SubmitReservationTx(tx, actorID, req)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: could not commit transaction: %v", ErrTransactionFailed, err)
	}
	return reservation, nil
}

// SubmitReservationTx books rooms on the caller's executor, which must be a
// transaction: the room-type row lock taken here is what serializes competing
// bookings, and it only exists for the lifetime of that transaction.
//
// The availability check is recomputed under the lock from confirmed
// reservations, so a stale PreviewAvailability result can never oversell.
func (s *reservationService) SubmitReservationTx(executor repositories.SQLExecutor, actorID int64, req models.ReservationRequest) (*models.Reservation, error) {
	if req.RoomsBooked < 1 {
		return nil, fmt.Errorf("%w: rooms_booked must be at least 1", ErrInvalidDateRange)
	}

	interval, err := s.resolveInterval(req)
	if err != nil {
		return nil, err
	}

	roomType, err := s.roomTypeRepo.LockRoomType(executor, req.RoomTypeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrRoomTypeNotFound, req.RoomTypeID)
		}
		return nil, fmt.Errorf("failed to lock room type: %w", err)
	}
	if roomType.HotelID != req.HotelID {
		return nil, fmt.Errorf("%w: room type %d does not belong to hotel %d", ErrRoomTypeNotFound, req.RoomTypeID, req.HotelID)
	}

	guests := req.GuestsCount
	if guests <= 0 {
		guests = req.RoomsBooked
	}
	if guests > roomType.MaxGuests*req.RoomsBooked {
		return nil, fmt.Errorf("%w: %d guests in %d room(s) of capacity %d", ErrTooManyGuests, guests, req.RoomsBooked, roomType.MaxGuests)
	}

	booked, err := s.reservationRepo.SumOverlappingRooms(executor, roomType.ID, interval.CheckIn, interval.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("failed to sum overlapping reservations: %w", err)
	}
	free := roomType.TotalRooms - booked
	if free < req.RoomsBooked {
		if free < 0 {
			free = 0
		}
		return nil, fmt.Errorf("%w: requested %d, %d free between %s and %s",
			ErrInsufficientAvailability, req.RoomsBooked, free,
			interval.CheckIn.Format(stayDateLayout), interval.CheckOut.Format(stayDateLayout))
	}

	nights := interval.Nights()
	total := roomType.BasePrice.
		Mul(decimal.NewFromInt(int64(req.RoomsBooked))).
		Mul(decimal.NewFromInt(int64(nights)))

	reservation := &models.Reservation{
		ReferenceCode: uuid.NewString(),
		UserID:        actorID,
		HotelID:       req.HotelID,
		RoomTypeID:    req.RoomTypeID,
		TourID:        req.TourID,
		CheckInDate:   interval.CheckIn,
		CheckOutDate:  interval.CheckOut,
		RoomsBooked:   req.RoomsBooked,
		GuestsCount:   guests,
		Nights:        nights,
		TotalAmount:   total,
		Status:        string(models.ReservationStatusConfirmed),
		Note:          req.Note,
	}
	created, err := s.reservationRepo.CreateReservation(executor, reservation)
	if err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	// The advertised counter is a projection of stock, not the source of
	// truth; it moves with every booking and is clamped at zero.
	newAvailable := roomType.AvailableRooms - req.RoomsBooked
	if newAvailable < 0 {
		newAvailable = 0
	}
	if err := s.applyCounterChange(executor, roomType, newAvailable, actorID,
		fmt.Sprintf("reservation %s confirmed: -%d room(s)", created.ReferenceCode, req.RoomsBooked)); err != nil {
		return nil, err
	}

	created.RoomType = roomType
	return created, nil
}

// CancelReservation runs CancelReservationTx inside its own transaction.
func (s *reservationService) CancelReservation(actorID, reservationID int64, note *string) (*models.Reservation, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: could not begin transaction: %v", ErrTransactionFailed, err)
	}
	defer tx.Rollback()

	if err := s.CancelReservationTx(tx, actorID, reservationID, note); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: could not commit transaction: %v", ErrTransactionFailed, err)
	}
	return s.reservationRepo.GetReservationByID(reservationID)
}

// CancelReservationTx cancels a confirmed reservation and returns its rooms
// to the advertised counter, on the caller's transaction. Cancellation is
// only allowed before the check-out date; after that the stay can only be
// completed.
func (s *reservationService) CancelReservationTx(executor repositories.SQLExecutor, actorID, reservationID int64, note *string) error {
	reservation, err := s.reservationRepo.GetReservationByID(reservationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: ID %d", ErrReservationNotFound, reservationID)
		}
		return fmt.Errorf("failed to fetch reservation: %w", err)
	}
	if models.IsTerminalReservationStatus(reservation.Status) {
		return fmt.Errorf("%w: reservation %s is %s", ErrAlreadyTerminal, reservation.ReferenceCode, reservation.Status)
	}
	if !time.Now().Before(reservation.CheckOutDate) {
		return fmt.Errorf("%w: reservation %s checked out on %s",
			ErrCancellationClosed, reservation.ReferenceCode, reservation.CheckOutDate.Format(stayDateLayout))
	}

	// Same lock order as SubmitReservationTx: room type first, then the
	// reservation row, so cancellations and bookings never deadlock.
	roomType, err := s.roomTypeRepo.LockRoomType(executor, reservation.RoomTypeID)
	if err != nil {
		return fmt.Errorf("failed to lock room type: %w", err)
	}
	err = s.reservationRepo.UpdateReservationStatus(executor, reservationID,
		models.ReservationStatusConfirmed, models.ReservationStatusCancelled)
	if err != nil {
		if errors.Is(err, repositories.ErrStatusConflict) {
			return fmt.Errorf("%w: reservation %s was updated concurrently", ErrAlreadyTerminal, reservation.ReferenceCode)
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: ID %d", ErrReservationNotFound, reservationID)
		}
		return fmt.Errorf("failed to cancel reservation: %w", err)
	}

	newAvailable := roomType.AvailableRooms + reservation.RoomsBooked
	if newAvailable > roomType.TotalRooms {
		newAvailable = roomType.TotalRooms
	}
	logNote := fmt.Sprintf("reservation %s cancelled: +%d room(s)", reservation.ReferenceCode, reservation.RoomsBooked)
	if note != nil && *note != "" {
		logNote = fmt.Sprintf("%s (%s)", logNote, *note)
	}
	return s.applyCounterChange(executor, roomType, newAvailable, actorID, logNote)
}

// CompleteReservation marks a stay as finished. It is only valid once the
// check-out date has passed, and it does not touch the advertised counter:
// rooms freed by time, not by cancellation, re-enter the counter through
// provider inventory adjustments.
func (s *reservationService) CompleteReservation(actorID, reservationID int64) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetReservationByID(reservationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrReservationNotFound, reservationID)
		}
		return nil, fmt.Errorf("failed to fetch reservation: %w", err)
	}
	if models.IsTerminalReservationStatus(reservation.Status) {
		return nil, fmt.Errorf("%w: reservation %s is %s", ErrAlreadyTerminal, reservation.ReferenceCode, reservation.Status)
	}
	if time.Now().Before(reservation.CheckOutDate) {
		return nil, fmt.Errorf("%w: reservation %s checks out on %s",
			ErrStayNotFinished, reservation.ReferenceCode, reservation.CheckOutDate.Format(stayDateLayout))
	}

	err = s.reservationRepo.UpdateReservationStatus(s.db, reservationID,
		models.ReservationStatusConfirmed, models.ReservationStatusCompleted)
	if err != nil {
		if errors.Is(err, repositories.ErrStatusConflict) {
			return nil, fmt.Errorf("%w: reservation %s was updated concurrently", ErrAlreadyTerminal, reservation.ReferenceCode)
		}
		return nil, fmt.Errorf("failed to complete reservation: %w", err)
	}
	return s.reservationRepo.GetReservationByID(reservationID)
}

func (s *reservationService) GetReservationByID(id int64) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetReservationByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrReservationNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch reservation: %w", err)
	}
	return reservation, nil
}

func (s *reservationService) GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error) {
	reservations, total, err := s.reservationRepo.GetReservations(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reservations: %w", err)
	}
	return reservations, total, nil
}

// applyCounterChange writes the new advertised counter and its audit entry.
// Callers must hold the room-type row lock on the same executor.
func (s *reservationService) applyCounterChange(executor repositories.SQLExecutor, roomType *models.RoomType, newAvailable int, actorID int64, note string) error {
	if newAvailable == roomType.AvailableRooms {
		return nil
	}
	if err := s.roomTypeRepo.SetAvailableRooms(executor, roomType.ID, newAvailable); err != nil {
		return fmt.Errorf("failed to update available rooms: %w", err)
	}
	entry := &models.RoomInventoryLog{
		RoomTypeID:   roomType.ID,
		ChangedBy:    actorID,
		OldAvailable: roomType.AvailableRooms,
		NewAvailable: newAvailable,
		Note:         &note,
	}
	if _, err := s.logRepo.CreateLogEntry(executor, entry); err != nil {
		return fmt.Errorf("failed to write inventory log entry: %w", err)
	}
	roomType.AvailableRooms = newAvailable
	return nil
}
