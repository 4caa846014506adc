package services

import (
	"errors"
	"fmt"
	"time"

	"tripnest_backend/internal/models"
	"tripnest_backend/internal/repositories"
)

// --- Custom Service Errors for Stay Resolution ---
var (
	ErrInvalidDateRange    = errors.New("invalid date range")
	ErrOutOfBoundsInterval = errors.New("stay interval falls outside the tour dates")
	ErrTourNotFound        = errors.New("tour not found")
)

const stayDateLayout = "2006-01-02"

// parseStayDate parses a YYYY-MM-DD calendar date at UTC midnight.
func parseStayDate(value string) (time.Time, error) {
	t, err := time.Parse(stayDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a valid YYYY-MM-DD date", ErrInvalidDateRange, value)
	}
	return t, nil
}

// StayService resolves a booking attempt into a validated half-open
// [check_in, check_out) interval, either from explicit dates (direct hotel
// booking) or from a tour's planned hotel stays.
type StayService interface {
	ResolveDirectStay(checkIn, checkOut string) (models.StayInterval, error)
	ResolveTourStay(tourID, hotelID int64) (models.StayInterval, error)
}

type stayService struct {
	tourRepo repositories.TourRepository
}

// NewStayService creates a new instance of StayService.
func NewStayService(tr repositories.TourRepository) StayService {
	return &stayService{tourRepo: tr}
}

func (s *stayService) ResolveDirectStay(checkIn, checkOut string) (models.StayInterval, error) {
	in, err := parseStayDate(checkIn)
	if err != nil {
		return models.StayInterval{}, err
	}
	out, err := parseStayDate(checkOut)
	if err != nil {
		return models.StayInterval{}, err
	}
	if !out.After(in) {
		return models.StayInterval{}, fmt.Errorf("%w: check-out must be after check-in", ErrInvalidDateRange)
	}
	return models.StayInterval{CheckIn: in, CheckOut: out}, nil
}

// ResolveTourStay derives the stay interval for a tour-linked hotel booking.
// When the organizer has planned stay segments for the hotel, the interval is
// their envelope (earliest check-in through latest check-out). Without stay
// rows it defaults to the tour's own span: start date through the day after
// the end date.
func (s *stayService) ResolveTourStay(tourID, hotelID int64) (models.StayInterval, error) {
	tour, err := s.tourRepo.GetTourByID(tourID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.StayInterval{}, fmt.Errorf("%w: ID %d", ErrTourNotFound, tourID)
		}
		return models.StayInterval{}, fmt.Errorf("failed to fetch tour for stay resolution: %w", err)
	}
	if tour.EndDate.Before(tour.StartDate) {
		return models.StayInterval{}, fmt.Errorf("%w: tour %d has end date before start date", ErrInvalidDateRange, tourID)
	}

	stays, err := s.tourRepo.GetTourHotelStays(tourID, hotelID)
	if err != nil {
		return models.StayInterval{}, fmt.Errorf("failed to fetch tour hotel stays: %w", err)
	}

	span := tour.Span()
	if len(stays) == 0 {
		return span, nil
	}

	interval := models.StayInterval{CheckIn: stays[0].CheckInDate, CheckOut: stays[0].CheckOutDate}
	for _, stay := range stays[1:] {
		if stay.CheckInDate.Before(interval.CheckIn) {
			interval.CheckIn = stay.CheckInDate
		}
		if stay.CheckOutDate.After(interval.CheckOut) {
			interval.CheckOut = stay.CheckOutDate
		}
	}
	if !interval.CheckOut.After(interval.CheckIn) {
		return models.StayInterval{}, fmt.Errorf("%w: planned stays for tour %d, hotel %d have an empty range", ErrInvalidDateRange, tourID, hotelID)
	}
	if !span.Contains(interval.CheckIn, interval.CheckOut) {
		return models.StayInterval{}, fmt.Errorf("%w: stay %s..%s vs tour %s..%s",
			ErrOutOfBoundsInterval,
			interval.CheckIn.Format(stayDateLayout), interval.CheckOut.Format(stayDateLayout),
			span.CheckIn.Format(stayDateLayout), span.CheckOut.Format(stayDateLayout))
	}
	return interval, nil
}
