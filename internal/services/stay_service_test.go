package services

import (
	"errors"
	"testing"

	"tripnest_backend/internal/models"
)

func TestResolveDirectStay(t *testing.T) {
	svc := NewStayService(newMockTourRepo())

	interval, err := svc.ResolveDirectStay("2027-01-10", "2027-01-13")
	if err != nil {
		t.Fatalf("ResolveDirectStay returned error: %v", err)
	}
	if !interval.CheckIn.Equal(date("2027-01-10")) || !interval.CheckOut.Equal(date("2027-01-13")) {
		t.Errorf("unexpected interval: %v", interval)
	}
	if interval.Nights() != 3 {
		t.Errorf("expected 3 nights, got %d", interval.Nights())
	}
}

func TestResolveDirectStay_InvalidRanges(t *testing.T) {
	svc := NewStayService(newMockTourRepo())

	cases := []struct {
		name     string
		checkIn  string
		checkOut string
	}{
		{"equal dates", "2027-01-10", "2027-01-10"},
		{"reversed dates", "2027-01-13", "2027-01-10"},
		{"malformed check-in", "10-01-2027", "2027-01-13"},
		{"empty check-out", "2027-01-10", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ResolveDirectStay(tc.checkIn, tc.checkOut)
			if !errors.Is(err, ErrInvalidDateRange) {
				t.Errorf("expected ErrInvalidDateRange, got %v", err)
			}
		})
	}
}

func TestResolveTourStay_EnvelopeOfPlannedStays(t *testing.T) {
	tourRepo := newMockTourRepo()
	tourRepo.tours[1] = &models.Tour{
		ID:        1,
		StartDate: date("2027-06-01"),
		EndDate:   date("2027-06-10"),
	}
	tourRepo.stays = []models.TourHotelStay{
		{TourID: 1, HotelID: 7, CheckInDate: date("2027-06-04"), CheckOutDate: date("2027-06-06")},
		{TourID: 1, HotelID: 7, CheckInDate: date("2027-06-02"), CheckOutDate: date("2027-06-03")},
		{TourID: 1, HotelID: 9, CheckInDate: date("2027-06-01"), CheckOutDate: date("2027-06-09")},
	}
	svc := NewStayService(tourRepo)

	interval, err := svc.ResolveTourStay(1, 7)
	if err != nil {
		t.Fatalf("ResolveTourStay returned error: %v", err)
	}
	// Envelope of the two hotel-7 segments only.
	if !interval.CheckIn.Equal(date("2027-06-02")) || !interval.CheckOut.Equal(date("2027-06-06")) {
		t.Errorf("unexpected interval: %v", interval)
	}
}

func TestResolveTourStay_FallsBackToTourSpan(t *testing.T) {
	tourRepo := newMockTourRepo()
	tourRepo.tours[1] = &models.Tour{
		ID:        1,
		StartDate: date("2027-06-01"),
		EndDate:   date("2027-06-10"),
	}
	svc := NewStayService(tourRepo)

	interval, err := svc.ResolveTourStay(1, 7)
	if err != nil {
		t.Fatalf("ResolveTourStay returned error: %v", err)
	}
	// No planned stays: the interval covers every tour night, including the
	// night of the final day.
	if !interval.CheckIn.Equal(date("2027-06-01")) || !interval.CheckOut.Equal(date("2027-06-11")) {
		t.Errorf("unexpected interval: %v", interval)
	}
}

func TestResolveTourStay_StayOutsideTourDates(t *testing.T) {
	tourRepo := newMockTourRepo()
	tourRepo.tours[1] = &models.Tour{
		ID:        1,
		StartDate: date("2027-06-01"),
		EndDate:   date("2027-06-10"),
	}
	tourRepo.stays = []models.TourHotelStay{
		{TourID: 1, HotelID: 7, CheckInDate: date("2027-05-30"), CheckOutDate: date("2027-06-05")},
	}
	svc := NewStayService(tourRepo)

	_, err := svc.ResolveTourStay(1, 7)
	if !errors.Is(err, ErrOutOfBoundsInterval) {
		t.Errorf("expected ErrOutOfBoundsInterval, got %v", err)
	}
}

func TestResolveTourStay_TourNotFound(t *testing.T) {
	svc := NewStayService(newMockTourRepo())

	_, err := svc.ResolveTourStay(42, 7)
	if !errors.Is(err, ErrTourNotFound) {
		t.Errorf("expected ErrTourNotFound, got %v", err)
	}
}
