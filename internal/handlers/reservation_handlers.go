package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tripnest_backend/internal/models"
	"tripnest_backend/internal/services"
	"tripnest_backend/pkg/utils"
)

// ReservationHandler handles availability and reservation requests.
type ReservationHandler struct {
	reservationService services.ReservationService
	roomTypeService    services.RoomTypeService
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(rs services.ReservationService, rts services.RoomTypeService) *ReservationHandler {
	return &ReservationHandler{reservationService: rs, roomTypeService: rts}
}

// PreviewAvailability handles GET /room-types/:id/availability.
// The result reflects confirmed reservations at read time; it is not a hold.
func (h *ReservationHandler) PreviewAvailability(c *gin.Context) {
	roomTypeID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid room type ID format", err.Error()))
		return
	}

	var query models.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	query.RoomTypeID = roomTypeID

	result, err := h.reservationService.PreviewAvailability(query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateReservation handles POST /reservations.
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req models.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	reservation, err := h.reservationService.SubmitReservation(actorID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

// CreateTourReservation handles POST /tours/:id/reservations. It is the same
// booking flow with the stay interval taken from the tour's hotel plan.
func (h *ReservationHandler) CreateTourReservation(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		return
	}
	tourID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid tour ID format", err.Error()))
		return
	}

	var req models.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	req.TourID = &tourID

	reservation, err := h.reservationService.SubmitReservation(actorID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

// GetReservations handles GET /reservations.
// Customers only see their own reservations; staff roles may filter freely.
func (h *ReservationHandler) GetReservations(c *gin.Context) {
	actorID, role, ok := actorFromContext(c)
	if !ok {
		return
	}

	var filters models.ReservationFilters
	if raw := c.Query("user_id"); raw != "" {
		id, err := utils.StrToInt64(raw)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid user_id format", err.Error()))
			return
		}
		filters.UserID = &id
	}
	if raw := c.Query("hotel_id"); raw != "" {
		id, err := utils.StrToInt64(raw)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid hotel_id format", err.Error()))
			return
		}
		filters.HotelID = &id
	}
	if raw := c.Query("room_type_id"); raw != "" {
		id, err := utils.StrToInt64(raw)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid room_type_id format", err.Error()))
			return
		}
		filters.RoomTypeID = &id
	}
	if raw := c.Query("tour_id"); raw != "" {
		id, err := utils.StrToInt64(raw)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid tour_id format", err.Error()))
			return
		}
		filters.TourID = &id
	}
	if raw := c.Query("status"); raw != "" {
		if !models.IsValidReservationStatus(raw) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid status value", raw))
			return
		}
		filters.Status = &raw
	}
	if raw := c.Query("date_from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid date_from format, expected YYYY-MM-DD", err.Error()))
			return
		}
		filters.DateFrom = &t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid date_to format, expected YYYY-MM-DD", err.Error()))
			return
		}
		filters.DateTo = &t
	}
	filters.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filters.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if !isStaff(role) {
		filters.UserID = &actorID
	}

	reservations, total, err := h.reservationService.GetReservations(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      reservations,
		"total":     total,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

// GetReservation handles GET /reservations/:id.
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	actorID, role, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid reservation ID format", err.Error()))
		return
	}

	reservation, err := h.reservationService.GetReservationByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !isStaff(role) && reservation.UserID != actorID {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "This reservation belongs to another user", ""))
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// CancelReservation handles POST /reservations/:id/cancel.
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	actorID, role, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid reservation ID format", err.Error()))
		return
	}

	var req struct {
		Note *string `json:"note"`
	}
	// A body is optional on cancel.
	_ = c.ShouldBindJSON(&req)

	reservation, err := h.reservationService.GetReservationByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !isStaff(role) && reservation.UserID != actorID {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "This reservation belongs to another user", ""))
		return
	}

	cancelled, err := h.reservationService.CancelReservation(actorID, id, req.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}

// CompleteReservation handles POST /reservations/:id/complete.
// Restricted to provider and admin roles via route middleware.
func (h *ReservationHandler) CompleteReservation(c *gin.Context) {
	actorID, role, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid reservation ID format", err.Error()))
		return
	}

	reservation, err := h.reservationService.GetReservationByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if role == models.RoleProvider {
		hotel, err := h.roomTypeService.GetHotelByID(reservation.HotelID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if hotel.ProviderID != actorID {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You do not manage this hotel", ""))
			return
		}
	}

	completed, err := h.reservationService.CompleteReservation(actorID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, completed)
}
