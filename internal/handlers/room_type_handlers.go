package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripnest_backend/internal/models"
	"tripnest_backend/internal/services"
	"tripnest_backend/pkg/utils"
)

// RoomTypeHandler handles room type catalog requests.
type RoomTypeHandler struct {
	roomTypeService services.RoomTypeService
}

// NewRoomTypeHandler creates a new RoomTypeHandler.
func NewRoomTypeHandler(rts services.RoomTypeService) *RoomTypeHandler {
	return &RoomTypeHandler{roomTypeService: rts}
}

// requireHotelOwnership checks that the actor owns the hotel or is an admin.
func (h *RoomTypeHandler) requireHotelOwnership(c *gin.Context, hotelID, actorID int64, role string) bool {
	hotel, err := h.roomTypeService.GetHotelByID(hotelID)
	if err != nil {
		respondServiceError(c, err)
		return false
	}
	if role != models.RoleAdmin && hotel.ProviderID != actorID {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You do not manage this hotel", ""))
		return false
	}
	return true
}

// CreateRoomType handles POST /hotels/:hotelID/room-types.
func (h *RoomTypeHandler) CreateRoomType(c *gin.Context) {
	actorID, role, ok := actorFromContext(c)
	if !ok {
		return
	}
	hotelID, err := utils.StrToInt64(c.Param("hotelID"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid hotel ID format", err.Error()))
		return
	}

	var req models.RoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if !h.requireHotelOwnership(c, hotelID, actorID, role) {
		return
	}

	roomType, err := h.roomTypeService.CreateRoomType(actorID, hotelID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, roomType)
}

// GetRoomTypesByHotel handles GET /hotels/:hotelID/room-types.
func (h *RoomTypeHandler) GetRoomTypesByHotel(c *gin.Context) {
	hotelID, err := utils.StrToInt64(c.Param("hotelID"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid hotel ID format", err.Error()))
		return
	}

	roomTypes, err := h.roomTypeService.GetRoomTypesByHotel(hotelID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, roomTypes)
}

// GetRoomType handles GET /room-types/:id.
func (h *RoomTypeHandler) GetRoomType(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid room type ID format", err.Error()))
		return
	}

	roomType, err := h.roomTypeService.GetRoomTypeByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, roomType)
}

// UpdateRoomType handles PUT /room-types/:id.
func (h *RoomTypeHandler) UpdateRoomType(c *gin.Context) {
	actorID, role, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid room type ID format", err.Error()))
		return
	}

	var req models.RoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	existing, err := h.roomTypeService.GetRoomTypeByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !h.requireHotelOwnership(c, existing.HotelID, actorID, role) {
		return
	}

	roomType, err := h.roomTypeService.UpdateRoomType(actorID, id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, roomType)
}
