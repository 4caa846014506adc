package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tripnest_backend/internal/models"
	"tripnest_backend/internal/services"
	"tripnest_backend/pkg/utils"
)

// InventoryHandler handles inventory adjustment and audit log requests.
type InventoryHandler struct {
	inventoryService services.InventoryService
	roomTypeService  services.RoomTypeService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(is services.InventoryService, rts services.RoomTypeService) *InventoryHandler {
	return &InventoryHandler{inventoryService: is, roomTypeService: rts}
}

// AdjustInventory handles PUT /room-types/:id/inventory.
func (h *InventoryHandler) AdjustInventory(c *gin.Context) {
	actorID, role, ok := actorFromContext(c)
	if !ok {
		return
	}
	roomTypeID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid room type ID format", err.Error()))
		return
	}

	var req models.InventoryAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	roomType, err := h.roomTypeService.GetRoomTypeByID(roomTypeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	hotel, err := h.roomTypeService.GetHotelByID(roomType.HotelID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if role != models.RoleAdmin && hotel.ProviderID != actorID {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You do not manage this hotel", ""))
		return
	}

	updated, err := h.inventoryService.AdjustAvailableRooms(actorID, roomTypeID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// GetRoomTypeInventoryLogs handles GET /room-types/:id/inventory-logs.
func (h *InventoryHandler) GetRoomTypeInventoryLogs(c *gin.Context) {
	roomTypeID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid room type ID format", err.Error()))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	logs, total, err := h.inventoryService.GetInventoryLogs(&roomTypeID, nil, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      logs,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetInventoryLogs handles GET /inventory-logs.
// Filters: room_type_id, hotel_id; paginated with page and page_size.
func (h *InventoryHandler) GetInventoryLogs(c *gin.Context) {
	var roomTypeID, hotelID *int64
	if raw := c.Query("room_type_id"); raw != "" {
		id, err := utils.StrToInt64(raw)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid room_type_id format", err.Error()))
			return
		}
		roomTypeID = &id
	}
	if raw := c.Query("hotel_id"); raw != "" {
		id, err := utils.StrToInt64(raw)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid hotel_id format", err.Error()))
			return
		}
		hotelID = &id
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	logs, total, err := h.inventoryService.GetInventoryLogs(roomTypeID, hotelID, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      logs,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
