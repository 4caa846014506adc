package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripnest_backend/internal/models"
	"tripnest_backend/internal/services"
	"tripnest_backend/pkg/utils"
)

// actorFromContext extracts the authenticated user's ID and role set by
// AuthMiddleware.
func actorFromContext(c *gin.Context) (int64, string, bool) {
	idVal, exists := c.Get("userID")
	if !exists {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required", ""))
		return 0, "", false
	}
	id, ok := idVal.(int64)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Invalid user identity in context", ""))
		return 0, "", false
	}
	role, _ := c.Get("userRole")
	roleStr, _ := role.(string)
	return id, roleStr, true
}

// isStaff reports whether the role can act on resources it does not own.
func isStaff(role string) bool {
	return role == models.RoleAdmin || role == models.RoleProvider || role == models.RoleOrganizer
}

// respondServiceError maps service-level errors onto the API error taxonomy.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrOutOfBoundsInterval),
		errors.Is(err, services.ErrTooManyGuests):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, err.Error(), ""))
	case errors.Is(err, services.ErrInsufficientAvailability):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
	case errors.Is(err, services.ErrAlreadyTerminal),
		errors.Is(err, services.ErrCancellationClosed),
		errors.Is(err, services.ErrStayNotFinished):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
	case errors.Is(err, services.ErrReservationNotFound),
		errors.Is(err, services.ErrRoomTypeNotFound),
		errors.Is(err, services.ErrHotelNotFound),
		errors.Is(err, services.ErrTourNotFound),
		errors.Is(err, services.ErrUserNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), ""))
	case errors.Is(err, services.ErrUserAlreadyExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrAccountDisabled):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), ""))
	case errors.Is(err, services.ErrTransactionFailed):
		utils.LogError(err, "Reservation transaction failed")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Operation could not be completed, please retry", ""))
	default:
		utils.LogError(err, "Unhandled service error")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "An unexpected error occurred", ""))
	}
}
