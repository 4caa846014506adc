package router

import (
	"github.com/gin-gonic/gin"

	"tripnest_backend/internal/handlers"
	"tripnest_backend/internal/middleware"
	"tripnest_backend/internal/models"
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh-token", authHandler.Refresh)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.GET("/me", authHandler.Me)
		}
	}
}

// SetupCatalogRoutes sets up the public catalog and availability routes.
// Browsing room types and previewing availability needs no account.
func SetupCatalogRoutes(apiGroup *gin.RouterGroup, roomTypeHandler *handlers.RoomTypeHandler, reservationHandler *handlers.ReservationHandler) {
	apiGroup.GET("/hotels/:hotelID/room-types", roomTypeHandler.GetRoomTypesByHotel)
	apiGroup.GET("/room-types/:id", roomTypeHandler.GetRoomType)
	apiGroup.GET("/room-types/:id/availability", reservationHandler.PreviewAvailability)
}

// SetupRoomTypeRoutes sets up the room type management routes.
func SetupRoomTypeRoutes(authenticatedGroup *gin.RouterGroup, roomTypeHandler *handlers.RoomTypeHandler) {
	manageRoutes := authenticatedGroup.Group("")
	manageRoutes.Use(middleware.RoleAuthMiddleware(models.RoleProvider, models.RoleAdmin))
	{
		manageRoutes.POST("/hotels/:hotelID/room-types", roomTypeHandler.CreateRoomType)
		manageRoutes.PUT("/room-types/:id", roomTypeHandler.UpdateRoomType)
	}
}

// SetupInventoryRoutes sets up the inventory adjustment and audit log routes.
func SetupInventoryRoutes(authenticatedGroup *gin.RouterGroup, inventoryHandler *handlers.InventoryHandler) {
	inventoryRoutes := authenticatedGroup.Group("")
	inventoryRoutes.Use(middleware.RoleAuthMiddleware(models.RoleProvider, models.RoleAdmin))
	{
		inventoryRoutes.PUT("/room-types/:id/inventory", inventoryHandler.AdjustInventory)
		inventoryRoutes.GET("/room-types/:id/inventory-logs", inventoryHandler.GetRoomTypeInventoryLogs)
		inventoryRoutes.GET("/inventory-logs", inventoryHandler.GetInventoryLogs)
	}
}

// SetupReservationRoutes sets up the reservation routes.
func SetupReservationRoutes(authenticatedGroup *gin.RouterGroup, reservationHandler *handlers.ReservationHandler) {
	authenticatedGroup.POST("/tours/:id/reservations", reservationHandler.CreateTourReservation)

	reservationRoutes := authenticatedGroup.Group("/reservations")
	{
		reservationRoutes.POST("", reservationHandler.CreateReservation)
		reservationRoutes.GET("", reservationHandler.GetReservations)
		reservationRoutes.GET("/:id", reservationHandler.GetReservation)
		reservationRoutes.POST("/:id/cancel", reservationHandler.CancelReservation)

		completeRoutes := reservationRoutes.Group("")
		completeRoutes.Use(middleware.RoleAuthMiddleware(models.RoleProvider, models.RoleAdmin))
		{
			completeRoutes.POST("/:id/complete", reservationHandler.CompleteReservation)
		}
	}
}
