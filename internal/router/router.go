package router

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"tripnest_backend/internal/handlers"
	"tripnest_backend/internal/middleware"
	"tripnest_backend/internal/repositories"
	"tripnest_backend/internal/services"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	roomTypeRepo := repositories.NewRoomTypeRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)
	inventoryLogRepo := repositories.NewInventoryLogRepository(db)
	tourRepo := repositories.NewTourRepository(db)

	// Initialize Services
	authService := services.NewAuthService(db, authRepo)
	stayService := services.NewStayService(tourRepo)
	roomTypeService := services.NewRoomTypeService(db, roomTypeRepo, inventoryLogRepo)
	inventoryService := services.NewInventoryService(db, roomTypeRepo, inventoryLogRepo)
	reservationService := services.NewReservationService(db, reservationRepo, roomTypeRepo, inventoryLogRepo, stayService)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	roomTypeHandler := handlers.NewRoomTypeHandler(roomTypeService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, roomTypeService)
	reservationHandler := handlers.NewReservationHandler(reservationService, roomTypeService)

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler)
	SetupCatalogRoutes(apiV1, roomTypeHandler, reservationHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupRoomTypeRoutes(authenticated, roomTypeHandler)
		SetupInventoryRoutes(authenticated, inventoryHandler)
		SetupReservationRoutes(authenticated, reservationHandler)
	}
}
