package routes

import (
	"bus-tracker-backend/internal/busstate"
	"bus-tracker-backend/internal/cache"
	"bus-tracker-backend/internal/handlers"
	"bus-tracker-backend/internal/middleware"
	"bus-tracker-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(api *gin.RouterGroup, db *gorm.DB, service *busstate.Service, listCache *cache.Service) {
	// Публичные маршруты для аутентификации
	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.AuthRegister(db))
		auth.POST("/login", handlers.AuthLogin(db))
	}

	// Публичные маршруты для пассажиров
	api.GET("/bus/active", handlers.BusGetActive(service, listCache))
	api.GET("/bus/search", handlers.BusSearch(service, listCache))

	// Защищенные маршруты (требуют аутентификации)
	protected := api.Group("")
	protected.Use(middleware.JWTAuth())
	{
		protected.GET("/auth/me", handlers.GetCurrentUser(db))

		// Роуты оператора автобуса
		operator := protected.Group("")
		operator.Use(middleware.RequireRole(models.RoleBusOperator))
		{
			operator.POST("/bus/create", handlers.BusCreate(service))
			operator.GET("/bus/my-buses", handlers.BusMyBuses(service))
			operator.POST("/bus/:busId/start-journey", handlers.BusStartJourney(service, listCache))
			operator.POST("/bus/:busId/end-journey", handlers.BusEndJourney(service, listCache))
			operator.POST("/bus/:busId/update-location", handlers.BusUpdateLocation(service, listCache))
			operator.POST("/ticket/generate", handlers.TicketGenerate(service, listCache))
			operator.GET("/ticket/bus/:busId", handlers.TicketGetByBus(service, db))
		}

		// Жалобы пассажиров
		protected.POST("/complaint/create", handlers.ComplaintCreate(db))
		protected.GET("/complaint/my-complaints", handlers.ComplaintGetMy(db))

		// Роуты администратора
		admin := protected.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/ticket/all", handlers.TicketGetAll(db))
			admin.GET("/ticket/revenue/daily", handlers.TicketDailyRevenue(db))
			admin.GET("/complaint/all", handlers.ComplaintGetAll(db))
			admin.PUT("/complaint/:id/respond", handlers.ComplaintRespond(db))
			admin.GET("/admin/stats", handlers.AdminStats(db))
		}
	}
}
