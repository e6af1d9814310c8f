package handlers

import (
	"net/http"
	"time"

	"bus-tracker-backend/internal/busstate"
	"bus-tracker-backend/internal/cache"
	"bus-tracker-backend/internal/middleware"
	"bus-tracker-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type GenerateTicketRequest struct {
	BusID         uint   `json:"busId" binding:"required"`
	PassengerName string `json:"passengerName" binding:"required"`
}

// TicketGenerate выдает билет пассажиру автобуса текущего оператора
func TicketGenerate(service *busstate.Service, listCache *cache.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID, _ := c.Get("user_id")

		var req GenerateTicketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных: " + err.Error()})
			return
		}

		ticket, bus, err := service.IssueTicket(c.Request.Context(), req.BusID, operatorID.(uint), req.PassengerName)
		if err != nil {
			busError(c, err)
			return
		}

		middleware.TicketsIssued.Inc()
		listCache.InvalidateBusLists(c.Request.Context())

		c.JSON(http.StatusCreated, gin.H{
			"message": "Билет успешно выдан",
			"ticket": models.TicketResponse{
				TicketID:      ticket.TicketID,
				PassengerName: ticket.PassengerName,
				IssuedAt:      ticket.IssuedAt,
				BusNumber:     bus.BusNumber,
				Route:         bus.Route.Name,
				Price:         ticket.Price,
			},
		})
	}
}

// TicketGetByBus возвращает билеты автобуса, новые первыми. Представление
// "последние билеты автобуса" строится запросом к таблице билетов,
// встроенного списка на автобусе нет.
func TicketGetByBus(service *busstate.Service, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID, _ := c.Get("user_id")
		busID, ok := busIDParam(c)
		if !ok {
			return
		}

		// Билеты видит только владелец автобуса
		if _, err := service.GetBusForOperator(c.Request.Context(), busID, operatorID.(uint)); err != nil {
			busError(c, err)
			return
		}

		var tickets []models.Ticket
		if err := db.Where("bus_id = ?", busID).
			Order("issued_at DESC").
			Find(&tickets).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении билетов"})
			return
		}

		c.JSON(http.StatusOK, tickets)
	}
}

// TicketGetAll возвращает все билеты, только для администратора
func TicketGetAll(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tickets []models.Ticket
		if err := db.Preload("Bus").
			Order("issued_at DESC").
			Find(&tickets).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении билетов"})
			return
		}

		c.JSON(http.StatusOK, tickets)
	}
}

// TicketDailyRevenue возвращает количество и сумму активных билетов за
// сегодняшний день, только для администратора
func TicketDailyRevenue(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		tomorrow := today.AddDate(0, 0, 1)

		var tickets []models.Ticket
		if err := db.Where("issued_at >= ? AND issued_at < ? AND status = ?",
			today, tomorrow, models.TicketStatusActive).
			Find(&tickets).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении билетов"})
			return
		}

		var totalRevenue float64
		for _, ticket := range tickets {
			totalRevenue += ticket.Price
		}

		c.JSON(http.StatusOK, gin.H{
			"date":         today.Format("2006-01-02"),
			"totalTickets": len(tickets),
			"totalRevenue": totalRevenue,
		})
	}
}
