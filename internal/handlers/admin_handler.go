package handlers

import (
	"net/http"

	"bus-tracker-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminStats возвращает сводные показатели системы для панели
// администратора
func AdminStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			totalUsers        int64
			totalOperators    int64
			totalBuses        int64
			activeBuses       int64
			totalTickets      int64
			pendingComplaints int64
		)

		if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении статистики"})
			return
		}
		db.Model(&models.User{}).Where("role = ?", models.RoleBusOperator).Count(&totalOperators)
		db.Model(&models.Bus{}).Count(&totalBuses)
		db.Model(&models.Bus{}).Where("is_active = ? AND is_on_route = ?", true, true).Count(&activeBuses)
		db.Model(&models.Ticket{}).Count(&totalTickets)
		db.Model(&models.Complaint{}).Where("status = ?", models.ComplaintStatusPending).Count(&pendingComplaints)

		c.JSON(http.StatusOK, gin.H{
			"totalUsers":        totalUsers,
			"totalOperators":    totalOperators,
			"totalBuses":        totalBuses,
			"activeBuses":       activeBuses,
			"totalTickets":      totalTickets,
			"pendingComplaints": pendingComplaints,
		})
	}
}
