package handlers

import (
	"net/http"
	"strconv"
	"time"

	"bus-tracker-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateComplaintRequest struct {
	Subject     string `json:"subject" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
	BusID       *uint  `json:"busId"`
}

// ComplaintCreate регистрирует жалобу текущего пользователя
func ComplaintCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var req CreateComplaintRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных: " + err.Error()})
			return
		}

		priority := models.ComplaintPriority(req.Priority)
		if priority == "" {
			priority = models.ComplaintPriorityMedium
		}

		complaint := models.Complaint{
			UserID:      userID.(uint),
			BusID:       req.BusID,
			Subject:     req.Subject,
			Description: req.Description,
			Category:    req.Category,
			Priority:    priority,
			Status:      models.ComplaintStatusPending,
		}

		if err := db.Create(&complaint).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании жалобы"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":   "Жалоба успешно отправлена",
			"complaint": complaint,
		})
	}
}

// ComplaintGetMy возвращает жалобы текущего пользователя
func ComplaintGetMy(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var complaints []models.Complaint
		if err := db.Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&complaints).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении жалоб"})
			return
		}

		c.JSON(http.StatusOK, complaints)
	}
}

// ComplaintGetAll возвращает жалобы с фильтрами и пагинацией,
// только для администратора
func ComplaintGetAll(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Complaint{})

		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}
		if priority := c.Query("priority"); priority != "" {
			query = query.Where("priority = ?", priority)
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if limit < 1 || limit > 100 {
			limit = 10
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении жалоб"})
			return
		}

		var complaints []models.Complaint
		if err := query.Order("created_at DESC").
			Limit(limit).
			Offset((page - 1) * limit).
			Find(&complaints).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении жалоб"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"complaints": complaints,
			"total":      total,
			"page":       page,
			"limit":      limit,
		})
	}
}

type RespondComplaintRequest struct {
	Message string `json:"message" binding:"required"`
	Status  string `json:"status" binding:"required,oneof=in_progress resolved rejected"`
}

// ComplaintRespond сохраняет ответ администратора на жалобу
func ComplaintRespond(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, _ := c.Get("user_id")

		complaintID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор жалобы"})
			return
		}

		var req RespondComplaintRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных: " + err.Error()})
			return
		}

		var complaint models.Complaint
		if err := db.First(&complaint, complaintID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Жалоба не найдена"})
			return
		}

		now := time.Now()
		adminUserID := adminID.(uint)
		complaint.Status = models.ComplaintStatus(req.Status)
		complaint.ResponseMessage = req.Message
		complaint.RespondedBy = &adminUserID
		complaint.RespondedAt = &now

		if err := db.Save(&complaint).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при сохранении ответа"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":   "Ответ сохранен",
			"complaint": complaint,
		})
	}
}
