package handlers

import (
	"log"
	"net/http"

	"bus-tracker-backend/internal/models"
	"bus-tracker-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	Phone         string `json:"phone" binding:"required,min=10,max=15"`
	Role          string `json:"role" binding:"required,oneof=bus_operator commuter"`
	DriverName    string `json:"driverName"`
	ConductorName string `json:"conductorName"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Token   string              `json:"token,omitempty"`
	User    models.UserResponse `json:"user,omitempty"`
}

// AuthRegister регистрирует нового пользователя и выдает токен
func AuthRegister(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Message: "Неверный формат данных: " + err.Error(),
			})
			return
		}

		// Оператору автобуса обязательны имена водителя и кондуктора
		if req.Role == models.RoleBusOperator && (req.DriverName == "" || req.ConductorName == "") {
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Message: "Для оператора автобуса требуются имена водителя и кондуктора",
			})
			return
		}

		var existingUser models.User
		if result := db.Where("email = ? OR phone = ?", req.Email, req.Phone).First(&existingUser); result.Error == nil {
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Message: "Пользователь с таким email или телефоном уже существует",
			})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, AuthResponse{
				Success: false,
				Message: "Ошибка при обработке пароля",
			})
			return
		}

		user := models.User{
			Email:         req.Email,
			PasswordHash:  string(hash),
			Phone:         req.Phone,
			Role:          req.Role,
			DriverName:    req.DriverName,
			ConductorName: req.ConductorName,
		}

		if result := db.Create(&user); result.Error != nil {
			log.Printf("Ошибка при создании пользователя: %v", result.Error)
			c.JSON(http.StatusInternalServerError, AuthResponse{
				Success: false,
				Message: "Ошибка при создании пользователя",
			})
			return
		}

		token, err := utils.GenerateJWT(user.ID, user.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, AuthResponse{
				Success: false,
				Message: "Ошибка при создании токена",
			})
			return
		}

		c.JSON(http.StatusCreated, AuthResponse{
			Success: true,
			Message: "Пользователь успешно зарегистрирован",
			Token:   token,
			User:    user.ToResponse(),
		})
	}
}

// AuthLogin проверяет учетные данные и выдает токен
func AuthLogin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Message: "Неверный формат данных",
			})
			return
		}

		var user models.User
		if result := db.Where("email = ?", req.Email).First(&user); result.Error != nil {
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Message: "Неверные учетные данные",
			})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Message: "Неверные учетные данные",
			})
			return
		}

		token, err := utils.GenerateJWT(user.ID, user.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, AuthResponse{
				Success: false,
				Message: "Ошибка при создании токена",
			})
			return
		}

		c.JSON(http.StatusOK, AuthResponse{
			Success: true,
			Token:   token,
			User:    user.ToResponse(),
		})
	}
}

// GetCurrentUser возвращает профиль текущего пользователя
func GetCurrentUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var user models.User
		if result := db.First(&user, userID); result.Error != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
			return
		}

		c.JSON(http.StatusOK, user.ToResponse())
	}
}
