package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"bus-tracker-backend/internal/busstate"
	"bus-tracker-backend/internal/cache"
	"bus-tracker-backend/internal/models"

	"github.com/gin-gonic/gin"
)

// busError транслирует ошибку мутатора в HTTP статус и сообщение
func busError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, busstate.ErrBusNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Автобус не найден"})
	case errors.Is(err, busstate.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Доступ запрещен"})
	case errors.Is(err, busstate.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, busstate.ErrNotOnRoute):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Автобус не находится на маршруте"})
	case errors.Is(err, busstate.ErrAtCapacity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Автобус заполнен"})
	default:
		log.Printf("Ошибка операции с автобусом: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка сервера"})
	}
}

// busIDParam читает идентификатор автобуса из пути запроса
func busIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("busId"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор автобуса"})
		return 0, false
	}
	return uint(id), true
}

func busListResponse(buses []models.Bus) []models.BusResponse {
	response := make([]models.BusResponse, 0, len(buses))
	for i := range buses {
		response = append(response, buses[i].ToResponse())
	}
	return response
}

type CreateBusRequest struct {
	BusNumber     string       `json:"busNumber" binding:"required"`
	DriverName    string       `json:"driverName" binding:"required"`
	ConductorName string       `json:"conductorName" binding:"required"`
	Route         models.Route `json:"route" binding:"required"`
	MaxCapacity   int          `json:"maxCapacity" binding:"required,gt=0"`
}

// BusCreate регистрирует новый автобус текущего оператора
func BusCreate(service *busstate.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID, _ := c.Get("user_id")

		var req CreateBusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных: " + err.Error()})
			return
		}

		bus := models.Bus{
			OperatorID:    operatorID.(uint),
			BusNumber:     req.BusNumber,
			DriverName:    req.DriverName,
			ConductorName: req.ConductorName,
			Route:         req.Route,
			MaxCapacity:   req.MaxCapacity,
		}

		if err := service.CreateBus(c.Request.Context(), &bus); err != nil {
			busError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Автобус успешно создан",
			"bus":     bus.ToResponse(),
		})
	}
}

// BusMyBuses возвращает парк текущего оператора
func BusMyBuses(service *busstate.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID, _ := c.Get("user_id")

		buses, err := service.BusesByOperator(c.Request.Context(), operatorID.(uint))
		if err != nil {
			busError(c, err)
			return
		}

		c.JSON(http.StatusOK, busListResponse(buses))
	}
}

// BusStartJourney выводит автобус на маршрут
func BusStartJourney(service *busstate.Service, listCache *cache.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID, _ := c.Get("user_id")
		busID, ok := busIDParam(c)
		if !ok {
			return
		}

		bus, err := service.StartJourney(c.Request.Context(), busID, operatorID.(uint))
		if err != nil {
			busError(c, err)
			return
		}

		listCache.InvalidateBusLists(c.Request.Context())

		c.JSON(http.StatusOK, gin.H{
			"message": "Рейс успешно начат",
			"bus":     bus.ToResponse(),
		})
	}
}

// BusEndJourney завершает рейс автобуса
func BusEndJourney(service *busstate.Service, listCache *cache.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID, _ := c.Get("user_id")
		busID, ok := busIDParam(c)
		if !ok {
			return
		}

		bus, err := service.EndJourney(c.Request.Context(), busID, operatorID.(uint))
		if err != nil {
			busError(c, err)
			return
		}

		listCache.InvalidateBusLists(c.Request.Context())

		c.JSON(http.StatusOK, gin.H{
			"message": "Рейс успешно завершен",
			"bus":     bus.ToResponse(),
		})
	}
}

type UpdateLocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Address   string   `json:"address" binding:"required"`
}

// BusUpdateLocation перезаписывает текущее местоположение автобуса
func BusUpdateLocation(service *busstate.Service, listCache *cache.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID, _ := c.Get("user_id")
		busID, ok := busIDParam(c)
		if !ok {
			return
		}

		var req UpdateLocationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			// Сюда попадают и нечисловые координаты
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных: " + err.Error()})
			return
		}

		bus, err := service.UpdateLocation(c.Request.Context(), busID, operatorID.(uint),
			*req.Latitude, *req.Longitude, req.Address)
		if err != nil {
			busError(c, err)
			return
		}

		listCache.InvalidateBusLists(c.Request.Context())

		c.JSON(http.StatusOK, gin.H{
			"message": "Местоположение успешно обновлено",
			"bus":     bus.ToResponse(),
		})
	}
}

// BusGetActive возвращает автобусы на маршруте. Публичный эндпоинт,
// список кэшируется в Redis.
func BusGetActive(service *busstate.Service, listCache *cache.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var cached []models.BusResponse
		if found, err := listCache.Get(ctx, cache.ActiveBusesKey, &cached); err != nil {
			log.Printf("Ошибка чтения кэша активных автобусов: %v", err)
		} else if found {
			c.JSON(http.StatusOK, cached)
			return
		}

		buses, err := service.ActiveBuses(ctx)
		if err != nil {
			busError(c, err)
			return
		}

		response := busListResponse(buses)
		if err := listCache.Set(ctx, cache.ActiveBusesKey, response); err != nil {
			log.Printf("Ошибка записи кэша активных автобусов: %v", err)
		}

		c.JSON(http.StatusOK, response)
	}
}

// BusSearch ищет активные автобусы, проходящие через обе остановки.
// Публичный эндпоинт, результат кэшируется в Redis.
func BusSearch(service *busstate.Service, listCache *cache.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		startLocation := c.Query("startLocation")
		endLocation := c.Query("endLocation")
		if startLocation == "" || endLocation == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Требуются начальная и конечная остановки"})
			return
		}

		ctx := c.Request.Context()
		cacheKey := cache.SearchKey(startLocation, endLocation)

		var cached []models.BusResponse
		if found, err := listCache.Get(ctx, cacheKey, &cached); err != nil {
			log.Printf("Ошибка чтения кэша поиска: %v", err)
		} else if found {
			c.JSON(http.StatusOK, cached)
			return
		}

		buses, err := service.SearchBuses(ctx, startLocation, endLocation)
		if err != nil {
			busError(c, err)
			return
		}

		response := busListResponse(buses)
		if err := listCache.Set(ctx, cacheKey, response); err != nil {
			log.Printf("Ошибка записи кэша поиска: %v", err)
		}

		c.JSON(http.StatusOK, response)
	}
}
