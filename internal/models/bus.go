package models

import (
	"math"
	"time"
)

// Уровни загруженности автобуса
const (
	CrowdStatusLow    = "low"    // Менее 30% мест занято
	CrowdStatusMedium = "medium" // От 30% до 70%
	CrowdStatusHigh   = "high"   // 70% и выше
)

// Route описывает маршрут автобуса с упорядоченным списком остановок
type Route struct {
	Name          string   `json:"name"`
	StartLocation string   `json:"startLocation"`
	EndLocation   string   `json:"endLocation"`
	Stops         []string `json:"stops" gorm:"serializer:json;type:jsonb"`
	Distance      float64  `json:"distance"`
}

// Location последнее известное местоположение автобуса
type Location struct {
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Address     string    `json:"address"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Journey данные текущего рейса
type Journey struct {
	StartTime        *time.Time `json:"startTime,omitempty"`
	EndTime          *time.Time `json:"endTime,omitempty"`
	CurrentStop      string     `json:"currentStop,omitempty"`
	NextStop         string     `json:"nextStop,omitempty"`
	EstimatedArrival *time.Time `json:"estimatedArrival,omitempty"`
}

// Bus представляет автобус оператора. Поля загруженности (CrowdPercentage,
// CrowdStatus) всегда вычисляются и никогда не хранятся в базе.
type Bus struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	OperatorID      uint      `json:"operator_id" gorm:"not null;index"`
	BusNumber       string    `json:"busNumber" gorm:"unique;not null;type:varchar(50)"`
	DriverName      string    `json:"driverName" gorm:"not null;type:varchar(255)"`
	ConductorName   string    `json:"conductorName" gorm:"not null;type:varchar(255)"`
	Route           Route     `json:"route" gorm:"embedded;embeddedPrefix:route_"`
	MaxCapacity     int       `json:"maxCapacity" gorm:"not null"`
	CurrentCapacity int       `json:"currentCapacity" gorm:"default:0"`
	IsActive        bool      `json:"isActive" gorm:"default:false"`
	IsOnRoute       bool      `json:"isOnRoute" gorm:"default:false"`
	HasLocation     bool      `json:"-" gorm:"default:false"`
	CurrentLocation Location  `json:"-" gorm:"embedded;embeddedPrefix:location_"`
	Journey         Journey   `json:"journey" gorm:"embedded;embeddedPrefix:journey_"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime;type:timestamp with time zone"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime;type:timestamp with time zone"`

	Operator User `json:"-" gorm:"foreignKey:OperatorID"`
}

// CrowdPercentage возвращает процент занятых мест, округленный до целого
func (b *Bus) CrowdPercentage() int {
	if b.MaxCapacity <= 0 {
		return 0
	}
	return int(math.Round(float64(b.CurrentCapacity) / float64(b.MaxCapacity) * 100))
}

// CrowdStatus возвращает уровень загруженности по проценту занятых мест
func (b *Bus) CrowdStatus() string {
	percentage := b.CrowdPercentage()
	if percentage < 30 {
		return CrowdStatusLow
	}
	if percentage < 70 {
		return CrowdStatusMedium
	}
	return CrowdStatusHigh
}

// BusResponse публичное представление автобуса с вычисленной загруженностью
type BusResponse struct {
	ID              uint      `json:"id"`
	OperatorID      uint      `json:"operator_id"`
	BusNumber       string    `json:"busNumber"`
	DriverName      string    `json:"driverName"`
	ConductorName   string    `json:"conductorName"`
	Route           Route     `json:"route"`
	MaxCapacity     int       `json:"maxCapacity"`
	CurrentCapacity int       `json:"currentCapacity"`
	CrowdPercentage int       `json:"crowdPercentage"`
	CrowdStatus     string    `json:"crowdStatus"`
	IsActive        bool      `json:"isActive"`
	IsOnRoute       bool      `json:"isOnRoute"`
	CurrentLocation *Location `json:"currentLocation,omitempty"`
	Journey         Journey   `json:"journey"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToResponse формирует ответ API. Местоположение включается только после
// первого обновления координат оператором.
func (b *Bus) ToResponse() BusResponse {
	resp := BusResponse{
		ID:              b.ID,
		OperatorID:      b.OperatorID,
		BusNumber:       b.BusNumber,
		DriverName:      b.DriverName,
		ConductorName:   b.ConductorName,
		Route:           b.Route,
		MaxCapacity:     b.MaxCapacity,
		CurrentCapacity: b.CurrentCapacity,
		CrowdPercentage: b.CrowdPercentage(),
		CrowdStatus:     b.CrowdStatus(),
		IsActive:        b.IsActive,
		IsOnRoute:       b.IsOnRoute,
		Journey:         b.Journey,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.HasLocation {
		location := b.CurrentLocation
		resp.CurrentLocation = &location
	}
	return resp
}
