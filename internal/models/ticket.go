package models

import (
	"time"
)

type TicketStatus string

const (
	TicketStatusActive    TicketStatus = "active"    // Действующий билет текущего рейса
	TicketStatusUsed      TicketStatus = "used"      // Билет завершенного рейса
	TicketStatusCancelled TicketStatus = "cancelled" // Отмененный билет
)

// Стоимость билета по умолчанию
const DefaultTicketPrice = 50.0

// Ticket нормализованная запись о выданном билете. Единственный источник
// истины о билетах; автобус встроенного списка билетов не хранит.
type Ticket struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	TicketID      string       `json:"ticketId" gorm:"unique;not null;type:varchar(30)"`
	BusID         uint         `json:"bus_id" gorm:"not null;index"`
	PassengerName string       `json:"passengerName" gorm:"not null;type:varchar(255)"`
	IssuedBy      uint         `json:"issued_by" gorm:"not null"`
	IssuedAt      time.Time    `json:"issuedAt" gorm:"autoCreateTime;type:timestamp with time zone"`
	Status        TicketStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	Price         float64      `json:"price" gorm:"default:0"`

	Bus    Bus  `json:"-" gorm:"foreignKey:BusID"`
	Issuer User `json:"-" gorm:"foreignKey:IssuedBy"`
}

// TicketResponse краткая сводка билета для ответа оператору
type TicketResponse struct {
	TicketID      string    `json:"ticketId"`
	PassengerName string    `json:"passengerName"`
	IssuedAt      time.Time `json:"issuedAt"`
	BusNumber     string    `json:"busNumber"`
	Route         string    `json:"route"`
	Price         float64   `json:"price"`
}
