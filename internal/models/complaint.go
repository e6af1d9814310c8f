package models

import (
	"time"
)

type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "pending"     // Ожидает рассмотрения
	ComplaintStatusInProgress ComplaintStatus = "in_progress" // В работе
	ComplaintStatusResolved   ComplaintStatus = "resolved"    // Решена
	ComplaintStatusRejected   ComplaintStatus = "rejected"    // Отклонена
)

type ComplaintPriority string

const (
	ComplaintPriorityLow    ComplaintPriority = "low"
	ComplaintPriorityMedium ComplaintPriority = "medium"
	ComplaintPriorityHigh   ComplaintPriority = "high"
)

// Complaint жалоба пассажира, опционально привязанная к автобусу
type Complaint struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	UserID      uint              `json:"user_id" gorm:"not null;index"`
	BusID       *uint             `json:"bus_id,omitempty" gorm:"index;default:null"`
	Subject     string            `json:"subject" gorm:"not null;type:varchar(255)"`
	Description string            `json:"description" gorm:"not null;type:text"`
	Category    string            `json:"category" gorm:"not null;type:varchar(50)"`
	Priority    ComplaintPriority `json:"priority" gorm:"type:varchar(20);default:'medium'"`
	Status      ComplaintStatus   `json:"status" gorm:"type:varchar(20);default:'pending'"`

	// Ответ администратора
	ResponseMessage string     `json:"response_message,omitempty" gorm:"type:text;default:''"`
	RespondedBy     *uint      `json:"responded_by,omitempty" gorm:"default:null"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;type:timestamp with time zone"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime;type:timestamp with time zone"`

	User User `json:"-" gorm:"foreignKey:UserID"`
	Bus  *Bus `json:"-" gorm:"foreignKey:BusID"`
}
