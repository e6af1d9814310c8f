package models

import (
	"time"
)

// Роли пользователей системы
const (
	RoleBusOperator = "bus_operator" // Оператор автобуса
	RoleCommuter    = "commuter"     // Пассажир
	RoleAdmin       = "admin"        // Администратор
)

type User struct {
	ID            uint      `json:"id" gorm:"primaryKey;column:id;autoIncrement"`
	Email         string    `json:"email" gorm:"column:email;unique;not null;type:varchar(255)"`
	PasswordHash  string    `json:"-" gorm:"column:password_hash;not null;type:varchar(255)"`
	Phone         string    `json:"phone" gorm:"column:phone;unique;not null;type:varchar(20)"`
	Role          string    `json:"role" gorm:"column:role;default:'commuter';type:varchar(20)"`
	DriverName    string    `json:"driverName,omitempty" gorm:"column:driver_name;type:varchar(255)"`
	ConductorName string    `json:"conductorName,omitempty" gorm:"column:conductor_name;type:varchar(255)"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime;type:timestamp with time zone"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime;type:timestamp with time zone"`
}

type UserResponse struct {
	ID            uint      `json:"id"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Role          string    `json:"role"`
	DriverName    string    `json:"driverName,omitempty"`
	ConductorName string    `json:"conductorName,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToResponse формирует публичное представление пользователя без хэша пароля
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Phone:         u.Phone,
		Role:          u.Role,
		DriverName:    u.DriverName,
		ConductorName: u.ConductorName,
		CreatedAt:     u.CreatedAt,
	}
}
