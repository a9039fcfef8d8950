package models

import (
	"time"

	"gorm.io/datatypes"
)

// User — учётная запись. В инструментальном слое только чтение;
// уникальные индексы по email/username — аналог GSI исходной схемы.
type User struct {
	UserID    string     `gorm:"primaryKey;size:64" json:"user_id"`
	Username  string     `gorm:"uniqueIndex;size:128" json:"username"`
	Email     string     `gorm:"uniqueIndex;size:255" json:"email"`
	FirstName string     `gorm:"size:128" json:"first_name"`
	LastName  string     `gorm:"size:128" json:"last_name"`
	Role      string     `gorm:"size:64" json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// UserActivity — журнал действий, append-only. Составной ключ user_id+timestamp,
// дополнительный индекс (activity_type, timestamp) для выборок по типу.
type UserActivity struct {
	UserID       string         `gorm:"primaryKey;size:64" json:"user_id"`
	Timestamp    time.Time      `gorm:"primaryKey;index:idx_activity_type_ts,priority:2" json:"timestamp"`
	ActivityType string         `gorm:"size:64;index:idx_activity_type_ts,priority:1" json:"activity_type"`
	Description  string         `gorm:"size:1024" json:"description"`
	IPAddress    string         `gorm:"size:64" json:"ip_address"`
	Details      datatypes.JSON `json:"details,omitempty"`
}
