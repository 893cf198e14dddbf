package models

import "time"

// ActivityLog is an append-only audit record. UserID must reference an existing user.
type ActivityLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Action    string    `json:"action" gorm:"type:varchar(64);not null"`
	Detail    string    `json:"detail,omitempty" gorm:"type:text"`
	IPAddress string    `json:"ip_address,omitempty" gorm:"type:varchar(45)"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
