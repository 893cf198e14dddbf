package models

import "time"

// Address is a postal address owned by a user. At most one per user is the default.
type Address struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	Label      string    `json:"label,omitempty" gorm:"type:varchar(50)" validate:"omitempty,max=50"`
	Line1      string    `json:"line1" gorm:"type:varchar(255);not null" validate:"required,max=255"`
	Line2      string    `json:"line2,omitempty" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	City       string    `json:"city" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	State      string    `json:"state,omitempty" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	PostalCode string    `json:"postal_code" gorm:"type:varchar(20);not null" validate:"required,max=20"`
	Country    string    `json:"country" gorm:"type:varchar(2);not null" validate:"required,len=2"`
	IsDefault  bool      `json:"is_default" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
