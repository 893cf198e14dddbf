package models

import "time"

// CategoryStatus controls whether a category can be browsed.
type CategoryStatus string

const (
	CategoryStatusActive   CategoryStatus = "active"
	CategoryStatusInactive CategoryStatus = "inactive"
)

// Category groups products for browsing.
type Category struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=2,max=100"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	ImageURL    string         `json:"image_url,omitempty" gorm:"type:varchar(255)"`
	Status      CategoryStatus `json:"status" gorm:"type:varchar(16);index;not null;default:active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
