package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus controls whether a product may be listed.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product represents an item sold by a vendor.
type Product struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	VendorID      uint            `json:"vendor_id" gorm:"index;not null"`
	CategoryID    *uint           `json:"category_id,omitempty" gorm:"index"`
	Name          string          `json:"name" gorm:"type:varchar(200);not null" validate:"required,min=3,max=200"`
	Description   string          `json:"description,omitempty" gorm:"type:text" validate:"omitempty,max=5000"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0" validate:"gte=0"`
	ImageURL      string          `json:"image_url,omitempty" gorm:"type:varchar(255)"`
	Status        ProductStatus   `json:"status" gorm:"type:varchar(16);index;not null;default:active"`
	CreatedAt     time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductImage is one entry of a product's ordered gallery.
type ProductImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"index;not null"`
	ImageURL  string    `json:"image_url" gorm:"type:varchar(255);not null"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0"`
	IsPrimary bool      `json:"is_primary" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}
