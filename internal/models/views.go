package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategorySummary is a visible category with aggregates over its visible products.
type CategorySummary struct {
	ID           uint                `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description,omitempty"`
	ImageURL     string              `json:"image_url,omitempty"`
	ProductCount int64               `json:"product_count"`
	MinPrice     decimal.NullDecimal `json:"min_price"`
	MaxPrice     decimal.NullDecimal `json:"max_price"`
}

// VendorSummary is a visible vendor with its store and visible product count.
type VendorSummary struct {
	ID           uint        `json:"id"`
	Name         string      `json:"name"`
	StoreID      *uint       `json:"store_id,omitempty"`
	StoreName    string      `json:"store_name,omitempty"`
	LogoURL      string      `json:"logo_url,omitempty"`
	StoreStatus  StoreStatus `json:"store_status,omitempty"`
	ProductCount int64       `json:"product_count"`
}

// ProductView is a visible product joined with its vendor and category names.
type ProductView struct {
	ID            uint            `json:"id"`
	VendorID      uint            `json:"vendor_id"`
	VendorName    string          `json:"vendor_name"`
	StoreName     string          `json:"store_name,omitempty"`
	CategoryID    *uint           `json:"category_id,omitempty"`
	CategoryName  string          `json:"category_name,omitempty"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      string          `json:"image_url,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ProductDetail is the full read model of a single product page.
type ProductDetail struct {
	ProductView
	Images  []string      `json:"images"`
	Related []ProductView `json:"related"`
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Items   []ProductView `json:"items"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}
