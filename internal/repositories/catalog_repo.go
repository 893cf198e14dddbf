package repositories

import (
	"context"
	"strings"

	"markethub/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogRepository defines read access to the public catalog. Every method
// returns visible entities only.
type CatalogRepository interface {
	CategorySummaries(ctx context.Context, featured bool, limit int) ([]models.CategorySummary, error)
	GetVisibleCategory(ctx context.Context, id uint) (*models.Category, error)
	VendorSummaries(ctx context.Context, minProducts int) ([]models.VendorSummary, error)
	GetVisibleProduct(ctx context.Context, id uint) (*models.ProductView, error)
	ProductImages(ctx context.Context, productID uint) ([]models.ProductImage, error)
	RelatedProducts(ctx context.Context, categoryID, excludeID uint, limit int) ([]models.ProductView, error)
	SearchProducts(ctx context.Context, filter ProductFilter) ([]models.ProductView, int64, error)
}

// ProductFilter narrows a product search. Nil fields do not filter.
type ProductFilter struct {
	CategoryID *uint
	VendorID   *uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Query      string
	Offset     int
	Limit      int
}

// Scope applies the filter's conditions to a query over products.
func (f ProductFilter) Scope(db *gorm.DB) *gorm.DB {
	if f.CategoryID != nil {
		db = db.Where("products.category_id = ?", *f.CategoryID)
	}
	if f.VendorID != nil {
		db = db.Where("products.vendor_id = ?", *f.VendorID)
	}
	if f.MinPrice != nil {
		db = db.Where("products.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		db = db.Where("products.price <= ?", *f.MaxPrice)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		db = db.Where(`LOWER(products.name) LIKE ? ESCAPE '\'`, "%"+EscapeLike(strings.ToLower(q))+"%")
	}
	return db
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE wildcards in s so it matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
