package repositories

import (
	"context"

	"markethub/internal/apperrors"
	"markethub/internal/models"
	"markethub/internal/visibility"

	"gorm.io/gorm"
)

const productViewColumns = "products.id, products.vendor_id, owners.name AS vendor_name, " +
	"COALESCE(vendor_stores.store_name, '') AS store_name, products.category_id, " +
	"COALESCE(categories.name, '') AS category_name, products.name, " +
	"COALESCE(products.description, '') AS description, products.price, products.stock_quantity, " +
	"COALESCE(products.image_url, '') AS image_url, products.created_at"

// GORMCatalogRepository is a GORM implementation of CatalogRepository.
type GORMCatalogRepository struct {
	db *gorm.DB
}

// NewGORMCatalogRepository creates a new instance of GORMCatalogRepository.
func NewGORMCatalogRepository(db *gorm.DB) *GORMCatalogRepository {
	return &GORMCatalogRepository{
		db: db,
	}
}

func (r *GORMCatalogRepository) visibleProducts(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Product{}).Scopes(visibility.VisibleProducts)
}

func (r *GORMCatalogRepository) productViews(ctx context.Context) *gorm.DB {
	return r.visibleProducts(ctx).
		Select(productViewColumns).
		Joins("LEFT JOIN vendor_stores ON vendor_stores.vendor_id = products.vendor_id").
		Joins("LEFT JOIN categories ON categories.id = products.category_id")
}

// CategorySummaries returns visible categories with aggregates over their
// visible products. Featured listings keep non-empty categories only, most
// populated first, capped at limit.
func (r *GORMCatalogRepository) CategorySummaries(ctx context.Context, featured bool, limit int) ([]models.CategorySummary, error) {
	counted := r.visibleProducts(ctx).Select("products.id, products.category_id, products.price")

	q := r.db.WithContext(ctx).Model(&models.Category{}).
		Scopes(visibility.VisibleCategories).
		Select("categories.id, categories.name, COALESCE(categories.description, '') AS description, " +
			"COALESCE(categories.image_url, '') AS image_url, COUNT(vp.id) AS product_count, " +
			"MIN(vp.price) AS min_price, MAX(vp.price) AS max_price").
		Joins("LEFT JOIN (?) AS vp ON vp.category_id = categories.id", counted).
		Group("categories.id, categories.name, categories.description, categories.image_url")

	if featured {
		q = q.Having("COUNT(vp.id) > 0").
			Order("product_count DESC").
			Order("categories.name ASC").
			Limit(limit)
	} else {
		q = q.Order("categories.name ASC").Order("categories.id ASC")
	}

	var summaries []models.CategorySummary
	if err := q.Scan(&summaries).Error; err != nil {
		return nil, apperrors.FromStore(err, "failed to list categories")
	}
	return summaries, nil
}

// GetVisibleCategory retrieves a browsable category by its ID.
func (r *GORMCatalogRepository) GetVisibleCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Scopes(visibility.VisibleCategories).
		Where("categories.id = ?", id).
		Take(&category).Error
	if err != nil {
		return nil, apperrors.FromStore(err, "category not found")
	}
	return &category, nil
}

// VendorSummaries returns visible vendors having at least minProducts visible products.
func (r *GORMCatalogRepository) VendorSummaries(ctx context.Context, minProducts int) ([]models.VendorSummary, error) {
	counted := r.visibleProducts(ctx).Select("products.id, products.vendor_id")

	var summaries []models.VendorSummary
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Scopes(visibility.VisibleVendors).
		Select("users.id, users.name, vendor_stores.id AS store_id, " +
			"COALESCE(vendor_stores.store_name, '') AS store_name, " +
			"COALESCE(vendor_stores.logo_url, '') AS logo_url, " +
			"COALESCE(vendor_stores.status, '') AS store_status, COUNT(vp.id) AS product_count").
		Joins("LEFT JOIN vendor_stores ON vendor_stores.vendor_id = users.id").
		Joins("LEFT JOIN (?) AS vp ON vp.vendor_id = users.id", counted).
		Group("users.id, users.name, vendor_stores.id, vendor_stores.store_name, vendor_stores.logo_url, vendor_stores.status").
		Having("COUNT(vp.id) >= ?", minProducts).
		Order("product_count DESC").
		Order("users.id ASC").
		Scan(&summaries).Error
	if err != nil {
		return nil, apperrors.FromStore(err, "failed to list vendors")
	}
	return summaries, nil
}

// GetVisibleProduct retrieves a single visible product. Invisible and missing
// products are reported the same way.
func (r *GORMCatalogRepository) GetVisibleProduct(ctx context.Context, id uint) (*models.ProductView, error) {
	var views []models.ProductView
	if err := r.productViews(ctx).Where("products.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, apperrors.FromStore(err, "failed to get product")
	}
	if len(views) == 0 {
		return nil, apperrors.NotFound("product not found")
	}
	return &views[0], nil
}

// ProductImages returns a product's gallery, primary image first.
func (r *GORMCatalogRepository) ProductImages(ctx context.Context, productID uint) ([]models.ProductImage, error) {
	var images []models.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("is_primary DESC").Order("sort_order ASC").Order("id ASC").
		Find(&images).Error
	if err != nil {
		return nil, apperrors.FromStore(err, "failed to get product images")
	}
	return images, nil
}

// RelatedProducts returns visible products of a category other than excludeID, newest first.
func (r *GORMCatalogRepository) RelatedProducts(ctx context.Context, categoryID, excludeID uint, limit int) ([]models.ProductView, error) {
	var views []models.ProductView
	err := r.productViews(ctx).
		Where("products.category_id = ? AND products.id <> ?", categoryID, excludeID).
		Order("products.created_at DESC").Order("products.id DESC").
		Limit(limit).
		Scan(&views).Error
	if err != nil {
		return nil, apperrors.FromStore(err, "failed to get related products")
	}
	return views, nil
}

// SearchProducts returns one page of visible products matching filter and the
// total number of matches.
func (r *GORMCatalogRepository) SearchProducts(ctx context.Context, filter ProductFilter) ([]models.ProductView, int64, error) {
	var total int64
	if err := r.visibleProducts(ctx).Scopes(filter.Scope).Count(&total).Error; err != nil {
		return nil, 0, apperrors.FromStore(err, "failed to count products")
	}

	var views []models.ProductView
	err := r.productViews(ctx).
		Scopes(filter.Scope).
		Order("products.created_at DESC").Order("products.id ASC").
		Offset(filter.Offset).Limit(filter.Limit).
		Scan(&views).Error
	if err != nil {
		return nil, 0, apperrors.FromStore(err, "failed to list products")
	}
	return views, total, nil
}
