// Package visibility decides which vendors, products and categories the public
// catalog may show. The predicates and the GORM scopes below express the same
// rules; every catalog query goes through the scopes.
package visibility

import (
	"markethub/internal/models"

	"gorm.io/gorm"
)

// VendorVisible reports whether u is a vendor eligible for public display.
func VendorVisible(u models.User) bool {
	return u.UserType == models.UserTypeVendor && u.Status == models.UserStatusActive
}

// ProductVisible reports whether p may be shown publicly given its owner.
// A nil owner means the vendor does not exist.
func ProductVisible(p models.Product, owner *models.User) bool {
	if p.Status != models.ProductStatusActive || owner == nil {
		return false
	}
	return owner.ID == p.VendorID && VendorVisible(*owner)
}

// CategoryVisible reports whether c can be browsed.
func CategoryVisible(c models.Category) bool {
	return c.Status == models.CategoryStatusActive
}

// VisibleVendors restricts a query over users to visible vendors.
func VisibleVendors(db *gorm.DB) *gorm.DB {
	return db.Where("users.user_type = ? AND users.status = ?", models.UserTypeVendor, models.UserStatusActive)
}

// VisibleProducts restricts a query over products to visible products. It joins
// the owning user as "owners".
func VisibleProducts(db *gorm.DB) *gorm.DB {
	return db.
		Joins("JOIN users AS owners ON owners.id = products.vendor_id").
		Where("products.status = ?", models.ProductStatusActive).
		Where("owners.user_type = ? AND owners.status = ?", models.UserTypeVendor, models.UserStatusActive)
}

// VisibleCategories restricts a query over categories to browsable ones.
func VisibleCategories(db *gorm.DB) *gorm.DB {
	return db.Where("categories.status = ?", models.CategoryStatusActive)
}
