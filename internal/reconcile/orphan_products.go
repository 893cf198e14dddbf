package reconcile

import (
	"context"
	"errors"
	"fmt"

	"markethub/internal/apperrors"
	"markethub/internal/models"

	"gorm.io/gorm"
)

const missingVendorCondition = "NOT EXISTS (SELECT 1 FROM users WHERE users.id = products.vendor_id AND users.user_type = ?)"

// OrphanProductRepair reassigns products whose vendor does not exist to a
// fallback vendor. Products are never deleted.
type OrphanProductRepair struct {
	db               *gorm.DB
	fallbackVendorID uint
}

// NewOrphanProductRepair creates the job. A zero fallbackVendorID selects the
// active vendor with the lowest id at run time.
func NewOrphanProductRepair(db *gorm.DB, fallbackVendorID uint) *OrphanProductRepair {
	return &OrphanProductRepair{db: db, fallbackVendorID: fallbackVendorID}
}

// Name implements Job.
func (j *OrphanProductRepair) Name() string { return "orphan-product-repair" }

// Run implements Job.
func (j *OrphanProductRepair) Run(ctx context.Context) (*Report, error) {
	report := newReport(j.Name())
	db := j.db.WithContext(ctx)

	var orphans []models.Product
	err := db.Select("id", "vendor_id").
		Where(missingVendorCondition, models.UserTypeVendor).
		Order("id").
		Find(&orphans).Error
	if err != nil {
		return report.abort(err, "failed to find orphaned products")
	}
	if len(orphans) == 0 {
		return report.finish(), nil
	}

	fallback, how, err := j.fallbackVendor(db)
	if err != nil {
		return report.abort(err, "failed to resolve the fallback vendor")
	}
	if fallback == nil {
		for _, p := range orphans {
			report.fail(target("product", p.ID), fmt.Sprintf("vendor %d does not exist and no active vendor can adopt it", p.VendorID))
		}
		return report.finish(), nil
	}
	report.apply("select_fallback", target("user", fallback.ID), how)

	for _, p := range orphans {
		res := db.Model(&models.Product{}).
			Where("id = ?", p.ID).
			Where(missingVendorCondition, models.UserTypeVendor).
			Update("vendor_id", fallback.ID)
		if res.Error != nil {
			if err := report.itemFailed(target("product", p.ID), res.Error); err != nil {
				return report.abort(err, "")
			}
			continue
		}
		if res.RowsAffected == 0 {
			continue // repaired concurrently
		}
		report.apply("reassign_vendor", target("product", p.ID), fmt.Sprintf("vendor %d -> %d", p.VendorID, fallback.ID))
	}
	return report.finish(), nil
}

// fallbackVendor returns the configured vendor, or the lowest-id active vendor
// when none is configured. It returns nil when there is no candidate.
func (j *OrphanProductRepair) fallbackVendor(db *gorm.DB) (*models.User, string, error) {
	var vendor models.User
	if j.fallbackVendorID != 0 {
		err := db.First(&vendor, j.fallbackVendorID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.InvalidArgument("fallback vendor %d does not exist", j.fallbackVendorID)
		}
		if err != nil {
			return nil, "", err
		}
		if vendor.UserType != models.UserTypeVendor || vendor.Status != models.UserStatusActive {
			return nil, "", apperrors.InvalidArgument("fallback vendor %d is not an active vendor", j.fallbackVendorID)
		}
		return &vendor, "configured fallback vendor", nil
	}

	err := db.Where("user_type = ? AND status = ?", models.UserTypeVendor, models.UserStatusActive).
		Order("id").
		Take(&vendor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return &vendor, "lowest-id active vendor", nil
}
