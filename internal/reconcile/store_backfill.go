package reconcile

import (
	"context"

	"markethub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VendorStoreBackfill creates the missing store of every vendor user.
type VendorStoreBackfill struct {
	db *gorm.DB
}

// NewVendorStoreBackfill creates the job.
func NewVendorStoreBackfill(db *gorm.DB) *VendorStoreBackfill {
	return &VendorStoreBackfill{db: db}
}

// Name implements Job.
func (j *VendorStoreBackfill) Name() string { return "vendor-store-backfill" }

// Run implements Job. Stores are inserted with ON CONFLICT DO NOTHING on
// vendor_id, so a concurrent run can never create a second store.
func (j *VendorStoreBackfill) Run(ctx context.Context) (*Report, error) {
	report := newReport(j.Name())
	db := j.db.WithContext(ctx)

	var vendors []models.User
	err := db.Model(&models.User{}).
		Joins("LEFT JOIN vendor_stores ON vendor_stores.vendor_id = users.id").
		Where("users.user_type = ? AND vendor_stores.id IS NULL", models.UserTypeVendor).
		Order("users.id").
		Find(&vendors).Error
	if err != nil {
		return report.abort(err, "failed to find vendors without a store")
	}

	for i := range vendors {
		vendor := &vendors[i]
		store := models.VendorStore{
			VendorID:  vendor.ID,
			StoreName: models.DefaultStoreName(vendor),
			Status:    models.StoreStatusFor(vendor.Status),
		}
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "vendor_id"}},
			DoNothing: true,
		}).Create(&store)
		if res.Error != nil {
			if err := report.itemFailed(target("user", vendor.ID), res.Error); err != nil {
				return report.abort(err, "")
			}
			continue
		}
		if res.RowsAffected == 0 {
			continue // created concurrently
		}
		report.apply("create_store", target("user", vendor.ID), "store "+string(store.Status)+" named "+store.StoreName)
	}
	return report.finish(), nil
}
