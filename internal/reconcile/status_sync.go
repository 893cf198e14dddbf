package reconcile

import (
	"context"

	"markethub/internal/models"

	"gorm.io/gorm"
)

// StatusSync reprojects every store's status from its owner's status. It is
// the only path by which a store's status changes.
type StatusSync struct {
	db *gorm.DB
}

// NewStatusSync creates the job.
func NewStatusSync(db *gorm.DB) *StatusSync {
	return &StatusSync{db: db}
}

// Name implements Job.
func (j *StatusSync) Name() string { return "store-status-sync" }

// Run implements Job.
func (j *StatusSync) Run(ctx context.Context) (*Report, error) {
	return j.sync(ctx, nil)
}

// SyncVendor runs the sync for the store of a single vendor.
func (j *StatusSync) SyncVendor(ctx context.Context, vendorID uint) (*Report, error) {
	return j.sync(ctx, &vendorID)
}

type storeOwnerRow struct {
	StoreID     uint
	VendorID    uint
	StoreStatus models.StoreStatus
	OwnerID     *uint
	OwnerType   *models.UserType
	OwnerStatus *models.UserStatus
}

func (j *StatusSync) sync(ctx context.Context, vendorID *uint) (*Report, error) {
	report := newReport(j.Name())

	err := j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Table("vendor_stores").
			Select("vendor_stores.id AS store_id, vendor_stores.vendor_id, vendor_stores.status AS store_status, " +
				"users.id AS owner_id, users.user_type AS owner_type, users.status AS owner_status").
			Joins("LEFT JOIN users ON users.id = vendor_stores.vendor_id").
			Order("vendor_stores.id")
		if vendorID != nil {
			query = query.Where("vendor_stores.vendor_id = ?", *vendorID)
		}

		var rows []storeOwnerRow
		if err := query.Scan(&rows).Error; err != nil {
			return err
		}

		var stale []uint
		var changes []Action
		for _, row := range rows {
			storeTarget := target("vendor_store", row.StoreID)
			if row.OwnerID == nil {
				report.fail(storeTarget, "owner user does not exist")
				continue
			}
			if *row.OwnerType != models.UserTypeVendor {
				report.fail(storeTarget, "owner user is a "+string(*row.OwnerType)+", not a vendor")
				continue
			}
			want := models.StoreStatusFor(*row.OwnerStatus)
			if want == row.StoreStatus {
				continue
			}
			stale = append(stale, row.StoreID)
			changes = append(changes, Action{
				Action: "sync_status",
				Target: storeTarget,
				Detail: string(row.StoreStatus) + " -> " + string(want),
			})
		}
		if len(stale) == 0 {
			return nil
		}

		caseSQL, args := models.StoreStatusCase("users.status")
		projection := gorm.Expr("(SELECT "+caseSQL+" FROM users WHERE users.id = vendor_stores.vendor_id)", args...)
		if err := tx.Model(&models.VendorStore{}).Where("id IN ?", stale).Update("status", projection).Error; err != nil {
			return err
		}
		report.Applied = append(report.Applied, changes...)
		return nil
	})
	if err != nil {
		report.Applied = []Action{}
		return report.abort(err, "failed to sync store statuses")
	}
	return report.finish(), nil
}
