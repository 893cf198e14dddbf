package models

import "time"

// StoreStatus is the approval state of a vendor's storefront.
type StoreStatus string

const (
	StoreStatusPending   StoreStatus = "pending"
	StoreStatusApproved  StoreStatus = "approved"
	StoreStatusSuspended StoreStatus = "suspended"
	StoreStatusRejected  StoreStatus = "rejected"
)

// storeStatusByUserStatus projects an owner's status onto its store.
// Statuses missing from the table map to StoreStatusPending.
var storeStatusByUserStatus = []struct {
	User  UserStatus
	Store StoreStatus
}{
	{UserStatusActive, StoreStatusApproved},
	{UserStatusInactive, StoreStatusSuspended},
	{UserStatusRejected, StoreStatusRejected},
}

// StoreStatusFor derives the store status from the owning user's status.
func StoreStatusFor(status UserStatus) StoreStatus {
	for _, m := range storeStatusByUserStatus {
		if m.User == status {
			return m.Store
		}
	}
	return StoreStatusPending
}

// StoreStatusCase returns a SQL CASE expression projecting the user status held
// in column onto a store status, together with its bind arguments. It is the
// SQL form of StoreStatusFor.
func StoreStatusCase(column string) (string, []any) {
	sql := "CASE " + column
	args := make([]any, 0, len(storeStatusByUserStatus)*2+1)
	for _, m := range storeStatusByUserStatus {
		sql += " WHEN ? THEN ?"
		args = append(args, string(m.User), string(m.Store))
	}
	sql += " ELSE ? END"
	args = append(args, string(StoreStatusPending))
	return sql, args
}

// VendorStore is a vendor's storefront. Each vendor owns exactly one.
type VendorStore struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	VendorID    uint        `json:"vendor_id" gorm:"uniqueIndex;not null"`
	StoreName   string      `json:"store_name" gorm:"type:varchar(150);not null"`
	Description string      `json:"description,omitempty" gorm:"type:text"`
	LogoURL     string      `json:"logo_url,omitempty" gorm:"type:varchar(255)"`
	Status      StoreStatus `json:"status" gorm:"type:varchar(16);index;not null;default:pending"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// DefaultStoreName is the name given to stores created on a vendor's behalf.
func DefaultStoreName(vendor *User) string {
	if vendor.Name == "" {
		return "Vendor Store"
	}
	return vendor.Name + "'s Store"
}
