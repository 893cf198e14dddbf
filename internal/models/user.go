package models

import "time"

// UserType distinguishes customers, vendors and administrators.
type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeVendor   UserType = "vendor"
	UserTypeAdmin    UserType = "admin"
)

// UserStatus is the account lifecycle state. It is the single source of truth
// for the status of a vendor's store.
type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusRejected UserStatus = "rejected"
)

// Valid reports whether s is a known user status.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusPending, UserStatusActive, UserStatusInactive, UserStatusRejected:
		return true
	}
	return false
}

// User represents an account of the marketplace.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"type:varchar(150);not null" validate:"required,min=2,max=150"`
	Email        string     `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	PasswordHash string     `json:"-" gorm:"type:varchar(255);not null"` // No json tag for security
	Phone        string     `json:"phone,omitempty" gorm:"type:varchar(32)"`
	UserType     UserType   `json:"user_type" gorm:"type:varchar(16);index;not null;default:customer"`
	Status       UserStatus `json:"status" gorm:"type:varchar(16);index;not null;default:pending"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
