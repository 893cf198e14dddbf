package models_test

import (
	"testing"

	"markethub/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestStoreStatusFor(t *testing.T) {
	assert.Equal(t, models.StoreStatusApproved, models.StoreStatusFor(models.UserStatusActive))
	assert.Equal(t, models.StoreStatusSuspended, models.StoreStatusFor(models.UserStatusInactive))
	assert.Equal(t, models.StoreStatusRejected, models.StoreStatusFor(models.UserStatusRejected))
	assert.Equal(t, models.StoreStatusPending, models.StoreStatusFor(models.UserStatusPending))
	assert.Equal(t, models.StoreStatusPending, models.StoreStatusFor(models.UserStatus("bogus")))
}

func TestStoreStatusCase(t *testing.T) {
	sql, args := models.StoreStatusCase("users.status")

	assert.Equal(t, "CASE users.status WHEN ? THEN ? WHEN ? THEN ? WHEN ? THEN ? ELSE ? END", sql)
	assert.Equal(t, []any{"active", "approved", "inactive", "suspended", "rejected", "rejected", "pending"}, args)
}

func TestDefaultStoreName(t *testing.T) {
	assert.Equal(t, "Ada's Store", models.DefaultStoreName(&models.User{Name: "Ada"}))
	assert.Equal(t, "Vendor Store", models.DefaultStoreName(&models.User{}))
}
