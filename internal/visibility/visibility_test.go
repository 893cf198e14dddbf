package visibility_test

import (
	"testing"

	"markethub/internal/models"
	"markethub/internal/visibility"

	"github.com/stretchr/testify/assert"
)

func TestVendorVisible(t *testing.T) {
	tests := []struct {
		name string
		user models.User
		want bool
	}{
		{"active vendor", models.User{UserType: models.UserTypeVendor, Status: models.UserStatusActive}, true},
		{"pending vendor", models.User{UserType: models.UserTypeVendor, Status: models.UserStatusPending}, false},
		{"inactive vendor", models.User{UserType: models.UserTypeVendor, Status: models.UserStatusInactive}, false},
		{"rejected vendor", models.User{UserType: models.UserTypeVendor, Status: models.UserStatusRejected}, false},
		{"active customer", models.User{UserType: models.UserTypeCustomer, Status: models.UserStatusActive}, false},
		{"active admin", models.User{UserType: models.UserTypeAdmin, Status: models.UserStatusActive}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, visibility.VendorVisible(tt.user))
		})
	}
}

func TestProductVisible(t *testing.T) {
	vendor := &models.User{ID: 7, UserType: models.UserTypeVendor, Status: models.UserStatusActive}
	inactiveVendor := &models.User{ID: 7, UserType: models.UserTypeVendor, Status: models.UserStatusInactive}
	customer := &models.User{ID: 7, UserType: models.UserTypeCustomer, Status: models.UserStatusActive}

	active := models.Product{ID: 1, VendorID: 7, Status: models.ProductStatusActive}
	inactive := models.Product{ID: 2, VendorID: 7, Status: models.ProductStatusInactive}

	assert.True(t, visibility.ProductVisible(active, vendor))
	assert.False(t, visibility.ProductVisible(inactive, vendor))
	assert.False(t, visibility.ProductVisible(active, inactiveVendor))
	assert.False(t, visibility.ProductVisible(active, customer))
	assert.False(t, visibility.ProductVisible(active, nil), "orphaned product must not be visible")

	other := &models.User{ID: 8, UserType: models.UserTypeVendor, Status: models.UserStatusActive}
	assert.False(t, visibility.ProductVisible(active, other), "owner must be the product's vendor")
}

func TestCategoryVisible(t *testing.T) {
	assert.True(t, visibility.CategoryVisible(models.Category{Status: models.CategoryStatusActive}))
	assert.False(t, visibility.CategoryVisible(models.Category{Status: models.CategoryStatusInactive}))
}
