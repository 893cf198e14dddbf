// Package testutil provides an in-memory entity store and fixture builders for tests.
package testutil

import (
	"strconv"
	"testing"
	"time"

	"markethub/internal/database"
	"markethub/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open("sqlite", "file::memory:", zap.NewNop())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a fresh database, so keep exactly one.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Fixtures creates entities with sensible defaults.
type Fixtures struct {
	t   *testing.T
	db  *gorm.DB
	seq int
	now time.Time
}

// NewFixtures returns a builder writing to db. Successive products get strictly
// increasing creation times.
func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db, now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *Fixtures) next() int {
	f.seq++
	return f.seq
}

// User inserts a user of the given type and status.
func (f *Fixtures) User(userType models.UserType, status models.UserStatus) *models.User {
	f.t.Helper()
	n := f.next()
	u := &models.User{
		Name:         "User " + strconv.Itoa(n),
		Email:        "user" + strconv.Itoa(n) + "@example.com",
		PasswordHash: "x",
		UserType:     userType,
		Status:       status,
	}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

// Vendor inserts a vendor user with the given status.
func (f *Fixtures) Vendor(status models.UserStatus) *models.User {
	return f.User(models.UserTypeVendor, status)
}

// Store inserts a store for vendor with the given status.
func (f *Fixtures) Store(vendor *models.User, status models.StoreStatus) *models.VendorStore {
	f.t.Helper()
	s := &models.VendorStore{VendorID: vendor.ID, StoreName: models.DefaultStoreName(vendor), Status: status}
	require.NoError(f.t, f.db.Create(s).Error)
	return s
}

// Category inserts a category with the given status.
func (f *Fixtures) Category(name string, status models.CategoryStatus) *models.Category {
	f.t.Helper()
	c := &models.Category{Name: name, Status: status}
	require.NoError(f.t, f.db.Create(c).Error)
	return c
}

// Product inserts an active product owned by vendorID in category (nil for none).
func (f *Fixtures) Product(vendorID uint, category *models.Category, name, price string) *models.Product {
	f.t.Helper()
	return f.ProductWith(vendorID, category, name, price, models.ProductStatusActive)
}

// ProductWith inserts a product with an explicit status.
func (f *Fixtures) ProductWith(vendorID uint, category *models.Category, name, price string, status models.ProductStatus) *models.Product {
	f.t.Helper()
	p := &models.Product{
		VendorID:      vendorID,
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: 10,
		Status:        status,
		CreatedAt:     f.now.Add(time.Duration(f.next()) * time.Minute),
	}
	if category != nil {
		p.CategoryID = &category.ID
	}
	require.NoError(f.t, f.db.Create(p).Error)
	return p
}
