// Package seed bootstraps the administrator account and optional demo data.
package seed

import (
	"context"
	"fmt"

	"markethub/internal/models"
	"markethub/internal/services"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of every demo account.
const DemoPassword = "demo-password"

// Admin makes sure an administrator account exists for email.
func Admin(ctx context.Context, auth *services.AuthService, email, password string, log *zap.Logger) error {
	created, err := auth.EnsureAdmin(ctx, "Administrator", email, password)
	if err != nil {
		return fmt.Errorf("failed to ensure admin account: %w", err)
	}
	if created {
		log.Info("admin account created", zap.String("email", email))
	}
	return nil
}

type demoProduct struct {
	name, description, price, category, image string
	stock                                     int
}

type demoVendor struct {
	name, email string
	status      models.UserStatus
	products    []demoProduct
}

var demoCategories = []models.Category{
	{Name: "Electronics", Description: "Phones, laptops and accessories", Status: models.CategoryStatusActive},
	{Name: "Books", Description: "Fiction and non-fiction", Status: models.CategoryStatusActive},
	{Name: "Home & Kitchen", Description: "Everything for the home", Status: models.CategoryStatusActive},
	{Name: "Seasonal", Description: "Out-of-season collection", Status: models.CategoryStatusInactive},
}

var demoVendors = []demoVendor{
	{
		name: "Tech Haven", email: "techhaven@example.com", status: models.UserStatusActive,
		products: []demoProduct{
			{"Smartphone X", "6.1 inch display, 128 GB", "699.00", "Electronics", "uploads/products/smartphone-x.jpg", 25},
			{"Wireless Earbuds", "Noise cancelling", "129.99", "Electronics", "uploads/products/earbuds.jpg", 60},
			{"USB-C Charger", "65 W fast charger", "39.50", "Electronics", "", 120},
		},
	},
	{
		name: "Page Turners", email: "pageturners@example.com", status: models.UserStatusActive,
		products: []demoProduct{
			{"The Go Programming Language", "Donovan and Kernighan", "44.99", "Books", "assets/images/go-book.jpg", 15},
			{"Cast Iron Skillet", "Pre-seasoned, 12 inch", "34.00", "Home & Kitchen", "", 30},
		},
	},
	{
		name: "Dormant Goods", email: "dormant@example.com", status: models.UserStatusInactive,
		products: []demoProduct{
			{"Vintage Lamp", "Hidden while the vendor is inactive", "89.00", "Home & Kitchen", "", 3},
		},
	},
	{
		name: "Pending Crafts", email: "pending@example.com", status: models.UserStatusPending,
		products: []demoProduct{
			{"Handmade Mug", "Awaiting vendor approval", "18.00", "Home & Kitchen", "", 12},
		},
	},
}

// Demo inserts a small demo catalog unless the store already has categories.
// It reports whether anything was inserted.
func Demo(ctx context.Context, db *gorm.DB, log *zap.Logger) (bool, error) {
	var existing int64
	if err := db.WithContext(ctx).Model(&models.Category{}).Count(&existing).Error; err != nil {
		return false, fmt.Errorf("failed to count categories: %w", err)
	}
	if existing > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash demo password: %w", err)
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categoryIDs := make(map[string]uint, len(demoCategories))
		for _, c := range demoCategories {
			category := c
			if err := tx.Create(&category).Error; err != nil {
				return err
			}
			categoryIDs[category.Name] = category.ID
		}

		for _, v := range demoVendors {
			vendor := models.User{
				Name:         v.name,
				Email:        v.email,
				PasswordHash: string(hash),
				UserType:     models.UserTypeVendor,
				Status:       v.status,
			}
			if err := tx.Create(&vendor).Error; err != nil {
				return err
			}
			store := models.VendorStore{
				VendorID:  vendor.ID,
				StoreName: models.DefaultStoreName(&vendor),
				Status:    models.StoreStatusFor(vendor.Status),
			}
			if err := tx.Create(&store).Error; err != nil {
				return err
			}
			if err := createProducts(tx, vendor.ID, v.products, categoryIDs); err != nil {
				return err
			}
		}

		customer := models.User{
			Name:         "Demo Customer",
			Email:        "customer@example.com",
			PasswordHash: string(hash),
			UserType:     models.UserTypeCustomer,
			Status:       models.UserStatusActive,
		}
		if err := tx.Create(&customer).Error; err != nil {
			return err
		}
		return tx.Create(&models.Address{
			UserID:     customer.ID,
			Label:      "Home",
			Line1:      "1 Market Street",
			City:       "Springfield",
			PostalCode: "12345",
			Country:    "US",
			IsDefault:  true,
		}).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to seed demo data: %w", err)
	}

	log.Info("demo data seeded",
		zap.Int("categories", len(demoCategories)),
		zap.Int("vendors", len(demoVendors)),
	)
	return true, nil
}

func createProducts(tx *gorm.DB, vendorID uint, products []demoProduct, categoryIDs map[string]uint) error {
	for _, p := range products {
		product := models.Product{
			VendorID:      vendorID,
			Name:          p.name,
			Description:   p.description,
			Price:         decimal.RequireFromString(p.price),
			StockQuantity: p.stock,
			ImageURL:      p.image,
			Status:        models.ProductStatusActive,
		}
		if id, ok := categoryIDs[p.category]; ok {
			product.CategoryID = &id
		}
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		if p.image == "" {
			continue
		}
		image := models.ProductImage{ProductID: product.ID, ImageURL: p.image, IsPrimary: true}
		if err := tx.Create(&image).Error; err != nil {
			return err
		}
	}
	return nil
}
