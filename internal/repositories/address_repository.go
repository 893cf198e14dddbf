package repositories

import (
	"context"
	"errors"

	"markethub/internal/apperrors"
	"markethub/internal/models"

	"gorm.io/gorm"
)

// AddressRepository defines the interface for address data access.
type AddressRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]models.Address, error)
	Create(ctx context.Context, address *models.Address) error
	SetDefault(ctx context.Context, userID, addressID uint) error
}

// GORMAddressRepository is a GORM implementation of AddressRepository.
type GORMAddressRepository struct {
	db *gorm.DB
}

// NewGORMAddressRepository creates a new instance of GORMAddressRepository.
func NewGORMAddressRepository(db *gorm.DB) *GORMAddressRepository {
	return &GORMAddressRepository{db: db}
}

// ListByUser returns a user's addresses, default first.
func (r *GORMAddressRepository) ListByUser(ctx context.Context, userID uint) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").Order("id ASC").
		Find(&addresses).Error
	if err != nil {
		return nil, apperrors.FromStore(err, "failed to list addresses")
	}
	return addresses, nil
}

// Create stores a new address. A user's first address, or one flagged as
// default, becomes the only default.
func (r *GORMAddressRepository) Create(ctx context.Context, address *models.Address) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Address{}).Where("user_id = ?", address.UserID).Count(&existing).Error; err != nil {
			return err
		}
		if existing == 0 {
			address.IsDefault = true
		}
		if address.IsDefault {
			if err := clearDefault(tx, address.UserID); err != nil {
				return err
			}
		}
		return tx.Create(address).Error
	})
	if err != nil {
		return apperrors.FromStore(err, "failed to create address")
	}
	return nil
}

// SetDefault makes addressID the user's only default address.
func (r *GORMAddressRepository) SetDefault(ctx context.Context, userID, addressID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var address models.Address
		if err := tx.Where("id = ? AND user_id = ?", addressID, userID).Take(&address).Error; err != nil {
			return err
		}
		if err := clearDefault(tx, userID); err != nil {
			return err
		}
		return tx.Model(&address).Update("is_default", true).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("address %d not found", addressID)
	}
	if err != nil {
		return apperrors.FromStore(err, "failed to set default address")
	}
	return nil
}

func clearDefault(tx *gorm.DB, userID uint) error {
	return tx.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}
