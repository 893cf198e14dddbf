package repositories

import (
	"context"
	"fmt"

	"markethub/internal/apperrors"
	"markethub/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return apperrors.FromStore(err, "failed to create user")
	}
	return nil
}

// CreateVendor creates a vendor user together with its store in one transaction.
func (r *GORMUserRepository) CreateVendor(ctx context.Context, user *models.User, store *models.VendorStore) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		store.VendorID = user.ID
		store.Status = models.StoreStatusFor(user.Status)
		return tx.Create(store).Error
	})
	if err != nil {
		return apperrors.FromStore(err, "failed to create vendor")
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, apperrors.FromStore(err, fmt.Sprintf("user with email %s not found", email))
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, apperrors.FromStore(err, fmt.Sprintf("user with ID %d not found", id))
	}
	return &user, nil
}

// UpdateStatus sets a user's status.
func (r *GORMUserRepository) UpdateStatus(ctx context.Context, id uint, status models.UserStatus) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return apperrors.FromStore(res.Error, "failed to update user status")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("user with ID %d not found for update", id)
	}
	return nil
}
