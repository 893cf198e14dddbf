package repositories

import (
	"context"

	"markethub/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	CreateVendor(ctx context.Context, user *models.User, store *models.VendorStore) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	UpdateStatus(ctx context.Context, id uint, status models.UserStatus) error
}
