package services

import (
	"context"

	"markethub/internal/apperrors"
	"markethub/internal/models"
	"markethub/internal/reconcile"
	"markethub/internal/repositories"
)

// StoreSyncer reprojects one vendor's store status from the vendor's status.
type StoreSyncer interface {
	SyncVendor(ctx context.Context, vendorID uint) (*reconcile.Report, error)
}

// UserService handles administrative changes to accounts.
type UserService struct {
	userRepo repositories.UserRepository
	syncer   StoreSyncer
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, syncer StoreSyncer) *UserService {
	return &UserService{userRepo: userRepo, syncer: syncer}
}

// SetStatus changes a user's status. For vendors the store status follows
// through the status sync, whose report is returned.
func (s *UserService) SetStatus(ctx context.Context, rawID string, status models.UserStatus) (*models.User, *reconcile.Report, error) {
	id, err := ParseID(rawID, "user")
	if err != nil {
		return nil, nil, err
	}
	if !status.Valid() {
		return nil, nil, apperrors.InvalidArgument("invalid status %q", status)
	}

	if err := s.userRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, nil, err
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if user.UserType != models.UserTypeVendor {
		return user, nil, nil
	}

	report, err := s.syncer.SyncVendor(ctx, id)
	return user, report, err
}
