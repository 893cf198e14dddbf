package services

import (
	"context"

	"markethub/internal/models"
	"markethub/internal/repositories"
)

// AddressService manages a user's address book.
type AddressService struct {
	repo repositories.AddressRepository
}

// NewAddressService creates a new AddressService.
func NewAddressService(repo repositories.AddressRepository) *AddressService {
	return &AddressService{repo: repo}
}

// List returns userID's addresses, default first.
func (s *AddressService) List(ctx context.Context, userID uint) ([]models.Address, error) {
	addresses, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if addresses == nil {
		addresses = []models.Address{}
	}
	return addresses, nil
}

// Create adds address to userID's address book.
func (s *AddressService) Create(ctx context.Context, userID uint, address *models.Address) error {
	address.ID = 0
	address.UserID = userID
	return s.repo.Create(ctx, address)
}

// SetDefault makes the address identified by rawID the user's default.
func (s *AddressService) SetDefault(ctx context.Context, userID uint, rawID string) error {
	id, err := ParseID(rawID, "address")
	if err != nil {
		return err
	}
	return s.repo.SetDefault(ctx, userID, id)
}
