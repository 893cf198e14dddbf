package repositories

import (
	"context"

	"markethub/internal/apperrors"
	"markethub/internal/models"

	"gorm.io/gorm"
)

// ActivityLogRepository appends audit records.
type ActivityLogRepository interface {
	Append(ctx context.Context, entry *models.ActivityLog) error
}

// GORMActivityLogRepository is a GORM implementation of ActivityLogRepository.
type GORMActivityLogRepository struct {
	db *gorm.DB
}

// NewGORMActivityLogRepository creates a new instance of GORMActivityLogRepository.
func NewGORMActivityLogRepository(db *gorm.DB) *GORMActivityLogRepository {
	return &GORMActivityLogRepository{db: db}
}

// Append inserts entry.
func (r *GORMActivityLogRepository) Append(ctx context.Context, entry *models.ActivityLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return apperrors.FromStore(err, "failed to append activity log")
	}
	return nil
}
