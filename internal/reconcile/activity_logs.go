package reconcile

import (
	"context"
	"fmt"

	"markethub/internal/models"

	"gorm.io/gorm"
)

const missingUserCondition = "NOT EXISTS (SELECT 1 FROM users WHERE users.id = activity_logs.user_id)"

func orphanedLogs(db *gorm.DB) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := db.Select("id", "user_id").Where(missingUserCondition).Order("id").Find(&logs).Error
	return logs, err
}

// ActivityLogIntegrity reports activity log rows that reference a missing
// user. It never deletes; see ActivityLogPurge.
type ActivityLogIntegrity struct {
	db *gorm.DB
}

// NewActivityLogIntegrity creates the job.
func NewActivityLogIntegrity(db *gorm.DB) *ActivityLogIntegrity {
	return &ActivityLogIntegrity{db: db}
}

// Name implements Job.
func (j *ActivityLogIntegrity) Name() string { return "activity-log-integrity" }

// Run implements Job.
func (j *ActivityLogIntegrity) Run(ctx context.Context) (*Report, error) {
	report := newReport(j.Name())
	logs, err := orphanedLogs(j.db.WithContext(ctx))
	if err != nil {
		return report.abort(err, "failed to check activity logs")
	}
	for _, l := range logs {
		report.fail(target("activity_log", l.ID), fmt.Sprintf("references missing user %d", l.UserID))
	}
	return report.finish(), nil
}

// ActivityLogPurge deletes exactly the rows ActivityLogIntegrity reports. It
// only runs when invoked by name.
type ActivityLogPurge struct {
	db *gorm.DB
}

// NewActivityLogPurge creates the job.
func NewActivityLogPurge(db *gorm.DB) *ActivityLogPurge {
	return &ActivityLogPurge{db: db}
}

// Name implements Job.
func (j *ActivityLogPurge) Name() string { return "activity-log-purge" }

// Run implements Job.
func (j *ActivityLogPurge) Run(ctx context.Context) (*Report, error) {
	report := newReport(j.Name())
	db := j.db.WithContext(ctx)

	logs, err := orphanedLogs(db)
	if err != nil {
		return report.abort(err, "failed to find orphaned activity logs")
	}
	for _, l := range logs {
		t := target("activity_log", l.ID)
		res := db.Where(missingUserCondition).Delete(&models.ActivityLog{}, l.ID)
		if res.Error != nil {
			if err := report.itemFailed(t, res.Error); err != nil {
				return report.abort(err, "")
			}
			continue
		}
		if res.RowsAffected > 0 {
			report.apply("delete_log", t, fmt.Sprintf("user %d does not exist", l.UserID))
		}
	}
	return report.finish(), nil
}
