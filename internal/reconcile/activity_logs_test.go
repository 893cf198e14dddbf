package reconcile_test

import (
	"context"
	"testing"

	"markethub/internal/models"
	"markethub/internal/reconcile"
	"markethub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityLogIntegrity_ReportsWithoutDeleting(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	user := testutil.NewFixtures(t, db).User(models.UserTypeCustomer, models.UserStatusActive)

	valid := &models.ActivityLog{UserID: user.ID, Action: "login"}
	orphan := &models.ActivityLog{UserID: 9999, Action: "login"}
	require.NoError(t, db.Create(valid).Error)
	require.NoError(t, db.Create(orphan).Error)

	report, err := reconcile.NewActivityLogIntegrity(db).Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Applied)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "activity_log:"+itoa(orphan.ID), report.Errors[0].Target)
	assert.Equal(t, "references missing user 9999", report.Errors[0].Detail)

	var count int64
	require.NoError(t, db.Model(&models.ActivityLog{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestActivityLogPurge_DeletesOnlyOrphans(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	user := testutil.NewFixtures(t, db).User(models.UserTypeCustomer, models.UserStatusActive)

	valid := &models.ActivityLog{UserID: user.ID, Action: "login"}
	orphan := &models.ActivityLog{UserID: 9999, Action: "login"}
	require.NoError(t, db.Create(valid).Error)
	require.NoError(t, db.Create(orphan).Error)

	job := reconcile.NewActivityLogPurge(db)
	report, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"delete_log activity_log:" + itoa(orphan.ID)}, actions(report))

	var remaining []models.ActivityLog
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, valid.ID, remaining[0].ID)

	again, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Applied)
}
