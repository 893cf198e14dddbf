package reconcile_test

import (
	"strconv"
	"testing"

	"markethub/internal/models"
	"markethub/internal/reconcile"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func actions(report *reconcile.Report) []string {
	out := make([]string, 0, len(report.Applied))
	for _, a := range report.Applied {
		out = append(out, a.Action+" "+a.Target)
	}
	return out
}

func errorTargets(report *reconcile.Report) []string {
	out := make([]string, 0, len(report.Errors))
	for _, e := range report.Errors {
		out = append(out, e.Target)
	}
	return out
}

func storeOf(t *testing.T, db *gorm.DB, vendorID uint) models.VendorStore {
	t.Helper()
	var store models.VendorStore
	require.NoError(t, db.Where("vendor_id = ?", vendorID).First(&store).Error)
	return store
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
