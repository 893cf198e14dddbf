package reconcile_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"

	"markethub/internal/apperrors"
	"markethub/internal/reconcile"
	"markethub/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type stubJob struct {
	name  string
	err   error
	calls *[]string
}

func (j stubJob) Name() string { return j.name }

func (j stubJob) Run(context.Context) (*reconcile.Report, error) {
	*j.calls = append(*j.calls, j.name)
	return &reconcile.Report{Job: j.name, Applied: []reconcile.Action{}, Errors: []reconcile.ItemError{}}, j.err
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(exchange, routingKey string, body []byte) error {
	return m.Called(exchange, routingKey, body).Error(0)
}

func TestRunner_RunAllOrderAndExplicitJobs(t *testing.T) {
	var calls []string
	runner := reconcile.NewRunner(zap.NewNop(), nil, "")
	runner.Register(stubJob{name: "a", calls: &calls}, true)
	runner.Register(stubJob{name: "b", err: apperrors.Internal(errors.New("boom"), "b failed"), calls: &calls}, true)
	runner.Register(stubJob{name: "explicit", calls: &calls}, false)
	runner.Register(stubJob{name: "c", calls: &calls}, true)

	assert.Equal(t, []string{"a", "b", "explicit", "c"}, runner.Jobs())

	reports, err := runner.RunAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, reports, 3)
	assert.Equal(t, []string{"a", "b", "c"}, calls)

	report, err := runner.Run(context.Background(), "explicit")
	require.NoError(t, err)
	assert.Equal(t, "explicit", report.Job)

	_, err = runner.Run(context.Background(), "nope")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestRunner_RunAllStopsWhenStoreUnavailable(t *testing.T) {
	var calls []string
	runner := reconcile.NewRunner(zap.NewNop(), nil, "")
	runner.Register(stubJob{name: "a", err: apperrors.StoreUnavailable(errors.New("connection refused")), calls: &calls}, true)
	runner.Register(stubJob{name: "b", calls: &calls}, true)

	reports, err := runner.RunAll(context.Background())
	assert.True(t, apperrors.Is(err, apperrors.KindStoreUnavailable))
	assert.Len(t, reports, 1)
	assert.Equal(t, []string{"a"}, calls)
}

func TestRunner_PublishesReports(t *testing.T) {
	var calls []string
	publisher := new(MockPublisher)
	publisher.On("Publish", "", "markethub.reconciliation", mock.MatchedBy(func(body []byte) bool {
		var decoded map[string]any
		return json.Unmarshal(body, &decoded) == nil && decoded["job"] == "a"
	})).Return(errors.New("broker down")).Once()

	core, logs := observer.New(zap.InfoLevel)
	runner := reconcile.NewRunner(zap.New(core), publisher, "markethub.reconciliation")
	runner.Register(stubJob{name: "a", calls: &calls}, true)

	_, err := runner.Run(context.Background(), "a")
	require.NoError(t, err, "publish failures do not fail the job")
	publisher.AssertExpectations(t)
	assert.Equal(t, 1, logs.FilterMessage("failed to publish report").Len())
	assert.Equal(t, 1, logs.FilterMessage("reconciliation job finished").Len())
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, sqlMock
}

func TestStandardRunner_StoreUnavailableAbortsBatch(t *testing.T) {
	db, sqlMock := newMockDB(t)
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	sqlMock.ExpectQuery(`SELECT .* FROM "users" LEFT JOIN vendor_stores`).WillReturnError(refused)

	runner := reconcile.NewStandardRunner(db, storage.NewLocalFileStore(t.TempDir()), reconcile.Options{}, zap.NewNop(), nil)
	assert.Equal(t, []string{
		"vendor-store-backfill",
		"store-status-sync",
		"orphan-product-repair",
		"image-path-repair",
		"activity-log-integrity",
		"activity-log-purge",
	}, runner.Jobs())

	reports, err := runner.RunAll(context.Background())
	assert.True(t, apperrors.Is(err, apperrors.KindStoreUnavailable))
	require.Len(t, reports, 1)
	assert.Equal(t, "vendor-store-backfill", reports[0].Job)
	assert.False(t, reports[0].FinishedAt.IsZero())
	require.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestVendorStoreBackfill_ItemErrorsContinue(t *testing.T) {
	db, sqlMock := newMockDB(t)
	sqlMock.ExpectQuery(`SELECT .* FROM "users" LEFT JOIN vendor_stores`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_type", "status"}).
			AddRow(1, "Ann", "vendor", "active").
			AddRow(2, "Bob", "vendor", "pending"))
	sqlMock.ExpectQuery(`INSERT INTO "vendor_stores"`).WillReturnError(errors.New("value too long"))
	sqlMock.ExpectQuery(`INSERT INTO "vendor_stores"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	report, err := reconcile.NewVendorStoreBackfill(db).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"user:1"}, errorTargets(report))
	assert.Equal(t, []string{"create_store user:2"}, actions(report))
	require.NoError(t, sqlMock.ExpectationsWereMet())
}
