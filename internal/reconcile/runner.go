package reconcile

import (
	"context"
	"encoding/json"

	"markethub/internal/apperrors"
	"markethub/internal/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Publisher delivers finished reports to interested consumers.
type Publisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// Options configures the standard job set.
type Options struct {
	FallbackVendorID uint
	Images           ImageOptions
	// RoutingKey is the queue reports are published to.
	RoutingKey string
}

// Runner is the registry of reconciliation jobs.
type Runner struct {
	jobs       map[string]Job
	order      []string
	batch      []string
	logger     *zap.Logger
	publisher  Publisher
	routingKey string
}

// NewRunner creates an empty runner. publisher may be nil.
func NewRunner(logger *zap.Logger, publisher Publisher, routingKey string) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		jobs:       map[string]Job{},
		logger:     logger,
		publisher:  publisher,
		routingKey: routingKey,
	}
}

// NewStandardRunner registers every job. The activity log purge can only be
// run by name.
func NewStandardRunner(db *gorm.DB, files storage.FileStore, opts Options, logger *zap.Logger, publisher Publisher) *Runner {
	r := NewRunner(logger, publisher, opts.RoutingKey)
	r.Register(NewVendorStoreBackfill(db), true)
	r.Register(NewStatusSync(db), true)
	r.Register(NewOrphanProductRepair(db, opts.FallbackVendorID), true)
	r.Register(NewImagePathRepair(db, files, opts.Images), true)
	r.Register(NewActivityLogIntegrity(db), true)
	r.Register(NewActivityLogPurge(db), false)
	return r
}

// Register adds job. Jobs with inBatch run, in registration order, as part of RunAll.
func (r *Runner) Register(job Job, inBatch bool) {
	if _, ok := r.jobs[job.Name()]; !ok {
		r.order = append(r.order, job.Name())
	}
	r.jobs[job.Name()] = job
	if inBatch {
		r.batch = append(r.batch, job.Name())
	}
}

// Jobs returns the registered job names in registration order.
func (r *Runner) Jobs() []string {
	return append([]string(nil), r.order...)
}

// Job returns the job registered under name.
func (r *Runner) Job(name string) (Job, bool) {
	job, ok := r.jobs[name]
	return job, ok
}

// Run runs a single job by name.
func (r *Runner) Run(ctx context.Context, name string) (*Report, error) {
	job, ok := r.jobs[name]
	if !ok {
		return nil, apperrors.NotFound("unknown job %q", name)
	}
	return r.run(ctx, job)
}

// RunAll runs the batch jobs in order. It stops at the first job that aborts
// because the store is unavailable; other job failures are logged and the
// batch continues.
func (r *Runner) RunAll(ctx context.Context) ([]*Report, error) {
	reports := make([]*Report, 0, len(r.batch))
	for _, name := range r.batch {
		report, err := r.run(ctx, r.jobs[name])
		if report != nil {
			reports = append(reports, report)
		}
		if apperrors.Is(err, apperrors.KindStoreUnavailable) {
			return reports, err
		}
		if err := ctx.Err(); err != nil {
			return reports, err
		}
	}
	return reports, nil
}

func (r *Runner) run(ctx context.Context, job Job) (*Report, error) {
	log := r.logger.With(zap.String("job", job.Name()))
	log.Info("reconciliation job started")

	report, err := job.Run(ctx)
	if report != nil {
		log = log.With(
			zap.String("run_id", report.RunID.String()),
			zap.Int("applied", len(report.Applied)),
			zap.Int("errors", len(report.Errors)),
			zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
		)
	}
	if err != nil {
		log.Error("reconciliation job aborted", zap.Error(err))
	} else {
		log.Info("reconciliation job finished")
	}

	if report != nil {
		r.publish(log, report)
	}
	return report, err
}

func (r *Runner) publish(log *zap.Logger, report *Report) {
	if r.publisher == nil {
		return
	}
	body, err := json.Marshal(report)
	if err != nil {
		log.Warn("failed to encode report", zap.Error(err))
		return
	}
	if err := r.publisher.Publish("", r.routingKey, body); err != nil {
		log.Warn("failed to publish report", zap.Error(err))
	}
}
