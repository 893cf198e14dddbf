// Package reconcile holds the idempotent maintenance jobs that repair the
// catalog's referential and status inconsistencies.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"markethub/internal/apperrors"

	"github.com/google/uuid"
)

// Job is a named, independently runnable reconciliation pass. Run returns a
// report even when it fails; an error means the job was aborted.
type Job interface {
	Name() string
	Run(ctx context.Context) (*Report, error)
}

// Action is one change a job applied.
type Action struct {
	Action string `json:"action"`
	Target string `json:"target"`
	Detail string `json:"detail,omitempty"`
}

// ItemError is a per-item failure or inconsistency the job could not fix.
type ItemError struct {
	Target string `json:"target"`
	Detail string `json:"detail"`
}

// Report is the structured outcome of a job run.
type Report struct {
	Job        string      `json:"job"`
	RunID      uuid.UUID   `json:"run_id"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Applied    []Action    `json:"applied"`
	Errors     []ItemError `json:"errors"`
}

func newReport(job string) *Report {
	return &Report{
		Job:       job,
		RunID:     uuid.New(),
		StartedAt: time.Now().UTC(),
		Applied:   []Action{},
		Errors:    []ItemError{},
	}
}

func (r *Report) apply(action, target, detail string) {
	r.Applied = append(r.Applied, Action{Action: action, Target: target, Detail: detail})
}

func (r *Report) fail(target, detail string) {
	r.Errors = append(r.Errors, ItemError{Target: target, Detail: detail})
}

// itemFailed records a failed write on one item. It returns a non-nil error
// only when the store is unreachable and the batch must stop.
func (r *Report) itemFailed(target string, err error) error {
	if apperrors.IsUnavailable(err) {
		return apperrors.StoreUnavailable(err)
	}
	r.fail(target, err.Error())
	return nil
}

// abort finishes the report and classifies err for the caller.
func (r *Report) abort(err error, message string) (*Report, error) {
	r.finish()
	return r, apperrors.FromStore(err, message)
}

func (r *Report) finish() *Report {
	r.FinishedAt = time.Now().UTC()
	return r
}

func target(kind string, id uint) string {
	return fmt.Sprintf("%s:%d", kind, id)
}
