// Package jobs runs the ledger's background work: the nightly integrity scan
// over posted documents and stock batches, and the report cache warmup.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerIntegrity scans posted documents and stock batches for
	// invariant violations.
	TaskLedgerIntegrity = "ledger:integrity"
	// TaskReportsWarmup rebuilds the cached financial statements.
	TaskReportsWarmup = "reports:warmup"
	// TaskIdempotencyCleanup drops idempotency keys past retention.
	TaskIdempotencyCleanup = "idempotency:cleanup"
)

// LedgerIntegrityPayload tunes the integrity scan.
type LedgerIntegrityPayload struct {
	// Limit caps how many offending rows each check reports. Zero means
	// the default of 100.
	Limit int `json:"limit"`
}

// NewLedgerIntegrityTask constructs the integrity scan task.
func NewLedgerIntegrityTask(payload LedgerIntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerIntegrity, data), nil
}

// ReportsWarmupPayload is reserved for future warmup options.
type ReportsWarmupPayload struct{}

// NewReportsWarmupTask constructs the warmup task.
func NewReportsWarmupTask(payload ReportsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsWarmup, data), nil
}

// IdempotencyCleanupPayload tunes key retention.
type IdempotencyCleanupPayload struct {
	// RetentionHours keeps claims younger than this. Zero means the
	// default of 48 hours.
	RetentionHours int `json:"retention_hours"`
}

// NewIdempotencyCleanupTask constructs the cleanup task.
func NewIdempotencyCleanupTask(payload IdempotencyCleanupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIdempotencyCleanup, data), nil
}
