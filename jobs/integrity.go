package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	jobmetrics "github.com/qayd-erp/qayd/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// Anomaly kinds reported by the integrity scan.
const (
	AnomalyUnbalancedDocument = "unbalanced_document"
	AnomalyBatchQuantity      = "batch_quantity"
	AnomalyOverReturned       = "over_returned"
	AnomalyUnknownAccount     = "unknown_account"
)

// LedgerIntegrityJob cross-checks posted data against the engine's
// guarantees. Postings enforce these inside their transactions, so any hit
// here means a bug or a manual database edit and pages the on-call.
type LedgerIntegrityJob struct {
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewLedgerIntegrityJob wires dependencies for the integrity handler.
func NewLedgerIntegrityJob(pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *LedgerIntegrityJob {
	return &LedgerIntegrityJob{
		Pool:    pool,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the scan.
func (j *LedgerIntegrityJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("ledger integrity: handler not configured")
	}
	var payload LedgerIntegrityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Limit <= 0 {
		payload.Limit = 100
	}

	tracker := j.metrics().Track(TaskLedgerIntegrity)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	// Every log line from one scan run shares a scan_id so a page of
	// anomaly warnings can be traced back to the run that found them.
	logger := j.logger().With(slog.String("scan_id", uuid.NewString()))
	logger.Info("starting ledger integrity scan", slog.Int("limit", payload.Limit))
	start := j.now()

	total := 0
	for _, check := range []func(context.Context, *slog.Logger, int) (int, error){
		j.scanUnbalancedDocuments,
		j.scanBatchQuantities,
		j.scanOverReturned,
		j.scanUnknownAccounts,
	} {
		found, err := check(ctx, logger, payload.Limit)
		if err != nil {
			resultErr = err
			logger.Error("integrity scan failed", slog.Any("error", err))
			return resultErr
		}
		total += found
	}

	logger.Info("completed ledger integrity scan",
		slog.Int("anomalies", total),
		slog.Duration("duration", time.Since(start)))
	return resultErr
}

// scanUnbalancedDocuments flags documents whose legs do not sum to equal
// debits and credits.
func (j *LedgerIntegrityJob) scanUnbalancedDocuments(ctx context.Context, logger *slog.Logger, limit int) (int, error) {
	rows, err := j.Pool.Query(ctx, `SELECT d.doc_no, d.doc_type, COALESCE(SUM(e.debit), 0), COALESCE(SUM(e.credit), 0)
FROM documents d
LEFT JOIN journal_entries e ON e.document_id = d.id
GROUP BY d.doc_no, d.doc_type
HAVING COALESCE(SUM(e.debit), 0) <> COALESCE(SUM(e.credit), 0)
ORDER BY d.doc_no
LIMIT $1`, limit)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	found := 0
	for rows.Next() {
		var docNo, docType string
		var debits, credits decimal.Decimal
		if err := rows.Scan(&docNo, &docType, &debits, &credits); err != nil {
			return found, err
		}
		found++
		logger.Warn("unbalanced document",
			slog.String("doc_no", docNo),
			slog.String("doc_type", docType),
			slog.String("debits", debits.String()),
			slog.String("credits", credits.String()))
	}
	j.metrics().AddAnomalies(AnomalyUnbalancedDocument, found)
	return found, rows.Err()
}

// scanBatchQuantities flags stock batches whose remaining quantity escaped
// the [0, qty] range.
func (j *LedgerIntegrityJob) scanBatchQuantities(ctx context.Context, logger *slog.Logger, limit int) (int, error) {
	rows, err := j.Pool.Query(ctx, `SELECT id, item_id, doc_no, qty, remaining
FROM stock_batches
WHERE remaining < 0 OR remaining > qty
ORDER BY id
LIMIT $1`, limit)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	found := 0
	for rows.Next() {
		var id, itemID int64
		var docNo string
		var qty, remaining decimal.Decimal
		if err := rows.Scan(&id, &itemID, &docNo, &qty, &remaining); err != nil {
			return found, err
		}
		found++
		logger.Warn("batch quantity out of range",
			slog.Int64("batch_id", id),
			slog.Int64("item_id", itemID),
			slog.String("doc_no", docNo),
			slog.String("qty", qty.String()),
			slog.String("remaining", remaining.String()))
	}
	j.metrics().AddAnomalies(AnomalyBatchQuantity, found)
	return found, rows.Err()
}

// scanOverReturned flags consumption rows that claim more returned than
// consumed.
func (j *LedgerIntegrityJob) scanOverReturned(ctx context.Context, logger *slog.Logger, limit int) (int, error) {
	rows, err := j.Pool.Query(ctx, `SELECT id, doc_no, item_id, qty, returned_qty
FROM stock_consumptions
WHERE returned_qty < 0 OR returned_qty > qty
ORDER BY id
LIMIT $1`, limit)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	found := 0
	for rows.Next() {
		var id, itemID int64
		var docNo string
		var qty, returned decimal.Decimal
		if err := rows.Scan(&id, &docNo, &itemID, &qty, &returned); err != nil {
			return found, err
		}
		found++
		logger.Warn("consumption over-returned",
			slog.Int64("consumption_id", id),
			slog.String("doc_no", docNo),
			slog.Int64("item_id", itemID),
			slog.String("qty", qty.String()),
			slog.String("returned_qty", returned.String()))
	}
	j.metrics().AddAnomalies(AnomalyOverReturned, found)
	return found, rows.Err()
}

// scanUnknownAccounts flags journal legs pointing at codes missing from the
// chart.
func (j *LedgerIntegrityJob) scanUnknownAccounts(ctx context.Context, logger *slog.Logger, limit int) (int, error) {
	rows, err := j.Pool.Query(ctx, `SELECT DISTINCT e.account_code
FROM journal_entries e
LEFT JOIN chart_of_accounts a ON a.code = e.account_code
WHERE a.code IS NULL
ORDER BY e.account_code
LIMIT $1`, limit)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	found := 0
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return found, err
		}
		found++
		logger.Warn("journal leg on unknown account", slog.String("account_code", code))
	}
	j.metrics().AddAnomalies(AnomalyUnknownAccount, found)
	return found, rows.Err()
}

func (j *LedgerIntegrityJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskLedgerIntegrity))
	}
	return slog.Default().With(slog.String("job", TaskLedgerIntegrity))
}

func (j *LedgerIntegrityJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *LedgerIntegrityJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
