package accounting

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/qayd-erp/qayd/internal/accounting/accounts"
	"github.com/qayd-erp/qayd/internal/accounting/reports"
)

// Repository runs the read-only ledger queries. Reports aggregate posted
// entries directly; nothing here writes.
type Repository struct {
	pool     *pgxpool.Pool
	accounts *accounts.Repository
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, accounts: accounts.NewRepository(pool)}
}

// GetAccount loads one chart account by code.
func (r *Repository) GetAccount(ctx context.Context, code string) (accounts.Account, error) {
	return r.accounts.Get(ctx, code)
}

// ListJournal returns ledger legs in posting order, filtered and capped.
func (r *Repository) ListJournal(ctx context.Context, f JournalFilters) ([]JournalRow, error) {
	f.Normalize()
	query := `SELECT e.doc_no, d.doc_type, e.account_code, COALESCE(a.name, ''), e.debit, e.credit, e.memo, e.posted_at
FROM journal_entries e
JOIN documents d ON d.id = e.document_id
LEFT JOIN chart_of_accounts a ON a.code = e.account_code`

	var (
		conditions []string
		args       []any
		argCount   int
	)
	if f.From != nil {
		argCount++
		conditions = append(conditions, "e.posted_at >= $"+strconv.Itoa(argCount))
		args = append(args, *f.From)
	}
	if f.To != nil {
		argCount++
		conditions = append(conditions, "e.posted_at < $"+strconv.Itoa(argCount))
		args = append(args, *f.To)
	}
	if f.Account != "" {
		argCount++
		conditions = append(conditions, "e.account_code = $"+strconv.Itoa(argCount))
		args = append(args, f.Account)
	}
	if f.DocType != "" {
		argCount++
		conditions = append(conditions, "d.doc_type = $"+strconv.Itoa(argCount))
		args = append(args, f.DocType)
	}
	if f.BranchID != nil {
		argCount++
		conditions = append(conditions, "d.branch_id = $"+strconv.Itoa(argCount))
		args = append(args, *f.BranchID)
	}
	if f.CostCenterID != nil {
		argCount++
		conditions = append(conditions, "d.cost_center_id = $"+strconv.Itoa(argCount))
		args = append(args, *f.CostCenterID)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	argCount++
	query += " ORDER BY e.posted_at, e.doc_no, e.id LIMIT $" + strconv.Itoa(argCount)
	args = append(args, f.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []JournalRow
	for rows.Next() {
		var row JournalRow
		if err := rows.Scan(&row.DocNo, &row.DocType, &row.AccountCode, &row.AccountName, &row.Debit, &row.Credit, &row.Memo, &row.PostedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// AccountBalances aggregates every chart account over the window: the sum of
// legs before From as the opening, debit and credit activity inside it.
// Accounts without postings still appear with zero figures.
func (r *Repository) AccountBalances(ctx context.Context, w ReportWindow) ([]reports.AccountBalance, error) {
	rows, err := r.pool.Query(ctx, `SELECT a.code, a.name, a.side,
	COALESCE(SUM(CASE WHEN $1::timestamptz IS NOT NULL AND e.posted_at < $1 THEN e.debit - e.credit END), 0),
	COALESCE(SUM(CASE WHEN ($1::timestamptz IS NULL OR e.posted_at >= $1) AND ($2::timestamptz IS NULL OR e.posted_at < $2) THEN e.debit END), 0),
	COALESCE(SUM(CASE WHEN ($1::timestamptz IS NULL OR e.posted_at >= $1) AND ($2::timestamptz IS NULL OR e.posted_at < $2) THEN e.credit END), 0)
FROM chart_of_accounts a
LEFT JOIN journal_entries e ON e.account_code = a.code
GROUP BY a.code, a.name, a.side
ORDER BY a.code`, w.From, w.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []reports.AccountBalance
	for rows.Next() {
		var b reports.AccountBalance
		if err := rows.Scan(&b.Code, &b.Name, &b.Side, &b.Opening, &b.Debit, &b.Credit); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// AccountActivity returns one account's opening balance before the window and
// its movements inside it, oldest first.
func (r *Repository) AccountActivity(ctx context.Context, code string, w ReportWindow) (decimal.Decimal, []reports.LedgerEntry, error) {
	var opening decimal.Decimal
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(debit - credit), 0)
FROM journal_entries
WHERE account_code = $1 AND $2::timestamptz IS NOT NULL AND posted_at < $2`, code, w.From).Scan(&opening)
	if err != nil {
		return decimal.Decimal{}, nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT e.doc_no, d.doc_type, e.memo, e.posted_at, e.debit, e.credit
FROM journal_entries e
JOIN documents d ON d.id = e.document_id
WHERE e.account_code = $1
	AND ($2::timestamptz IS NULL OR e.posted_at >= $2)
	AND ($3::timestamptz IS NULL OR e.posted_at < $3)
ORDER BY e.posted_at, e.doc_no, e.id`, code, w.From, w.To)
	if err != nil {
		return decimal.Decimal{}, nil, err
	}
	defer rows.Close()
	var entries []reports.LedgerEntry
	for rows.Next() {
		var e reports.LedgerEntry
		if err := rows.Scan(&e.DocNo, &e.DocType, &e.Memo, &e.PostedAt, &e.Debit, &e.Credit); err != nil {
			return decimal.Decimal{}, nil, err
		}
		entries = append(entries, e)
	}
	return opening, entries, rows.Err()
}
