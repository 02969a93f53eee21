// Package accounting is the read side of the ledger: journal listings,
// account statements and the financial reports built from posted entries.
// Posting itself lives in the vouchers package.
package accounting

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalFilters narrows the journal listing. From is inclusive, To is
// exclusive.
type JournalFilters struct {
	From         *time.Time
	To           *time.Time
	Account      string
	DocType      string
	BranchID     *int64
	CostCenterID *int64
	Limit        int
}

const (
	defaultJournalLimit = 200
	maxJournalLimit     = 1000
)

// Normalize clamps the limit into its allowed range.
func (f *JournalFilters) Normalize() {
	if f.Limit <= 0 {
		f.Limit = defaultJournalLimit
	}
	if f.Limit > maxJournalLimit {
		f.Limit = maxJournalLimit
	}
}

// JournalRow is one ledger leg in document order.
type JournalRow struct {
	DocNo       string          `json:"doc_no"`
	DocType     string          `json:"doc_type"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Memo        string          `json:"memo"`
	PostedAt    time.Time       `json:"posted_at"`
}

// ReportWindow bounds a report. A nil From reaches back to the first posting,
// a nil To runs to the latest.
type ReportWindow struct {
	From *time.Time
	To   *time.Time
}
