package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one journal leg touching the reported account, already
// ordered by posting time then document number.
type LedgerEntry struct {
	DocNo    string          `json:"doc_no"`
	DocType  string          `json:"doc_type"`
	Memo     string          `json:"memo"`
	PostedAt time.Time       `json:"posted_at"`
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
}

// LedgerLine is a ledger entry with the balance after it applied.
type LedgerLine struct {
	LedgerEntry
	Balance decimal.Decimal `json:"balance"`
}

// Ledger is the account statement: an opening balance, each movement with a
// running balance, and the closing figure.
type Ledger struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Opening     decimal.Decimal `json:"opening"`
	Lines       []LedgerLine    `json:"lines"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Closing     decimal.Decimal `json:"closing"`
}

// BuildLedger threads a running balance through the account's movements.
// Balances are debit-positive regardless of the account's natural side.
func BuildLedger(code, name string, opening decimal.Decimal, entries []LedgerEntry) Ledger {
	out := Ledger{
		AccountCode: code,
		AccountName: name,
		Opening:     opening,
		Lines:       make([]LedgerLine, 0, len(entries)),
	}
	balance := opening
	for _, e := range entries {
		balance = balance.Add(e.Debit).Sub(e.Credit)
		out.Lines = append(out.Lines, LedgerLine{LedgerEntry: e, Balance: balance})
		out.TotalDebit = out.TotalDebit.Add(e.Debit)
		out.TotalCredit = out.TotalCredit.Add(e.Credit)
	}
	out.Closing = balance
	return out
}
