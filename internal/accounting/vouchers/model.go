// Package vouchers is the posting engine. Every business event enters the
// ledger through one of its voucher builders, which translate the event into
// a numbered document plus a balanced set of journal legs inside a single
// transaction.
package vouchers

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/qayd-erp/qayd/internal/accounting/shared"
)

// DocType enumerates the voucher kinds the engine can post.
type DocType string

const (
	DocTypeSale           DocType = "SALE"
	DocTypePurchase       DocType = "PURCHASE"
	DocTypeReceipt        DocType = "RECEIPT"
	DocTypePayment        DocType = "PAYMENT"
	DocTypeJournal        DocType = "JOURNAL"
	DocTypeSalesReturn    DocType = "SALES_RETURN"
	DocTypePurchaseReturn DocType = "PURCHASE_RETURN"
)

// Prefix returns the document number prefix for the type.
func (t DocType) Prefix() string {
	switch t {
	case DocTypeSale:
		return "AR"
	case DocTypePurchase:
		return "AP"
	case DocTypeReceipt:
		return "RC"
	case DocTypePayment:
		return "PY"
	case DocTypeJournal:
		return "JV"
	case DocTypeSalesReturn:
		return "CRN"
	case DocTypePurchaseReturn:
		return "DRN"
	}
	return ""
}

// Document captures the posted voucher header.
type Document struct {
	ID           int64           `json:"id"`
	DocNo        string          `json:"doc_no"`
	Type         DocType         `json:"type"`
	BranchID     *int64          `json:"branch_id,omitempty"`
	CostCenterID *int64          `json:"cost_center_id,omitempty"`
	Memo         string          `json:"memo,omitempty"`
	Base         decimal.Decimal `json:"base"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	PostedAt     time.Time       `json:"posted_at"`
	CreatedAt    time.Time       `json:"created_at"`
	Lines        []DocumentLine  `json:"lines,omitempty"`
	Entries      []JournalEntry  `json:"entries,omitempty"`
}

// DocumentLine records the item detail behind a stock voucher.
type DocumentLine struct {
	ID         int64           `json:"id"`
	DocumentID int64           `json:"document_id"`
	ItemID     int64           `json:"item_id"`
	Qty        decimal.Decimal `json:"qty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Amount     decimal.Decimal `json:"amount"`
}

// JournalEntry is one persisted ledger leg. DocNo and AccountCode are
// denormalised onto the row so ledger reads never join back through the
// document.
type JournalEntry struct {
	ID          int64           `json:"id"`
	DocumentID  int64           `json:"document_id"`
	DocNo       string          `json:"doc_no"`
	AccountCode string          `json:"account_code"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Memo        string          `json:"memo,omitempty"`
	PostedAt    time.Time       `json:"posted_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

// EntryLine is a draft ledger leg before persistence.
type EntryLine struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// ImbalanceError reports generated legs whose debits and credits disagree.
// Builders derive both sides from the same inputs, so this signals a bug in
// the engine rather than bad user input.
type ImbalanceError struct {
	DocType DocType
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("vouchers: %s legs do not balance: debits %s, credits %s",
		e.DocType, e.Debits.String(), e.Credits.String())
}

func (e *ImbalanceError) Unwrap() error { return shared.ErrUnbalanced }

// ValidateEntryLines ensures a leg set meets posting criteria: at least two
// legs, each leg on exactly one side with a positive amount, and equal debit
// and credit totals.
func ValidateEntryLines(docType DocType, lines []EntryLine) error {
	if len(lines) < 2 {
		return shared.ErrTooFewLines
	}
	debits, credits := decimal.Zero, decimal.Zero
	for idx, line := range lines {
		if line.AccountCode == "" {
			return fmt.Errorf("vouchers: line %d missing account", idx)
		}
		if line.Debit.Sign() < 0 || line.Credit.Sign() < 0 {
			return fmt.Errorf("%w: line %d", shared.ErrInvalidAmount, idx)
		}
		if line.Debit.Sign() > 0 && line.Credit.Sign() > 0 {
			return fmt.Errorf("vouchers: line %d cannot be both debit and credit", idx)
		}
		if line.Debit.Sign() == 0 && line.Credit.Sign() == 0 {
			return fmt.Errorf("%w: line %d", shared.ErrInvalidAmount, idx)
		}
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	if !debits.Equal(credits) {
		return &ImbalanceError{DocType: docType, Debits: debits, Credits: credits}
	}
	return nil
}
