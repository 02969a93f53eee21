package vouchers

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/qayd-erp/qayd/internal/accounting/shared"
	"github.com/qayd-erp/qayd/internal/money"
)

// Settlement names how a voucher settles. Cash sales debit the cash
// account and credit sales pile onto receivables; cash purchases pay from
// the bank while credit purchases sit on the supplier account.
const (
	SettlementCash   = "cash"
	SettlementCredit = "credit"
)

func validSettlement(s string) error {
	if s != "" && s != SettlementCash && s != SettlementCredit {
		return fmt.Errorf("%w: settlement must be %q or %q", shared.ErrInvalidInput, SettlementCash, SettlementCredit)
	}
	return nil
}

// SaleInput describes a sale of one item. Settlement defaults to cash.
type SaleInput struct {
	ItemID       int64           `json:"item_id" validate:"required"`
	Qty          decimal.Decimal `json:"qty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Settlement   string          `json:"settlement" validate:"omitempty,oneof=cash credit"`
	BranchID     *int64          `json:"branch_id"`
	CostCenterID *int64          `json:"cost_center_id"`
	Memo         string          `json:"memo"`
	PostedAt     *time.Time      `json:"posted_at"`
}

// Validate checks the quantity and price semantics the tag layer cannot.
func (in SaleInput) Validate() error {
	if !money.IsPositive(in.Qty) {
		return fmt.Errorf("%w: qty", shared.ErrInvalidAmount)
	}
	if !money.IsPositive(in.UnitPrice) {
		return fmt.Errorf("%w: unit_price", shared.ErrInvalidAmount)
	}
	return validSettlement(in.Settlement)
}

// PurchaseInput describes a purchase of one item into stock. Settlement
// defaults to credit, leaving the total on the supplier account.
type PurchaseInput struct {
	ItemID       int64           `json:"item_id" validate:"required"`
	Qty          decimal.Decimal `json:"qty"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Settlement   string          `json:"settlement" validate:"omitempty,oneof=cash credit"`
	BranchID     *int64          `json:"branch_id"`
	CostCenterID *int64          `json:"cost_center_id"`
	Memo         string          `json:"memo"`
	PostedAt     *time.Time      `json:"posted_at"`
}

func (in PurchaseInput) Validate() error {
	if !money.IsPositive(in.Qty) {
		return fmt.Errorf("%w: qty", shared.ErrInvalidAmount)
	}
	if !money.IsPositive(in.UnitCost) {
		return fmt.Errorf("%w: unit_cost", shared.ErrInvalidAmount)
	}
	return validSettlement(in.Settlement)
}

// ReceiptInput records money in: debit the destination account, credit the
// source. Accounts default to cash and receivables when omitted.
type ReceiptInput struct {
	Amount       decimal.Decimal `json:"amount"`
	FromAccount  string          `json:"from_account"`
	ToAccount    string          `json:"to_account"`
	BranchID     *int64          `json:"branch_id"`
	CostCenterID *int64          `json:"cost_center_id"`
	Memo         string          `json:"memo"`
	PostedAt     *time.Time      `json:"posted_at"`
}

func (in ReceiptInput) Validate() error {
	if !money.IsPositive(in.Amount) {
		return fmt.Errorf("%w: amount", shared.ErrInvalidAmount)
	}
	return nil
}

// PaymentInput records money out: debit the settled account, credit the
// source of funds. Accounts default to payables and cash when omitted.
type PaymentInput struct {
	Amount       decimal.Decimal `json:"amount"`
	FromAccount  string          `json:"from_account"`
	ToAccount    string          `json:"to_account"`
	BranchID     *int64          `json:"branch_id"`
	CostCenterID *int64          `json:"cost_center_id"`
	Memo         string          `json:"memo"`
	PostedAt     *time.Time      `json:"posted_at"`
}

func (in PaymentInput) Validate() error {
	if !money.IsPositive(in.Amount) {
		return fmt.Errorf("%w: amount", shared.ErrInvalidAmount)
	}
	return nil
}

// JournalLineInput is one leg of a manual journal.
type JournalLineInput struct {
	AccountCode string          `json:"account_code" validate:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// JournalInput describes a manual journal voucher.
type JournalInput struct {
	Lines        []JournalLineInput `json:"lines" validate:"required,min=2,dive"`
	BranchID     *int64             `json:"branch_id"`
	CostCenterID *int64             `json:"cost_center_id"`
	Memo         string             `json:"memo"`
	PostedAt     *time.Time         `json:"posted_at"`
}

// Validate checks the manual legs on their rounded amounts. Unlike generated
// vouchers, an imbalance here is the caller's mistake, so it surfaces as the
// plain validation sentinel.
func (in JournalInput) Validate() error {
	if len(in.Lines) < 2 {
		return shared.ErrTooFewLines
	}
	debits, credits := decimal.Zero, decimal.Zero
	for idx, line := range in.Lines {
		if line.AccountCode == "" {
			return fmt.Errorf("%w: line %d missing account", shared.ErrInvalidInput, idx)
		}
		debit, credit := money.Round(line.Debit), money.Round(line.Credit)
		if debit.Sign() < 0 || credit.Sign() < 0 {
			return fmt.Errorf("%w: line %d", shared.ErrInvalidAmount, idx)
		}
		if debit.Sign() > 0 && credit.Sign() > 0 {
			return fmt.Errorf("%w: line %d cannot be both debit and credit", shared.ErrInvalidInput, idx)
		}
		if debit.Sign() == 0 && credit.Sign() == 0 {
			return fmt.Errorf("%w: line %d", shared.ErrInvalidAmount, idx)
		}
		debits = debits.Add(debit)
		credits = credits.Add(credit)
	}
	if !debits.Equal(credits) {
		return shared.ErrUnbalanced
	}
	return nil
}

// EntryLines converts the manual legs to draft form with rounded amounts.
func (in JournalInput) EntryLines() []EntryLine {
	out := make([]EntryLine, 0, len(in.Lines))
	for _, line := range in.Lines {
		out = append(out, EntryLine{
			AccountCode: line.AccountCode,
			Debit:       money.Round(line.Debit),
			Credit:      money.Round(line.Credit),
		})
	}
	return out
}

// SalesReturnInput reverses part of a posted sale. The original document
// locates the consumption trace so stock returns at the cost it left with.
// Settlement picks where the refund lands: cash out, or credited back
// against receivables.
type SalesReturnInput struct {
	SaleDocNo    string          `json:"sale_doc_no" validate:"required"`
	ItemID       int64           `json:"item_id" validate:"required"`
	Qty          decimal.Decimal `json:"qty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Settlement   string          `json:"settlement" validate:"omitempty,oneof=cash credit"`
	BranchID     *int64          `json:"branch_id"`
	CostCenterID *int64          `json:"cost_center_id"`
	Memo         string          `json:"memo"`
	PostedAt     *time.Time      `json:"posted_at"`
}

func (in SalesReturnInput) Validate() error {
	if in.SaleDocNo == "" {
		return fmt.Errorf("%w: sale_doc_no required", shared.ErrInvalidInput)
	}
	if !money.IsPositive(in.Qty) {
		return fmt.Errorf("%w: qty", shared.ErrInvalidAmount)
	}
	if !money.IsPositive(in.UnitPrice) {
		return fmt.Errorf("%w: unit_price", shared.ErrInvalidAmount)
	}
	return validSettlement(in.Settlement)
}

// PurchaseReturnInput sends stock back to a supplier at an agreed value.
type PurchaseReturnInput struct {
	ItemID       int64           `json:"item_id" validate:"required"`
	Qty          decimal.Decimal `json:"qty"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	BranchID     *int64          `json:"branch_id"`
	CostCenterID *int64          `json:"cost_center_id"`
	Memo         string          `json:"memo"`
	PostedAt     *time.Time      `json:"posted_at"`
}

func (in PurchaseReturnInput) Validate() error {
	if !money.IsPositive(in.Qty) {
		return fmt.Errorf("%w: qty", shared.ErrInvalidAmount)
	}
	if !money.IsPositive(in.UnitCost) {
		return fmt.Errorf("%w: unit_cost", shared.ErrInvalidAmount)
	}
	return nil
}
