package shared

import "errors"

var (
	// ErrUnbalanced indicates debit != credit for a journal group.
	ErrUnbalanced = errors.New("accounting: journal lines must balance")
	// ErrTooFewLines indicates less than two lines.
	ErrTooFewLines = errors.New("accounting: journal requires at least two lines")
	// ErrUnmappedCategory indicates an item category without ledger accounts.
	ErrUnmappedCategory = errors.New("accounting: no ledger mapping for category")
	// ErrAccountNotFound indicates a code missing from the chart of accounts.
	ErrAccountNotFound = errors.New("accounting: account code not in chart")
	// ErrInvalidAmount indicates a non-positive or malformed amount.
	ErrInvalidAmount = errors.New("accounting: amount must be positive")
	// ErrInvalidInput indicates voucher input the poster cannot act on.
	ErrInvalidInput = errors.New("accounting: invalid voucher input")
	// ErrSequenceAllocation indicates the document counter could not advance.
	ErrSequenceAllocation = errors.New("accounting: document number allocation failed")
	// ErrDocumentNotFound indicates a missing document.
	ErrDocumentNotFound = errors.New("accounting: document not found")
	// ErrReturnCostUnknown indicates an untraceable sales return with no
	// configured fallback cost.
	ErrReturnCostUnknown = errors.New("accounting: return cost not traceable and no fallback configured")
)
