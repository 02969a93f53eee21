package inventory

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Batch models one acquisition lot. Remaining counts down as sales consume
// the lot; the row stays behind at zero so consumption history keeps its
// cost anchor.
type Batch struct {
	ID         int64           `json:"id"`
	ItemID     int64           `json:"item_id"`
	DocNo      string          `json:"doc_no"`
	Qty        decimal.Decimal `json:"qty"`
	Remaining  decimal.Decimal `json:"remaining"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	ReceivedAt time.Time       `json:"received_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Depletion is one slice taken off a batch by a consume.
type Depletion struct {
	BatchID  int64           `json:"batch_id"`
	Qty      decimal.Decimal `json:"qty"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// ConsumeResult reports which batches a consume drew from and the total cost
// of the draw, rounded once to currency precision.
type ConsumeResult struct {
	Depletions []Depletion     `json:"depletions"`
	TotalCost  decimal.Decimal `json:"total_cost"`
}

// Consumption is the persisted trace of one depletion, keyed by the document
// that caused it. Returns unwind these rows to restore stock at original
// cost; ReturnedQty tracks how much of the slice has already gone back.
type Consumption struct {
	ID          int64           `json:"id"`
	DocNo       string          `json:"doc_no"`
	ItemID      int64           `json:"item_id"`
	BatchID     int64           `json:"batch_id"`
	Qty         decimal.Decimal `json:"qty"`
	ReturnedQty decimal.Decimal `json:"returned_qty"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Restore is one unwind slice: put Qty back on BatchID and mark the source
// consumption row as returned.
type Restore struct {
	ConsumptionID int64           `json:"consumption_id"`
	BatchID       int64           `json:"batch_id"`
	Qty           decimal.Decimal `json:"qty"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
}

// UnwindResult reports the restores of a return and the cost being put back,
// rounded once to currency precision.
type UnwindResult struct {
	Restores  []Restore       `json:"restores"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// OnHand summarises open stock for an item.
type OnHand struct {
	ItemID    int64           `json:"item_id"`
	Qty       decimal.Decimal `json:"qty"`
	CostValue decimal.Decimal `json:"cost_value"`
}

// AddInput describes a new acquisition lot.
type AddInput struct {
	ItemID     int64
	DocNo      string
	Qty        decimal.Decimal
	UnitCost   decimal.Decimal
	ReceivedAt time.Time
}

// ConsumeInput describes an outbound draw against an item.
type ConsumeInput struct {
	ItemID int64
	DocNo  string
	Qty    decimal.Decimal
}

// UnwindInput asks to put stock back by reversing the consumption trace of a
// document, most recent slice first.
type UnwindInput struct {
	DocNo  string
	ItemID int64
	Qty    decimal.Decimal
}

// ErrInvalidQuantity indicates a zero or negative quantity.
var ErrInvalidQuantity = errors.New("inventory: quantity must be positive")

// ErrInvalidUnitCost indicates a negative unit cost.
var ErrInvalidUnitCost = errors.New("inventory: unit cost must be >= 0")

// ErrInsufficientStock is the sentinel wrapped by InsufficientStockError.
var ErrInsufficientStock = errors.New("inventory: insufficient stock")

// ErrNoConsumptionTrace indicates a document with no, or not enough, recorded
// consumptions to cover an unwind.
var ErrNoConsumptionTrace = errors.New("inventory: consumption trace does not cover requested quantity")

// InsufficientStockError reports a consume that exceeds open stock. The draw
// is all or nothing, so no batch has been touched when this is returned.
type InsufficientStockError struct {
	ItemID    int64
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("inventory: insufficient stock for item %d: requested %s, available %s",
		e.ItemID, e.Requested.String(), e.Available.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// Shortfall is the quantity the request exceeds open stock by.
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}
