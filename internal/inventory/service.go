package inventory

import (
	"context"
	"time"

	"github.com/qayd-erp/qayd/internal/money"
)

// Ledger coordinates batch lifecycle over a Repository. Bind the repository
// to the posting transaction and every add, consume and unwind commits or
// rolls back with the voucher that caused it.
type Ledger struct {
	repo *Repository
}

// NewLedger builds Ledger.
func NewLedger(repo *Repository) *Ledger {
	return &Ledger{repo: repo}
}

// Add opens a new acquisition lot with remaining equal to qty.
func (l *Ledger) Add(ctx context.Context, in AddInput) (Batch, error) {
	if !money.IsPositive(in.Qty) {
		return Batch{}, ErrInvalidQuantity
	}
	if in.UnitCost.Sign() < 0 {
		return Batch{}, ErrInvalidUnitCost
	}
	if in.ReceivedAt.IsZero() {
		in.ReceivedAt = time.Now().UTC()
	}
	return l.repo.InsertBatch(ctx, in)
}

// Consume draws qty off the oldest open batches and records the trace under
// the document. The draw is all or nothing: an insufficient ledger leaves
// every batch untouched.
func (l *Ledger) Consume(ctx context.Context, in ConsumeInput) (ConsumeResult, error) {
	if !money.IsPositive(in.Qty) {
		return ConsumeResult{}, ErrInvalidQuantity
	}
	batches, err := l.repo.OpenBatchesForUpdate(ctx, in.ItemID)
	if err != nil {
		return ConsumeResult{}, err
	}
	result, err := PlanConsumption(in.ItemID, batches, in.Qty)
	if err != nil {
		return ConsumeResult{}, err
	}
	if err := l.repo.ApplyDepletions(ctx, result.Depletions); err != nil {
		return ConsumeResult{}, err
	}
	if err := l.repo.InsertConsumptions(ctx, in.DocNo, in.ItemID, result.Depletions); err != nil {
		return ConsumeResult{}, err
	}
	return result, nil
}

// Unwind reverses part of a document's consumption trace, restoring stock to
// its source batches at their original costs.
func (l *Ledger) Unwind(ctx context.Context, in UnwindInput) (UnwindResult, error) {
	if !money.IsPositive(in.Qty) {
		return UnwindResult{}, ErrInvalidQuantity
	}
	trace, err := l.repo.ConsumptionsForUpdate(ctx, in.DocNo, in.ItemID)
	if err != nil {
		return UnwindResult{}, err
	}
	result, err := PlanUnwind(trace, in.Qty)
	if err != nil {
		return UnwindResult{}, err
	}
	if err := l.repo.ApplyRestores(ctx, result.Restores); err != nil {
		return UnwindResult{}, err
	}
	return result, nil
}

// Batches lists every lot of an item, oldest first.
func (l *Ledger) Batches(ctx context.Context, itemID int64) ([]Batch, error) {
	return l.repo.ListBatches(ctx, itemID)
}

// OnHand summarises open stock across items.
func (l *Ledger) OnHand(ctx context.Context) ([]OnHand, error) {
	return l.repo.OnHand(ctx)
}
