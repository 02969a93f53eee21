package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/qayd-erp/qayd/internal/money"
)

// PlanConsumption computes which batches a draw of qty takes from, oldest
// acquisition first and insertion order within the same date. It never
// mutates the input; callers apply the returned depletions themselves. Cost
// accumulates at full precision and is rounded once at the end.
func PlanConsumption(itemID int64, batches []Batch, qty decimal.Decimal) (ConsumeResult, error) {
	if !money.IsPositive(qty) {
		return ConsumeResult{}, ErrInvalidQuantity
	}

	open := make([]Batch, 0, len(batches))
	available := decimal.Zero
	for _, b := range batches {
		if b.Remaining.Sign() > 0 {
			open = append(open, b)
			available = available.Add(b.Remaining)
		}
	}
	if available.LessThan(qty) {
		return ConsumeResult{}, &InsufficientStockError{ItemID: itemID, Requested: qty, Available: available}
	}

	sort.SliceStable(open, func(i, j int) bool {
		if !open[i].ReceivedAt.Equal(open[j].ReceivedAt) {
			return open[i].ReceivedAt.Before(open[j].ReceivedAt)
		}
		return open[i].ID < open[j].ID
	})

	remaining := qty
	cost := decimal.Zero
	var depletions []Depletion
	for _, b := range open {
		if remaining.Sign() == 0 {
			break
		}
		take := decimal.Min(b.Remaining, remaining)
		depletions = append(depletions, Depletion{BatchID: b.ID, Qty: take, UnitCost: b.UnitCost})
		cost = cost.Add(take.Mul(b.UnitCost))
		remaining = remaining.Sub(take)
	}

	return ConsumeResult{Depletions: depletions, TotalCost: money.Round(cost)}, nil
}

// PlanUnwind reverses a consumption trace, most recent slice first, until qty
// is restored. Slices already returned are skipped via ReturnedQty. The
// restored cost carries the original batch costs, rounded once at the end. A
// trace that does not cover qty fails whole.
func PlanUnwind(consumptions []Consumption, qty decimal.Decimal) (UnwindResult, error) {
	if !money.IsPositive(qty) {
		return UnwindResult{}, ErrInvalidQuantity
	}

	traced := decimal.Zero
	for _, c := range consumptions {
		traced = traced.Add(c.Qty.Sub(c.ReturnedQty))
	}
	if traced.LessThan(qty) {
		return UnwindResult{}, ErrNoConsumptionTrace
	}

	ordered := make([]Consumption, len(consumptions))
	copy(ordered, consumptions)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID > ordered[j].ID })

	remaining := qty
	cost := decimal.Zero
	var restores []Restore
	for _, c := range ordered {
		if remaining.Sign() == 0 {
			break
		}
		open := c.Qty.Sub(c.ReturnedQty)
		if open.Sign() <= 0 {
			continue
		}
		take := decimal.Min(open, remaining)
		restores = append(restores, Restore{ConsumptionID: c.ID, BatchID: c.BatchID, Qty: take, UnitCost: c.UnitCost})
		cost = cost.Add(take.Mul(c.UnitCost))
		remaining = remaining.Sub(take)
	}

	return UnwindResult{Restores: restores, TotalCost: money.Round(cost)}, nil
}
