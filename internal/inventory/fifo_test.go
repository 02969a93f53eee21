package inventory

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	_ "github.com/qayd-erp/qayd/testing"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(n int) time.Time {
	return time.Date(2026, time.January, n, 0, 0, 0, 0, time.UTC)
}

func TestPlanConsumptionOldestFirst(t *testing.T) {
	batches := []Batch{
		{ID: 2, ItemID: 1, Qty: dec("5"), Remaining: dec("5"), UnitCost: dec("4800"), ReceivedAt: day(2)},
		{ID: 1, ItemID: 1, Qty: dec("10"), Remaining: dec("10"), UnitCost: dec("4500"), ReceivedAt: day(1)},
	}

	result, err := PlanConsumption(1, batches, dec("12"))
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(result.Depletions) != 2 {
		t.Fatalf("expected 2 depletions, got %d", len(result.Depletions))
	}
	first, second := result.Depletions[0], result.Depletions[1]
	if first.BatchID != 1 || !first.Qty.Equal(dec("10")) {
		t.Fatalf("first depletion = batch %d qty %s, want batch 1 qty 10", first.BatchID, first.Qty)
	}
	if second.BatchID != 2 || !second.Qty.Equal(dec("2")) {
		t.Fatalf("second depletion = batch %d qty %s, want batch 2 qty 2", second.BatchID, second.Qty)
	}
	if !result.TotalCost.Equal(dec("54600")) {
		t.Fatalf("total cost = %s, want 54600", result.TotalCost)
	}
}

func TestPlanConsumptionTiesBreakByInsertionOrder(t *testing.T) {
	batches := []Batch{
		{ID: 8, ItemID: 1, Qty: dec("3"), Remaining: dec("3"), UnitCost: dec("100"), ReceivedAt: day(1)},
		{ID: 3, ItemID: 1, Qty: dec("3"), Remaining: dec("3"), UnitCost: dec("90"), ReceivedAt: day(1)},
	}

	result, err := PlanConsumption(1, batches, dec("4"))
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if result.Depletions[0].BatchID != 3 {
		t.Fatalf("expected lower id batch first on equal dates, got batch %d", result.Depletions[0].BatchID)
	}
	if !result.TotalCost.Equal(dec("370")) {
		t.Fatalf("total cost = %s, want 370", result.TotalCost)
	}
}

func TestPlanConsumptionSkipsExhaustedBatches(t *testing.T) {
	batches := []Batch{
		{ID: 1, ItemID: 1, Qty: dec("10"), Remaining: dec("0"), UnitCost: dec("4500"), ReceivedAt: day(1)},
		{ID: 2, ItemID: 1, Qty: dec("5"), Remaining: dec("5"), UnitCost: dec("4800"), ReceivedAt: day(2)},
	}

	result, err := PlanConsumption(1, batches, dec("5"))
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(result.Depletions) != 1 || result.Depletions[0].BatchID != 2 {
		t.Fatalf("expected only batch 2 to be drawn, got %+v", result.Depletions)
	}
}

func TestPlanConsumptionInsufficientIsAllOrNothing(t *testing.T) {
	batches := []Batch{
		{ID: 1, ItemID: 7, Qty: dec("10"), Remaining: dec("3"), UnitCost: dec("4500"), ReceivedAt: day(1)},
		{ID: 2, ItemID: 7, Qty: dec("5"), Remaining: dec("5"), UnitCost: dec("4800"), ReceivedAt: day(2)},
	}

	_, err := PlanConsumption(7, batches, dec("10"))
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	var insuff *InsufficientStockError
	if !errors.As(err, &insuff) {
		t.Fatalf("expected InsufficientStockError, got %T", err)
	}
	if insuff.ItemID != 7 || !insuff.Available.Equal(dec("8")) || !insuff.Shortfall().Equal(dec("2")) {
		t.Fatalf("unexpected error detail: %+v shortfall %s", insuff, insuff.Shortfall())
	}
	if !batches[0].Remaining.Equal(dec("3")) || !batches[1].Remaining.Equal(dec("5")) {
		t.Fatalf("planner must not mutate batches: %+v", batches)
	}
}

func TestPlanConsumptionExactExhaustion(t *testing.T) {
	batches := []Batch{
		{ID: 1, ItemID: 1, Qty: dec("4"), Remaining: dec("4"), UnitCost: dec("50"), ReceivedAt: day(1)},
		{ID: 2, ItemID: 1, Qty: dec("6"), Remaining: dec("6"), UnitCost: dec("60"), ReceivedAt: day(2)},
	}

	result, err := PlanConsumption(1, batches, dec("10"))
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !result.TotalCost.Equal(dec("560")) {
		t.Fatalf("total cost = %s, want 560", result.TotalCost)
	}
}

func TestPlanConsumptionRoundsTotalOnce(t *testing.T) {
	batches := []Batch{
		{ID: 1, ItemID: 1, Qty: dec("1"), Remaining: dec("1"), UnitCost: dec("0.004"), ReceivedAt: day(1)},
		{ID: 2, ItemID: 1, Qty: dec("1"), Remaining: dec("1"), UnitCost: dec("0.004"), ReceivedAt: day(2)},
	}

	result, err := PlanConsumption(1, batches, dec("2"))
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	// Rounding each slice first would yield zero. The sum 0.008 rounds to 0.01.
	if !result.TotalCost.Equal(dec("0.01")) {
		t.Fatalf("total cost = %s, want 0.01", result.TotalCost)
	}
}

func TestPlanConsumptionRejectsNonPositiveQty(t *testing.T) {
	if _, err := PlanConsumption(1, nil, dec("0")); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("qty 0: expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := PlanConsumption(1, nil, dec("-4")); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("qty -4: expected ErrInvalidQuantity, got %v", err)
	}
}

func TestPlanUnwindMostRecentSliceFirst(t *testing.T) {
	trace := []Consumption{
		{ID: 1, DocNo: "AR-000001", ItemID: 1, BatchID: 1, Qty: dec("10"), UnitCost: dec("4500")},
		{ID: 2, DocNo: "AR-000001", ItemID: 1, BatchID: 2, Qty: dec("2"), UnitCost: dec("4800")},
	}

	result, err := PlanUnwind(trace, dec("3"))
	if err != nil {
		t.Fatalf("unwind: %v", err)
	}
	if len(result.Restores) != 2 {
		t.Fatalf("expected 2 restores, got %d", len(result.Restores))
	}
	if result.Restores[0].BatchID != 2 || !result.Restores[0].Qty.Equal(dec("2")) {
		t.Fatalf("first restore should drain newest slice: %+v", result.Restores[0])
	}
	if result.Restores[1].BatchID != 1 || !result.Restores[1].Qty.Equal(dec("1")) {
		t.Fatalf("second restore should come from older slice: %+v", result.Restores[1])
	}
	if !result.TotalCost.Equal(dec("14100")) {
		t.Fatalf("restored cost = %s, want 14100", result.TotalCost)
	}
}

func TestPlanUnwindSkipsAlreadyReturned(t *testing.T) {
	trace := []Consumption{
		{ID: 1, BatchID: 1, Qty: dec("5"), ReturnedQty: dec("5"), UnitCost: dec("100")},
		{ID: 2, BatchID: 2, Qty: dec("5"), ReturnedQty: dec("1"), UnitCost: dec("200")},
	}

	result, err := PlanUnwind(trace, dec("4"))
	if err != nil {
		t.Fatalf("unwind: %v", err)
	}
	if len(result.Restores) != 1 || result.Restores[0].ConsumptionID != 2 {
		t.Fatalf("expected single restore from consumption 2, got %+v", result.Restores)
	}
	if !result.TotalCost.Equal(dec("800")) {
		t.Fatalf("restored cost = %s, want 800", result.TotalCost)
	}
}

func TestPlanUnwindInsufficientTrace(t *testing.T) {
	trace := []Consumption{
		{ID: 1, BatchID: 1, Qty: dec("2"), UnitCost: dec("100")},
	}
	if _, err := PlanUnwind(trace, dec("3")); !errors.Is(err, ErrNoConsumptionTrace) {
		t.Fatalf("expected ErrNoConsumptionTrace, got %v", err)
	}
	if _, err := PlanUnwind(nil, dec("1")); !errors.Is(err, ErrNoConsumptionTrace) {
		t.Fatalf("empty trace: expected ErrNoConsumptionTrace, got %v", err)
	}
}
