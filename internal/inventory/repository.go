package inventory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so the same repository
// serves standalone reads and the batch work inside a posting transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists stock batches and their consumption trace.
type Repository struct {
	db DBTX
}

// NewRepository constructs Repository.
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

func (r *Repository) InsertBatch(ctx context.Context, in AddInput) (Batch, error) {
	b := Batch{
		ItemID:     in.ItemID,
		DocNo:      in.DocNo,
		Qty:        in.Qty,
		Remaining:  in.Qty,
		UnitCost:   in.UnitCost,
		ReceivedAt: in.ReceivedAt,
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO stock_batches (item_id, doc_no, qty, remaining, unit_cost, received_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		in.ItemID, in.DocNo, in.Qty, in.Qty, in.UnitCost, in.ReceivedAt,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return Batch{}, err
	}
	return b, nil
}

// OpenBatchesForUpdate row-locks every open batch of the item. The fixed
// ordering keeps concurrent consumers acquiring locks in the same sequence.
func (r *Repository) OpenBatchesForUpdate(ctx context.Context, itemID int64) ([]Batch, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, item_id, doc_no, qty, remaining, unit_cost, received_at, created_at
		FROM stock_batches
		WHERE item_id=$1 AND remaining > 0
		ORDER BY received_at, id
		FOR UPDATE`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBatches(rows)
}

// ApplyDepletions decrements batch remainders. The guard clause refuses to
// take a batch below zero even if the plan and the row drifted apart.
func (r *Repository) ApplyDepletions(ctx context.Context, depletions []Depletion) error {
	for _, d := range depletions {
		tag, err := r.db.Exec(ctx, `
			UPDATE stock_batches SET remaining = remaining - $1
			WHERE id=$2 AND remaining >= $1`, d.Qty, d.BatchID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("inventory: batch %d cannot cover depletion of %s", d.BatchID, d.Qty.String())
		}
	}
	return nil
}

func (r *Repository) InsertConsumptions(ctx context.Context, docNo string, itemID int64, depletions []Depletion) error {
	for _, d := range depletions {
		_, err := r.db.Exec(ctx, `
			INSERT INTO stock_consumptions (doc_no, item_id, batch_id, qty, unit_cost)
			VALUES ($1, $2, $3, $4, $5)`,
			docNo, itemID, d.BatchID, d.Qty, d.UnitCost)
		if err != nil {
			return err
		}
	}
	return nil
}

// ConsumptionsForUpdate row-locks the trace of a document so two returns
// cannot unwind the same slices.
func (r *Repository) ConsumptionsForUpdate(ctx context.Context, docNo string, itemID int64) ([]Consumption, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, doc_no, item_id, batch_id, qty, returned_qty, unit_cost, created_at
		FROM stock_consumptions
		WHERE doc_no=$1 AND item_id=$2
		ORDER BY id
		FOR UPDATE`, docNo, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Consumption
	for rows.Next() {
		var c Consumption
		if err := rows.Scan(&c.ID, &c.DocNo, &c.ItemID, &c.BatchID, &c.Qty, &c.ReturnedQty, &c.UnitCost, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ApplyRestores puts unwound quantities back on their batches and marks the
// trace rows returned. Guards keep remaining within the original batch qty
// and returned_qty within the consumed qty.
func (r *Repository) ApplyRestores(ctx context.Context, restores []Restore) error {
	for _, s := range restores {
		tag, err := r.db.Exec(ctx, `
			UPDATE stock_batches SET remaining = remaining + $1
			WHERE id=$2 AND remaining + $1 <= qty`, s.Qty, s.BatchID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("inventory: batch %d cannot absorb restore of %s", s.BatchID, s.Qty.String())
		}
		tag, err = r.db.Exec(ctx, `
			UPDATE stock_consumptions SET returned_qty = returned_qty + $1
			WHERE id=$2 AND returned_qty + $1 <= qty`, s.Qty, s.ConsumptionID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("inventory: consumption %d cannot absorb restore of %s", s.ConsumptionID, s.Qty.String())
		}
	}
	return nil
}

func (r *Repository) ListBatches(ctx context.Context, itemID int64) ([]Batch, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, item_id, doc_no, qty, remaining, unit_cost, received_at, created_at
		FROM stock_batches
		WHERE item_id=$1
		ORDER BY received_at, id`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBatches(rows)
}

func (r *Repository) OnHand(ctx context.Context) ([]OnHand, error) {
	rows, err := r.db.Query(ctx, `
		SELECT item_id, COALESCE(SUM(remaining), 0), COALESCE(SUM(remaining * unit_cost), 0)
		FROM stock_batches
		GROUP BY item_id
		ORDER BY item_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []OnHand
	for rows.Next() {
		var o OnHand
		if err := rows.Scan(&o.ItemID, &o.Qty, &o.CostValue); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanBatches(rows pgx.Rows) ([]Batch, error) {
	var out []Batch
	for rows.Next() {
		var b Batch
		if err := rows.Scan(&b.ID, &b.ItemID, &b.DocNo, &b.Qty, &b.Remaining, &b.UnitCost, &b.ReceivedAt, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
