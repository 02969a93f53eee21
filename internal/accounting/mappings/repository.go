package mappings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/qayd-erp/qayd/internal/accounting/shared"
)

type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	db DBTX
}

func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]GLMapping, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, category, inventory_account, sales_account, cogs_account, created_at
		FROM item_gl_mappings ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []GLMapping
	for rows.Next() {
		var m GLMapping
		if err := rows.Scan(&m.ID, &m.Category, &m.InventoryAccount, &m.SalesAccount, &m.COGSAccount, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Resolve looks up the account triple for a category. A missing row returns
// shared.ErrUnmappedCategory so the caller can abort before touching the
// ledger.
func (r *Repository) Resolve(ctx context.Context, category string) (GLMapping, error) {
	var m GLMapping
	err := r.db.QueryRow(ctx, `
		SELECT id, category, inventory_account, sales_account, cogs_account, created_at
		FROM item_gl_mappings WHERE category=$1`, category).
		Scan(&m.ID, &m.Category, &m.InventoryAccount, &m.SalesAccount, &m.COGSAccount, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return GLMapping{}, fmt.Errorf("%w: %s", shared.ErrUnmappedCategory, category)
		}
		return GLMapping{}, err
	}
	return m, nil
}
