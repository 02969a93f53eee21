package vouchers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qayd-erp/qayd/internal/accounting/accounts"
	"github.com/qayd-erp/qayd/internal/accounting/mappings"
	"github.com/qayd-erp/qayd/internal/accounting/sequence"
	"github.com/qayd-erp/qayd/internal/accounting/shared"
	"github.com/qayd-erp/qayd/internal/inventory"
	"github.com/qayd-erp/qayd/internal/masterdata/items"
	mdshared "github.com/qayd-erp/qayd/internal/masterdata/shared"
	"github.com/qayd-erp/qayd/internal/platform/db"
)

// Repository persists posted vouchers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes every operation a posting touches inside its
// transaction: numbering, account resolution, stock movement and the
// document and ledger writes themselves.
type TxRepository interface {
	NextDocNo(ctx context.Context, prefix string) (string, error)
	ResolveGL(ctx context.Context, category string) (mappings.GLMapping, error)
	MissingAccounts(ctx context.Context, codes []string) ([]string, error)
	GetItem(ctx context.Context, id int64) (items.Item, error)
	GetDocumentByNo(ctx context.Context, docNo string) (Document, error)
	AddStock(ctx context.Context, in inventory.AddInput) (inventory.Batch, error)
	ConsumeStock(ctx context.Context, in inventory.ConsumeInput) (inventory.ConsumeResult, error)
	UnwindStock(ctx context.Context, in inventory.UnwindInput) (inventory.UnwindResult, error)
	InsertDocument(ctx context.Context, doc Document) (Document, error)
	InsertDocumentLines(ctx context.Context, docID int64, lines []DocumentLine) ([]DocumentLine, error)
	InsertJournalEntries(ctx context.Context, doc Document, legs []EntryLine) ([]JournalEntry, error)
}

type txRepository struct {
	tx        pgx.Tx
	sequences *sequence.Allocator
	mappings  *mappings.Repository
	accounts  *accounts.Repository
	stock     *inventory.Ledger
}

// WithTx executes fn within a repeatable-read transaction. Everything fn
// does, including document numbering and batch depletion, commits or rolls
// back as one unit.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if r == nil {
		return errors.New("vouchers repository not initialised")
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		wrapper := &txRepository{
			tx:        tx,
			sequences: sequence.NewAllocator(tx),
			mappings:  mappings.NewRepository(tx),
			accounts:  accounts.NewRepository(tx),
			stock:     inventory.NewLedger(inventory.NewRepository(tx)),
		}
		return fn(ctx, wrapper)
	})
}

func (r *txRepository) NextDocNo(ctx context.Context, prefix string) (string, error) {
	return r.sequences.Next(ctx, prefix)
}

func (r *txRepository) ResolveGL(ctx context.Context, category string) (mappings.GLMapping, error) {
	return r.mappings.Resolve(ctx, category)
}

func (r *txRepository) MissingAccounts(ctx context.Context, codes []string) ([]string, error) {
	return r.accounts.Missing(ctx, codes)
}

func (r *txRepository) GetItem(ctx context.Context, id int64) (items.Item, error) {
	var it items.Item
	err := r.tx.QueryRow(ctx, `SELECT id, sku, name, category, price, cost, is_active, created_at, updated_at FROM items WHERE id=$1`, id).
		Scan(&it.ID, &it.SKU, &it.Name, &it.Category, &it.Price, &it.Cost, &it.IsActive, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return items.Item{}, mdshared.ErrNotFound
		}
		return items.Item{}, err
	}
	return it, nil
}

func (r *txRepository) GetDocumentByNo(ctx context.Context, docNo string) (Document, error) {
	var doc Document
	err := r.tx.QueryRow(ctx, `SELECT id, doc_no, doc_type, branch_id, cost_center_id, memo, base_amount, tax_amount, total_amount, posted_at, created_at
FROM documents WHERE doc_no=$1`, docNo).
		Scan(&doc.ID, &doc.DocNo, &doc.Type, &doc.BranchID, &doc.CostCenterID, &doc.Memo, &doc.Base, &doc.Tax, &doc.Total, &doc.PostedAt, &doc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, shared.ErrDocumentNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

func (r *txRepository) AddStock(ctx context.Context, in inventory.AddInput) (inventory.Batch, error) {
	return r.stock.Add(ctx, in)
}

func (r *txRepository) ConsumeStock(ctx context.Context, in inventory.ConsumeInput) (inventory.ConsumeResult, error) {
	return r.stock.Consume(ctx, in)
}

func (r *txRepository) UnwindStock(ctx context.Context, in inventory.UnwindInput) (inventory.UnwindResult, error) {
	return r.stock.Unwind(ctx, in)
}

func (r *txRepository) InsertDocument(ctx context.Context, doc Document) (Document, error) {
	err := r.tx.QueryRow(ctx, `INSERT INTO documents (doc_no, doc_type, branch_id, cost_center_id, memo, base_amount, tax_amount, total_amount, posted_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id, created_at`,
		doc.DocNo, doc.Type, nullIntPtr(doc.BranchID), nullIntPtr(doc.CostCenterID), doc.Memo, doc.Base, doc.Tax, doc.Total, doc.PostedAt).
		Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (r *txRepository) InsertDocumentLines(ctx context.Context, docID int64, lines []DocumentLine) ([]DocumentLine, error) {
	out := make([]DocumentLine, 0, len(lines))
	for _, line := range lines {
		line.DocumentID = docID
		err := r.tx.QueryRow(ctx, `INSERT INTO document_lines (document_id, item_id, qty, unit_price, amount)
VALUES ($1,$2,$3,$4,$5) RETURNING id`,
			docID, line.ItemID, line.Qty, line.UnitPrice, line.Amount).Scan(&line.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}

func (r *txRepository) InsertJournalEntries(ctx context.Context, doc Document, legs []EntryLine) ([]JournalEntry, error) {
	entries := make([]JournalEntry, 0, len(legs))
	for _, leg := range legs {
		entry := JournalEntry{
			DocumentID:  doc.ID,
			DocNo:       doc.DocNo,
			AccountCode: leg.AccountCode,
			Debit:       leg.Debit,
			Credit:      leg.Credit,
			Memo:        doc.Memo,
			PostedAt:    doc.PostedAt,
		}
		err := r.tx.QueryRow(ctx, `INSERT INTO journal_entries (document_id, doc_no, account_code, debit, credit, memo, posted_at)
VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at`,
			entry.DocumentID, entry.DocNo, entry.AccountCode, entry.Debit, entry.Credit, entry.Memo, entry.PostedAt).
			Scan(&entry.ID, &entry.CreatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func nullIntPtr(val *int64) any {
	if val == nil {
		return nil
	}
	if *val == 0 {
		return nil
	}
	return *val
}
