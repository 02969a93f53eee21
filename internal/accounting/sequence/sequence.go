// Package sequence hands out gap-free document numbers per prefix. Allocation
// runs inside the posting transaction, so an aborted posting rolls the counter
// back and the next successful posting reuses the number.
package sequence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/qayd-erp/qayd/internal/accounting/shared"
)

type DBTX interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Allocator struct {
	db DBTX
}

func NewAllocator(db DBTX) *Allocator {
	return &Allocator{db: db}
}

// Next reserves the next number for prefix and returns it formatted. The
// upsert row-locks the counter, serialising concurrent postings on the same
// prefix until one of them commits or rolls back.
func (a *Allocator) Next(ctx context.Context, prefix string) (string, error) {
	var n int64
	err := a.db.QueryRow(ctx, `
		INSERT INTO document_sequences (prefix, next_number)
		VALUES ($1, 1)
		ON CONFLICT (prefix)
		DO UPDATE SET next_number = document_sequences.next_number + 1
		RETURNING next_number`, prefix).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", shared.ErrSequenceAllocation, prefix, err)
	}
	return Format(prefix, n), nil
}

// Format renders a document number as PREFIX-NNNNNN. Numbers past six digits
// widen rather than truncate.
func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s-%06d", prefix, n)
}
