package vouchers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/qayd-erp/qayd/internal/accounting/shared"
	"github.com/qayd-erp/qayd/internal/inventory"
	"github.com/qayd-erp/qayd/internal/money"
)

// RepositoryPort abstracts transactional repository behaviour.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// CacheInvalidator bumps cached report versions after a successful post.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

// Config carries the posting accounts and rates. Account codes must exist in
// the chart; postings verify that before writing any leg.
type Config struct {
	VATRate             decimal.Decimal
	CashAccount         string
	BankAccount         string
	ReceivableAccount   string
	PayableAccount      string
	VATOutputAccount    string
	VATInputAccount     string
	SalesReturnsAccount string
	// ReturnUnitCost restores stock for sales returns whose consumption
	// trace is missing. Zero leaves the fallback disabled.
	ReturnUnitCost decimal.Decimal
}

// Service turns business events into numbered, balanced ledger postings.
type Service struct {
	repo  RepositoryPort
	cfg   Config
	cache CacheInvalidator
	now   func() time.Time
}

// NewService constructs the posting service.
func NewService(repo RepositoryPort, cfg Config, cache CacheInvalidator) *Service {
	return &Service{repo: repo, cfg: cfg, cache: cache, now: time.Now}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// PostSale posts a sale: revenue and VAT against cash or receivables per
// the settlement, plus cost of goods sold at FIFO cost for the stock
// leaving the shelf.
func (s *Service) PostSale(ctx context.Context, in SaleInput) (Document, error) {
	if err := in.Validate(); err != nil {
		return Document{}, err
	}
	var doc Document
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		item, err := s.fetchActiveItem(ctx, tx, in.ItemID)
		if err != nil {
			return err
		}
		gl, err := tx.ResolveGL(ctx, item.Category)
		if err != nil {
			return err
		}
		docNo, err := tx.NextDocNo(ctx, DocTypeSale.Prefix())
		if err != nil {
			return err
		}
		postedAt := s.postingTime(in.PostedAt)
		amounts := money.Split(in.Qty.Mul(in.UnitPrice), s.cfg.VATRate)
		consumed, err := tx.ConsumeStock(ctx, inventory.ConsumeInput{ItemID: item.ID, DocNo: docNo, Qty: in.Qty})
		if err != nil {
			return err
		}

		var legs []EntryLine
		legs = addLeg(legs, debit(s.saleSettleAccount(in.Settlement), amounts.Total))
		legs = addLeg(legs, credit(gl.SalesAccount, amounts.Base))
		legs = addLeg(legs, credit(s.cfg.VATOutputAccount, amounts.Tax))
		legs = addLeg(legs, debit(gl.COGSAccount, consumed.TotalCost))
		legs = addLeg(legs, credit(gl.InventoryAccount, consumed.TotalCost))

		doc = s.newDocument(DocTypeSale, docNo, in.BranchID, in.CostCenterID, in.Memo, amounts, postedAt)
		docLines := []DocumentLine{{ItemID: item.ID, Qty: in.Qty, UnitPrice: in.UnitPrice, Amount: amounts.Base}}
		return s.persist(ctx, tx, &doc, docLines, legs)
	})
	if err != nil {
		return Document{}, err
	}
	s.bumpCache(ctx)
	return doc, nil
}

// PostPurchase posts a purchase: inventory and input VAT against the
// supplier account or the bank per the settlement, and a new stock batch
// at the purchase cost.
func (s *Service) PostPurchase(ctx context.Context, in PurchaseInput) (Document, error) {
	if err := in.Validate(); err != nil {
		return Document{}, err
	}
	var doc Document
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		item, err := s.fetchActiveItem(ctx, tx, in.ItemID)
		if err != nil {
			return err
		}
		gl, err := tx.ResolveGL(ctx, item.Category)
		if err != nil {
			return err
		}
		docNo, err := tx.NextDocNo(ctx, DocTypePurchase.Prefix())
		if err != nil {
			return err
		}
		postedAt := s.postingTime(in.PostedAt)
		amounts := money.Split(in.Qty.Mul(in.UnitCost), s.cfg.VATRate)
		if _, err := tx.AddStock(ctx, inventory.AddInput{
			ItemID:     item.ID,
			DocNo:      docNo,
			Qty:        in.Qty,
			UnitCost:   in.UnitCost,
			ReceivedAt: postedAt,
		}); err != nil {
			return err
		}

		var legs []EntryLine
		legs = addLeg(legs, debit(gl.InventoryAccount, amounts.Base))
		legs = addLeg(legs, debit(s.cfg.VATInputAccount, amounts.Tax))
		legs = addLeg(legs, credit(s.purchaseSettleAccount(in.Settlement), amounts.Total))

		doc = s.newDocument(DocTypePurchase, docNo, in.BranchID, in.CostCenterID, in.Memo, amounts, postedAt)
		docLines := []DocumentLine{{ItemID: item.ID, Qty: in.Qty, UnitPrice: in.UnitCost, Amount: amounts.Base}}
		return s.persist(ctx, tx, &doc, docLines, legs)
	})
	if err != nil {
		return Document{}, err
	}
	s.bumpCache(ctx)
	return doc, nil
}

// PostReceipt posts money in, debiting the destination account and crediting
// the source. Defaults settle receivables into cash.
func (s *Service) PostReceipt(ctx context.Context, in ReceiptInput) (Document, error) {
	if err := in.Validate(); err != nil {
		return Document{}, err
	}
	from, to := in.FromAccount, in.ToAccount
	if from == "" {
		from = s.cfg.ReceivableAccount
	}
	if to == "" {
		to = s.cfg.CashAccount
	}
	return s.postTransfer(ctx, DocTypeReceipt, from, to, in.Amount, in.BranchID, in.CostCenterID, in.Memo, in.PostedAt)
}

// PostPayment posts money out, debiting the settled account and crediting
// the source of funds. Defaults settle payables from cash.
func (s *Service) PostPayment(ctx context.Context, in PaymentInput) (Document, error) {
	if err := in.Validate(); err != nil {
		return Document{}, err
	}
	from, to := in.FromAccount, in.ToAccount
	if from == "" {
		from = s.cfg.CashAccount
	}
	if to == "" {
		to = s.cfg.PayableAccount
	}
	return s.postTransfer(ctx, DocTypePayment, from, to, in.Amount, in.BranchID, in.CostCenterID, in.Memo, in.PostedAt)
}

func (s *Service) postTransfer(ctx context.Context, docType DocType, from, to string, amount decimal.Decimal, branchID, costCenterID *int64, memo string, postedAt *time.Time) (Document, error) {
	var doc Document
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		docNo, err := tx.NextDocNo(ctx, docType.Prefix())
		if err != nil {
			return err
		}
		rounded := money.Round(amount)
		legs := []EntryLine{debit(to, rounded), credit(from, rounded)}
		amounts := money.Breakdown{Base: rounded, Tax: decimal.Zero, Total: rounded}
		doc = s.newDocument(docType, docNo, branchID, costCenterID, memo, amounts, s.postingTime(postedAt))
		return s.persist(ctx, tx, &doc, nil, legs)
	})
	if err != nil {
		return Document{}, err
	}
	s.bumpCache(ctx)
	return doc, nil
}

// PostJournal posts a manual journal voucher from caller-supplied legs.
func (s *Service) PostJournal(ctx context.Context, in JournalInput) (Document, error) {
	if err := in.Validate(); err != nil {
		return Document{}, err
	}
	var doc Document
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		docNo, err := tx.NextDocNo(ctx, DocTypeJournal.Prefix())
		if err != nil {
			return err
		}
		legs := in.EntryLines()
		total := decimal.Zero
		for _, leg := range legs {
			total = total.Add(leg.Debit)
		}
		amounts := money.Breakdown{Base: total, Tax: decimal.Zero, Total: total}
		doc = s.newDocument(DocTypeJournal, docNo, in.BranchID, in.CostCenterID, in.Memo, amounts, s.postingTime(in.PostedAt))
		return s.persist(ctx, tx, &doc, nil, legs)
	})
	if err != nil {
		return Document{}, err
	}
	s.bumpCache(ctx)
	return doc, nil
}

// PostSalesReturn reverses part of a posted sale. Refund legs mirror the
// sale at the return price; stock comes back at the cost it left with, taken
// from the sale's consumption trace.
func (s *Service) PostSalesReturn(ctx context.Context, in SalesReturnInput) (Document, error) {
	if err := in.Validate(); err != nil {
		return Document{}, err
	}
	var doc Document
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		item, err := s.fetchActiveItem(ctx, tx, in.ItemID)
		if err != nil {
			return err
		}
		gl, err := tx.ResolveGL(ctx, item.Category)
		if err != nil {
			return err
		}
		sale, err := tx.GetDocumentByNo(ctx, in.SaleDocNo)
		if err != nil {
			return err
		}
		if sale.Type != DocTypeSale {
			return fmt.Errorf("%w: document %s is not a sale", shared.ErrInvalidInput, in.SaleDocNo)
		}
		docNo, err := tx.NextDocNo(ctx, DocTypeSalesReturn.Prefix())
		if err != nil {
			return err
		}
		postedAt := s.postingTime(in.PostedAt)
		amounts := money.Split(in.Qty.Mul(in.UnitPrice), s.cfg.VATRate)

		restoredCost, err := s.restoreStock(ctx, tx, item.ID, in.SaleDocNo, docNo, in.Qty, postedAt)
		if err != nil {
			return err
		}

		var legs []EntryLine
		legs = addLeg(legs, debit(s.cfg.SalesReturnsAccount, amounts.Base))
		legs = addLeg(legs, debit(s.cfg.VATOutputAccount, amounts.Tax))
		legs = addLeg(legs, credit(s.saleSettleAccount(in.Settlement), amounts.Total))
		legs = addLeg(legs, debit(gl.InventoryAccount, restoredCost))
		legs = addLeg(legs, credit(gl.COGSAccount, restoredCost))

		doc = s.newDocument(DocTypeSalesReturn, docNo, in.BranchID, in.CostCenterID, in.Memo, amounts, postedAt)
		docLines := []DocumentLine{{ItemID: item.ID, Qty: in.Qty, UnitPrice: in.UnitPrice, Amount: amounts.Base}}
		return s.persist(ctx, tx, &doc, docLines, legs)
	})
	if err != nil {
		return Document{}, err
	}
	s.bumpCache(ctx)
	return doc, nil
}

// restoreStock unwinds the sale's consumption trace. When no trace covers
// the quantity, the configured fallback cost opens a fresh batch instead;
// without a fallback the return cannot price its stock legs and aborts.
func (s *Service) restoreStock(ctx context.Context, tx TxRepository, itemID int64, saleDocNo, docNo string, qty decimal.Decimal, postedAt time.Time) (decimal.Decimal, error) {
	unwound, err := tx.UnwindStock(ctx, inventory.UnwindInput{DocNo: saleDocNo, ItemID: itemID, Qty: qty})
	if err == nil {
		return unwound.TotalCost, nil
	}
	if !errors.Is(err, inventory.ErrNoConsumptionTrace) {
		return decimal.Zero, err
	}
	if s.cfg.ReturnUnitCost.Sign() <= 0 {
		return decimal.Zero, shared.ErrReturnCostUnknown
	}
	if _, err := tx.AddStock(ctx, inventory.AddInput{
		ItemID:     itemID,
		DocNo:      docNo,
		Qty:        qty,
		UnitCost:   s.cfg.ReturnUnitCost,
		ReceivedAt: postedAt,
	}); err != nil {
		return decimal.Zero, err
	}
	return money.Round(qty.Mul(s.cfg.ReturnUnitCost)), nil
}

// PostPurchaseReturn sends stock back to a supplier. The inventory credit
// carries the agreed return value; the physical draw still follows FIFO and
// fails closed when the ledger cannot cover the quantity.
func (s *Service) PostPurchaseReturn(ctx context.Context, in PurchaseReturnInput) (Document, error) {
	if err := in.Validate(); err != nil {
		return Document{}, err
	}
	var doc Document
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		item, err := s.fetchActiveItem(ctx, tx, in.ItemID)
		if err != nil {
			return err
		}
		gl, err := tx.ResolveGL(ctx, item.Category)
		if err != nil {
			return err
		}
		docNo, err := tx.NextDocNo(ctx, DocTypePurchaseReturn.Prefix())
		if err != nil {
			return err
		}
		postedAt := s.postingTime(in.PostedAt)
		amounts := money.Split(in.Qty.Mul(in.UnitCost), s.cfg.VATRate)
		if _, err := tx.ConsumeStock(ctx, inventory.ConsumeInput{ItemID: item.ID, DocNo: docNo, Qty: in.Qty}); err != nil {
			return err
		}

		var legs []EntryLine
		legs = addLeg(legs, debit(s.cfg.PayableAccount, amounts.Total))
		legs = addLeg(legs, credit(gl.InventoryAccount, amounts.Base))
		legs = addLeg(legs, credit(s.cfg.VATInputAccount, amounts.Tax))

		doc = s.newDocument(DocTypePurchaseReturn, docNo, in.BranchID, in.CostCenterID, in.Memo, amounts, postedAt)
		docLines := []DocumentLine{{ItemID: item.ID, Qty: in.Qty, UnitPrice: in.UnitCost, Amount: amounts.Base}}
		return s.persist(ctx, tx, &doc, docLines, legs)
	})
	if err != nil {
		return Document{}, err
	}
	s.bumpCache(ctx)
	return doc, nil
}

// GetDocument loads a posted voucher header by number.
func (s *Service) GetDocument(ctx context.Context, docNo string) (Document, error) {
	var doc Document
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var err error
		doc, err = tx.GetDocumentByNo(ctx, docNo)
		return err
	})
	return doc, err
}

func (s *Service) fetchActiveItem(ctx context.Context, tx TxRepository, itemID int64) (itemRecord, error) {
	it, err := tx.GetItem(ctx, itemID)
	if err != nil {
		return itemRecord{}, fmt.Errorf("vouchers: item %d: %w", itemID, err)
	}
	if !it.IsActive {
		return itemRecord{}, fmt.Errorf("%w: item %d is inactive", shared.ErrInvalidInput, itemID)
	}
	return itemRecord{ID: it.ID, Category: it.Category}, nil
}

type itemRecord struct {
	ID       int64
	Category string
}

// persist validates the drafted legs, verifies every account exists in the
// chart, then writes the document, its item lines and its ledger legs.
func (s *Service) persist(ctx context.Context, tx TxRepository, doc *Document, docLines []DocumentLine, legs []EntryLine) error {
	if err := ValidateEntryLines(doc.Type, legs); err != nil {
		return err
	}
	seen := make(map[string]bool, len(legs))
	codes := make([]string, 0, len(legs))
	for _, leg := range legs {
		if !seen[leg.AccountCode] {
			seen[leg.AccountCode] = true
			codes = append(codes, leg.AccountCode)
		}
	}
	missing, err := tx.MissingAccounts(ctx, codes)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", shared.ErrAccountNotFound, strings.Join(missing, ", "))
	}

	inserted, err := tx.InsertDocument(ctx, *doc)
	if err != nil {
		return err
	}
	if len(docLines) > 0 {
		lines, err := tx.InsertDocumentLines(ctx, inserted.ID, docLines)
		if err != nil {
			return err
		}
		inserted.Lines = lines
	}
	entries, err := tx.InsertJournalEntries(ctx, inserted, legs)
	if err != nil {
		return err
	}
	inserted.Entries = entries
	*doc = inserted
	return nil
}

func (s *Service) newDocument(docType DocType, docNo string, branchID, costCenterID *int64, memo string, amounts money.Breakdown, postedAt time.Time) Document {
	return Document{
		DocNo:        docNo,
		Type:         docType,
		BranchID:     branchID,
		CostCenterID: costCenterID,
		Memo:         memo,
		Base:         amounts.Base,
		Tax:          amounts.Tax,
		Total:        amounts.Total,
		PostedAt:     postedAt,
	}
}

// saleSettleAccount returns the account a sale debits, or a sales return
// credits. Credit settlement rides receivables; everything else is cash.
func (s *Service) saleSettleAccount(settlement string) string {
	if settlement == SettlementCredit {
		return s.cfg.ReceivableAccount
	}
	return s.cfg.CashAccount
}

// purchaseSettleAccount returns the account a purchase credits. Cash
// settlement pays from the bank; the default leaves the balance with the
// supplier.
func (s *Service) purchaseSettleAccount(settlement string) string {
	if settlement == SettlementCash {
		return s.cfg.BankAccount
	}
	return s.cfg.PayableAccount
}

func (s *Service) postingTime(override *time.Time) time.Time {
	if override != nil && !override.IsZero() {
		return override.UTC()
	}
	return s.now().UTC()
}

func (s *Service) bumpCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Bump(ctx)
}

func addLeg(legs []EntryLine, leg EntryLine) []EntryLine {
	if leg.Debit.Sign() == 0 && leg.Credit.Sign() == 0 {
		return legs
	}
	return append(legs, leg)
}

func debit(code string, amount decimal.Decimal) EntryLine {
	return EntryLine{AccountCode: code, Debit: amount}
}

func credit(code string, amount decimal.Decimal) EntryLine {
	return EntryLine{AccountCode: code, Credit: amount}
}
