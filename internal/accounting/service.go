package accounting

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/qayd-erp/qayd/internal/accounting/accounts"
	"github.com/qayd-erp/qayd/internal/accounting/reports"
)

// Store exposes the read queries the service relies on.
type Store interface {
	GetAccount(ctx context.Context, code string) (accounts.Account, error)
	ListJournal(ctx context.Context, f JournalFilters) ([]JournalRow, error)
	AccountBalances(ctx context.Context, w ReportWindow) ([]reports.AccountBalance, error)
	AccountActivity(ctx context.Context, code string, w ReportWindow) (decimal.Decimal, []reports.LedgerEntry, error)
}

// Service builds ledger reports, caching them under versioned keys and
// collapsing concurrent builds of the same report into one query.
type Service struct {
	store  Store
	cache  *Cache
	flight singleflight.Group
}

// NewService wires the read store with the cache helper.
func NewService(store Store, cache *Cache) *Service {
	return &Service{store: store, cache: cache}
}

// Journal lists posted legs. Filter combinations vary too much to cache.
func (s *Service) Journal(ctx context.Context, f JournalFilters) ([]JournalRow, error) {
	return s.store.ListJournal(ctx, f)
}

// Ledger builds the account statement with a running balance.
func (s *Service) Ledger(ctx context.Context, code string, w ReportWindow) (reports.Ledger, error) {
	acct, err := s.store.GetAccount(ctx, code)
	if err != nil {
		return reports.Ledger{}, err
	}
	var out reports.Ledger
	err = s.fetch(ctx, &out, func(ctx context.Context) (any, error) {
		opening, entries, err := s.store.AccountActivity(ctx, acct.Code, w)
		if err != nil {
			return nil, err
		}
		return reports.BuildLedger(acct.Code, acct.Name, opening, entries), nil
	}, "ledger", "account", acct.Code, windowToken(w))
	return out, err
}

// TrialBalance builds the grouped trial balance over the window.
func (s *Service) TrialBalance(ctx context.Context, w ReportWindow) (reports.TrialBalance, error) {
	var out reports.TrialBalance
	err := s.fetch(ctx, &out, func(ctx context.Context) (any, error) {
		balances, err := s.store.AccountBalances(ctx, w)
		if err != nil {
			return nil, err
		}
		return reports.BuildTrialBalance(balances), nil
	}, "ledger", "tb", windowToken(w))
	return out, err
}

// IncomeStatement builds the statement from activity inside the window.
func (s *Service) IncomeStatement(ctx context.Context, w ReportWindow) (reports.IncomeStatement, error) {
	var out reports.IncomeStatement
	err := s.fetch(ctx, &out, func(ctx context.Context) (any, error) {
		balances, err := s.store.AccountBalances(ctx, w)
		if err != nil {
			return nil, err
		}
		return reports.BuildIncomeStatement(balances), nil
	}, "ledger", "is", windowToken(w))
	return out, err
}

// BalanceSheet builds the statement of position as of the given cutoff.
func (s *Service) BalanceSheet(ctx context.Context, w ReportWindow) (reports.BalanceSheet, error) {
	// Position reports ignore From: everything up to the cutoff counts.
	w.From = nil
	var out reports.BalanceSheet
	err := s.fetch(ctx, &out, func(ctx context.Context) (any, error) {
		balances, err := s.store.AccountBalances(ctx, w)
		if err != nil {
			return nil, err
		}
		return reports.BuildBalanceSheet(balances), nil
	}, "ledger", "bs", windowToken(w))
	return out, err
}

// WarmUp pre-builds the all-time statements so the first reader after an
// invalidation does not pay for the build.
func (s *Service) WarmUp(ctx context.Context) error {
	if _, err := s.TrialBalance(ctx, ReportWindow{}); err != nil {
		return err
	}
	if _, err := s.IncomeStatement(ctx, ReportWindow{}); err != nil {
		return err
	}
	_, err := s.BalanceSheet(ctx, ReportWindow{})
	return err
}

// fetch resolves the versioned key, then serves from cache or builds via the
// loader. Concurrent builds of the same key share one execution.
func (s *Service) fetch(ctx context.Context, dest any, loader func(context.Context) (any, error), keyParts ...string) error {
	key, err := s.cache.BuildKey(ctx, keyParts...)
	if err != nil {
		key = strings.Join(keyParts, ":")
	}
	return s.cache.FetchJSON(ctx, key, dest, func(ctx context.Context) (any, error) {
		value, err, _ := s.flight.Do(key, func() (any, error) {
			return loader(ctx)
		})
		return value, err
	})
}
