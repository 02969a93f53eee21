package accounting

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/qayd-erp/qayd/internal/accounting/accounts"
	"github.com/qayd-erp/qayd/internal/accounting/reports"
	"github.com/qayd-erp/qayd/internal/accounting/shared"
	_ "github.com/qayd-erp/qayd/testing"
)

type fakeStore struct {
	accounts     map[string]accounts.Account
	balances     []reports.AccountBalance
	balanceCalls int
}

func (f *fakeStore) GetAccount(ctx context.Context, code string) (accounts.Account, error) {
	acct, ok := f.accounts[code]
	if !ok {
		return accounts.Account{}, shared.ErrAccountNotFound
	}
	return acct, nil
}

func (f *fakeStore) ListJournal(ctx context.Context, filters JournalFilters) ([]JournalRow, error) {
	return nil, nil
}

func (f *fakeStore) AccountBalances(ctx context.Context, w ReportWindow) ([]reports.AccountBalance, error) {
	f.balanceCalls++
	return f.balances, nil
}

func (f *fakeStore) AccountActivity(ctx context.Context, code string, w ReportWindow) (decimal.Decimal, []reports.LedgerEntry, error) {
	return decimal.RequireFromString("100"), []reports.LedgerEntry{
		{DocNo: "RC-000001", Debit: decimal.RequireFromString("50")},
	}, nil
}

func newReadService(store *fakeStore) *Service {
	// A nil cache client degrades to building on every call, which keeps
	// these tests free of Redis.
	return NewService(store, nil)
}

func TestTrialBalanceBuildsFromStore(t *testing.T) {
	store := &fakeStore{balances: []reports.AccountBalance{
		{Code: "1-01-01-001-001", Name: "Cash", Debit: decimal.RequireFromString("300"), Credit: decimal.RequireFromString("100")},
		{Code: "2-01-01-000-000", Name: "Suppliers", Credit: decimal.RequireFromString("200")},
	}}
	svc := newReadService(store)

	tb, err := svc.TrialBalance(context.Background(), ReportWindow{})
	if err != nil {
		t.Fatalf("trial balance: %v", err)
	}
	if !tb.TotalDebit.Equal(decimal.RequireFromString("300")) {
		t.Fatalf("total debit = %s, want 300", tb.TotalDebit)
	}
	if !tb.TotalCredit.Equal(decimal.RequireFromString("300")) {
		t.Fatalf("total credit = %s, want 300", tb.TotalCredit)
	}
	if store.balanceCalls != 1 {
		t.Fatalf("expected one store query, got %d", store.balanceCalls)
	}
}

func TestTrialBalanceRepeatableOverUnchangedLedger(t *testing.T) {
	store := &fakeStore{balances: []reports.AccountBalance{
		{Code: "1-01-01-001-001", Name: "Cash", Debit: decimal.RequireFromString("300")},
		{Code: "4-01-01-001-000", Name: "Sales", Side: accounts.SideCredit, Credit: decimal.RequireFromString("300")},
	}}
	svc := newReadService(store)

	first, err := svc.TrialBalance(context.Background(), ReportWindow{})
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	second, err := svc.TrialBalance(context.Background(), ReportWindow{})
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if len(first.Groups) != len(second.Groups) {
		t.Fatalf("group count changed between builds: %d vs %d", len(first.Groups), len(second.Groups))
	}
	for i := range first.Groups {
		a, b := first.Groups[i], second.Groups[i]
		if a.Key != b.Key || !a.Debit.Equal(b.Debit) || !a.Credit.Equal(b.Credit) {
			t.Fatalf("group %d differs between builds: %+v vs %+v", i, a, b)
		}
	}
	if !first.TotalDebit.Equal(second.TotalDebit) || !first.TotalCredit.Equal(second.TotalCredit) {
		t.Fatalf("totals differ between builds")
	}
}

func TestLedgerUnknownAccount(t *testing.T) {
	svc := newReadService(&fakeStore{accounts: map[string]accounts.Account{}})
	_, err := svc.Ledger(context.Background(), "9-99-99-999-999", ReportWindow{})
	if !errors.Is(err, shared.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestLedgerThreadsRunningBalance(t *testing.T) {
	store := &fakeStore{accounts: map[string]accounts.Account{
		"1-01-01-001-001": {Code: "1-01-01-001-001", Name: "Cash", Side: accounts.SideDebit},
	}}
	svc := newReadService(store)

	ledger, err := svc.Ledger(context.Background(), "1-01-01-001-001", ReportWindow{})
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if ledger.AccountName != "Cash" {
		t.Fatalf("account name = %s, want Cash", ledger.AccountName)
	}
	if !ledger.Closing.Equal(decimal.RequireFromString("150")) {
		t.Fatalf("closing = %s, want 150", ledger.Closing)
	}
}

func TestWarmUpBuildsAllStatements(t *testing.T) {
	store := &fakeStore{}
	svc := newReadService(store)
	if err := svc.WarmUp(context.Background()); err != nil {
		t.Fatalf("warm up: %v", err)
	}
	if store.balanceCalls != 3 {
		t.Fatalf("expected 3 statement builds, got %d", store.balanceCalls)
	}
}
