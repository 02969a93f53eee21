package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/qayd-erp/qayd/internal/accounting/accounts"
	_ "github.com/qayd-erp/qayd/testing"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// postedBalances mirrors the ledger after one credit purchase of 10 units at
// 4500 and one cash sale of 5 units at 5750 under 15% VAT.
func postedBalances() []AccountBalance {
	return []AccountBalance{
		{Code: "1-01-01-001-001", Name: "Cash", Side: accounts.SideDebit, Debit: dec("33062.50")},
		{Code: "1-04-01-001-000", Name: "Inventory", Side: accounts.SideDebit, Debit: dec("45000"), Credit: dec("22500")},
		{Code: "2-01-01-000-000", Name: "Suppliers", Side: accounts.SideCredit, Credit: dec("51750")},
		{Code: "2-02-01-001-000", Name: "VAT Output", Side: accounts.SideCredit, Credit: dec("4312.50")},
		{Code: "2-03-01-001-000", Name: "VAT Input", Side: accounts.SideCredit, Debit: dec("6750")},
		{Code: "4-01-01-001-000", Name: "Sales", Side: accounts.SideCredit, Credit: dec("28750")},
		{Code: "5-01-01-001-000", Name: "Cost of Goods Sold", Side: accounts.SideDebit, Debit: dec("22500")},
	}
}

func TestBuildTrialBalanceGroupsAndTotals(t *testing.T) {
	tb := BuildTrialBalance(postedBalances())
	if len(tb.Groups) != 7 {
		t.Fatalf("expected 7 groups, got %d", len(tb.Groups))
	}
	if tb.Groups[0].Key != "1-01" {
		t.Fatalf("first group = %s, want 1-01", tb.Groups[0].Key)
	}
	if !tb.TotalDebit.Equal(dec("107312.50")) {
		t.Fatalf("total debit = %s, want 107312.50", tb.TotalDebit)
	}
	if !tb.TotalCredit.Equal(dec("107312.50")) {
		t.Fatalf("total credit = %s, want 107312.50", tb.TotalCredit)
	}
	if !tb.TotalDebit.Equal(tb.TotalCredit) {
		t.Fatalf("trial balance out of balance: %s vs %s", tb.TotalDebit, tb.TotalCredit)
	}
	if !tb.TotalClosing.Equal(decimal.Zero) {
		t.Fatalf("closing total = %s, want 0", tb.TotalClosing)
	}
}

func TestBuildTrialBalanceCarriesOpenings(t *testing.T) {
	tb := BuildTrialBalance([]AccountBalance{
		{Code: "1-01-01-001-001", Name: "Cash", Opening: dec("1000"), Debit: dec("200"), Credit: dec("150")},
		{Code: "1-01-02-001-001", Name: "Bank", Opening: dec("500"), Debit: dec("100"), Credit: dec("50")},
	})
	if len(tb.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(tb.Groups))
	}
	grp := tb.Groups[0]
	if !grp.Opening.Equal(dec("1500")) || !grp.Closing.Equal(dec("1600")) {
		t.Fatalf("group opening/closing = %s/%s, want 1500/1600", grp.Opening, grp.Closing)
	}
}

func TestBuildIncomeStatement(t *testing.T) {
	is := BuildIncomeStatement(postedBalances())
	if !is.Revenue.Total.Equal(dec("28750")) {
		t.Fatalf("revenue = %s, want 28750", is.Revenue.Total)
	}
	if !is.CostOfGoodsSold.Total.Equal(dec("22500")) {
		t.Fatalf("cogs = %s, want 22500", is.CostOfGoodsSold.Total)
	}
	if !is.GrossProfit.Equal(dec("6250")) || !is.NetProfit.Equal(dec("6250")) {
		t.Fatalf("gross/net = %s/%s, want 6250/6250", is.GrossProfit, is.NetProfit)
	}
}

func TestBuildIncomeStatementNetsReturnsAgainstRevenue(t *testing.T) {
	is := BuildIncomeStatement([]AccountBalance{
		{Code: "4-01-01-001-000", Name: "Sales", Credit: dec("28750")},
		{Code: "4-02-01-000-000", Name: "Sales Returns", Debit: dec("11500")},
		{Code: "5-01-01-001-000", Name: "COGS", Debit: dec("13500")},
		{Code: "6-01-01-001-000", Name: "Rent", Debit: dec("2000")},
		{Code: "7-01-01-001-000", Name: "Scrap Income", Credit: dec("300")},
		{Code: "7-02-01-001-000", Name: "Bank Fees", Debit: dec("100")},
	})
	if !is.NetRevenue.Equal(dec("17250")) {
		t.Fatalf("net revenue = %s, want 17250", is.NetRevenue)
	}
	if !is.GrossProfit.Equal(dec("3750")) {
		t.Fatalf("gross profit = %s, want 3750", is.GrossProfit)
	}
	if !is.OperatingProfit.Equal(dec("1750")) {
		t.Fatalf("operating profit = %s, want 1750", is.OperatingProfit)
	}
	if !is.NetProfit.Equal(dec("1950")) {
		t.Fatalf("net profit = %s, want 1950", is.NetProfit)
	}
}

func TestBuildBalanceSheetBalances(t *testing.T) {
	bs := BuildBalanceSheet(postedBalances())
	if !bs.Assets.Total.Equal(dec("55562.50")) {
		t.Fatalf("assets = %s, want 55562.50", bs.Assets.Total)
	}
	if !bs.Liabilities.Total.Equal(dec("49312.50")) {
		t.Fatalf("liabilities = %s, want 49312.50", bs.Liabilities.Total)
	}
	if !bs.NetProfit.Equal(dec("6250")) {
		t.Fatalf("net profit = %s, want 6250", bs.NetProfit)
	}
	if !bs.Assets.Total.Equal(bs.TotalLiabilitiesAndEquity) {
		t.Fatalf("balance sheet out of balance: assets %s vs L+E %s", bs.Assets.Total, bs.TotalLiabilitiesAndEquity)
	}
}

func TestBuildBalanceSheetShowsInputVATAsNegativeLiability(t *testing.T) {
	bs := BuildBalanceSheet([]AccountBalance{
		{Code: "2-03-01-001-000", Name: "VAT Input", Side: accounts.SideCredit, Debit: dec("6750")},
	})
	if len(bs.Liabilities.Accounts) != 1 {
		t.Fatalf("expected 1 liability row, got %d", len(bs.Liabilities.Accounts))
	}
	if !bs.Liabilities.Accounts[0].Balance.Equal(dec("-6750")) {
		t.Fatalf("vat input balance = %s, want -6750", bs.Liabilities.Accounts[0].Balance)
	}
}

func TestBuildLedgerRunningBalance(t *testing.T) {
	day := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	ledger := BuildLedger("1-01-01-001-001", "Cash", dec("100"), []LedgerEntry{
		{DocNo: "RC-000001", DocType: "RECEIPT", PostedAt: day, Debit: dec("50")},
		{DocNo: "PY-000001", DocType: "PAYMENT", PostedAt: day.Add(time.Hour), Credit: dec("30")},
	})
	if len(ledger.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(ledger.Lines))
	}
	if !ledger.Lines[0].Balance.Equal(dec("150")) || !ledger.Lines[1].Balance.Equal(dec("120")) {
		t.Fatalf("running balances = %s, %s, want 150, 120", ledger.Lines[0].Balance, ledger.Lines[1].Balance)
	}
	if !ledger.Closing.Equal(dec("120")) {
		t.Fatalf("closing = %s, want 120", ledger.Closing)
	}
	if !ledger.TotalDebit.Equal(dec("50")) || !ledger.TotalCredit.Equal(dec("30")) {
		t.Fatalf("totals = %s/%s, want 50/30", ledger.TotalDebit, ledger.TotalCredit)
	}
}
