package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/qayd-erp/qayd/internal/accounting/accounts"
)

// BalanceSheetAccount summarises an account at its natural sign.
type BalanceSheetAccount struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// BalanceSheetSection holds the accounts and total for a classification.
type BalanceSheetSection struct {
	Label    string                `json:"label"`
	Accounts []BalanceSheetAccount `json:"accounts"`
	Total    decimal.Decimal       `json:"total"`
}

// BalanceSheet is the statement of position. Profit and loss accounts are
// never closed into equity, so their accumulated result appears as the
// NetProfit line; on a balanced ledger Assets equals
// TotalLiabilitiesAndEquity.
type BalanceSheet struct {
	Assets                    BalanceSheetSection `json:"assets"`
	Liabilities               BalanceSheetSection `json:"liabilities"`
	Equity                    BalanceSheetSection `json:"equity"`
	NetProfit                 decimal.Decimal     `json:"net_profit"`
	TotalLiabilitiesAndEquity decimal.Decimal     `json:"total_liabilities_and_equity"`
}

// BuildBalanceSheet aggregates closings into assets, liabilities and equity.
func BuildBalanceSheet(balances []AccountBalance) BalanceSheet {
	assets := BalanceSheetSection{Label: "Assets"}
	liabilities := BalanceSheetSection{Label: "Liabilities"}
	equity := BalanceSheetSection{Label: "Equity"}
	netProfit := decimal.Zero

	for _, acc := range balances {
		switch acc.Class() {
		case accounts.ClassAsset:
			row := BalanceSheetAccount{Code: acc.Code, Name: acc.Name, Balance: acc.Closing()}
			assets.Accounts = append(assets.Accounts, row)
			assets.Total = assets.Total.Add(row.Balance)
		case accounts.ClassLiability:
			row := BalanceSheetAccount{Code: acc.Code, Name: acc.Name, Balance: acc.Closing().Neg()}
			liabilities.Accounts = append(liabilities.Accounts, row)
			liabilities.Total = liabilities.Total.Add(row.Balance)
		case accounts.ClassEquity:
			row := BalanceSheetAccount{Code: acc.Code, Name: acc.Name, Balance: acc.Closing().Neg()}
			equity.Accounts = append(equity.Accounts, row)
			equity.Total = equity.Total.Add(row.Balance)
		case accounts.ClassUnknown:
			// Unknown codes stay off the statement; the integrity job
			// reports them.
		default:
			netProfit = netProfit.Add(acc.Closing().Neg())
		}
	}

	for _, section := range []*BalanceSheetSection{&assets, &liabilities, &equity} {
		sort.Slice(section.Accounts, func(i, j int) bool {
			return section.Accounts[i].Code < section.Accounts[j].Code
		})
	}

	return BalanceSheet{
		Assets:                    assets,
		Liabilities:               liabilities,
		Equity:                    equity,
		NetProfit:                 netProfit,
		TotalLiabilitiesAndEquity: liabilities.Total.Add(equity.Total).Add(netProfit),
	}
}
