package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/qayd-erp/qayd/internal/accounting/accounts"
)

// IncomeStatementAccount is one revenue or expense line.
type IncomeStatementAccount struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// IncomeStatementSection groups accounts sharing a classification.
type IncomeStatementSection struct {
	Label    string                   `json:"label"`
	Accounts []IncomeStatementAccount `json:"accounts"`
	Total    decimal.Decimal          `json:"total"`
}

// IncomeStatement steps from gross revenue down to net profit. Sales returns
// reduce revenue rather than sitting with expenses.
type IncomeStatement struct {
	Revenue         IncomeStatementSection `json:"revenue"`
	SalesReturns    IncomeStatementSection `json:"sales_returns"`
	NetRevenue      decimal.Decimal        `json:"net_revenue"`
	CostOfGoodsSold IncomeStatementSection `json:"cost_of_goods_sold"`
	GrossProfit     decimal.Decimal        `json:"gross_profit"`
	Expenses        IncomeStatementSection `json:"expenses"`
	OperatingProfit decimal.Decimal        `json:"operating_profit"`
	OtherIncome     IncomeStatementSection `json:"other_income"`
	OtherExpenses   IncomeStatementSection `json:"other_expenses"`
	NetProfit       decimal.Decimal        `json:"net_profit"`
}

// BuildIncomeStatement aggregates period activity into the statement. Only
// Debit and Credit matter here; openings belong to the balance sheet.
func BuildIncomeStatement(balances []AccountBalance) IncomeStatement {
	revenue := IncomeStatementSection{Label: "Revenue"}
	returns := IncomeStatementSection{Label: "Sales Returns"}
	cogs := IncomeStatementSection{Label: "Cost of Goods Sold"}
	expenses := IncomeStatementSection{Label: "Operating Expenses"}
	otherIncome := IncomeStatementSection{Label: "Other Income"}
	otherExpenses := IncomeStatementSection{Label: "Other Expenses"}

	for _, acc := range balances {
		activity := acc.Debit.Sub(acc.Credit)
		row := IncomeStatementAccount{Code: acc.Code, Name: acc.Name, Amount: activity}
		switch acc.Class() {
		case accounts.ClassRevenue:
			row.Amount = activity.Neg()
			appendRow(&revenue, row)
		case accounts.ClassOtherIncome:
			row.Amount = activity.Neg()
			appendRow(&otherIncome, row)
		case accounts.ClassSalesReturns:
			appendRow(&returns, row)
		case accounts.ClassCostOfGoodsSold:
			appendRow(&cogs, row)
		case accounts.ClassOperatingExpense:
			appendRow(&expenses, row)
		case accounts.ClassOtherExpense:
			appendRow(&otherExpenses, row)
		}
	}

	for _, section := range []*IncomeStatementSection{&revenue, &returns, &cogs, &expenses, &otherIncome, &otherExpenses} {
		sort.Slice(section.Accounts, func(i, j int) bool {
			return section.Accounts[i].Code < section.Accounts[j].Code
		})
	}

	netRevenue := revenue.Total.Sub(returns.Total)
	grossProfit := netRevenue.Sub(cogs.Total)
	operatingProfit := grossProfit.Sub(expenses.Total)
	return IncomeStatement{
		Revenue:         revenue,
		SalesReturns:    returns,
		NetRevenue:      netRevenue,
		CostOfGoodsSold: cogs,
		GrossProfit:     grossProfit,
		Expenses:        expenses,
		OperatingProfit: operatingProfit,
		OtherIncome:     otherIncome,
		OtherExpenses:   otherExpenses,
		NetProfit:       operatingProfit.Add(otherIncome.Total).Sub(otherExpenses.Total),
	}
}

func appendRow(section *IncomeStatementSection, row IncomeStatementAccount) {
	section.Accounts = append(section.Accounts, row)
	section.Total = section.Total.Add(row.Amount)
}
