package accounts

import (
	"strings"
	"time"
)

// Side marks the natural balance side of an account.
type Side string

const (
	SideDebit  Side = "D"
	SideCredit Side = "C"
)

// Class groups accounts by statement classification. The chart encodes the
// class in the leading code segments: 1 assets, 2 liabilities, 3 equity,
// 4-01 revenue, 4-02 sales returns, 5 cost of goods sold, 6 operating
// expenses, 7-01 other income, 7-02 other expenses.
type Class string

const (
	ClassAsset            Class = "ASSET"
	ClassLiability        Class = "LIABILITY"
	ClassEquity           Class = "EQUITY"
	ClassRevenue          Class = "REVENUE"
	ClassSalesReturns     Class = "SALES_RETURNS"
	ClassCostOfGoodsSold  Class = "COGS"
	ClassOperatingExpense Class = "OPEX"
	ClassOtherIncome      Class = "OTHER_INCOME"
	ClassOtherExpense     Class = "OTHER_EXPENSE"
	ClassUnknown          Class = "UNKNOWN"
)

// Account models a chart of accounts node.
type Account struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Side      Side      `json:"side"`
	CreatedAt time.Time `json:"created_at"`
}

// Class derives the statement classification from the account code.
func (a Account) Class() Class {
	return Classify(a.Code)
}

// Classify maps an account code to its statement classification.
func Classify(code string) Class {
	switch {
	case strings.HasPrefix(code, "1"):
		return ClassAsset
	case strings.HasPrefix(code, "2"):
		return ClassLiability
	case strings.HasPrefix(code, "3"):
		return ClassEquity
	case strings.HasPrefix(code, "4-02"):
		return ClassSalesReturns
	case strings.HasPrefix(code, "4"):
		return ClassRevenue
	case strings.HasPrefix(code, "5"):
		return ClassCostOfGoodsSold
	case strings.HasPrefix(code, "6"):
		return ClassOperatingExpense
	case strings.HasPrefix(code, "7-01"):
		return ClassOtherIncome
	case strings.HasPrefix(code, "7-02"):
		return ClassOtherExpense
	}
	return ClassUnknown
}
