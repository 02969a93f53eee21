// Package reports builds read-side financial statements from aggregated
// journal figures. Builders are pure: they take account balances already
// summed by the repository and never touch storage themselves.
package reports

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/qayd-erp/qayd/internal/accounting/accounts"
)

// AccountBalance models a ledger account with aggregated figures over some
// window. Amounts are raw debit-positive: Closing = Opening + Debit - Credit,
// so credit-natural accounts carry negative closings here and get their sign
// flipped at presentation.
type AccountBalance struct {
	Code    string
	Name    string
	Side    accounts.Side
	Opening decimal.Decimal
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}

// Closing computes the raw closing balance for the account.
func (a AccountBalance) Closing() decimal.Decimal {
	return a.Opening.Add(a.Debit).Sub(a.Credit)
}

// Natural returns the closing balance signed the way the account reads on a
// statement: positive for a debit balance on a debit-side account, positive
// for a credit balance on a credit-side account.
func (a AccountBalance) Natural() decimal.Decimal {
	if a.Side == accounts.SideCredit {
		return a.Closing().Neg()
	}
	return a.Closing()
}

// Class derives the statement classification from the account code.
func (a AccountBalance) Class() accounts.Class {
	return accounts.Classify(a.Code)
}

// GroupKey returns the key used for grouping trial balance rows. Codes are
// dash-segmented, so the first two segments name the account family.
func (a AccountBalance) GroupKey() string {
	parts := strings.SplitN(a.Code, "-", 3)
	if len(parts) >= 2 {
		return parts[0] + "-" + parts[1]
	}
	return a.Code
}

// TrialBalanceAccount represents a row inside a trial balance group.
type TrialBalanceAccount struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Opening decimal.Decimal `json:"opening"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Closing decimal.Decimal `json:"closing"`
}

// TrialBalanceGroup aggregates accounts sharing a code family.
type TrialBalanceGroup struct {
	Key      string                `json:"key"`
	Accounts []TrialBalanceAccount `json:"accounts"`
	Opening  decimal.Decimal       `json:"opening"`
	Debit    decimal.Decimal       `json:"debit"`
	Credit   decimal.Decimal       `json:"credit"`
	Closing  decimal.Decimal       `json:"closing"`
}

// TrialBalance is the grouped statement with grand totals. A balanced ledger
// shows TotalDebit equal to TotalCredit.
type TrialBalance struct {
	Groups       []TrialBalanceGroup `json:"groups"`
	TotalOpening decimal.Decimal     `json:"total_opening"`
	TotalDebit   decimal.Decimal     `json:"total_debit"`
	TotalCredit  decimal.Decimal     `json:"total_credit"`
	TotalClosing decimal.Decimal     `json:"total_closing"`
}

// BuildTrialBalance converts account balances into grouped trial balance data.
func BuildTrialBalance(balances []AccountBalance) TrialBalance {
	groups := make(map[string]*TrialBalanceGroup)
	keys := make([]string, 0)
	for _, acc := range balances {
		key := acc.GroupKey()
		grp, ok := groups[key]
		if !ok {
			grp = &TrialBalanceGroup{Key: key}
			groups[key] = grp
			keys = append(keys, key)
		}
		row := TrialBalanceAccount{
			Code:    acc.Code,
			Name:    acc.Name,
			Opening: acc.Opening,
			Debit:   acc.Debit,
			Credit:  acc.Credit,
			Closing: acc.Closing(),
		}
		grp.Accounts = append(grp.Accounts, row)
		grp.Opening = grp.Opening.Add(row.Opening)
		grp.Debit = grp.Debit.Add(row.Debit)
		grp.Credit = grp.Credit.Add(row.Credit)
		grp.Closing = grp.Closing.Add(row.Closing)
	}

	sort.Strings(keys)
	result := TrialBalance{}
	for _, key := range keys {
		grp := groups[key]
		sort.Slice(grp.Accounts, func(i, j int) bool {
			return grp.Accounts[i].Code < grp.Accounts[j].Code
		})
		result.Groups = append(result.Groups, *grp)
		result.TotalOpening = result.TotalOpening.Add(grp.Opening)
		result.TotalDebit = result.TotalDebit.Add(grp.Debit)
		result.TotalCredit = result.TotalCredit.Add(grp.Credit)
		result.TotalClosing = result.TotalClosing.Add(grp.Closing)
	}
	return result
}
