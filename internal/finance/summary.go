package finance

import (
	"sort"

	"github.com/shopspring/decimal"
)

// GroupTotal is the summed amount and count for one (type, category) pair.
type GroupTotal struct {
	Type     Type
	Category string
	Total    decimal.Decimal
	Count    int
}

// Totals are the headline numbers of a summary.
type Totals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Balance  decimal.Decimal
}

// Summary is derived from group totals and never persisted.
type Summary struct {
	Totals             Totals
	ExpensesByCategory map[string]decimal.Decimal
	IncomeByCategory   map[string]decimal.Decimal
	Groups             []GroupTotal
}

// Empty reports whether the summary was built from no rows.
func (s Summary) Empty() bool {
	return len(s.Groups) == 0
}

// TopExpenses returns up to n expense categories, largest first.
func (s Summary) TopExpenses(n int) []CategoryAmount {
	all := SortedCategories(s.ExpensesByCategory)
	if n >= 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

// Summarize folds group totals into a Summary. Sums are exact decimals.
func Summarize(groups []GroupTotal) Summary {
	s := Summary{
		ExpensesByCategory: map[string]decimal.Decimal{},
		IncomeByCategory:   map[string]decimal.Decimal{},
		Groups:             make([]GroupTotal, 0, len(groups)),
	}
	income := decimal.Zero
	expenses := decimal.Zero
	for _, g := range groups {
		switch g.Type {
		case Income:
			income = income.Add(g.Total)
			s.IncomeByCategory[g.Category] = s.IncomeByCategory[g.Category].Add(g.Total)
		case Expense:
			expenses = expenses.Add(g.Total)
			s.ExpensesByCategory[g.Category] = s.ExpensesByCategory[g.Category].Add(g.Total)
		default:
			continue
		}
		s.Groups = append(s.Groups, g)
	}
	s.Totals = Totals{Income: income, Expenses: expenses, Balance: income.Sub(expenses)}
	return s
}

// GroupTransactions groups raw transactions the same way the repository query does:
// ordered by type, then descending total, then category.
func GroupTransactions(txs []Transaction) []GroupTotal {
	type key struct {
		t   Type
		cat string
	}
	idx := map[key]int{}
	var out []GroupTotal
	for _, tx := range txs {
		k := key{tx.Type, tx.Category}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, GroupTotal{Type: tx.Type, Category: tx.Category, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(tx.Amount)
		out[i].Count++
	}
	SortGroups(out)
	return out
}

// SortGroups orders rows by type, descending total, then category.
func SortGroups(groups []GroupTotal) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if c := a.Total.Cmp(b.Total); c != 0 {
			return c > 0
		}
		return a.Category < b.Category
	})
}

// SummarizeTransactions is Summarize over GroupTransactions.
func SummarizeTransactions(txs []Transaction) Summary {
	return Summarize(GroupTransactions(txs))
}

// CategoryAmount pairs a category with its summed amount.
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

// SortedCategories orders a category map by amount descending, ties by name.
func SortedCategories(m map[string]decimal.Decimal) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(m))
	for k, v := range m {
		out = append(out, CategoryAmount{Category: k, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
