package ledger

import (
	"budget/internal/core"

	"github.com/shopspring/decimal"
)

// Totals sums income and expense and derives the balance.
func Totals(records []core.Transaction) core.Totals {
	var out core.Totals
	for _, t := range records {
		switch t.Type {
		case core.Income:
			out.Income = out.Income.Add(t.Amount)
		case core.Expense:
			out.Expense = out.Expense.Add(t.Amount)
		}
	}
	out.Balance = out.Income.Sub(out.Expense)
	return out
}

// CategoryBreakdown sums expense amounts per category. Categories without
// expenses in records are absent from the result.
func CategoryBreakdown(records []core.Transaction) map[string]core.Money {
	out := make(map[string]core.Money)
	for _, t := range records {
		if t.Type != core.Expense {
			continue
		}
		out[t.Category] = out[t.Category].Add(t.Amount)
	}
	return out
}

// CategorySeries is the labeled series for the chart renderer: expense sums
// per category in order of first appearance, each with its percent share.
func CategorySeries(records []core.Transaction) []core.CategoryAmount {
	var series []core.CategoryAmount
	index := make(map[string]int)
	var total core.Money
	for _, t := range records {
		if t.Type != core.Expense {
			continue
		}
		total = total.Add(t.Amount)
		i, ok := index[t.Category]
		if !ok {
			index[t.Category] = len(series)
			series = append(series, core.CategoryAmount{Name: t.Category, Amount: t.Amount})
			continue
		}
		series[i].Amount = series[i].Amount.Add(t.Amount)
	}
	if total.IsZero() {
		return series
	}
	hundred := decimal.NewFromInt(100)
	for i := range series {
		series[i].Share = series[i].Amount.Mul(hundred).Div(total.Decimal).Round(1).InexactFloat64()
	}
	return series
}
