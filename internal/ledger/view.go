package ledger

import "budget/internal/core"

// DisplayDateLayout matches the short US form shown in the transaction list.
const DisplayDateLayout = "Jan 2, 2006"

// Renderer ports for the presentation layer, which lives outside this module.
type (
	ListRenderer interface {
		RenderList(items []ListItem) error
	}

	TotalsRenderer interface {
		RenderTotals(totals TotalsView) error
	}

	SeriesRenderer interface {
		RenderSeries(series []core.CategoryAmount) error
	}
)

// ListItem is a transaction prepared for display.
type ListItem struct {
	ID          string               `json:"id"`
	Type        core.TransactionType `json:"type"`
	Category    string               `json:"category"`
	Description string               `json:"description,omitempty"`
	Date        string               `json:"date"`
	Amount      string               `json:"amount"`
}

// NewListItem formats t with a sign derived from its type, e.g. "+$100.00".
func NewListItem(t core.Transaction, symbol string) ListItem {
	return ListItem{
		ID:          t.ID,
		Type:        t.Type,
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date.Format(DisplayDateLayout),
		Amount:      t.Type.Sign() + t.Amount.Format(symbol),
	}
}

// ListItems formats every record, preserving order.
func ListItems(records []core.Transaction, symbol string) []ListItem {
	out := make([]ListItem, len(records))
	for i, t := range records {
		out[i] = NewListItem(t, symbol)
	}
	return out
}

// TotalsView carries the formatted dashboard figures.
type TotalsView struct {
	Income          string `json:"income"`
	Expense         string `json:"expense"`
	Balance         string `json:"balance"`
	BalancePositive bool   `json:"balance_positive"`
}

func NewTotalsView(t core.Totals, symbol string) TotalsView {
	return TotalsView{
		Income:          t.Income.Format(symbol),
		Expense:         t.Expense.Format(symbol),
		Balance:         t.Balance.Format(symbol),
		BalancePositive: !t.Balance.IsNegative(),
	}
}

// Render pushes the list, totals and chart series for records to the given
// renderers. Nil renderers are skipped.
func Render(records []core.Transaction, symbol string, list ListRenderer, totals TotalsRenderer, series SeriesRenderer) error {
	if list != nil {
		if err := list.RenderList(ListItems(records, symbol)); err != nil {
			return err
		}
	}
	if totals != nil {
		if err := totals.RenderTotals(NewTotalsView(Totals(records), symbol)); err != nil {
			return err
		}
	}
	if series != nil {
		if err := series.RenderSeries(CategorySeries(records)); err != nil {
			return err
		}
	}
	return nil
}
