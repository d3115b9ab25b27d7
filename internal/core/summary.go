package core

// Totals holds the dashboard figures for a set of transactions.
type Totals struct {
	Income  Money `json:"income"`
	Expense Money `json:"expense"`
	Balance Money `json:"balance"`
}

// Add combines two totals component-wise.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Income:  t.Income.Add(o.Income),
		Expense: t.Expense.Add(o.Expense),
		Balance: t.Balance.Add(o.Balance),
	}
}

func (t Totals) Equal(o Totals) bool {
	return t.Income.Equal(o.Income) && t.Expense.Equal(o.Expense) && t.Balance.Equal(o.Balance)
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string  `json:"name"`
	Amount Money   `json:"amount"`
	Share  float64 `json:"share"` // percent of the series total, one decimal
}
