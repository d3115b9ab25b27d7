package ledger

import (
	"strconv"
	"testing"

	"budget/internal/core"
)

// sequentialIDs returns a deterministic generator for tests.
func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return "id" + strconv.Itoa(n)
	}
}

func tx(typ core.TransactionType, amount float64, category string, y, m, d int) core.Transaction {
	return core.Transaction{
		Type:     typ,
		Amount:   core.NewMoney(amount),
		Category: category,
		Date:     core.NewDate(y, m, d),
	}
}

func assertDateDesc(t *testing.T, items []core.Transaction) {
	t.Helper()
	for i := 1; i < len(items); i++ {
		if items[i].Date.After(items[i-1].Date.Time) {
			t.Fatalf("order broken at %d: %s after %s", i, items[i].Date, items[i-1].Date)
		}
	}
}

func TestStoreAddKeepsDateDescending(t *testing.T) {
	s := NewStore(WithIDGenerator(sequentialIDs()))
	inputs := []core.Transaction{
		tx(core.Income, 100, "Salary", 2024, 1, 1),
		tx(core.Expense, 40, "Food", 2024, 1, 3),
		tx(core.Expense, 5, "Bus", 2023, 12, 31),
		tx(core.Expense, 7, "Food", 2024, 1, 2),
	}
	for i, in := range inputs {
		before := s.Len()
		id := s.Add(in)
		if id == "" {
			t.Fatalf("add %d returned empty id", i)
		}
		list := s.List()
		if len(list) != before+1 {
			t.Fatalf("add %d: expected %d records, got %d", i, before+1, len(list))
		}
		assertDateDesc(t, list)
	}
}

func TestStoreAddScenario(t *testing.T) {
	s := NewStore()
	s.Add(tx(core.Income, 100, "Salary", 2024, 1, 1))
	s.Add(tx(core.Expense, 40, "Food", 2024, 1, 2))

	list := s.List()
	if list[0].Category != "Food" {
		t.Fatalf("expected Food first, got %s", list[0].Category)
	}
	want := core.Totals{Income: core.NewMoney(100), Expense: core.NewMoney(40), Balance: core.NewMoney(60)}
	if got := Totals(list); !got.Equal(want) {
		t.Fatalf("unexpected totals %+v", got)
	}
}

func TestStoreAddAssignsUniqueIDs(t *testing.T) {
	s := NewStore(WithIDGenerator(func() string { return "same" }))
	a := s.Add(tx(core.Expense, 1, "A", 2024, 1, 1))
	b := s.Add(tx(core.Expense, 2, "B", 2024, 1, 1))
	c := s.Add(core.Transaction{ID: a, Type: core.Expense, Category: "C", Date: core.NewDate(2024, 1, 1)})
	if a == b || b == c || a == c {
		t.Fatalf("ids not unique: %q %q %q", a, b, c)
	}

	kept := s.Add(core.Transaction{ID: "mine", Type: core.Income, Category: "D", Date: core.NewDate(2024, 1, 1)})
	if kept != "mine" {
		t.Fatalf("expected caller id to be kept, got %q", kept)
	}
}

func TestStoreTiesKeepInsertionOrder(t *testing.T) {
	s := NewStore(WithIDGenerator(sequentialIDs()))
	first := s.Add(tx(core.Expense, 1, "A", 2024, 1, 1))
	second := s.Add(tx(core.Expense, 2, "B", 2024, 1, 1))
	third := s.Add(tx(core.Expense, 3, "C", 2024, 1, 1))

	list := s.List()
	if list[0].ID != first || list[1].ID != second || list[2].ID != third {
		t.Fatalf("unexpected order: %s %s %s", list[0].ID, list[1].ID, list[2].ID)
	}
}

func TestStoreUpdate(t *testing.T) {
	s := NewStore(WithIDGenerator(sequentialIDs()))
	salary := s.Add(tx(core.Income, 100, "Salary", 2024, 1, 1))
	food := s.Add(tx(core.Expense, 40, "Food", 2024, 1, 2))

	repl := tx(core.Expense, 55, "Groceries", 2023, 12, 1)
	repl.Description = "weekly"
	if !s.Update(food, repl) {
		t.Fatalf("expected update to succeed")
	}

	list := s.List()
	assertDateDesc(t, list)
	got, ok := s.Get(food)
	if !ok {
		t.Fatalf("updated record missing")
	}
	repl.ID = food
	if !got.Equal(repl) {
		t.Fatalf("expected %+v, got %+v", repl, got)
	}
	other, _ := s.Get(salary)
	if !other.Equal(core.Transaction{ID: salary, Type: core.Income, Amount: core.NewMoney(100), Category: "Salary", Date: core.NewDate(2024, 1, 1)}) {
		t.Fatalf("unrelated record changed: %+v", other)
	}
	if list[1].ID != food {
		t.Fatalf("expected updated record to move after salary")
	}
}

func TestStoreUpdateUnknownIsNoop(t *testing.T) {
	s := NewStore(WithIDGenerator(sequentialIDs()))
	s.Add(tx(core.Income, 100, "Salary", 2024, 1, 1))
	before := s.List()

	if s.Update("missing", tx(core.Expense, 1, "X", 2024, 1, 1)) {
		t.Fatalf("expected update of unknown id to report false")
	}
	after := s.List()
	if len(after) != len(before) || !after[0].Equal(before[0]) {
		t.Fatalf("store changed after unknown update")
	}
}

func TestStoreDelete(t *testing.T) {
	s := NewStore(WithIDGenerator(sequentialIDs()))
	a := s.Add(tx(core.Income, 100, "Salary", 2024, 1, 1))
	b := s.Add(tx(core.Expense, 40, "Food", 2024, 1, 2))

	if !s.Delete(a) {
		t.Fatalf("expected delete to succeed")
	}
	for _, r := range s.List() {
		if r.ID == a {
			t.Fatalf("deleted id still listed")
		}
	}

	before := s.List()
	if s.Delete("missing") {
		t.Fatalf("expected delete of unknown id to report false")
	}
	after := s.List()
	if len(after) != 1 || len(before) != 1 || after[0].ID != b {
		t.Fatalf("unexpected list after unknown delete: %+v", after)
	}
}

func TestStoreListIsACopy(t *testing.T) {
	s := NewStore()
	s.Add(tx(core.Expense, 40, "Food", 2024, 1, 2))
	list := s.List()
	list[0].Category = "changed"
	if s.List()[0].Category != "Food" {
		t.Fatalf("caller mutation leaked into the store")
	}
}

func TestStoreReplaceAndCategories(t *testing.T) {
	s := NewStore(WithIDGenerator(sequentialIDs()))
	s.Replace([]core.Transaction{
		{ID: "x", Type: core.Expense, Amount: core.NewMoney(1), Category: "Rent", Date: core.NewDate(2024, 1, 1)},
		{ID: "x", Type: core.Expense, Amount: core.NewMoney(2), Category: "Food", Date: core.NewDate(2024, 2, 1)},
		{Type: core.Income, Amount: core.NewMoney(3), Category: "Salary", Date: core.NewDate(2024, 1, 15)},
		{ID: "y", Type: core.Expense, Amount: core.NewMoney(4), Category: "Food", Date: core.NewDate(2024, 1, 20)},
	})

	list := s.List()
	if len(list) != 4 {
		t.Fatalf("expected 4 records, got %d", len(list))
	}
	assertDateDesc(t, list)
	seen := map[string]bool{}
	for _, r := range list {
		if r.ID == "" || seen[r.ID] {
			t.Fatalf("duplicate or empty id %q", r.ID)
		}
		seen[r.ID] = true
	}

	cats := s.Categories()
	if len(cats) != 3 || cats[0] != "Food" || cats[1] != "Rent" || cats[2] != "Salary" {
		t.Fatalf("unexpected categories %v", cats)
	}
}
