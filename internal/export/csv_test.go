package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"budget/internal/core"
	"budget/internal/ledger"
)

func TestWriteCSVScenario(t *testing.T) {
	s := ledger.NewStore()
	s.Add(core.Transaction{Type: core.Income, Amount: core.NewMoney(100), Category: "Salary", Date: core.NewDate(2024, 1, 1)})
	s.Add(core.Transaction{Type: core.Expense, Amount: core.NewMoney(40), Category: "Food", Date: core.NewDate(2024, 1, 2), Description: "lunch"})

	var buf bytes.Buffer
	if err := WriteCSV(&buf, s.List()); err != nil {
		t.Fatalf("write: %v", err)
	}

	want := "Type,Amount,Category,Date,Description\n" +
		`"expense","40","Food","2024-01-02","lunch"` + "\n" +
		`"income","100","Salary","2024-01-01",""`
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}

	lines := strings.Split(buf.String(), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %d lines", len(lines))
	}
}

func TestWriteCSVQuotesAndParses(t *testing.T) {
	records := []core.Transaction{
		{Type: core.Expense, Amount: core.NewMoney(12.5), Category: "Gifts, misc", Date: core.NewDate(2024, 3, 1), Description: `the "big" one`},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatalf("write: %v", err)
	}

	parsed, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(parsed))
	}
	row := parsed[1]
	if row[1] != "12.5" || row[2] != "Gifts, misc" || row[4] != `the "big" one` {
		t.Fatalf("unexpected row %q", row)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written for an empty export")
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(time.Date(2024, 5, 6, 13, 0, 0, 0, time.UTC)); got != "budget-tracker-2024-05-06.csv" {
		t.Fatalf("unexpected file name %q", got)
	}
}
