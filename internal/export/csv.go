// Package export renders the ledger as a table for download or upload.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"budget/internal/core"
)

// ErrNothingToExport is returned for an empty ledger. Callers show
// EmptyNotice instead of treating it as a failure.
var ErrNothingToExport = errors.New("nothing to export")

// EmptyNotice is the user facing message for an empty export.
const EmptyNotice = "No transactions to export!"

// Header is the first row of every export.
var Header = []string{"Type", "Amount", "Category", "Date", "Description"}

// Rows converts records to export rows, preserving order. Values are taken
// verbatim; the amount is its plain decimal form.
func Rows(records []core.Transaction) [][]string {
	rows := make([][]string, len(records))
	for i, t := range records {
		rows[i] = []string{
			string(t.Type),
			t.Amount.String(),
			t.Category,
			t.Date.String(),
			t.Description,
		}
	}
	return rows
}

// WriteCSV writes the header and one quoted row per record. Lines are joined
// with "\n" and the output has no trailing newline.
func WriteCSV(w io.Writer, records []core.Transaction) error {
	if len(records) == 0 {
		return ErrNothingToExport
	}

	var b strings.Builder
	b.WriteString(strings.Join(Header, ","))
	for _, row := range Rows(records) {
		b.WriteByte('\n')
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quote(cell))
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// FileName is the download name for an export taken on the given day.
func FileName(now time.Time) string {
	return "budget-tracker-" + now.Format(core.DateLayout) + ".csv"
}

func quote(cell string) string {
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}
