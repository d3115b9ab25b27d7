package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the ISO 8601 calendar date form used on the wire and in blobs.
const DateLayout = "2006-01-02"

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	Date struct {
		time.Time
	}

	// Transaction is a single ledger entry. Amount is a magnitude; the sign is
	// implied by Type.
	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Amount      Money           `json:"amount"`
		Category    string          `json:"category"`
		Date        Date            `json:"date"`
		Description string          `json:"description"`
	}
)

var (
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyCategory   = errors.New("empty category")
	ErrDescriptionLong = errors.New("description too long (max 200 characters)")
)

const maxDescriptionChars = 200

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

// Sign returns the display sign implied by the type.
func (t TransactionType) Sign() string {
	if t == Income {
		return "+"
	}
	return "-"
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Today returns the current calendar date in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// IsEmpty returns true if the date is zero (used for optional bounds)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// String renders the ISO form, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Validate checks the fields an input form is expected to enforce. The ledger
// itself accepts any record.
func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if utf8.RuneCountInString(t.Description) > maxDescriptionChars {
		return ErrDescriptionLong
	}
	return nil
}

// IsValidationError reports whether err stems from Transaction.Validate.
func IsValidationError(err error) bool {
	for _, target := range []error{ErrInvalidType, ErrInvalidAmount, ErrInvalidDate, ErrEmptyCategory, ErrDescriptionLong} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Equal compares every field, using decimal equality for the amount.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Type == o.Type &&
		t.Amount.Equal(o.Amount) &&
		t.Category == o.Category &&
		t.Date.Equal(o.Date.Time) &&
		t.Description == o.Description
}
