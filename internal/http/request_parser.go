package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"budget/internal/core"
	"budget/internal/ledger"
)

const maxBodyBytes = 64 << 10

// transactionRequest is the body accepted by create and update. The id, if
// any, comes from the URL.
type transactionRequest struct {
	Type        core.TransactionType `json:"type"`
	Amount      core.Money           `json:"amount"`
	Category    string               `json:"category"`
	Date        core.Date            `json:"date"`
	Description string               `json:"description"`
}

// decodeTransaction reads a transactionRequest from the body. A missing date
// defaults to today.
func decodeTransaction(w http.ResponseWriter, r *http.Request) (core.Transaction, error) {
	var req transactionRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return core.Transaction{}, fmt.Errorf("empty request body")
		}
		return core.Transaction{}, fmt.Errorf("decode transaction: %w", err)
	}

	t := core.Transaction{
		Type:        core.TransactionType(sanitizeInput(string(req.Type))),
		Amount:      req.Amount,
		Category:    sanitizeInput(req.Category),
		Date:        req.Date,
		Description: sanitizeInput(req.Description),
	}
	if t.Date.IsEmpty() {
		t.Date = core.Today()
	}
	return t, nil
}

// parseCriteria reads the category, from and to query parameters.
func parseCriteria(r *http.Request) (ledger.Criteria, error) {
	q := r.URL.Query()
	return ledger.ParseCriteria(sanitizeInput(q.Get("category")), q.Get("from"), q.Get("to"))
}
