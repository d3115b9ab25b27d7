package http

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"budget/internal/core"
	"budget/internal/export"
	"budget/internal/ledger"
	"budget/internal/log"
	"budget/internal/services"
)

// listResponse is filled through the ledger renderer ports so the list, the
// totals and the chart series always describe the same records.
type listResponse struct {
	Items        []ledger.ListItem     `json:"items"`
	Totals       ledger.TotalsView     `json:"totals"`
	Series       []core.CategoryAmount `json:"series"`
	Transactions []core.Transaction    `json:"transactions"`
}

func (l *listResponse) RenderList(items []ledger.ListItem) error {
	l.Items = items
	return nil
}

func (l *listResponse) RenderTotals(totals ledger.TotalsView) error {
	l.Totals = totals
	return nil
}

func (l *listResponse) RenderSeries(series []core.CategoryAmount) error {
	l.Series = series
	return nil
}

type createResponse struct {
	ID string `json:"id"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	records := s.svc.List(criteria)
	resp := &listResponse{Transactions: records}
	if err := ledger.Render(records, s.svc.CurrencySymbol(), resp, resp, resp); err != nil {
		writeError(w, r, http.StatusInternalServerError, "render failed")
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := decodeTransaction(w, r)
	if err != nil {
		s.writeDecodeError(w, r, err)
		return
	}

	id, err := s.svc.Add(r.Context(), t)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/transactions/"+id)
	writeJSON(w, r, http.StatusCreated, createResponse{ID: id})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, err := decodeTransaction(w, r)
	if err != nil {
		s.writeDecodeError(w, r, err)
		return
	}

	if err := s.svc.Update(r.Context(), id, t); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Get(r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, t)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, s.svc.Summary(criteria))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, categoriesResponse{Categories: s.svc.Categories()})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.svc.Export(r.Context(), &buf); err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			writeError(w, r, http.StatusNotFound, export.EmptyNotice)
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Export failed",
			log.NewFields().WithOperation(log.OpExport).WithError(err).ToSlice()...)
		writeError(w, r, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(time.Now())+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	if core.IsValidationError(err) {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	writeError(w, r, http.StatusBadRequest, err.Error())
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case core.IsValidationError(err):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Ledger operation failed",
			append(log.NewFields().WithError(err).WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.UserAgent()).ToSlice(),
				log.FieldErrorType, log.ErrorTypeInternal)...)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
