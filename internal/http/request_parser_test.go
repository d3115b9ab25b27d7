package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"budget/internal/core"
	"budget/internal/ledger"
)

func TestDecodeTransaction(t *testing.T) {
	body := `{"type":"expense","amount":"12.5","category":" Food\u0007 ","date":"2024-03-04","description":"  lunch "}`
	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(body))
	got, err := decodeTransaction(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("decodeTransaction: %v", err)
	}
	want := core.Transaction{
		Type:        core.Expense,
		Amount:      core.NewMoney(12.5),
		Category:    "Food",
		Date:        core.NewDate(2024, 3, 4),
		Description: "lunch",
	}
	if !got.Equal(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDecodeTransactionDefaultsDate(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/transactions",
		strings.NewReader(`{"type":"income","amount":1,"category":"Gift"}`))
	got, err := decodeTransaction(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("decodeTransaction: %v", err)
	}
	today := core.Today()
	if !got.Date.Equal(today.Time) && !got.Date.Equal(today.Add(-24*time.Hour)) {
		t.Fatalf("date = %s, want today", got.Date)
	}
}

func TestDecodeTransactionTooLarge(t *testing.T) {
	big := `{"type":"income","amount":1,"category":"A","description":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(big))
	_, err := decodeTransaction(httptest.NewRecorder(), req)
	var maxErr *http.MaxBytesError
	if !errors.As(err, &maxErr) {
		t.Fatalf("err = %v, want MaxBytesError", err)
	}
}

func TestParseCriteria(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
		check   func(t *testing.T, c ledger.Criteria)
	}{
		{
			name:  "empty",
			query: "",
			check: func(t *testing.T, c ledger.Criteria) {
				if !c.IsEmpty() {
					t.Errorf("expected empty criteria, got %+v", c)
				}
			},
		},
		{
			name:  "all fields",
			query: "category=Food&from=2024-01-01&to=2024-01-31",
			check: func(t *testing.T, c ledger.Criteria) {
				if c.Category != "Food" || c.From.String() != "2024-01-01" || c.To.String() != "2024-01-31" {
					t.Errorf("unexpected criteria %+v", c)
				}
			},
		},
		{name: "bad from", query: "from=yesterday", wantErr: true},
		{name: "bad to", query: "to=2024-13-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/transactions?"+tt.query, nil)
			c, err := parseCriteria(req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCriteria() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, c)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := map[string]string{
		"  plain  ":           "plain",
		"tab\tkept":           "tab\tkept",
		"bell\x07removed":     "bellremoved",
		"multi\nline\r\ntext": "multi\nline\r\ntext",
	}
	for in, want := range tests {
		if got := sanitizeInput(in); got != want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRateLimiterWindow(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	defer rl.stop()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	metrics := &securityMetrics{}

	if !rl.allow("1.1.1.1", metrics) || !rl.allow("1.1.1.1", metrics) {
		t.Fatal("first two requests should pass")
	}
	if rl.allow("1.1.1.1", metrics) {
		t.Fatal("third request should be limited")
	}
	if !rl.allow("2.2.2.2", metrics) {
		t.Fatal("other clients are independent")
	}
	if metrics.rateLimitHits != 1 {
		t.Errorf("rateLimitHits = %d", metrics.rateLimitHits)
	}

	now = now.Add(2 * time.Minute)
	if !rl.allow("1.1.1.1", metrics) {
		t.Fatal("new window should reset the counter")
	}

	now = now.Add(time.Hour)
	if n := rl.cleanupStaleEntries(); n != 2 {
		t.Errorf("cleanupStaleEntries removed %d, want 2", n)
	}
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{"direct", "203.0.113.5:4000", "", "203.0.113.5"},
		{"untrusted proxy ignored", "203.0.113.5:4000", "198.51.100.1", "203.0.113.5"},
		{"trusted proxy", "10.0.0.2:4000", "198.51.100.1, 10.0.0.2", "198.51.100.1"},
		{"trusted proxy bad header", "10.0.0.2:4000", "garbage", "10.0.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := extractClientIP(req); got != tt.want {
				t.Errorf("extractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectSuspiciousRequest(t *testing.T) {
	metrics := &securityMetrics{}
	probe := httptest.NewRequest(http.MethodGet, "/../../etc/passwd", nil)
	if !detectSuspiciousRequest(probe, metrics) {
		t.Error("path traversal should be flagged")
	}
	scanner := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	scanner.Header.Set("User-Agent", "sqlmap/1.7")
	if !detectSuspiciousRequest(scanner, metrics) {
		t.Error("scanner user agent should be flagged")
	}
	normal := httptest.NewRequest(http.MethodGet, "/transactions?category=Food", nil)
	if detectSuspiciousRequest(normal, metrics) {
		t.Error("normal request flagged")
	}
	if metrics.suspiciousRequests != 2 {
		t.Errorf("suspiciousRequests = %d", metrics.suspiciousRequests)
	}
}
