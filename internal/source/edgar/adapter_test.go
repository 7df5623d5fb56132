package edgar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/komsit37/fast10k/internal/config"
	"github.com/komsit37/fast10k/internal/errs"
	"github.com/komsit37/fast10k/internal/source"
	"github.com/komsit37/fast10k/internal/transport"
	"github.com/komsit37/fast10k/pkg/model"
)

func withTickersURL(url string) func() {
	orig := tickersURL
	tickersURL = url
	return func() { tickersURL = orig }
}

func withSubmissionsURL(tmpl string) func() {
	orig := submissionsURL
	submissionsURL = tmpl
	return func() { submissionsURL = orig }
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func testClient(t *testing.T) *transport.Client {
	t.Helper()
	log := logrus.New()
	log.SetOutput(nopWriter{})
	cfg := &config.Config{
		UserAgent:             "fast10k-test/0.1",
		HTTPTimeoutSeconds:    5,
		EdgarAPIDelayMs:       1,
		EdinetAPIDelayMs:      1,
		EdinetDownloadDelayMs: 1,
	}
	c, err := transport.NewClient(cfg, log)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestPadCIK(t *testing.T) {
	tests := []struct{ input, want string }{
		{"320193", "0000320193"},
		{"0000320193", "0000320193"},
		{"1", "0000000001"},
	}
	for _, tt := range tests {
		if got := padCIK(tt.input); got != tt.want {
			t.Errorf("padCIK(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"12345", true},
		{"", false},
		{"abc", false},
		{"12a34", false},
	}
	for _, tt := range tests {
		if got := isNumeric(tt.input); got != tt.want {
			t.Errorf("isNumeric(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestResolveIssuerByTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"0":{"cik_str":320193,"ticker":"AAPL","title":"Apple Inc."}}`))
	}))
	defer srv.Close()

	a := NewAdapter(testClient(t))
	defer withTickersURL(srv.URL)()

	id, err := a.ResolveIssuer(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("ResolveIssuer: %v", err)
	}
	if id.Value != "0000320193" {
		t.Errorf("Value = %q, want 0000320193", id.Value)
	}
}

func TestResolveIssuerUnknownTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"0":{"cik_str":320193,"ticker":"AAPL","title":"Apple Inc."}}`))
	}))
	defer srv.Close()

	a := NewAdapter(testClient(t))
	defer withTickersURL(srv.URL)()

	_, err := a.ResolveIssuer(context.Background(), "ZZZZ")
	if err == nil {
		t.Fatal("expected an UnknownIssuerError for a ticker absent from the mapping")
	}
}

func TestListFilingsAppliesFilingTypeFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"cik": "0000320193",
			"name": "Apple Inc.",
			"tickers": ["AAPL"],
			"filings": {"recent": {
				"accessionNumber": ["0000320193-24-000001", "0000320193-24-000002"],
				"filingDate": ["2024-01-01", "2024-02-01"],
				"form": ["10-K", "8-K"],
				"primaryDocument": ["a.htm", "b.htm"]
			}}
		}`))
	}))
	defer srv.Close()

	a := NewAdapter(testClient(t))
	defer withSubmissionsURL(srv.URL + "?cik=%s")()

	ft := model.Filing10K
	docs, err := a.ListFilings(context.Background(), source.Identity{Value: "0000320193"}, model.Query{FilingType: &ft}, 10)
	if err != nil {
		t.Fatalf("ListFilings: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1", len(docs))
	}
	if docs[0].FilingType.Code != "10-K" {
		t.Errorf("FilingType = %v, want 10-K", docs[0].FilingType)
	}
}

func TestFetchDocumentHTMLUsesPrimaryDocument(t *testing.T) {
	a := NewAdapter(testClient(t))
	doc := model.Document{
		ID: "0000320193-24-000001", CIK: "0000320193",
		AccessionNumber: "0000320193-24-000001", PrimaryDocument: "aapl-20230930.htm",
	}
	loc, err := a.FetchDocument(context.Background(), doc, model.FormatHTML)
	if err != nil {
		t.Fatalf("FetchDocument: %v", err)
	}
	if len(loc.URLs) != 1 || !strings.HasSuffix(loc.URLs[0], "aapl-20230930.htm") {
		t.Errorf("URLs = %v, want the primaryDocument URL", loc.URLs)
	}
	if loc.Filename != "aapl-20230930.htm" {
		t.Errorf("Filename = %q, want aapl-20230930.htm", loc.Filename)
	}
}

func TestFetchDocumentHTMLRequiresPrimaryDocument(t *testing.T) {
	a := NewAdapter(testClient(t))
	doc := model.Document{ID: "0000320193-24-000001", CIK: "0000320193", AccessionNumber: "0000320193-24-000001"}
	_, err := a.FetchDocument(context.Background(), doc, model.FormatHTML)
	var cfgErr *errs.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("FetchDocument with no primaryDocument: err = %v, want *errs.ConfigError", err)
	}
}

func TestListFilingsDefaultLimit(t *testing.T) {
	var accNos, dates, forms, primaries []string
	for i := 0; i < 10; i++ {
		accNos = append(accNos, "0000320193-24-00000"+string(rune('0'+i)))
		dates = append(dates, "2024-01-01")
		forms = append(forms, "10-K")
		primaries = append(primaries, "a.htm")
	}
	body := `{"cik":"0000320193","name":"Apple Inc.","tickers":["AAPL"],"filings":{"recent":{
		"accessionNumber":["` + strings.Join(accNos, `","`) + `"],
		"filingDate":["` + strings.Join(dates, `","`) + `"],
		"form":["` + strings.Join(forms, `","`) + `"],
		"primaryDocument":["` + strings.Join(primaries, `","`) + `"]
	}}}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	a := NewAdapter(testClient(t))
	defer withSubmissionsURL(srv.URL + "?cik=%s")()

	docs, err := a.ListFilings(context.Background(), source.Identity{Value: "0000320193"}, model.Query{}, 0)
	if err != nil {
		t.Fatalf("ListFilings: %v", err)
	}
	if len(docs) != 5 {
		t.Errorf("len(docs) = %d, want 5 (default limit)", len(docs))
	}
}

