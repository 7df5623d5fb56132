package edinet

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/komsit37/fast10k/internal/config"
	"github.com/komsit37/fast10k/internal/errs"
	"github.com/komsit37/fast10k/internal/source"
	"github.com/komsit37/fast10k/internal/store"
	"github.com/komsit37/fast10k/internal/transport"
	"github.com/komsit37/fast10k/pkg/model"
)

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

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "fast10k.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAllowedFormatsExcludesHTMLAndPlainText(t *testing.T) {
	a := NewAdapter(testClient(t), testStore(t), "")
	for _, f := range a.AllowedFormats() {
		if f == model.FormatHTML || f == model.FormatPlainText {
			t.Errorf("AllowedFormats includes %s, which EDINET's per-document endpoint does not serve", f)
		}
	}
}

func TestResolveIssuerUsesStoreOnly(t *testing.T) {
	st := testStore(t)
	if err := st.LoadIssuers([]model.Issuer{
		{EdinetCode: "E00001", SecuritiesCode: "72030", Name: "Toyota Motor Corp"},
	}); err != nil {
		t.Fatalf("LoadIssuers: %v", err)
	}

	a := NewAdapter(testClient(t), st, "")
	id, err := a.ResolveIssuer(context.Background(), "7203")
	if err != nil {
		t.Fatalf("ResolveIssuer: %v", err)
	}
	if id.Value != "E00001" {
		t.Errorf("Value = %q, want E00001", id.Value)
	}
}

func TestResolveIssuerUnknownTicker(t *testing.T) {
	a := NewAdapter(testClient(t), testStore(t), "")
	_, err := a.ResolveIssuer(context.Background(), "9999")
	if err == nil {
		t.Fatal("expected UnknownIssuerError for a ticker absent from the directory")
	}
}

func TestFetchDocumentRejectsHTML(t *testing.T) {
	a := NewAdapter(testClient(t), testStore(t), "key123")
	doc := model.Document{ID: "S100ABCD", Source: model.SourceEDINET}
	_, err := a.FetchDocument(context.Background(), doc, model.FormatHTML)
	if err == nil {
		t.Fatal("expected an error fetching html from EDINET")
	}
}

func TestFetchDocumentSelectsTypeParamByFormat(t *testing.T) {
	a := NewAdapter(testClient(t), testStore(t), "key123")
	doc := model.Document{ID: "S100ABCD", Source: model.SourceEDINET}

	tests := []struct {
		format   model.Format
		wantType string
	}{
		{model.FormatXBRL, "type=1"},
		{model.FormatPDF, "type=2"},
		{model.FormatComplete, "type=5"},
	}
	for _, tt := range tests {
		loc, err := a.FetchDocument(context.Background(), doc, tt.format)
		if err != nil {
			t.Fatalf("FetchDocument(%s): %v", tt.format, err)
		}
		if len(loc.URLs) != 1 {
			t.Fatalf("len(URLs) = %d, want 1", len(loc.URLs))
		}
		if !strings.Contains(loc.URLs[0], tt.wantType) {
			t.Errorf("URL %q does not contain %q", loc.URLs[0], tt.wantType)
		}
		if !strings.Contains(loc.URLs[0], "Subscription-Key=key123") {
			t.Errorf("URL %q missing subscription key", loc.URLs[0])
		}
	}
}

func TestFetchDocumentRequiresAPIKey(t *testing.T) {
	a := NewAdapter(testClient(t), testStore(t), "")
	doc := model.Document{ID: "S100ABCD", Source: model.SourceEDINET}
	_, err := a.FetchDocument(context.Background(), doc, model.FormatXBRL)
	var authErr *errs.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("FetchDocument with no api key: err = %v, want *errs.AuthError", err)
	}
}

func TestFetchManifestRequiresAPIKey(t *testing.T) {
	a := NewAdapter(testClient(t), testStore(t), "")
	_, err := a.FetchManifest(context.Background(), "2024-06-20")
	var authErr *errs.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("FetchManifest with no api key: err = %v, want *errs.AuthError", err)
	}
}

func TestListFilingsDelegatesToStore(t *testing.T) {
	st := testStore(t)
	doc := model.Document{
		ID: "S100ABCD", Ticker: "7203", CompanyName: "Toyota Motor Corp",
		FilingType: model.FilingAnnualReport, Source: model.SourceEDINET,
		FilingDate: model.TodayIn(model.SourceEDINET), Format: model.FormatXBRL,
	}
	if err := st.UpsertDocument(doc); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}

	a := NewAdapter(testClient(t), st, "")
	docs, err := a.ListFilings(context.Background(), source.Identity{Value: "E00001"}, model.Query{Ticker: "7203"}, 0)
	if err != nil {
		t.Fatalf("ListFilings: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1", len(docs))
	}
}

func TestFetchManifestParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"docID":"S100ABCD","edinetCode":"E00001","secCode":"72030","filerName":"Toyota Motor Corp","docTypeCode":"120","submitDateTime":"2024-06-20 09:00"}]}`))
	}))
	defer srv.Close()

	origManifestURL := manifestURL
	manifestURL = srv.URL
	defer func() { manifestURL = origManifestURL }()

	a := NewAdapter(testClient(t), testStore(t), "key123")
	entries, err := a.FetchManifest(context.Background(), "2024-06-20")
	if err != nil {
		t.Fatalf("FetchManifest: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].DocID != "S100ABCD" {
		t.Errorf("DocID = %q, want S100ABCD", entries[0].DocID)
	}
}
