package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/komsit37/fast10k/internal/config"
	"github.com/komsit37/fast10k/internal/source"
	"github.com/komsit37/fast10k/internal/store"
	"github.com/komsit37/fast10k/internal/transport"
	"github.com/komsit37/fast10k/pkg/model"
)

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(nopWriter{})
	return log
}

func testClient(t *testing.T) *transport.Client {
	t.Helper()
	cfg := &config.Config{UserAgent: "fast10k-test/0.1", HTTPTimeoutSeconds: 5, EdgarAPIDelayMs: 1, EdinetAPIDelayMs: 1, EdinetDownloadDelayMs: 1}
	c, err := transport.NewClient(cfg, testLogger())
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

// fakeAdapter is a source.Source test double whose list/fetch behavior is
// scripted per test, so the pipeline's orchestration can be exercised
// without a live EDGAR/EDINET dependency.
type fakeAdapter struct {
	identity source.Identity
	filings  []model.Document
	locators map[string]source.Locator // keyed by doc.ID
	formats  []model.Format
}

func (f *fakeAdapter) ResolveIssuer(ctx context.Context, ticker string) (source.Identity, error) {
	return f.identity, nil
}

func (f *fakeAdapter) ListFilings(ctx context.Context, identity source.Identity, filter model.Query, limit int) ([]model.Document, error) {
	var out []model.Document
	for _, d := range f.filings {
		if filter.Matches(d) {
			out = append(out, d)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeAdapter) FetchDocument(ctx context.Context, doc model.Document, format model.Format) (source.Locator, error) {
	return f.locators[doc.ID], nil
}

func (f *fakeAdapter) AllowedFormats() []model.Format { return f.formats }

func TestRunDownloadsAndWritesAtomically(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("filing body"))
	}))
	defer srv.Close()

	doc := model.Document{
		ID: "0000320193-24-000123", Ticker: "AAPL", CompanyName: "Apple Inc.",
		FilingType: model.Filing10K, Source: model.SourceEDGAR,
		FilingDate: time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
	}
	adapter := &fakeAdapter{
		filings:  []model.Document{doc},
		locators: map[string]source.Locator{doc.ID: {URLs: []string{srv.URL}, Filename: "filing.xml"}},
		formats:  []model.Format{model.FormatXBRL},
	}

	registry := source.NewRegistry(adapter, nil)
	st := testStore(t)
	outputRoot := t.TempDir()

	p := New(registry, st, nil, testClient(t), testLogger())
	result, err := p.Run(context.Background(), Request{
		Source: model.SourceEDGAR, Ticker: "AAPL", Format: model.FormatXBRL, Limit: 5, OutputRoot: outputRoot,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Downloaded) != 1 {
		t.Fatalf("len(Downloaded) = %d, want 1", len(result.Downloaded))
	}
	if len(result.Failed) != 0 {
		t.Fatalf("len(Failed) = %d, want 0", len(result.Failed))
	}

	wantPath := filepath.Join(outputRoot, "EDGAR", "AAPL", "2024-11-01_0000320193-24-000123_xbrl.xml")
	if result.Downloaded[0].ContentPath != wantPath {
		t.Errorf("ContentPath = %q, want %q", result.Downloaded[0].ContentPath, wantPath)
	}
	body, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(body) != "filing body" {
		t.Errorf("file content = %q, want %q", body, "filing body")
	}

	// no stray temp files left behind
	entries, err := os.ReadDir(filepath.Dir(wantPath))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("stray temp file left behind: %s", e.Name())
		}
	}

	docs, err := st.FindDocuments(model.Query{Ticker: "AAPL"}, 0)
	if err != nil {
		t.Fatalf("FindDocuments: %v", err)
	}
	if len(docs) != 1 || docs[0].ContentPath != wantPath {
		t.Errorf("store was not upserted with content_path set")
	}
}

func TestRunRejectsDisallowedFormat(t *testing.T) {
	adapter := &fakeAdapter{formats: []model.Format{model.FormatXBRL}}
	registry := source.NewRegistry(adapter, nil)
	p := New(registry, testStore(t), nil, testClient(t), testLogger())

	_, err := p.Run(context.Background(), Request{
		Source: model.SourceEDGAR, Ticker: "AAPL", Format: model.FormatPDF, OutputRoot: t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected an error requesting pdf from EDGAR")
	}
}

func TestRunIsolatesPerDocumentFetchFailure(t *testing.T) {
	okSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok body"))
	}))
	defer okSrv.Close()

	okDoc := model.Document{ID: "doc-ok", Ticker: "AAPL", FilingType: model.Filing10K, Source: model.SourceEDGAR, FilingDate: time.Now()}
	badDoc := model.Document{ID: "doc-bad", Ticker: "AAPL", FilingType: model.Filing10K, Source: model.SourceEDGAR, FilingDate: time.Now()}

	adapter := &fakeAdapter{
		filings: []model.Document{okDoc, badDoc},
		locators: map[string]source.Locator{
			okDoc.ID:  {URLs: []string{okSrv.URL}, Filename: "ok.xml"},
			badDoc.ID: {}, // no URLs: materialize fails for this one
		},
		formats: []model.Format{model.FormatXBRL},
	}

	registry := source.NewRegistry(adapter, nil)
	p := New(registry, testStore(t), nil, testClient(t), testLogger())

	result, err := p.Run(context.Background(), Request{
		Source: model.SourceEDGAR, Ticker: "AAPL", Format: model.FormatXBRL, Limit: 5, OutputRoot: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Run: %v (one bad candidate should not abort the batch)", err)
	}
	if len(result.Downloaded) != 1 {
		t.Errorf("len(Downloaded) = %d, want 1", len(result.Downloaded))
	}
	if len(result.Failed) != 1 {
		t.Errorf("len(Failed) = %d, want 1", len(result.Failed))
	}
}

func TestTargetPathDeterministicLayout(t *testing.T) {
	doc := model.Document{
		ID: "S100ABCD", Ticker: "72030", Source: model.SourceEDINET,
		FilingDate: time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
	}
	got := targetPath("/data", doc, model.FormatPDF)
	want := filepath.Join("/data", "EDINET", "72030", "2024-06-20_S100ABCD_pdf.pdf")
	if got != want {
		t.Errorf("targetPath = %q, want %q", got, want)
	}
}
