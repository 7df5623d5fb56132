// Package edgar adapts SEC EDGAR's submissions and company-tickers JSON
// APIs to the source.Source interface.
package edgar

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"

	"github.com/alphadose/haxmap"

	"github.com/komsit37/fast10k/internal/errs"
	"github.com/komsit37/fast10k/internal/source"
	"github.com/komsit37/fast10k/internal/transport"
	"github.com/komsit37/fast10k/pkg/model"
)

// URL templates are package-level vars, not consts, so tests can point them
// at an httptest server instead of the live SEC endpoints.
var (
	tickersURL     = "https://www.sec.gov/files/company_tickers.json"
	submissionsURL = "https://data.sec.gov/submissions/CIK%s.json"
	archiveURL     = "https://www.sec.gov/Archives/edgar/data/%s/%s/%s"
	atomRecentURL  = "https://www.sec.gov/cgi-bin/browse-edgar?action=getcurrent&type=%s&output=atom"
)

// Adapter implements source.Source for SEC EDGAR.
type Adapter struct {
	client *transport.Client

	cikOnce sync.Once
	cikMap  *haxmap.Map[string, string] // uppercased ticker -> CIK, cached for the process lifetime
	cikErr  error
}

// NewAdapter builds an EDGAR adapter over the shared HTTP client.
func NewAdapter(client *transport.Client) *Adapter {
	return &Adapter{client: client}
}

// AllowedFormats reports every format except pdf, which EDGAR does not
// natively serve for its own filings.
func (a *Adapter) AllowedFormats() []model.Format {
	return []model.Format{model.FormatPlainText, model.FormatHTML, model.FormatXBRL, model.FormatIXBRL, model.FormatComplete}
}

// ResolveIssuer maps a ticker to its CIK via the published company-tickers
// mapping, loaded once and cached for the process lifetime. Comparison is
// case-insensitive on uppercased ASCII.
func (a *Adapter) ResolveIssuer(ctx context.Context, ticker string) (source.Identity, error) {
	a.loadCIKMap(ctx)
	if a.cikErr != nil {
		return source.Identity{}, a.cikErr
	}

	sym := strings.ToUpper(strings.TrimSpace(ticker))
	if cik, ok := a.cikMap.Get(sym); ok {
		return source.Identity{Value: padCIK(cik)}, nil
	}
	if isNumeric(sym) {
		return source.Identity{Value: padCIK(sym)}, nil
	}
	return source.Identity{}, &errs.UnknownIssuerError{Ticker: ticker, Source: string(model.SourceEDGAR)}
}

func (a *Adapter) loadCIKMap(ctx context.Context) {
	a.cikOnce.Do(func() {
		body, err := a.client.Get(ctx, transport.BucketEDGAR, tickersURL, nil)
		if err != nil {
			a.cikErr = err
			return
		}

		var raw map[string]edgarTickerEntry
		if err := json.Unmarshal(body, &raw); err != nil {
			a.cikErr = &errs.ParseError{Source: string(model.SourceEDGAR), ID: "company_tickers.json", Err: err}
			return
		}

		m := haxmap.New[string, string]()
		for _, entry := range raw {
			m.Set(strings.ToUpper(entry.Ticker), padCIK(strconv.Itoa(entry.CIKStr)))
		}
		a.cikMap = m
	})
}
