package edinet

import (
	"context"
	"fmt"

	"github.com/komsit37/fast10k/internal/errs"
	"github.com/komsit37/fast10k/internal/source"
	"github.com/komsit37/fast10k/internal/store"
	"github.com/komsit37/fast10k/internal/transport"
	"github.com/komsit37/fast10k/pkg/model"
)

// Adapter implements source.Source for EDINET. Unlike EDGAR, identity
// resolution and filing enumeration both go through the store rather than
// direct network calls: EDINET's only enumeration primitive is the daily
// manifest, which the indexer — not this adapter — walks.
type Adapter struct {
	client *transport.Client
	store  *store.Store
	apiKey string
}

// NewAdapter builds an EDINET adapter over the shared HTTP client, the
// document store (for identity and ad-hoc filing lookups), and the
// EDINET API subscription key.
func NewAdapter(client *transport.Client, st *store.Store, apiKey string) *Adapter {
	return &Adapter{client: client, store: st, apiKey: apiKey}
}

// AllowedFormats excludes html and plain-text: EDINET's per-document
// endpoint only ever serves xbrl, pdf, or the complete package.
func (a *Adapter) AllowedFormats() []model.Format {
	return []model.Format{model.FormatXBRL, model.FormatPDF, model.FormatComplete}
}

// ResolveIssuer is a pure store lookup against the issuer directory loaded
// from the EDINET static CSV — no network fallback exists.
func (a *Adapter) ResolveIssuer(ctx context.Context, ticker string) (source.Identity, error) {
	iss, err := a.store.LookupIssuer(ticker)
	if err != nil {
		return source.Identity{}, err
	}
	if iss == nil {
		return source.Identity{}, &errs.UnknownIssuerError{Ticker: ticker, Source: string(model.SourceEDINET)}
	}
	return source.Identity{Value: iss.EdinetCode}, nil
}

// ListFilings serves ad-hoc single-issuer queries from the store, which the
// indexer's day-walk is assumed to have already populated; the adapter
// itself never iterates issuer-by-issuer since EDINET exposes no per-issuer
// endpoint.
func (a *Adapter) ListFilings(ctx context.Context, identity source.Identity, filter model.Query, limit int) ([]model.Document, error) {
	filter.Source = model.SourceEDINET
	return a.store.FindDocuments(filter, limit)
}

// FetchDocument resolves a Locator for doc's per-docID artifact endpoint,
// selecting the `type` parameter by format: 1 for the xbrl zip, 2 for pdf,
// 5 for the complete package.
func (a *Adapter) FetchDocument(ctx context.Context, doc model.Document, format model.Format) (source.Locator, error) {
	if !format.AllowedFor(model.SourceEDINET) {
		return source.Locator{}, &errs.ConfigError{Key: "format", Detail: string(format) + " is not allowed for EDINET"}
	}

	if a.apiKey == "" {
		return source.Locator{}, &errs.AuthError{Source: string(model.SourceEDINET), Detail: "no API key configured (FAST10K_EDINET_API_KEY or edinet_api_key)"}
	}

	var typeParam, ext string
	switch format {
	case model.FormatXBRL:
		typeParam, ext = "1", "zip"
	case model.FormatPDF:
		typeParam, ext = "2", "pdf"
	case model.FormatComplete:
		typeParam, ext = "5", "zip"
	}

	url := fmt.Sprintf(documentURL, doc.ID) + "?type=" + typeParam + "&Subscription-Key=" + a.apiKey
	return source.Locator{URLs: []string{url}, Filename: doc.ID + "." + ext}, nil
}
