// Package indexer implements the self-healing catalog refresh: stats,
// update, build, and clear over the document store, plus the freshness
// protocol every search operation runs through before querying.
package indexer

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/komsit37/fast10k/internal/errs"
	"github.com/komsit37/fast10k/internal/source/edgar"
	"github.com/komsit37/fast10k/internal/source/edinet"
	"github.com/komsit37/fast10k/internal/store"
	"github.com/komsit37/fast10k/pkg/model"
)

// defaultStaleAfterDays is the freshness protocol's fallback threshold, used
// only when the caller passes a non-positive staleAfterDays to New.
const defaultStaleAfterDays = 2

// Indexer owns the reconciliation loop between the store and the EDGAR/
// EDINET adapters. EDGAR has no day manifest of its own, so its update()
// path differs from EDINET's day-walk — see Update.
type Indexer struct {
	store          *store.Store
	edgar          *edgar.Adapter
	edinet         *edinet.Adapter
	log            *logrus.Logger
	staleAfterDays int
}

// New builds an Indexer. Either adapter may be nil if that source's
// operations are never exercised by the caller (e.g. a process that only
// ever touches EDINET). staleAfterDays is the freshness protocol's
// threshold, normally Config.IndexStalenessDays; a non-positive value falls
// back to defaultStaleAfterDays.
func New(st *store.Store, edgarAdapter *edgar.Adapter, edinetAdapter *edinet.Adapter, log *logrus.Logger, staleAfterDays int) *Indexer {
	if staleAfterDays <= 0 {
		staleAfterDays = defaultStaleAfterDays
	}
	return &Indexer{store: st, edgar: edgarAdapter, edinet: edinetAdapter, log: log, staleAfterDays: staleAfterDays}
}

// Result reports a run's outcome: how many documents were upserted and
// which dates (EDINET only) failed in isolation rather than aborting the
// whole run.
type Result struct {
	DocumentsWritten int
	FailedDates      []string
}

// Stats reports catalog size and per-source date coverage.
func (ix *Indexer) Stats() (store.Stats, error) {
	return ix.store.Stats()
}

// Clear purges the documents table. The issuer directory survives — it is
// reference data from the static CSV bootstrap, not catalog state.
func (ix *Indexer) Clear() error {
	return ix.store.ClearDocuments()
}

// EnsureFresh implements the freshness protocol: if src's newest indexed
// filing_date is older than the configured staleAfterDays in src's own
// jurisdiction, Update runs transparently before the caller's search
// proceeds.
func (ix *Indexer) EnsureFresh(ctx context.Context, src model.Source) error {
	stats, err := ix.store.Stats()
	if err != nil {
		return err
	}

	newest, ok := stats.NewestFilingDate[src]
	if ok && newest != "" {
		t, err := model.ParseSourceDate(src, newest)
		if err == nil && model.DaysStale(src, t) < ix.staleAfterDays {
			return nil
		}
	}

	_, err = ix.Update(ctx, src)
	return err
}

// Update catches up from the most recent indexed date to today, exclusive
// of already-indexed days, for src.
func (ix *Indexer) Update(ctx context.Context, src model.Source) (Result, error) {
	switch src {
	case model.SourceEDINET:
		return ix.updateEDINET(ctx)
	case model.SourceEDGAR:
		return ix.updateEDGAR(ctx)
	default:
		return Result{}, &errs.ConfigError{Key: "source", Detail: "indexer has no update path for " + string(src)}
	}
}

func (ix *Indexer) updateEDINET(ctx context.Context) (Result, error) {
	stats, err := ix.store.Stats()
	if err != nil {
		return Result{}, err
	}

	today := model.TodayIn(model.SourceEDINET)
	from := today.AddDate(0, 0, -ix.staleAfterDays)
	if newest, ok := stats.NewestFilingDate[model.SourceEDINET]; ok && newest != "" {
		if t, err := model.ParseSourceDate(model.SourceEDINET, newest); err == nil {
			from = t.AddDate(0, 0, 1)
		}
	}
	if from.After(today) {
		return Result{}, nil
	}
	return ix.Build(ctx, from, today)
}

// updateEDGAR walks the distinct tickers already on file (a `download` or
// `build` must have seeded at least one ticker first) and re-runs
// list_filings for each, upserting anything new. EDGAR carries no day
// manifest of its own in this API shape, so there is no equivalent to
// EDINET's from/to day-walk.
func (ix *Indexer) updateEDGAR(ctx context.Context) (Result, error) {
	if ix.edgar == nil {
		return Result{}, &errs.ConfigError{Key: "source", Detail: "EDGAR adapter not configured"}
	}

	tickers, err := ix.store.DistinctTickers(model.SourceEDGAR)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for _, ticker := range tickers {
		identity, err := ix.edgar.ResolveIssuer(ctx, ticker)
		if err != nil {
			ix.log.WithFields(logrus.Fields{"ticker": ticker, "err": err}).Warn("edgar catch-up: could not resolve issuer")
			continue
		}
		docs, err := ix.edgar.ListFilings(ctx, identity, model.Query{Ticker: ticker}, 25)
		if err != nil {
			ix.log.WithFields(logrus.Fields{"ticker": ticker, "err": err}).Warn("edgar catch-up: list_filings failed")
			continue
		}
		for _, doc := range docs {
			if err := ix.store.UpsertDocument(doc); err != nil {
				return result, err
			}
			result.DocumentsWritten++
		}
		if err := ctx.Err(); err != nil {
			return result, &errs.CancellationError{Op: "indexer.updateEDGAR"}
		}
	}
	return result, nil
}

// Build walks each calendar day in [from, to] inclusive, fetching EDINET's
// daily manifest and upserting every filing it names. Days are walked
// oldest-first so an interrupted run leaves a contiguous prefix of history
// indexed. A single day's failure is isolated: it is logged and recorded in
// Result.FailedDates, and the walk continues. A credential failure
// (*errs.AuthError) is not isolated: it aborts the walk and is returned.
func (ix *Indexer) Build(ctx context.Context, from, to time.Time) (Result, error) {
	if ix.edinet == nil {
		return Result{}, &errs.ConfigError{Key: "source", Detail: "EDINET adapter not configured"}
	}

	var result Result
	for _, day := range model.DateRange(from, to) {
		if err := ctx.Err(); err != nil {
			return result, &errs.CancellationError{Op: "indexer.Build"}
		}

		dateStr := model.FormatSourceDate(model.SourceEDINET, day)
		entries, err := ix.edinet.FetchManifest(ctx, dateStr)
		if err != nil {
			var authErr *errs.AuthError
			if errors.As(err, &authErr) {
				return result, err
			}
			ix.log.WithFields(logrus.Fields{"date": dateStr, "err": err}).Warn("indexer: manifest fetch failed for this day, continuing")
			result.FailedDates = append(result.FailedDates, dateStr)
			continue
		}

		for _, entry := range entries {
			doc := ix.documentFromManifestEntry(entry, day)
			if err := ix.store.UpsertDocument(doc); err != nil {
				return result, err
			}
			result.DocumentsWritten++
		}
	}
	return result, nil
}

func (ix *Indexer) documentFromManifestEntry(entry edinet.ManifestEntry, day time.Time) model.Document {
	ticker := entry.SecCode
	if iss, err := ix.store.LookupIssuerByEdinetCode(entry.EdinetCode); err == nil && iss != nil && iss.SecuritiesCode != "" {
		ticker = iss.SecuritiesCode
	}

	metadata, err := marshalManifestEntry(entry)
	if err != nil {
		metadata = ""
	}

	return model.Document{
		ID:          entry.DocID,
		Ticker:      ticker,
		CompanyName: entry.FilerName,
		FilingType:  model.MapEDINETDocType(entry.DocTypeCode),
		Source:      model.SourceEDINET,
		FilingDate:  day,
		Format:      model.FormatXBRL,
		Metadata:    metadata,
		DocTypeCode: entry.DocTypeCode,
	}
}
