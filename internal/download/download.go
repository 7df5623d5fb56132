// Package download implements the resolve → list → filter → fetch →
// atomic-write → upsert pipeline that materializes filings to disk.
package download

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/komsit37/fast10k/internal/errs"
	"github.com/komsit37/fast10k/internal/indexer"
	"github.com/komsit37/fast10k/internal/source"
	"github.com/komsit37/fast10k/internal/store"
	"github.com/komsit37/fast10k/internal/transport"
	"github.com/komsit37/fast10k/pkg/model"
)

// maxConcurrentPipelines bounds how many filings are fetched and written at
// once, across every source — higher brings no throughput gain against the
// per-bucket rate limiters, which are the real gate.
const maxConcurrentPipelines = 8

// Request describes one download invocation: what to find and where to put
// it. Limit defaults to 5 when zero, matching the CLI's default.
type Request struct {
	Source     model.Source
	Ticker     string
	FilingType *model.FilingType
	From       model.Query // zero value skips date filtering
	Format     model.Format
	Limit      int
	OutputRoot string
}

// Result reports what a Run produced: the documents successfully
// materialized, and any survivors that failed in isolation rather than
// aborting the whole batch.
type Result struct {
	Downloaded []model.Document
	Failed     []FailedDownload
}

// FailedDownload names a document whose fetch or write step failed.
type FailedDownload struct {
	Document model.Document
	Err      error
}

// Pipeline wires the registry, store, and indexer needed to run downloads.
type Pipeline struct {
	registry *source.Registry
	store    *store.Store
	indexer  *indexer.Indexer
	client   *transport.Client
	log      *logrus.Logger
}

// New builds a download Pipeline.
func New(registry *source.Registry, st *store.Store, ix *indexer.Indexer, client *transport.Client, log *logrus.Logger) *Pipeline {
	return &Pipeline{registry: registry, store: st, indexer: ix, client: client, log: log}
}

// Run executes the full pipeline for req and returns every document it
// materialized to disk, plus any that failed in isolation.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 5
	}

	adapter, err := p.registry.Get(req.Source)
	if err != nil {
		return Result{}, err
	}
	if !req.Format.AllowedFor(req.Source) {
		return Result{}, &errs.ConfigError{Key: "format", Detail: fmt.Sprintf("%s is not allowed for %s", req.Format, req.Source)}
	}

	identity, err := adapter.ResolveIssuer(ctx, req.Ticker)
	if err != nil {
		return Result{}, err
	}

	filter := req.From
	filter.Ticker = req.Ticker
	filter.Source = req.Source
	filter.FilingType = req.FilingType

	candidates, err := p.listCandidates(ctx, req.Source, adapter, identity, filter, limit)
	if err != nil {
		return Result{}, err
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return p.fetchAll(ctx, adapter, candidates, req.Format, req.OutputRoot)
}

// listCandidates dispatches by source: EDGAR's adapter enumerates directly;
// EDINET has no per-issuer endpoint, so freshness is ensured first and the
// store answers the query restricted to the issuer's ticker.
func (p *Pipeline) listCandidates(ctx context.Context, src model.Source, adapter source.Source, identity source.Identity, filter model.Query, limit int) ([]model.Document, error) {
	if src != model.SourceEDINET {
		return adapter.ListFilings(ctx, identity, filter, limit)
	}

	if p.indexer != nil {
		if err := p.indexer.EnsureFresh(ctx, model.SourceEDINET); err != nil {
			return nil, err
		}
	}
	return p.store.FindDocuments(filter, limit)
}

// fetchAll fetches, writes, and upserts each candidate, bounded to
// maxConcurrentPipelines concurrent pipelines. Each survivor's fetch/write/
// upsert is isolated: one failure is recorded and the batch continues.
func (p *Pipeline) fetchAll(ctx context.Context, adapter source.Source, candidates []model.Document, format model.Format, outputRoot string) (Result, error) {
	sem := semaphore.NewWeighted(maxConcurrentPipelines)
	g, gctx := errgroup.WithContext(ctx)

	var result Result
	resultCh := make(chan any, len(candidates))

	for _, doc := range candidates {
		doc := doc
		if err := sem.Acquire(ctx, 1); err != nil {
			return result, &errs.CancellationError{Op: "download.fetchAll"}
		}
		g.Go(func() error {
			defer sem.Release(1)

			written, err := p.fetchOne(gctx, adapter, doc, format, outputRoot)
			if err != nil {
				p.log.WithFields(logrus.Fields{"source": doc.Source, "id": doc.ID, "err": err}).
					Warn("download: fetch failed, continuing with remaining candidates")
				resultCh <- FailedDownload{Document: doc, Err: err}
				return nil
			}
			resultCh <- written
			return nil
		})
	}

	err := g.Wait()
	close(resultCh)
	for item := range resultCh {
		switch v := item.(type) {
		case model.Document:
			result.Downloaded = append(result.Downloaded, v)
		case FailedDownload:
			result.Failed = append(result.Failed, v)
		}
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

func (p *Pipeline) fetchOne(ctx context.Context, adapter source.Source, doc model.Document, format model.Format, outputRoot string) (model.Document, error) {
	locator, err := adapter.FetchDocument(ctx, doc, format)
	if err != nil {
		return model.Document{}, err
	}

	contentPath, err := p.materialize(ctx, doc, format, locator, outputRoot)
	if err != nil {
		return model.Document{}, err
	}

	doc.ContentPath = contentPath
	doc.Format = format
	if err := p.store.UpsertDocument(doc); err != nil {
		return model.Document{}, err
	}
	return doc, nil
}
