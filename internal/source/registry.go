package source

import (
	"context"

	"github.com/komsit37/fast10k/internal/errs"
	"github.com/komsit37/fast10k/pkg/model"
)

// Registry dispatches by model.Source name to a concrete adapter. Three
// entries only: edgar, edinet, and a tdnet stub. There is no
// Register/Unregister — the variant set is closed at construction.
type Registry struct {
	adapters map[model.Source]Source
}

// NewRegistry wires the given adapters under their source names. TDNet is
// always the not-implemented stub; a nil edgar or edinet adapter is left
// unregistered, and Get then reports an unknown-source error for it.
func NewRegistry(edgar, edinet Source) *Registry {
	r := &Registry{adapters: map[model.Source]Source{
		model.SourceTDNet: tdnetStub{},
	}}
	if edgar != nil {
		r.adapters[model.SourceEDGAR] = edgar
	}
	if edinet != nil {
		r.adapters[model.SourceEDINET] = edinet
	}
	return r
}

// Get returns the adapter registered for name.
func (r *Registry) Get(name model.Source) (Source, error) {
	a, ok := r.adapters[name]
	if !ok {
		return nil, &errs.ConfigError{Key: "source", Detail: "unknown source " + string(name)}
	}
	return a, nil
}

// List returns the names of every registered source, EDGAR/EDINET/TDNet in
// that fixed order.
func (r *Registry) List() []model.Source {
	var names []model.Source
	for _, n := range []model.Source{model.SourceEDGAR, model.SourceEDINET, model.SourceTDNet} {
		if _, ok := r.adapters[n]; ok {
			names = append(names, n)
		}
	}
	return names
}

// tdnetStub reserves the TDNet seam in the registry without implementing
// it: every method fails with a not-implemented config error rather than
// silently returning empty results.
type tdnetStub struct{}

func (tdnetStub) ResolveIssuer(ctx context.Context, ticker string) (Identity, error) {
	return Identity{}, tdnetNotImplemented()
}

func (tdnetStub) ListFilings(ctx context.Context, identity Identity, filter model.Query, limit int) ([]model.Document, error) {
	return nil, tdnetNotImplemented()
}

func (tdnetStub) FetchDocument(ctx context.Context, doc model.Document, format model.Format) (Locator, error) {
	return Locator{}, tdnetNotImplemented()
}

func (tdnetStub) AllowedFormats() []model.Format { return nil }

func tdnetNotImplemented() error {
	return &errs.ConfigError{Key: "source", Detail: "TDNet adapter is not implemented"}
}
