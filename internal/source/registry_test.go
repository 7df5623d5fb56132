package source

import (
	"context"
	"testing"

	"github.com/komsit37/fast10k/pkg/model"
)

type fakeAdapter struct{}

func (fakeAdapter) ResolveIssuer(ctx context.Context, ticker string) (Identity, error) {
	return Identity{Value: ticker}, nil
}
func (fakeAdapter) ListFilings(ctx context.Context, identity Identity, filter model.Query, limit int) ([]model.Document, error) {
	return nil, nil
}
func (fakeAdapter) FetchDocument(ctx context.Context, doc model.Document, format model.Format) (Locator, error) {
	return Locator{}, nil
}
func (fakeAdapter) AllowedFormats() []model.Format { return []model.Format{model.FormatXBRL} }

func TestRegistryGetKnownSources(t *testing.T) {
	r := NewRegistry(fakeAdapter{}, fakeAdapter{})

	for _, name := range []model.Source{model.SourceEDGAR, model.SourceEDINET, model.SourceTDNet} {
		if _, err := r.Get(name); err != nil {
			t.Errorf("Get(%s): %v", name, err)
		}
	}
}

func TestRegistryGetUnknownSource(t *testing.T) {
	r := NewRegistry(fakeAdapter{}, fakeAdapter{})
	if _, err := r.Get(model.Source("bogus")); err == nil {
		t.Error("expected an error for an unregistered source name")
	}
}

func TestRegistryTDNetStubNotImplemented(t *testing.T) {
	r := NewRegistry(fakeAdapter{}, fakeAdapter{})
	tdnet, err := r.Get(model.SourceTDNet)
	if err != nil {
		t.Fatalf("Get(TDNet): %v", err)
	}
	if _, err := tdnet.ResolveIssuer(context.Background(), "1234"); err == nil {
		t.Error("expected the TDNet stub to report not-implemented")
	}
}

func TestRegistryListOrder(t *testing.T) {
	r := NewRegistry(fakeAdapter{}, fakeAdapter{})
	names := r.List()
	if len(names) != 3 {
		t.Fatalf("len(names) = %d, want 3", len(names))
	}
	if names[0] != model.SourceEDGAR || names[1] != model.SourceEDINET || names[2] != model.SourceTDNet {
		t.Errorf("names = %v, want [EDGAR EDINET TDNET]", names)
	}
}
