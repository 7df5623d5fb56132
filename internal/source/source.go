// Package source defines the closed adapter interface every regulatory feed
// implements, and the dispatch registry that looks one up by name.
package source

import (
	"context"

	"github.com/komsit37/fast10k/pkg/model"
)

// Identity is a source's canonical, source-native identifier for an issuer:
// a zero-padded CIK for EDGAR, an EDINET code for EDINET.
type Identity struct {
	Value string
}

// Locator names the remote payload(s) a fetch_document call resolved to, and
// the artifact's source-side filename. The download pipeline does not read
// Filename; it writes under its own deterministic layout. URLs holds
// more than one entry only for the "complete" format, where a filing is a
// package of several member documents.
type Locator struct {
	URLs     []string
	Filename string
}

// Source is the closed variant every regulatory feed adapter implements.
// The set of implementations is fixed by the registry below — this is
// deliberately not a plugin surface.
type Source interface {
	ResolveIssuer(ctx context.Context, ticker string) (Identity, error)
	ListFilings(ctx context.Context, identity Identity, filter model.Query, limit int) ([]model.Document, error)
	FetchDocument(ctx context.Context, doc model.Document, format model.Format) (Locator, error)
	AllowedFormats() []model.Format
}
