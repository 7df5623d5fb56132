// Package edinet adapts Japan's EDINET disclosure API to the
// source.Source interface. Its defining shape is a day-indexed manifest —
// EDINET has no per-issuer filing list endpoint, so enumeration goes through
// the indexer's date walk rather than this adapter.
package edinet

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/komsit37/fast10k/internal/errs"
	"github.com/komsit37/fast10k/internal/transport"
	"github.com/komsit37/fast10k/pkg/model"
)

var (
	manifestURL = "https://disclosure.edinet-fsa.go.jp/api/v2/documents.json"
	documentURL = "https://disclosure.edinet-fsa.go.jp/api/v2/documents/%s"
)

// ManifestEntry is one filing from a day's manifest, decoded to the six
// fields below; the indexer's day-walk re-encodes these fields into the
// store's metadata column, and other manifest fields are dropped.
type ManifestEntry struct {
	DocID       string `json:"docID"`
	EdinetCode  string `json:"edinetCode"`
	SecCode     string `json:"secCode"`
	FilerName   string `json:"filerName"`
	DocTypeCode string `json:"docTypeCode"`
	SubmitDate  string `json:"submitDateTime"`
}

type manifestResponse struct {
	Results []ManifestEntry `json:"results"`
}

// FetchManifest fetches the full-day manifest for date (YYYY-MM-DD) and
// returns every filing submitted that day, in the API's own order.
func (a *Adapter) FetchManifest(ctx context.Context, date string) ([]ManifestEntry, error) {
	if a.apiKey == "" {
		return nil, &errs.AuthError{Source: string(model.SourceEDINET), Detail: "no API key configured (FAST10K_EDINET_API_KEY or edinet_api_key)"}
	}

	url := fmt.Sprintf("%s?date=%s&type=2&Subscription-Key=%s", manifestURL, date, a.apiKey)

	body, err := a.client.Get(ctx, transport.BucketEDINETMeta, url, nil)
	if err != nil {
		return nil, err
	}

	var resp manifestResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &errs.ParseError{Source: string(model.SourceEDINET), ID: date, Err: err}
	}
	return resp.Results, nil
}
