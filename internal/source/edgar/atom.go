package edgar

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/komsit37/fast10k/internal/errs"
	"github.com/komsit37/fast10k/internal/transport"
	"github.com/komsit37/fast10k/pkg/model"
)

// RecentFilingIDs parses EDGAR's "get current filings" Atom feed, EDGAR's
// closest equivalent to EDINET's daily manifest, and returns each entry's
// GUID for formType, as the feed gives it. The indexer's EDGAR catch-up does
// not call it: updateEDGAR re-runs ListFilings for every ticker on file.
func (a *Adapter) RecentFilingIDs(ctx context.Context, formType string) ([]string, error) {
	url := fmt.Sprintf(atomRecentURL, formType)
	body, err := a.client.Get(ctx, transport.BucketEDGAR, url, nil)
	if err != nil {
		return nil, err
	}

	parser := gofeed.NewParser()
	feed, err := parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &errs.ParseError{Source: string(model.SourceEDGAR), ID: "getcurrent atom feed", Err: err}
	}

	var ids []string
	for _, item := range feed.Items {
		if item.GUID != "" {
			ids = append(ids, item.GUID)
		}
	}
	return ids, nil
}
