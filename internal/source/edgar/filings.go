package edgar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/komsit37/fast10k/internal/errs"
	"github.com/komsit37/fast10k/internal/source"
	"github.com/komsit37/fast10k/internal/transport"
	"github.com/komsit37/fast10k/pkg/model"
)

// ListFilings walks the submissions feed's recent-filings parallel arrays by
// index, applying filter in-stream, and stops once limit survivors have
// been produced (default 5 when limit <= 0).
func (a *Adapter) ListFilings(ctx context.Context, identity source.Identity, filter model.Query, limit int) ([]model.Document, error) {
	if limit <= 0 {
		limit = 5
	}

	url := fmt.Sprintf(submissionsURL, identity.Value)
	body, err := a.client.Get(ctx, transport.BucketEDGAR, url, nil)
	if err != nil {
		return nil, err
	}

	var resp edgarSubmissionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &errs.ParseError{Source: string(model.SourceEDGAR), ID: identity.Value, Err: err}
	}

	ticker := ""
	if len(resp.Tickers) > 0 {
		ticker = resp.Tickers[0]
	}

	recent := resp.Filings.Recent
	n := len(recent.AccessionNumber)

	var docs []model.Document
	for i := 0; i < n && len(docs) < limit; i++ {
		filingDate := parseSECDate(recent.FilingDate[i])
		var primaryDoc string
		if i < len(recent.PrimaryDocument) {
			primaryDoc = recent.PrimaryDocument[i]
		}
		doc := model.Document{
			ID:              recent.AccessionNumber[i],
			Ticker:          ticker,
			CompanyName:     resp.Name,
			FilingType:      model.MapEDGARForm(recent.Form[i]),
			Source:          model.SourceEDGAR,
			FilingDate:      filingDate,
			CIK:             resp.CIK,
			AccessionNumber: recent.AccessionNumber[i],
			PrimaryDocument: primaryDoc,
		}
		if !filter.Matches(doc) {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// FetchDocument resolves a Locator for doc under format, per the
// "…/Archives/edgar/data/{cik}/{accession_no_nodashes}/{artifact}" template.
// A complete-format fetch follows the filing's -index.htm page and parses
// its file table to enumerate every member document.
func (a *Adapter) FetchDocument(ctx context.Context, doc model.Document, format model.Format) (source.Locator, error) {
	if !format.AllowedFor(model.SourceEDGAR) {
		return source.Locator{}, &errs.ConfigError{Key: "format", Detail: string(format) + " is not allowed for EDGAR"}
	}

	accNoClean := strings.ReplaceAll(doc.AccessionNumber, "-", "")
	base := fmt.Sprintf(archiveURL, doc.CIK, accNoClean, "")

	switch format {
	case model.FormatComplete:
		return a.fetchCompletePackage(ctx, doc, base, accNoClean)
	case model.FormatXBRL:
		url := base + accNoClean + "-xbrl.xml"
		return source.Locator{URLs: []string{url}, Filename: accNoClean + ".xml"}, nil
	case model.FormatPlainText:
		url := base + accNoClean + ".txt"
		return source.Locator{URLs: []string{url}, Filename: accNoClean + ".txt"}, nil
	default: // html, inline-xbrl: the artifact is the submissions feed's primaryDocument.
		if doc.PrimaryDocument == "" {
			return source.Locator{}, &errs.ConfigError{Key: "primary_document", Detail: "no primaryDocument on file for " + doc.ID + "; re-run via list_filings"}
		}
		url := base + doc.PrimaryDocument
		return source.Locator{URLs: []string{url}, Filename: doc.PrimaryDocument}, nil
	}
}

func (a *Adapter) fetchCompletePackage(ctx context.Context, doc model.Document, base, accNoClean string) (source.Locator, error) {
	indexURL := base + accNoClean + "-index.htm"
	body, err := a.client.Get(ctx, transport.BucketEDGAR, indexURL, nil)
	if err != nil {
		return source.Locator{}, err
	}

	parsed, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return source.Locator{}, &errs.ParseError{Source: string(model.SourceEDGAR), ID: doc.ID, Err: err}
	}

	var urls []string
	parsed.Find("table.tableFile tr").Each(func(_ int, row *goquery.Selection) {
		href, ok := row.Find("a").Attr("href")
		if !ok || href == "" {
			return
		}
		if strings.HasPrefix(href, "/") {
			href = "https://www.sec.gov" + href
		}
		urls = append(urls, href)
	})

	if len(urls) == 0 {
		urls = []string{indexURL}
	}
	return source.Locator{URLs: urls, Filename: accNoClean + "-complete.zip"}, nil
}
