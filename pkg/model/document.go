package model

import (
	"encoding/json"
	"time"
)

// Document is the central entity of the catalog: one regulatory filing,
// normalized across sources. (source, id) is the natural key.
type Document struct {
	ID             string
	Ticker         string
	CompanyName    string
	CompanyNameEn  string
	FilingType     FilingType
	Source         Source
	FilingDate     time.Time
	Format         Format
	ContentPath    string // empty until materialized by the download pipeline
	Metadata       string // opaque source-native JSON blob, preserved verbatim
	ContentPreview string

	// CIK and AccessionNumber are carried for EDGAR rows so the download
	// pipeline can reconstruct archive URLs without re-deriving them from
	// ID. Both are empty for non-EDGAR rows.
	CIK             string
	AccessionNumber string

	// DocTypeCode is EDINET's raw docTypeCode, kept alongside the mapped
	// FilingType so a richer mapping can be introduced later without a
	// backfill. Empty for non-EDINET rows.
	DocTypeCode string

	// PrimaryDocument is the submissions feed's primaryDocument filename
	// (e.g. "aapl-20230930.htm"), used to build the real html/inline-xbrl
	// artifact URL. Empty for non-EDGAR rows.
	PrimaryDocument string
}

// HasContent reports whether the document's payload has been materialized
// to disk.
func (d Document) HasContent() bool {
	return d.ContentPath != ""
}

// Merge folds an incoming (remote) document into the receiver (the existing
// catalog row): an existing content_path and content_preview are never
// overwritten with empty, and metadata is a key-wise union of both sides'
// JSON objects, with the incoming (remote) value winning on a shared key.
// Every other field takes the incoming value, even when it is empty, and a
// metadata blob that is not a JSON object contributes no keys.
func (existing Document) Merge(incoming Document) Document {
	merged := incoming
	if merged.ContentPath == "" {
		merged.ContentPath = existing.ContentPath
	}
	if merged.ContentPreview == "" {
		merged.ContentPreview = existing.ContentPreview
	}
	merged.Metadata = mergeMetadata(existing.Metadata, incoming.Metadata)
	return merged
}

// mergeMetadata unions two JSON-object blobs key-wise, incoming winning on
// conflict. A blob that fails to parse as a JSON object is treated as empty
// rather than aborting the merge.
func mergeMetadata(existing, incoming string) string {
	if existing == "" && incoming == "" {
		return ""
	}
	base := decodeMetadataObject(existing)
	over := decodeMetadataObject(incoming)
	for k, v := range over {
		base[k] = v
	}
	out, err := json.Marshal(base)
	if err != nil {
		return incoming
	}
	return string(out)
}

func decodeMetadataObject(blob string) map[string]json.RawMessage {
	obj := map[string]json.RawMessage{}
	if blob == "" {
		return obj
	}
	if err := json.Unmarshal([]byte(blob), &obj); err != nil {
		return map[string]json.RawMessage{}
	}
	return obj
}

// Query describes a filter over the document catalog. Zero-valued fields
// are unconstrained, so relaxing any one field only ever grows the result
// set.
type Query struct {
	Ticker            string
	CompanyNameLike   string
	FilingType        *FilingType
	IncludeAmendments bool // amendments never match a base-type filter implicitly
	Source            Source
	From              time.Time
	To                time.Time
	FreeText          string // reserved, not yet implemented
}

// Matches reports whether a document satisfies the query's filters. The
// store's SQL WHERE clause is the authoritative implementation; this
// in-memory predicate exists for adapters that filter in-stream (EDGAR's
// list_filings) before a row ever reaches the store.
func (q Query) Matches(d Document) bool {
	if q.Ticker != "" && !strEqualFold(q.Ticker, d.Ticker) {
		return false
	}
	if q.CompanyNameLike != "" && !strContainsFold(d.CompanyName, q.CompanyNameLike) {
		return false
	}
	if q.Source != "" && q.Source != d.Source {
		return false
	}
	if q.FilingType != nil {
		want := *q.FilingType
		got := d.FilingType
		if q.IncludeAmendments {
			if got.BaseType().Code != want.BaseType().Code {
				return false
			}
		} else if got.Code != want.Code {
			return false
		}
	}
	if !q.From.IsZero() && d.FilingDate.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && d.FilingDate.After(q.To) {
		return false
	}
	return true
}
