package store

import (
	"database/sql"

	"github.com/komsit37/fast10k/internal/errs"
	"github.com/komsit37/fast10k/pkg/model"
)

// Stats summarizes the catalog's current state: row counts and the
// filing_date span on hand, per source. An empty catalog reports zero
// counts and zero-valued date bounds rather than erroring.
type Stats struct {
	DocumentCount    int
	IssuerCount      int
	OldestFilingDate map[model.Source]string
	NewestFilingDate map[model.Source]string
}

// Stats reports catalog size and coverage, used by the CLI's status
// command and the indexer's freshness check.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	st.OldestFilingDate = map[model.Source]string{}
	st.NewestFilingDate = map[model.Source]string{}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM documents").Scan(&st.DocumentCount); err != nil {
		return Stats{}, &errs.StoreError{Op: "stats", Err: err}
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM edinet_static").Scan(&st.IssuerCount); err != nil {
		return Stats{}, &errs.StoreError{Op: "stats", Err: err}
	}

	rows, err := s.db.Query("SELECT source, MIN(filing_date), MAX(filing_date) FROM documents GROUP BY source")
	if err != nil {
		return Stats{}, &errs.StoreError{Op: "stats", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var source string
		var oldest, newest sql.NullString
		if err := rows.Scan(&source, &oldest, &newest); err != nil {
			return Stats{}, &errs.StoreError{Op: "stats", Err: err}
		}
		st.OldestFilingDate[model.Source(source)] = oldest.String
		st.NewestFilingDate[model.Source(source)] = newest.String
	}
	if err := rows.Err(); err != nil {
		return Stats{}, &errs.StoreError{Op: "stats", Err: err}
	}

	return st, nil
}

// ClearDocuments purges the documents table. The issuer directory is left
// untouched — clear() only resets the catalog, not the reference data the
// next index run depends on.
func (s *Store) ClearDocuments() error {
	if _, err := s.db.Exec("DELETE FROM documents"); err != nil {
		return &errs.StoreError{Op: "clear", Err: err}
	}
	return nil
}

// DistinctTickers returns every ticker already on file for source, used by
// the EDGAR catch-up path to know which issuers to re-poll.
func (s *Store) DistinctTickers(src model.Source) ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT ticker FROM documents WHERE source = ? ORDER BY ticker", string(src))
	if err != nil {
		return nil, &errs.StoreError{Op: "distinct_tickers", Err: err}
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, &errs.StoreError{Op: "distinct_tickers", Err: err}
		}
		tickers = append(tickers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &errs.StoreError{Op: "distinct_tickers", Err: err}
	}
	return tickers, nil
}
