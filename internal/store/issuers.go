package store

import (
	"database/sql"

	"github.com/komsit37/fast10k/internal/errs"
	"github.com/komsit37/fast10k/pkg/model"
)

// LoadIssuers replaces the entire issuer directory in one transaction: the
// EDINET static CSV is a full snapshot, not a delta, so a truncate-then-
// insert is the correct load strategy rather than a row-by-row upsert.
func (s *Store) LoadIssuers(issuers []model.Issuer) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &errs.StoreError{Op: "load_issuers", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM edinet_static"); err != nil {
		return &errs.StoreError{Op: "load_issuers", Err: err}
	}

	stmt, err := tx.Prepare(`
		INSERT INTO edinet_static (edinet_code, securities_code, submitter_name, submitter_name_en, industry, fiscal_year_end, province)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return &errs.StoreError{Op: "load_issuers", Err: err}
	}
	defer stmt.Close()

	for _, iss := range issuers {
		_, err := stmt.Exec(
			iss.EdinetCode, nullable(iss.SecuritiesCode), iss.Name, nullable(iss.NameEn),
			nullable(iss.Industry), nullable(iss.FiscalYearEnd), nullable(iss.Address),
		)
		if err != nil {
			return &errs.StoreError{Op: "load_issuers", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &errs.StoreError{Op: "load_issuers", Err: err}
	}
	return nil
}

// LookupIssuer tries ticker's candidate forms in order (see
// model.TickerCandidates) against the securities_code index, returning the
// first match.
func (s *Store) LookupIssuer(ticker string) (*model.Issuer, error) {
	for _, candidate := range model.TickerCandidates(ticker) {
		iss, err := s.queryIssuerBySecuritiesCode(candidate)
		if err != nil {
			return nil, &errs.StoreError{Op: "lookup_issuer", Err: err}
		}
		if iss != nil {
			return iss, nil
		}
	}
	return nil, nil
}

func (s *Store) queryIssuerBySecuritiesCode(code string) (*model.Issuer, error) {
	row := s.db.QueryRow(`
		SELECT edinet_code, securities_code, submitter_name, submitter_name_en, industry, fiscal_year_end, province
		FROM edinet_static WHERE securities_code = ?
	`, code)

	var iss model.Issuer
	var securitiesCode, nameEn, industry, fiscalYearEnd, address sql.NullString
	err := row.Scan(&iss.EdinetCode, &securitiesCode, &iss.Name, &nameEn, &industry, &fiscalYearEnd, &address)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	iss.SecuritiesCode = securitiesCode.String
	iss.NameEn = nameEn.String
	iss.Industry = industry.String
	iss.FiscalYearEnd = fiscalYearEnd.String
	iss.Address = address.String
	return &iss, nil
}

// SearchIssuers matches query (case-insensitive substring) against the
// issuer directory's name, English name, and securities code, for the
// static CSV's lookup-by-name use case where the caller has no ticker in
// hand yet.
func (s *Store) SearchIssuers(query string, limit int) ([]model.Issuer, error) {
	sqlStr := `
		SELECT edinet_code, securities_code, submitter_name, submitter_name_en, industry, fiscal_year_end, province
		FROM edinet_static
		WHERE submitter_name LIKE ? COLLATE NOCASE
		   OR submitter_name_en LIKE ? COLLATE NOCASE
		   OR securities_code LIKE ?
		ORDER BY securities_code
	`
	args := []any{"%" + query + "%", "%" + query + "%", "%" + query + "%"}
	if limit > 0 {
		sqlStr += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(sqlStr, args...)
	if err != nil {
		return nil, &errs.StoreError{Op: "search_issuers", Err: err}
	}
	defer rows.Close()

	var issuers []model.Issuer
	for rows.Next() {
		var iss model.Issuer
		var securitiesCode, nameEn, industry, fiscalYearEnd, address sql.NullString
		if err := rows.Scan(&iss.EdinetCode, &securitiesCode, &iss.Name, &nameEn, &industry, &fiscalYearEnd, &address); err != nil {
			return nil, &errs.StoreError{Op: "search_issuers", Err: err}
		}
		iss.SecuritiesCode = securitiesCode.String
		iss.NameEn = nameEn.String
		iss.Industry = industry.String
		iss.FiscalYearEnd = fiscalYearEnd.String
		iss.Address = address.String
		issuers = append(issuers, iss)
	}
	if err := rows.Err(); err != nil {
		return nil, &errs.StoreError{Op: "search_issuers", Err: err}
	}
	return issuers, nil
}

// LookupIssuerByEdinetCode fetches a single issuer by its primary key,
// for the indexer's day-manifest enrichment step.
func (s *Store) LookupIssuerByEdinetCode(edinetCode string) (*model.Issuer, error) {
	row := s.db.QueryRow(`
		SELECT edinet_code, securities_code, submitter_name, submitter_name_en, industry, fiscal_year_end, province
		FROM edinet_static WHERE edinet_code = ?
	`, edinetCode)

	var iss model.Issuer
	var securitiesCode, nameEn, industry, fiscalYearEnd, address sql.NullString
	err := row.Scan(&iss.EdinetCode, &securitiesCode, &iss.Name, &nameEn, &industry, &fiscalYearEnd, &address)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &errs.StoreError{Op: "lookup_issuer_by_edinet_code", Err: err}
	}

	iss.SecuritiesCode = securitiesCode.String
	iss.NameEn = nameEn.String
	iss.Industry = industry.String
	iss.FiscalYearEnd = fiscalYearEnd.String
	iss.Address = address.String
	return &iss, nil
}
