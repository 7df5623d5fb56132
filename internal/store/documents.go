package store

import (
	"database/sql"

	"github.com/komsit37/fast10k/internal/errs"
	"github.com/komsit37/fast10k/pkg/model"
)

// UpsertDocument inserts doc, or merges it into the existing row for
// (source, id) if one already exists. An existing content_path is never
// overwritten with empty — a re-index pass must not erase a materialized
// download.
func (s *Store) UpsertDocument(doc model.Document) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &errs.StoreError{Op: "upsert_document", Err: err}
	}
	defer tx.Rollback()

	existing, err := queryDocument(tx, doc.Source, doc.ID)
	if err != nil {
		return &errs.StoreError{Op: "upsert_document", Err: err}
	}
	if existing != nil {
		doc = existing.Merge(doc)
	}

	_, err = tx.Exec(`
		INSERT INTO documents (
			source, id, ticker, company_name, company_name_en, filing_type,
			filing_date, format, content_path, metadata, content_preview,
			cik, accession_number, doc_type_code, primary_document
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source, id) DO UPDATE SET
			ticker = excluded.ticker,
			company_name = excluded.company_name,
			company_name_en = excluded.company_name_en,
			filing_type = excluded.filing_type,
			filing_date = excluded.filing_date,
			format = excluded.format,
			content_path = excluded.content_path,
			metadata = excluded.metadata,
			content_preview = excluded.content_preview,
			cik = excluded.cik,
			accession_number = excluded.accession_number,
			doc_type_code = excluded.doc_type_code,
			primary_document = excluded.primary_document
	`,
		string(doc.Source), doc.ID, doc.Ticker, doc.CompanyName, doc.CompanyNameEn,
		doc.FilingType.Code, model.FormatSourceDate(doc.Source, doc.FilingDate), string(doc.Format),
		nullable(doc.ContentPath), nullable(doc.Metadata), nullable(doc.ContentPreview),
		nullable(doc.CIK), nullable(doc.AccessionNumber), nullable(doc.DocTypeCode), nullable(doc.PrimaryDocument),
	)
	if err != nil {
		return &errs.StoreError{Op: "upsert_document", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &errs.StoreError{Op: "upsert_document", Err: err}
	}
	return nil
}

// FindDocuments returns up to limit documents matching query, most recent
// filing_date first. A limit of 0 means unbounded.
func (s *Store) FindDocuments(q model.Query, limit int) ([]model.Document, error) {
	where, args := buildWhere(q)
	sqlStr := "SELECT " + documentColumns + " FROM documents" + where + " ORDER BY filing_date DESC"
	if limit > 0 {
		sqlStr += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(sqlStr, args...)
	if err != nil {
		return nil, &errs.StoreError{Op: "find_documents", Err: err}
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, &errs.StoreError{Op: "find_documents", Err: err}
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, &errs.StoreError{Op: "find_documents", Err: err}
	}
	return docs, nil
}

const documentColumns = `source, id, ticker, company_name, company_name_en, filing_type,
	filing_date, format, content_path, metadata, content_preview,
	cik, accession_number, doc_type_code, primary_document`

func buildWhere(q model.Query) (string, []any) {
	var clauses []string
	var args []any

	if q.Ticker != "" {
		// A numeric code matches in its 4-digit or 5-digit trailing-zero form.
		clause := "("
		for i, c := range model.TickerCandidates(q.Ticker) {
			if i > 0 {
				clause += " OR "
			}
			clause += "ticker = ? COLLATE NOCASE"
			args = append(args, c)
		}
		clauses = append(clauses, clause+")")
	}
	if q.CompanyNameLike != "" {
		clauses = append(clauses, "company_name LIKE ? COLLATE NOCASE")
		args = append(args, "%"+q.CompanyNameLike+"%")
	}
	if q.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, string(q.Source))
	}
	if q.FilingType != nil {
		if q.IncludeAmendments {
			clauses = append(clauses, "(filing_type = ? OR filing_type = ?)")
			args = append(args, q.FilingType.Code, q.FilingType.Code+"/A")
		} else {
			clauses = append(clauses, "filing_type = ?")
			args = append(args, q.FilingType.Code)
		}
	}
	if !q.From.IsZero() {
		clauses = append(clauses, "filing_date >= ?")
		args = append(args, model.FormatSourceDate(q.Source, q.From))
	}
	if !q.To.IsZero() {
		clauses = append(clauses, "filing_date <= ?")
		args = append(args, model.FormatSourceDate(q.Source, q.To))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	where := " WHERE "
	for i, c := range clauses {
		if i > 0 {
			where += " AND "
		}
		where += c
	}
	return where, args
}

// GetDocument fetches a single document by its natural key, or nil if no
// row matches.
func (s *Store) GetDocument(src model.Source, id string) (*model.Document, error) {
	row := s.db.QueryRow("SELECT "+documentColumns+" FROM documents WHERE source = ? AND id = ?", string(src), id)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &errs.StoreError{Op: "get_document", Err: err}
	}
	return &doc, nil
}

func queryDocument(tx *sql.Tx, source model.Source, id string) (*model.Document, error) {
	row := tx.QueryRow("SELECT "+documentColumns+" FROM documents WHERE source = ? AND id = ?", string(source), id)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (model.Document, error) {
	var doc model.Document
	var source, filingType, filingDate string
	var companyNameEn, contentPath, metadata, contentPreview, cik, accessionNumber, docTypeCode, primaryDocument sql.NullString

	err := row.Scan(
		&source, &doc.ID, &doc.Ticker, &doc.CompanyName, &companyNameEn, &filingType,
		&filingDate, &doc.Format, &contentPath, &metadata, &contentPreview,
		&cik, &accessionNumber, &docTypeCode, &primaryDocument,
	)
	if err != nil {
		return model.Document{}, err
	}

	doc.Source = model.Source(source)
	doc.FilingType = model.Other(filingType)
	doc.CompanyNameEn = companyNameEn.String
	doc.ContentPath = contentPath.String
	doc.Metadata = metadata.String
	doc.ContentPreview = contentPreview.String
	doc.CIK = cik.String
	doc.AccessionNumber = accessionNumber.String
	doc.DocTypeCode = docTypeCode.String
	doc.PrimaryDocument = primaryDocument.String

	parsed, err := model.ParseSourceDate(doc.Source, filingDate)
	if err != nil {
		return model.Document{}, err
	}
	doc.FilingDate = parsed

	return doc, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
