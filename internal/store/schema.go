package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	source            TEXT NOT NULL,
	id                TEXT NOT NULL,
	ticker            TEXT NOT NULL,
	company_name      TEXT NOT NULL,
	company_name_en   TEXT,
	filing_type       TEXT NOT NULL,
	filing_date       TEXT NOT NULL,
	format            TEXT NOT NULL,
	content_path      TEXT,
	metadata          TEXT,
	content_preview   TEXT,
	cik               TEXT,
	accession_number  TEXT,
	doc_type_code     TEXT,
	primary_document  TEXT,
	PRIMARY KEY (source, id)
);

CREATE INDEX IF NOT EXISTS idx_documents_ticker ON documents(ticker);
CREATE INDEX IF NOT EXISTS idx_documents_filing_type ON documents(filing_type);
CREATE INDEX IF NOT EXISTS idx_documents_filing_date ON documents(filing_date);

CREATE TABLE IF NOT EXISTS edinet_static (
	edinet_code       TEXT PRIMARY KEY,
	securities_code   TEXT,
	submitter_name    TEXT NOT NULL,
	submitter_name_en TEXT,
	industry          TEXT,
	fiscal_year_end   TEXT,
	province          TEXT
);

CREATE INDEX IF NOT EXISTS idx_edinet_static_securities_code ON edinet_static(securities_code);
`

func (s *Store) initSchema() error {
	_, err := s.db.Exec(schemaSQL)
	return err
}
