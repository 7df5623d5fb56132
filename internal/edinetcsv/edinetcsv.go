// Package edinetcsv loads EDINET's static issuer directory bootstrap file,
// EdinetcodeDlInfo.csv: Shift-JIS encoded, Japanese header row, mandatory
// columns by position rather than by header name.
package edinetcsv

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/komsit37/fast10k/internal/errs"
	"github.com/komsit37/fast10k/pkg/model"
)

// row mirrors EdinetcodeDlInfo.csv's ten mandatory columns, in file order:
// edinet_code, type, submitter_name, submitter_name_en, submitter_name_yomi,
// address, industry, securities_code, filer_id, fiscal_year_end. Field
// order, not the csv tag, is what gocsv matches against since the file's own
// header is Japanese and carries no stable ASCII name to tag against.
type row struct {
	EdinetCode     string `csv:"edinet_code"`
	Type           string `csv:"type"`
	SubmitterName  string `csv:"submitter_name"`
	SubmitterEn    string `csv:"submitter_name_en"`
	SubmitterYomi  string `csv:"submitter_name_yomi"`
	Address        string `csv:"address"`
	Industry       string `csv:"industry"`
	SecuritiesCode string `csv:"securities_code"`
	FilerID        string `csv:"filer_id"`
	FiscalYearEnd  string `csv:"fiscal_year_end"`
}

// LoadFile reads path as Shift-JIS, parses it per EdinetcodeDlInfo.csv's
// fixed column layout, and returns one Issuer per non-blank row.
func LoadFile(path string) ([]model.Issuer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &errs.ConfigError{Key: "csv_path", Detail: err.Error()}
	}
	defer f.Close()

	return Load(f)
}

// Load parses r as Shift-JIS encoded EdinetcodeDlInfo.csv content.
func Load(r io.Reader) ([]model.Issuer, error) {
	decoded := transform.NewReader(r, japanese.ShiftJIS.NewDecoder())

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1 // trailing rows may be short or blank

	if _, err := cr.Read(); err != nil { // discard the Japanese header row
		if err == io.EOF {
			return nil, nil
		}
		return nil, &errs.ParseError{Source: "edinetcsv", ID: "header", Err: err}
	}

	var rows []row
	if err := gocsv.UnmarshalCSVWithoutHeaders(cr, &rows); err != nil {
		return nil, &errs.ParseError{Source: "edinetcsv", ID: "body", Err: err}
	}

	issuers := make([]model.Issuer, 0, len(rows))
	for _, rw := range rows {
		if rw.EdinetCode == "" { // trailing blank rows
			continue
		}
		issuers = append(issuers, model.Issuer{
			EdinetCode:     rw.EdinetCode,
			SecuritiesCode: model.NormalizeSecuritiesCode(rw.SecuritiesCode),
			Name:           rw.SubmitterName,
			NameEn:         rw.SubmitterEn,
			Industry:       rw.Industry,
			FiscalYearEnd:  rw.FiscalYearEnd,
			Address:        rw.Address,
		})
	}
	return issuers, nil
}
