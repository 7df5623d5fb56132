package edgar

// SetTickersURLForTest points the company-tickers lookup at url for the
// duration of a test, returning a func that restores the live endpoint.
// Exported so other packages' tests (the indexer's EDGAR catch-up tests)
// can redirect requests at an httptest server without reaching into this
// package's unexported state directly.
func SetTickersURLForTest(url string) func() {
	orig := tickersURL
	tickersURL = url
	return func() { tickersURL = orig }
}

// SetSubmissionsURLForTest points the submissions-feed template at tmpl for
// the duration of a test, returning a restore func.
func SetSubmissionsURLForTest(tmpl string) func() {
	orig := submissionsURL
	submissionsURL = tmpl
	return func() { submissionsURL = orig }
}
