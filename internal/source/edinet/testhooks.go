package edinet

// SetManifestURLForTest points the day-manifest endpoint at url for the
// duration of a test, returning a restore func. Exported so the indexer
// package's tests can redirect the day-walk at an httptest server.
func SetManifestURLForTest(url string) func() {
	orig := manifestURL
	manifestURL = url
	return func() { manifestURL = orig }
}
