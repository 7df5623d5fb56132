package download

import (
	"context"
	"os"
	"path/filepath"

	"github.com/komsit37/fast10k/internal/errs"
	"github.com/komsit37/fast10k/internal/source"
	"github.com/komsit37/fast10k/internal/transport"
	"github.com/komsit37/fast10k/pkg/model"
)

// materialize fetches locator's payload and writes it under outputRoot at
// the deterministic path for doc/format, returning the path it wrote.
// A single-URL locator writes one file; a multi-URL locator (the "complete"
// package, which names every member document of a filing) writes each
// member into a directory at that path and returns the directory.
func (p *Pipeline) materialize(ctx context.Context, doc model.Document, format model.Format, locator source.Locator, outputRoot string) (string, error) {
	bucket := transport.BucketEDGAR
	if doc.Source == model.SourceEDINET {
		bucket = transport.BucketEDINETDownload
	}

	path := targetPath(outputRoot, doc, format)

	if len(locator.URLs) == 0 {
		return "", &errs.ConfigError{Key: "locator", Detail: "fetch_document returned no URL"}
	}

	if len(locator.URLs) == 1 {
		body, err := p.client.Get(ctx, bucket, locator.URLs[0], nil)
		if err != nil {
			return "", err
		}
		if err := writeAtomic(path, body); err != nil {
			return "", err
		}
		return path, nil
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", &errs.StoreError{Op: "mkdir " + path, Err: err}
	}
	for _, memberURL := range locator.URLs {
		body, err := p.client.Get(ctx, bucket, memberURL, nil)
		if err != nil {
			return "", err
		}
		memberPath := filepath.Join(path, filepath.Base(memberURL))
		if err := writeAtomic(memberPath, body); err != nil {
			return "", err
		}
	}
	return path, nil
}

// writeAtomic writes data to path via a temp file in the same directory,
// fsync, then rename, so a reader never observes a partially-written file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &errs.StoreError{Op: "mkdir " + dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return &errs.StoreError{Op: "create temp file for " + path, Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &errs.StoreError{Op: "write " + tmpPath, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &errs.StoreError{Op: "fsync " + tmpPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &errs.StoreError{Op: "close " + tmpPath, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &errs.StoreError{Op: "rename " + tmpPath + " to " + path, Err: err}
	}
	return nil
}
