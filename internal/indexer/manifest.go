package indexer

import (
	"encoding/json"

	"github.com/komsit37/fast10k/internal/source/edinet"
)

// marshalManifestEntry re-encodes the fields edinet.ManifestEntry decodes
// from a day manifest record as JSON for Document.Metadata. Fields of the
// record that ManifestEntry does not declare are not kept.
func marshalManifestEntry(entry edinet.ManifestEntry) (string, error) {
	b, err := json.Marshal(entry)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
