package download

import (
	"path/filepath"

	"github.com/komsit37/fast10k/pkg/model"
)

// targetPath computes the deterministic on-disk path for one artifact:
// {download_dir}/{source}/{ticker}/{filing_date:YYYY-MM-DD}_{id}_{format}.{ext}
// Collisions are resolved by overwriting — the (source,id,format) triple
// uniquely names the artifact.
func targetPath(outputRoot string, doc model.Document, format model.Format) string {
	dateStr := doc.FilingDate.Format("2006-01-02")
	filename := dateStr + "_" + doc.ID + "_" + string(format) + "." + format.Extension()
	return filepath.Join(outputRoot, string(doc.Source), doc.Ticker, filename)
}
