// Package model defines the core value types shared across fast10k: the
// Document and Issuer records, and the small closed enumerations
// (Source, Format, FilingType) that describe them.
package model

// Source identifies which upstream regulatory feed a Document came from.
// This is a closed set by design — the source-adapter layer is meant to stay
// as a closed variant, not a plugin surface.
type Source string

const (
	SourceEDGAR  Source = "EDGAR"
	SourceEDINET Source = "EDINET"
	// SourceTDNet is reserved for a future adapter; the registry carries a
	// stub for it so callers can already address it by name.
	SourceTDNet Source = "TDNET"
)

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	switch s {
	case SourceEDGAR, SourceEDINET, SourceTDNet:
		return true
	}
	return false
}

// Format identifies the serialization of a filing's payload.
type Format string

const (
	FormatPlainText Format = "plain-text"
	FormatHTML      Format = "html"
	FormatXBRL      Format = "xbrl"
	FormatIXBRL     Format = "inline-xbrl"
	FormatPDF       Format = "pdf"
	FormatComplete  Format = "complete-package"
)

// Extension returns the on-disk file extension for a format, per the
// deterministic download layout.
func (f Format) Extension() string {
	switch f {
	case FormatPlainText:
		return "txt"
	case FormatHTML, FormatIXBRL:
		return "htm"
	case FormatXBRL:
		return "xml"
	case FormatPDF:
		return "pdf"
	case FormatComplete:
		return "zip"
	default:
		return "bin"
	}
}

// AllowedFor reports whether a format is permitted for a source, per the
// per-source allowed set: EDINET excludes html and plain-text, EDGAR
// excludes pdf.
func (f Format) AllowedFor(src Source) bool {
	switch src {
	case SourceEDGAR:
		return f != FormatPDF
	case SourceEDINET:
		return f != FormatHTML && f != FormatPlainText
	default:
		return false
	}
}
