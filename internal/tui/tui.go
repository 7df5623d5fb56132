// Package tui renders fast10k's status-line view: the same catalog state
// and search results the CLI prints, formatted as a refreshable terminal
// screen instead of one-shot stdout.
package tui

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/komsit37/fast10k/internal/store"
	"github.com/komsit37/fast10k/pkg/model"
)

// clearScreen is the ANSI sequence the status line writes before each
// refresh, so the view redraws in place rather than scrolling.
const clearScreen = "\033[H\033[2J"

// RenderStatus writes the catalog's current stats to w, followed by
// lastErr's message in place of a clean status line when non-nil.
func RenderStatus(w io.Writer, stats store.Stats, lastErr error) {
	io.WriteString(w, clearScreen)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "fast10k\tstatus")
	fmt.Fprintf(tw, "documents\t%d\n", stats.DocumentCount)
	fmt.Fprintf(tw, "issuers\t%d\n", stats.IssuerCount)
	for _, src := range []model.Source{model.SourceEDGAR, model.SourceEDINET, model.SourceTDNet} {
		oldest, hasOldest := stats.OldestFilingDate[src]
		newest, hasNewest := stats.NewestFilingDate[src]
		if !hasOldest && !hasNewest {
			continue
		}
		fmt.Fprintf(tw, "%s coverage\t%s .. %s\n", src, oldest, newest)
	}
	tw.Flush()

	if lastErr != nil {
		fmt.Fprintf(w, "\nlast error: %s\n", lastErr)
	}
}

// RenderResults writes docs as a table: ticker, filing type, filing date,
// source, and whether content has been materialized to disk.
func RenderResults(w io.Writer, docs []model.Document) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ticker\ttype\tdate\tsource\tdownloaded")
	for _, d := range docs {
		downloaded := "no"
		if d.HasContent() {
			downloaded = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			d.Ticker, d.FilingType.Code, d.FilingDate.Format("2006-01-02"), d.Source, downloaded)
	}
	tw.Flush()
}
