package tui

import (
	"context"
	"io"
	"time"

	"github.com/komsit37/fast10k/internal/store"
)

// refreshInterval is how often the status line repaints while watching.
const refreshInterval = 2 * time.Second

// Watch repaints the status line every refreshInterval until ctx is
// cancelled. statsFn is called fresh on each tick; an error from it replaces
// the status line rather than stopping the loop, since the underlying
// catalog may simply be mid-write.
func Watch(ctx context.Context, w io.Writer, statsFn func() (store.Stats, error)) {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	render := func() {
		stats, err := statsFn()
		RenderStatus(w, stats, err)
	}

	render()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			render()
		}
	}
}
