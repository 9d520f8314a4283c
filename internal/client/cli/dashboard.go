package cli

import (
	"context"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/bennieslab/threatwatch/internal/client/dashboard"
	"github.com/bennieslab/threatwatch/internal/client/poll"
)

// clearScreen moves the cursor home and wipes the terminal before a redraw.
const clearScreen = "\x1b[2J\x1b[H"

// stdoutVisible reports whether the output surface is an interactive
// terminal; while it is not, watch-mode ticks are skipped.
func stdoutVisible() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Dashboard renders the five live views. One-shot by default; with watch
// enabled it keeps refreshing on the configured interval until ctx is
// cancelled.
func (a *App) Dashboard(ctx context.Context, watch bool) error {
	sched := poll.NewScheduler(a.log)
	agg := dashboard.New(a.client, sched, a.log)

	// first paint before any polling starts, to avoid an empty-state flash
	agg.RefreshAll(ctx)

	if !watch {
		agg.RenderTo(a.out)
		return nil
	}

	sched.SetVisibility(stdoutVisible)

	// refreshes land from independent view goroutines; serialize the redraws
	var mu sync.Mutex
	redraw := func() {
		mu.Lock()
		defer mu.Unlock()
		a.printf(clearScreen)
		agg.RenderTo(a.out)
		a.printf("\nRefreshing every %s. Press Ctrl-C to exit.\n", a.config.RefreshInterval)
	}
	redraw()
	agg.OnUpdate(redraw)

	agg.Start(ctx, a.config.RefreshInterval)
	defer agg.Stop()

	<-ctx.Done()
	return nil
}
