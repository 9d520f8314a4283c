// Package cli wires the ThreatWatch client together: configuration, session
// store, HTTP client, dashboard aggregator and message dispatcher behind a
// cobra command surface.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bennieslab/threatwatch/internal/client/api"
	"github.com/bennieslab/threatwatch/internal/client/config"
	"github.com/bennieslab/threatwatch/internal/client/session"
	"github.com/bennieslab/threatwatch/internal/logging"
)

// App is the composition root. Every component receives its collaborators
// from here; there are no module-level singletons.
type App struct {
	config *config.Config
	store  *session.Store
	client *api.Client
	log    logging.Logger
	out    io.Writer
	reader *bufio.Reader
}

func slogLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewApp constructs the App from configuration, using stdin/stdout/stderr.
func NewApp(c *config.Config) (*App, error) {
	credPath, err := session.DefaultPath()
	if err != nil {
		return nil, err
	}

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(c.LogLevel),
	})))

	return newApp(c, credPath, log, os.Stdout, bufio.NewReader(os.Stdin)), nil
}

// newApp is the injectable constructor used by tests.
func newApp(c *config.Config, credPath string, log logging.Logger, out io.Writer, reader *bufio.Reader) *App {
	store := session.NewFileStore(credPath)
	client := api.New(c.APIBaseURL, c.RequestTimeout, store, log)

	a := &App{
		config: c,
		store:  store,
		client: client,
		log:    log,
		out:    out,
		reader: reader,
	}

	// uniform session-expiry reaction: one message, one forced re-login
	store.OnExpire(func() {
		a.printf("Your session has expired or is invalid. Please log in again.\n")
	})

	return a
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
