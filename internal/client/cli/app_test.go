package cli

import (
	"bufio"
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bennieslab/threatwatch/internal/client/config"
	"github.com/bennieslab/threatwatch/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newTestApp builds an App with a throwaway credential file, a captured
// output buffer and the given stdin contents.
func newTestApp(t *testing.T, cfg *config.Config, stdin string) (*App, *bytes.Buffer) {
	t.Helper()
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 5 * time.Second
	}
	var out bytes.Buffer
	credPath := filepath.Join(t.TempDir(), "credential")
	a := newApp(cfg, credPath, testLogger(), &out, bufio.NewReader(strings.NewReader(stdin)))
	return a, &out
}

// stubInputs replaces the interactive seams with queues of canned answers.
func stubInputs(t *testing.T, texts []string, passwords []string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		next := texts[0]
		texts = texts[1:]
		return next, nil
	}
	getPassword = func(_ io.Writer, _ string) (string, error) {
		next := passwords[0]
		passwords = passwords[1:]
		return next, nil
	}
}
