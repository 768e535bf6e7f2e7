package testutil

import (
	"io"
	"log/slog"
	"testing"
)

// SilenceLogs routes the default logger to io.Discard for the rest of the
// test and restores the previous logger on cleanup.
func SilenceLogs(t testing.TB) {
	t.Helper()
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
}
