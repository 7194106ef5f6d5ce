// pattern: Imperative Shell

package logging

import (
	"path/filepath"
	"testing"
)

// NewTestManager returns a Manager writing to a temp file, closed when the
// test finishes. Debug level so tests can assert on any entry.
func NewTestManager(t testing.TB) *Manager {
	t.Helper()

	m, err := NewManager(Config{
		FilePath:       filepath.Join(t.TempDir(), "test.log"),
		MaxSizeMB:      1,
		MaxBackups:     1,
		MaxAgeDays:     1,
		ChannelBufSize: 100,
		Level:          "debug",
	})
	if err != nil {
		t.Fatalf("NewTestManager: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}
