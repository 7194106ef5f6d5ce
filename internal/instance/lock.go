// pattern: Imperative Shell

package instance

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

const (
	lockFileName = "notebench.lock"
	portFileName = "notebench.port"
)

// Lock acquires an exclusive file lock for single-instance enforcement.
// Returns the flock handle (caller must defer Cleanup) or an error if
// another instance already holds the lock.
func Lock(dataDir string) (*flock.Flock, error) {
	lockPath := filepath.Join(dataDir, lockFileName)
	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another notebench instance is already running")
	}
	return fl, nil
}

// WritePort records the observer server's listener address so other tools
// can find the running instance.
func WritePort(dataDir, addr string) error {
	portPath := filepath.Join(dataDir, portFileName)
	return os.WriteFile(portPath, []byte(addr), 0600)
}

// ReadPort returns the recorded listener address, or "" if none is written.
func ReadPort(dataDir string) string {
	data, err := os.ReadFile(filepath.Join(dataDir, portFileName))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Cleanup removes the port file and releases the file lock.
func Cleanup(dataDir string, fl *flock.Flock) {
	portPath := filepath.Join(dataDir, portFileName)
	_ = os.Remove(portPath)
	if fl != nil {
		_ = fl.Unlock()
	}
}
