package instance

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLock_AcquireAndRelease(t *testing.T) {
	dir := t.TempDir()

	fl, err := Lock(dir)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if fl == nil {
		t.Fatal("expected a lock handle")
	}

	// A second acquisition against the same dir must fail while held.
	if _, err := Lock(dir); err == nil {
		t.Error("expected second Lock to fail")
	}

	Cleanup(dir, fl)

	// After cleanup the lock can be re-acquired.
	fl2, err := Lock(dir)
	if err != nil {
		t.Fatalf("re-Lock after Cleanup: %v", err)
	}
	Cleanup(dir, fl2)
}

func TestPortFile(t *testing.T) {
	dir := t.TempDir()

	if got := ReadPort(dir); got != "" {
		t.Errorf("ReadPort on empty dir = %q, want empty", got)
	}

	if err := WritePort(dir, "127.0.0.1:8712"); err != nil {
		t.Fatalf("WritePort: %v", err)
	}
	if got := ReadPort(dir); got != "127.0.0.1:8712" {
		t.Errorf("ReadPort = %q", got)
	}

	Cleanup(dir, nil)
	if _, err := os.Stat(filepath.Join(dir, portFileName)); !os.IsNotExist(err) {
		t.Error("Cleanup should remove the port file")
	}
}
