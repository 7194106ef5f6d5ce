package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"notebench/internal/canvas"
)

func TestStore_LoadMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	tree, ok, err := store.Load("nb1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok || tree != nil {
		t.Error("missing workspace should report not found without error")
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	tree := canvas.OpenPanelWith(canvas.DefaultTree(), canvas.ViewTimeline, nil,
		func() string { return "p1" })
	if err := store.Save("nb1", tree); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, ok, err := store.Load("nb1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("expected workspace present after save")
	}
	if !canvas.Equal(loaded, tree) {
		t.Error("loaded tree differs from saved tree")
	}
}

func TestStore_LoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if err := os.WriteFile(store.Path("nb1"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, _, err := store.Load("nb1"); err == nil {
		t.Error("expected an error for a corrupt layout file")
	}
}

func TestStore_List(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	for _, id := range []string{"alpha", "beta"} {
		if err := store.Save(id, canvas.DefaultTree()); err != nil {
			t.Fatalf("Save(%s): %v", id, err)
		}
	}

	ids, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("List = %v, want 2 ids", ids)
	}
}

func TestStore_SanitizesIDs(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	path := store.Path("../../etc/passwd")
	if filepath.Dir(path) != store.Dir() {
		t.Errorf("sanitized path %q escapes the store dir", path)
	}

	if store.Path("") != filepath.Join(store.Dir(), "default.json") {
		t.Errorf("empty id path = %q", store.Path(""))
	}
}

func TestStore_SaveIsAtomic(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Save("nb1", canvas.DefaultTree()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// No temp files are left behind.
	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("store dir = %v, want only the layout file", names)
	}
}
