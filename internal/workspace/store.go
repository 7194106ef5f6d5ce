// pattern: Imperative Shell

// Package workspace persists one canvas layout per workspace (one workspace
// per notebook) and owns which tree is current for the active workspace.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"notebench/internal/canvas"
)

const layoutExt = ".json"

// Store reads and writes layout files under <dataDir>/workspaces/.
type Store struct {
	dir string
}

// NewStore creates the workspaces directory if needed.
func NewStore(dataDir string) (*Store, error) {
	dir := filepath.Join(dataDir, "workspaces")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create workspaces dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory holding layout files.
func (s *Store) Dir() string { return s.dir }

// Path returns the layout file path for a workspace id.
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, sanitizeID(id)+layoutExt)
}

// Load reads a workspace's layout. A missing file returns (nil, false, nil);
// the caller substitutes canvas.DefaultTree(). A present-but-invalid file is
// an error.
func (s *Store) Load(id string) (canvas.Node, bool, error) {
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load workspace %s: %w", id, err)
	}
	tree, err := canvas.UnmarshalTree(data)
	if err != nil {
		return nil, false, fmt.Errorf("workspace %s: %w", id, err)
	}
	return tree, true, nil
}

// Save writes a workspace's layout atomically (temp file + rename) so a
// crash mid-write never leaves a truncated layout behind.
func (s *Store) Save(id string, tree canvas.Node) error {
	data, err := canvas.MarshalTree(tree)
	if err != nil {
		return fmt.Errorf("save workspace %s: %w", id, err)
	}

	path := s.Path(id)
	tmp, err := os.CreateTemp(s.dir, sanitizeID(id)+".tmp-*")
	if err != nil {
		return fmt.Errorf("save workspace %s: %w", id, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("save workspace %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("save workspace %s: %w", id, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("save workspace %s: %w", id, err)
	}
	return nil
}

// List returns the ids of all persisted workspaces, in directory order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, layoutExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, layoutExt))
	}
	return ids, nil
}

// sanitizeID maps an opaque workspace id to a safe file name.
func sanitizeID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "default"
	}
	return sb.String()
}
