// pattern: Imperative Shell

package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"notebench/internal/canvas"
	"notebench/internal/logging"
)

// Manager owns the current tree for the active workspace. Mutations funnel
// through Apply on the UI loop; reads may come from any goroutine (web
// handlers), so the current tree is guarded and always handed out as an
// immutable value. Saves are best-effort and asynchronous: a failed write
// logs a warning and never rolls back the in-memory tree.
type Manager struct {
	store       *Store
	logger      *logging.ScopedLogger
	debounce    time.Duration
	defaultView canvas.ViewKind
	onChange    func() // observer notification, may be nil

	mu        sync.RWMutex
	active    string
	tree      canvas.Node
	saveTimer *time.Timer
}

// NewManager loads the given workspace and makes it active. defaultView is
// what a never-persisted workspace's primary panel opens with; closing the
// last panel still falls back to the canonical chat tree.
func NewManager(store *Store, active string, defaultView canvas.ViewKind, debounce time.Duration, logger *logging.ScopedLogger) *Manager {
	m := &Manager{
		store:       store,
		logger:      logger,
		debounce:    debounce,
		defaultView: defaultView,
	}
	m.active = active
	m.tree = m.loadOrDefault(active)
	return m
}

// SetOnChange registers the observer notification invoked after every tree
// change. Set once during startup, before concurrent use.
func (m *Manager) SetOnChange(fn func()) {
	m.onChange = fn
}

// Active returns the active workspace id.
func (m *Manager) Active() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// Tree returns the current tree. Trees are immutable values; the caller may
// keep reading the snapshot while later mutations produce new roots.
func (m *Manager) Tree() canvas.Node {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tree
}

// TreeFor returns the persisted tree for any workspace id; the active
// workspace is served from memory.
func (m *Manager) TreeFor(id string) (canvas.Node, bool) {
	m.mu.RLock()
	if id == m.active {
		tree := m.tree
		m.mu.RUnlock()
		return tree, true
	}
	m.mu.RUnlock()

	tree, ok, err := m.store.Load(id)
	if err != nil || !ok {
		return nil, false
	}
	return tree, true
}

// List returns all known workspace ids, including the active one even if it
// has never been saved.
func (m *Manager) List() []string {
	ids, err := m.store.List()
	if err != nil {
		m.logger.Warn("list workspaces failed", "error", err)
	}
	active := m.Active()
	for _, id := range ids {
		if id == active {
			return ids
		}
	}
	return append(ids, active)
}

// Apply reduces a command against the active tree and schedules a save.
// Returns the new tree.
func (m *Manager) Apply(cmd canvas.Command) canvas.Node {
	m.mu.Lock()
	m.tree = canvas.Apply(m.tree, cmd)
	tree := m.tree
	id := m.active
	m.scheduleSaveLocked(id, tree)
	m.mu.Unlock()

	m.logger.Debug("command applied",
		"kind", string(cmd.Kind),
		"workspace", id,
		"panels", canvas.CountLeaves(tree),
	)
	m.notify()
	return tree
}

// Switch makes another workspace active, loading its persisted layout or the
// default tree. The previous tree is flushed, then discarded.
func (m *Manager) Switch(id string) canvas.Node {
	m.mu.Lock()
	if id == m.active {
		tree := m.tree
		m.mu.Unlock()
		return tree
	}
	m.flushLocked()
	m.active = id
	m.tree = m.loadOrDefault(id)
	tree := m.tree
	m.mu.Unlock()

	m.logger.Info("workspace switched", "workspace", id)
	m.notify()
	return tree
}

// Reload re-reads the active workspace from disk, replacing the in-memory
// tree when the file differs. Invalid or missing files are ignored with a
// warning. Returns true when the tree changed.
func (m *Manager) Reload() bool {
	m.mu.Lock()
	id := m.active
	loaded, ok, err := m.store.Load(id)
	if err != nil {
		m.mu.Unlock()
		m.logger.Warn("reload ignored invalid layout file", "workspace", id, "error", err)
		return false
	}
	if !ok || canvas.Equal(loaded, m.tree) {
		m.mu.Unlock()
		return false
	}
	m.tree = loaded
	m.mu.Unlock()

	m.logger.Info("workspace reloaded from disk", "workspace", id)
	m.notify()
	return true
}

// Flush writes any pending save immediately. Called on shutdown.
func (m *Manager) Flush() {
	m.mu.Lock()
	m.flushLocked()
	m.mu.Unlock()
}

// Watch monitors the workspaces directory and reloads the active layout when
// its file is rewritten outside the process. onReload is called with the
// workspace id after a successful reload. Blocks until ctx is done.
func (m *Manager) Watch(ctx context.Context, onReload func(workspaceID string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(m.store.Dir()); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if event.Name != m.store.Path(m.Active()) {
				continue
			}
			// Our own saves land here too; Reload compares trees and
			// no-ops when nothing actually changed.
			if m.Reload() && onReload != nil {
				onReload(m.Active())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			m.logger.Warn("workspace watcher error", "error", err)
		}
	}
}

func (m *Manager) loadOrDefault(id string) canvas.Node {
	tree, ok, err := m.store.Load(id)
	if err != nil {
		m.logger.Warn("falling back to default layout", "workspace", id, "error", err)
		return canvas.DefaultTreeWith(m.defaultView)
	}
	if !ok {
		return canvas.DefaultTreeWith(m.defaultView)
	}
	return tree
}

// scheduleSaveLocked debounces persistence: rapid command bursts collapse
// into one write. Requires m.mu held.
func (m *Manager) scheduleSaveLocked(id string, tree canvas.Node) {
	if m.debounce <= 0 {
		go m.save(id, tree)
		return
	}
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(m.debounce, func() {
		m.save(id, tree)
	})
}

// flushLocked cancels any pending debounce and writes synchronously.
// Requires m.mu held.
func (m *Manager) flushLocked() {
	if m.saveTimer != nil {
		if m.saveTimer.Stop() {
			m.save(m.active, m.tree)
		}
		m.saveTimer = nil
	}
}

func (m *Manager) save(id string, tree canvas.Node) {
	if err := m.store.Save(id, tree); err != nil {
		m.logger.Warn("workspace save failed", "workspace", id, "error", err)
	}
}

func (m *Manager) notify() {
	if m.onChange != nil {
		m.onChange()
	}
}
