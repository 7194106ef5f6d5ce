// pattern: Imperative Shell

// Package web exposes the running workspace to local tools: REST reads of
// workspace layouts, an SSE refresh feed, a live websocket layout stream,
// and a command endpoint whose mutations are routed through the TUI program
// so the layout engine keeps its single-writer ordering.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"notebench/internal/canvas"
	"notebench/internal/events"
	"notebench/internal/logging"
	"notebench/internal/workspace"
)

// Server is the local observer server.
type Server struct {
	httpServer *http.Server
	workspaces *workspace.Manager
	notifyTUI  func(any)
	logger     *logging.ScopedLogger
	addr       string
	listener   net.Listener
	broker     *events.Broker
}

// Config holds web server configuration.
type Config struct {
	Bind string
	Port int
}

// New creates the observer server. notifyTUI delivers messages to the TUI
// program (p.Send); broker is signalled on every layout change and drives
// the SSE and websocket feeds.
func New(cfg Config, workspaces *workspace.Manager, notifyTUI func(any), broker *events.Broker, logProvider logging.LoggerProvider) *Server {
	logger := logProvider.For("web")
	addr := fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port)

	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		workspaces: workspaces,
		notifyTUI:  notifyTUI,
		logger:     logger,
		addr:       addr,
		broker:     broker,
	}

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.HandleFunc("GET /api/workspaces", s.handleListWorkspaces)
	mux.HandleFunc("GET /api/workspaces/{id}/layout", s.handleGetLayout)
	mux.HandleFunc("POST /api/workspaces/{id}/commands", s.handlePostCommand)
	mux.HandleFunc("GET /api/layout/ws", s.HandleLayoutStream)

	return s
}

// Listen binds the server to its configured address and returns the
// listener. The two-step Listen/Serve split lets callers read the actual
// bound address when port 0 was configured.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("web server listen: %w", err)
	}
	s.listener = ln
	return ln, nil
}

// Serve accepts connections on the listener. Blocks until the server stops.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("web server started", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Addr returns the listening address. Only valid after Listen.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("web server shutting down")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListWorkspaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"active":     s.workspaces.Active(),
		"workspaces": s.workspaces.List(),
	})
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	tree, ok := s.workspaces.TreeFor(id)
	if !ok {
		http.Error(w, "workspace not found", http.StatusNotFound)
		return
	}
	data, err := canvas.MarshalTree(tree)
	if err != nil {
		s.logger.Error("encode layout failed", "workspace", id, "error", err)
		http.Error(w, "encode layout", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handlePostCommand accepts a layout command for the active workspace. The
// command is validated here but applied on the UI loop via notifyTUI, so web
// mutations interleave with keyboard mutations in dispatch order. 202 means
// "accepted for application", not "applied".
func (s *Server) handlePostCommand(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id != s.workspaces.Active() {
		http.Error(w, "commands are accepted for the active workspace only", http.StatusConflict)
		return
	}

	var cmd canvas.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "malformed command: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := cmd.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.notifyTUI(events.WebCommandMsg{WorkspaceID: id, Command: cmd})
	s.logger.Info("web command accepted", "workspace", id, "kind", string(cmd.Kind))
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// handleEvents is the SSE endpoint: a "connected" event on open, then a
// "refresh" event each time the layout changes. Subscribers re-fetch the
// layout they care about.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.broker.Subscribe()
	defer s.broker.Unsubscribe(ch)

	fmt.Fprintf(w, "event: connected\ndata: ok\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch:
			fmt.Fprintf(w, "event: refresh\ndata: update\n\n")
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
