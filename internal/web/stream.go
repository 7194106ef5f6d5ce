// pattern: Imperative Shell

package web

import (
	"context"
	"net/http"

	"github.com/coder/websocket"

	"notebench/internal/canvas"
)

// HandleLayoutStream upgrades to websocket and streams the active
// workspace's layout: one JSON tree on connect, then one per change.
// Restricted to localhost origins; the observer plane is local-only.
func (s *Server) HandleLayoutStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"127.0.0.1:*", "localhost:*"},
	})
	if err != nil {
		s.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer func() { _ = conn.CloseNow() }()
	conn.SetReadLimit(1 << 16)

	// Do NOT use r.Context() after the upgrade.
	ctx := context.Background()

	ch := s.broker.Subscribe()
	defer s.broker.Unsubscribe(ch)

	// Read side only exists to observe the close; discard everything.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	s.logger.Info("layout stream connected", "remote", r.RemoteAddr)

	if !s.writeLayout(ctx, conn) {
		return
	}
	for {
		select {
		case <-readDone:
			s.logger.Info("layout stream disconnected", "remote", r.RemoteAddr)
			return
		case <-ch:
			if !s.writeLayout(ctx, conn) {
				return
			}
		}
	}
}

func (s *Server) writeLayout(ctx context.Context, conn *websocket.Conn) bool {
	data, err := canvas.MarshalTree(s.workspaces.Tree())
	if err != nil {
		s.logger.Error("encode layout for stream failed", "error", err)
		return false
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		return false
	}
	return true
}
