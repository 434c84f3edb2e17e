package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vitae-cli/internal/builder"
	"vitae-cli/internal/templatedata"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// liveMsg is one frame of the /live feed.
type liveMsg struct {
	Type   string               `json:"type"`
	Change string               `json:"change,omitempty"`
	Entity string               `json:"entityId,omitempty"`
	Open   string               `json:"open,omitempty"`
	Error  string               `json:"error,omitempty"`
	Tree   *builder.Tree        `json:"tree,omitempty"`
	Resume *templatedata.Resume `json:"resume,omitempty"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 32 * 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			return true
		}
		return sameOrigin(origin, r.Host)
	},
}

// sameOrigin reports whether origin names exactly the host the request was sent to.
func sameOrigin(origin, host string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, strings.TrimSpace(host))
}

const (
	liveWriteWait  = 10 * time.Second
	livePingPeriod = 30 * time.Second
)

// handleLive upgrades to a websocket and pushes the document tree after every change to it.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.b.Tree(id); err != nil {
		writeMutationError(w, err)
		return
	}
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	changes, unsubscribe := s.b.Subscribe()
	defer unsubscribe()

	// Reads only serve to notice the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(msg liveMsg) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
		return conn.WriteJSON(msg) == nil
	}

	if !s.sendTree(send, id, "snapshot", builder.Change{}) {
		return
	}

	ping := time.NewTicker(livePingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case c, ok := <-changes:
			if !ok {
				return
			}
			switch {
			case c.Err != nil:
				if !send(liveMsg{Type: "error", Change: c.Type, Error: c.Err.Error()}) {
					return
				}
			case c.Type == "ui.toggle":
				if !send(liveMsg{Type: "toggle", Entity: c.EntityID, Open: s.b.CollapsedItemID()}) {
					return
				}
			case c.DocumentID == id:
				if !s.sendTree(send, id, "change", c) {
					return
				}
			}
		}
	}
}

// sendTree writes the current tree, or a "deleted" frame once the document is gone.
func (s *Server) sendTree(send func(liveMsg) bool, id, typ string, c builder.Change) bool {
	tree, err := s.b.Tree(id)
	if err != nil {
		send(liveMsg{Type: "deleted", Change: c.Type, Entity: id})
		return false
	}
	msg := liveMsg{Type: typ, Change: c.Type, Entity: c.EntityID, Open: s.b.CollapsedItemID(), Tree: &tree}
	if data, err := s.b.TemplateData(id); err == nil {
		msg.Resume = &data
	}
	return send(msg)
}
