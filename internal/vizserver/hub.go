// Package vizserver streams world snapshots to remote viewers over websockets.
package vizserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pb"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/simulation"
	"go.uber.org/zap"
)

const (
	writeWait      = 5 * time.Second
	watcherBacklog = 8
)

// Frame is the envelope of every message pushed to a watcher.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type watcher struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans the latest snapshot out to every connected watcher.
// A slow watcher loses frames, it never slows the simulation down.
type Hub struct {
	logger *zap.Logger

	mu       sync.Mutex
	watchers map[*watcher]struct{}
	latest   []byte // protojson WorldSnapshot
	binary   []byte // latest in the protobuf wire format
	frame    []byte // latest wrapped in a Frame
	dropped  int
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{logger: logger, watchers: make(map[*watcher]struct{})}
}

// Publish encodes s and queues it for every watcher.
func (h *Hub) Publish(s *simulation.Snapshot) error {
	msg := pb.FromSnapshot(s)
	data, err := pb.MarshalJSON(msg)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	bin, err := pb.MarshalBinary(msg)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	frame, err := json.Marshal(Frame{Type: "snapshot", Data: data})
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = data
	h.binary = bin
	h.frame = frame
	for wt := range h.watchers {
		select {
		case wt.send <- frame:
		default:
			h.dropped++
		}
	}
	return nil
}

// Pump publishes every snapshot received on snapshots until ctx is done or the channel is closed.
func (h *Hub) Pump(ctx context.Context, snapshots <-chan *simulation.Snapshot) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case s, ok := <-snapshots:
			if !ok {
				return nil
			}
			if err := h.Publish(s); err != nil {
				return err
			}
		}
	}
}

// Latest returns the last published snapshot as protojson, nil before the first one.
func (h *Hub) Latest() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// LatestBinary is Latest in the protobuf wire format.
func (h *Hub) LatestBinary() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.binary
}

// Watchers returns the number of connected watchers.
func (h *Hub) Watchers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers)
}

// register adds a watcher and queues the latest frame so it renders immediately.
func (h *Hub) register(id string, conn *websocket.Conn) *watcher {
	wt := &watcher{id: id, conn: conn, send: make(chan []byte, watcherBacklog)}
	h.mu.Lock()
	h.watchers[wt] = struct{}{}
	if h.frame != nil {
		wt.send <- h.frame
	}
	n := len(h.watchers)
	h.mu.Unlock()
	h.logger.Info("watcher connected", zap.String("watcher", id), zap.Int("watchers", n))
	return wt
}

func (h *Hub) unregister(wt *watcher) {
	h.mu.Lock()
	if _, ok := h.watchers[wt]; ok {
		delete(h.watchers, wt)
		close(wt.send)
	}
	n := len(h.watchers)
	h.mu.Unlock()
	h.logger.Info("watcher disconnected", zap.String("watcher", wt.id), zap.Int("watchers", n))
}

// writeLoop is the only writer of wt.conn.
func (h *Hub) writeLoop(wt *watcher) {
	defer wt.conn.Close()
	for frame := range wt.send {
		_ = wt.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := wt.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			h.logger.Debug("write failed", zap.String("watcher", wt.id), zap.Error(err))
			return
		}
	}
	_ = wt.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = wt.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
