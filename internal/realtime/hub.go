package realtime

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"gymhub/internal/capacity"
	"gymhub/internal/logger"
	"gymhub/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	DefaultHeartbeat = 4 * time.Second
	sendBuffer       = 32
	maxFrameSize     = 4096
	writeWait        = 5 * time.Second
)

// Hub fans capacity events out to websocket clients subscribed to a topic.
type Hub struct {
	heartbeat time.Duration
	upgrader  websocket.Upgrader

	mu      sync.RWMutex
	clients map[*conn]struct{}
	closed  bool
}

type conn struct {
	hub  *Hub
	ws   *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once

	mu     sync.Mutex
	topics map[string]bool
}

func NewHub(heartbeat time.Duration) *Hub {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &Hub{
		heartbeat: heartbeat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*conn]struct{}),
	}
}

// ValidTopic reports whether topic is one the hub serves.
func ValidTopic(topic string) bool {
	if topic == capacity.TopicAll {
		return true
	}
	rest, ok := strings.CutPrefix(topic, capacity.TopicAll+"/")
	if !ok || rest == "" {
		return false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	return err == nil && id > 0
}

// ServeWS godoc
// @Summary Capacity feed
// @Description Upgrades to a websocket carrying subscribe/unsubscribe/event frames
// @Tags realtime
// @Router /ws [get]
func (h *Hub) ServeWS(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	cl := &conn{
		hub:    h,
		ws:     ws,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		topics: make(map[string]bool),
	}
	if !h.register(cl) {
		ws.Close()
		return
	}

	go cl.writeLoop()
	cl.readLoop()
}

// Broadcast delivers ev to every client subscribed to topic. A client whose
// buffer is full is dropped. It is safe to call while clients disconnect.
func (h *Hub) Broadcast(topic string, ev capacity.Event) {
	frame, err := capacity.EventFrame(topic, ev)
	if err != nil {
		logger.Error("failed to encode capacity event", "error", err)
		return
	}
	data, err := json.Marshal(frame)
	if err != nil {
		logger.Error("failed to encode frame", "error", err)
		return
	}

	h.mu.RLock()
	targets := make([]*conn, 0, len(h.clients))
	for cl := range h.clients {
		if cl.subscribed(topic) {
			targets = append(targets, cl)
		}
	}
	h.mu.RUnlock()

	for _, cl := range targets {
		select {
		case <-cl.done:
		case cl.send <- data:
		default:
			logger.Info("dropping slow websocket client", "topic", topic)
			cl.close()
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*conn, 0, len(h.clients))
	for cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.Unlock()

	for _, cl := range clients {
		cl.close()
	}
}

func (h *Hub) register(cl *conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[cl] = struct{}{}
	metrics.WebsocketConnections.Inc()
	return true
}

func (h *Hub) unregister(cl *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		metrics.WebsocketConnections.Dec()
	}
}

func (c *conn) subscribed(topic string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.topics[topic]
}

func (c *conn) close() {
	c.once.Do(func() {
		c.hub.unregister(c)
		close(c.done)
	})
}

func (c *conn) readLoop() {
	defer func() {
		c.close()
		c.ws.Close()
	}()

	deadline := 2 * c.hub.heartbeat
	c.ws.SetReadLimit(maxFrameSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(deadline))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(deadline))
	})
	c.ws.SetPingHandler(func(data string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(deadline))
		err := c.ws.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
		if err == websocket.ErrCloseSent {
			return nil
		}
		return err
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket closed", "error", err)
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(deadline))

		var f capacity.Frame
		if err := json.Unmarshal(data, &f); err != nil {
			logger.Debug("ignoring malformed frame", "error", err)
			continue
		}
		if !ValidTopic(f.Topic) {
			logger.Debug("ignoring frame for unknown topic", "topic", f.Topic)
			continue
		}

		c.mu.Lock()
		switch f.Type {
		case capacity.FrameSubscribe:
			c.topics[f.Topic] = true
		case capacity.FrameUnsubscribe:
			delete(c.topics, f.Topic)
		}
		c.mu.Unlock()
	}
}

func (c *conn) writeLoop() {
	ticker := time.NewTicker(c.hub.heartbeat)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}
