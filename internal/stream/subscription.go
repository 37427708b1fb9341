package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"gymhub/internal/capacity"
	"gymhub/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	DefaultReconnectDelay = 5 * time.Second
	DefaultHeartbeat      = 4 * time.Second
)

type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Handler receives decoded capacity events in arrival order.
type Handler func(capacity.Event)

type Options struct {
	// ReconnectDelay is the fixed wait between attempts. There is no backoff
	// and no attempt limit.
	ReconnectDelay time.Duration
	// Heartbeat is the ping interval; a peer silent for two intervals is
	// treated as gone.
	Heartbeat time.Duration
	Header    http.Header
	Dialer    *websocket.Dialer
}

// Subscription keeps one live websocket subscription to a capacity topic for
// as long as its owner is mounted. Failures never reach the caller; they only
// show up as state changes.
type Subscription struct {
	url   string
	topic string
	opts  Options

	handler     atomic.Pointer[Handler]
	onState     atomic.Pointer[func(State)]
	onReconnect atomic.Pointer[func()]

	state   atomic.Int32
	closing atomic.Bool

	startOnce sync.Once
	closeOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

func New(url, topic string, opts Options) *Subscription {
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = DefaultReconnectDelay
	}
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = DefaultHeartbeat
	}
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	if topic == "" {
		topic = capacity.TopicAll
	}
	return &Subscription{
		url:   url,
		topic: topic,
		opts:  opts,
		done:  make(chan struct{}),
	}
}

// OnEvent installs h as the current handler. It may be called at any time;
// the next delivered event goes to the latest handler without reconnecting.
func (s *Subscription) OnEvent(h Handler) {
	if h == nil {
		s.handler.Store(nil)
		return
	}
	s.handler.Store(&h)
}

func (s *Subscription) OnStateChange(fn func(State)) {
	if fn == nil {
		s.onState.Store(nil)
		return
	}
	s.onState.Store(&fn)
}

// OnReconnect is called, on its own goroutine, every time the channel comes
// back after having been connected before.
func (s *Subscription) OnReconnect(fn func()) {
	if fn == nil {
		s.onReconnect.Store(nil)
		return
	}
	s.onReconnect.Store(&fn)
}

func (s *Subscription) State() State {
	return State(s.state.Load())
}

func (s *Subscription) Connected() bool {
	return s.State() == Connected
}

// Start opens the channel. Calling it more than once has no effect, and a
// closed Subscription cannot be restarted.
func (s *Subscription) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(ctx)
		s.cancel = cancel
		go s.run(ctx)
	})
}

// Close tears the channel down. Once Close returns no handler is running and
// none will be called again.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.closing.Store(true)
		started := false
		s.startOnce.Do(func() {})
		if s.cancel != nil {
			started = true
			s.cancel()
		}
		if started {
			<-s.done
		}
		s.setState(Disconnected)
	})
}

func (s *Subscription) run(ctx context.Context) {
	defer close(s.done)

	everConnected := false
	for {
		s.setState(Connecting)
		err := s.session(ctx, &everConnected)
		s.setState(Disconnected)

		if ctx.Err() != nil {
			return
		}
		logger.Debug("capacity feed disconnected", "url", s.url, "error", err, "retry_in", s.opts.ReconnectDelay.String())

		t := time.NewTimer(s.opts.ReconnectDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

func (s *Subscription) session(ctx context.Context, everConnected *bool) error {
	conn, _, err := s.opts.Dialer.DialContext(ctx, s.url, s.opts.Header)
	if err != nil {
		return err
	}

	sessCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() {
		<-sessCtx.Done()
		conn.Close()
	}()

	hb := s.opts.Heartbeat
	extend := func() { _ = conn.SetReadDeadline(time.Now().Add(2 * hb)) }
	extend()
	conn.SetPongHandler(func(string) error {
		extend()
		return nil
	})
	conn.SetPingHandler(func(data string) error {
		extend()
		err := conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(hb))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	sub := capacity.Frame{Type: capacity.FrameSubscribe, Topic: s.topic}
	_ = conn.SetWriteDeadline(time.Now().Add(hb))
	if err := conn.WriteJSON(sub); err != nil {
		return err
	}

	s.setState(Connected)
	if *everConnected {
		if fn := s.onReconnect.Load(); fn != nil && !s.closing.Load() {
			go func() {
				if s.closing.Load() || sessCtx.Err() != nil {
					return
				}
				(*fn)()
			}()
		}
	}
	*everConnected = true

	go s.ping(sessCtx, conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		extend()
		s.dispatch(data)
	}
}

func (s *Subscription) ping(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(s.opts.Heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.opts.Heartbeat)); err != nil {
				conn.Close()
				return
			}
		}
	}
}

func (s *Subscription) dispatch(data []byte) {
	var f capacity.Frame
	if err := json.Unmarshal(data, &f); err != nil {
		logger.Debug("dropping malformed frame", "error", err)
		return
	}
	if f.Type != capacity.FrameEvent || f.Topic != s.topic {
		return
	}

	var ev capacity.Event
	if err := json.Unmarshal(f.Payload, &ev); err != nil {
		logger.Debug("dropping malformed capacity event", "error", err)
		return
	}

	if s.closing.Load() {
		return
	}
	if h := s.handler.Load(); h != nil {
		(*h)(ev)
	}
}

func (s *Subscription) setState(st State) {
	if State(s.state.Swap(int32(st))) == st {
		return
	}
	logger.Debug("capacity feed state", "state", st.String())
	if fn := s.onState.Load(); fn != nil {
		(*fn)(st)
	}
}
