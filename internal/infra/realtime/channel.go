// Package realtime implements the authenticated push channel over a websocket.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"tiffin/config"
	domainerrors "tiffin/internal/domain/errors"
	"tiffin/internal/domain/entity"
	"tiffin/internal/domain/service"
	"tiffin/internal/errors"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/fx"
)

// ChannelParams holds dependencies for the push channel, injected by Fx.
type ChannelParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// Options configures a Channel.
type Options struct {
	URL               string
	ReconnectAttempts int
	ReconnectDelay    time.Duration
	HandshakeTimeout  time.Duration
}

// Channel is a websocket push connection with bounded reconnection.
//
// Every connection run carries a generation number. Close and a credential
// change bump the generation, so a superseded run can no longer publish
// state or dispatch events.
type Channel struct {
	opts   Options
	dialer *websocket.Dialer
	logger *slog.Logger

	mu         sync.Mutex
	gen        uint64
	state      service.ChannelState
	credential entity.Credential
	conn       *websocket.Conn
	cancel     context.CancelFunc
	handlers   map[entity.EventKind]service.EventHandler
	listeners  []func(service.ChannelState)
}

// NewChannel creates the push channel from configuration and closes it on stop.
func NewChannel(params ChannelParams) service.RealtimeChannel {
	ch := New(Options{
		URL:               params.Config.Realtime.URL,
		ReconnectAttempts: params.Config.Realtime.ReconnectAttempts,
		ReconnectDelay:    params.Config.Realtime.ReconnectDelay,
		HandshakeTimeout:  params.Config.Realtime.HandshakeTimeout,
	}, params.Logger)

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return ch.Close()
		},
	})

	return ch
}

// New creates a disconnected Channel.
func New(opts Options, logger *slog.Logger) *Channel {
	if opts.ReconnectAttempts < 0 {
		opts.ReconnectAttempts = 0
	}

	return &Channel{
		opts: opts,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: opts.HandshakeTimeout,
		},
		logger:   logger.With(slog.String("component", "realtime")),
		state:    service.ChannelDisconnected,
		handlers: make(map[entity.EventKind]service.EventHandler),
	}
}

// Open connects with credential. A live connection for the same credential is
// reused; a different credential replaces it. When the first dial fails the
// error is returned and reconnection continues in the background.
func (c *Channel) Open(ctx context.Context, credential entity.Credential) error {
	c.mu.Lock()
	if c.state != service.ChannelDisconnected && c.credential == credential {
		c.mu.Unlock()

		return nil
	}

	c.teardownLocked()
	c.gen++
	gen := c.gen
	c.credential = credential
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel
	notify := c.setStateLocked(service.ChannelConnecting)
	c.mu.Unlock()
	notify()

	conn, err := c.dial(runCtx, credential)
	go c.supervise(runCtx, gen, credential, conn)

	if err != nil {
		c.logger.Warn("Realtime connect failed, retrying in background", slog.Any("error", err))

		return errors.Wrap(domainerrors.ErrChannelClosed.WithDetails(err.Error()), "open realtime channel")
	}

	return nil
}

// Close tears the connection down and stops reconnection. Idempotent.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.state == service.ChannelDisconnected && c.cancel == nil {
		c.mu.Unlock()

		return nil
	}

	c.teardownLocked()
	c.gen++
	c.credential = ""
	notify := c.setStateLocked(service.ChannelDisconnected)
	c.mu.Unlock()
	notify()

	c.logger.Info("Realtime channel closed")

	return nil
}

// State returns the current connection state.
func (c *Channel) State() service.ChannelState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Subscribe registers handler for kind, replacing any previous handler.
func (c *Channel) Subscribe(kind entity.EventKind, handler service.EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if handler == nil {
		delete(c.handlers, kind)

		return
	}
	c.handlers[kind] = handler
}

// OnStateChange registers a listener for state transitions.
func (c *Channel) OnStateChange(listener func(service.ChannelState)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.listeners = append(c.listeners, listener)
}

func (c *Channel) dial(ctx context.Context, credential entity.Credential) (*websocket.Conn, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+string(credential))

	conn, resp, err := c.dialer.DialContext(ctx, c.opts.URL, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, backoff.Permanent(domainerrors.NewRemoteError(resp.StatusCode, "", c.opts.URL))
		}

		return nil, errors.Wrap(err, "dial realtime channel")
	}

	return conn, nil
}

// supervise owns one run: it reads from conn until it drops, then redials
// with the configured policy until the attempts are exhausted or the run is
// superseded.
func (c *Channel) supervise(ctx context.Context, gen uint64, credential entity.Credential, conn *websocket.Conn) {
	for {
		if conn != nil {
			if !c.attach(gen, conn) {
				_ = conn.Close()

				return
			}

			err := c.readLoop(ctx, gen, conn)
			c.detach(gen, conn)
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn("Realtime connection dropped", slog.Any("error", err))
		}

		if !c.transition(gen, service.ChannelReconnecting) {
			return
		}

		var err error
		conn, err = c.reconnect(ctx, credential)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("Realtime reconnection gave up", slog.Any("error", err))
			c.giveUp(gen)

			return
		}
	}
}

func (c *Channel) reconnect(ctx context.Context, credential entity.Credential) (*websocket.Conn, error) {
	if c.opts.ReconnectAttempts == 0 {
		return nil, errors.New("reconnection disabled")
	}

	// Each attempt, the first included, waits one delay.
	timer := time.NewTimer(c.opts.ReconnectDelay)
	select {
	case <-ctx.Done():
		timer.Stop()

		return nil, ctx.Err()
	case <-timer.C:
	}

	attempt := 0
	conn, err := backoff.Retry(ctx, func() (*websocket.Conn, error) {
		attempt++
		c.logger.Debug("Realtime reconnect attempt", slog.Int("attempt", attempt))

		return c.dial(ctx, credential)
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(c.opts.ReconnectDelay)),
		backoff.WithMaxTries(uint(c.opts.ReconnectAttempts)),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "reconnect after %d attempts", attempt)
	}

	return conn, nil
}

func (c *Channel) readLoop(ctx context.Context, gen uint64, conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		kind, payload, err := decodeFrame(data)
		if err != nil {
			c.logger.Debug("Ignoring malformed realtime frame", slog.Any("error", err))

			continue
		}

		event, err := entity.DecodeEvent(kind, payload)
		if err != nil {
			if errors.Is(err, entity.ErrUnknownEvent) {
				c.logger.Debug("Ignoring realtime event", slog.String("event", string(kind)))
			} else {
				c.logger.Warn("Dropping invalid realtime event", slog.String("event", string(kind)), slog.Any("error", err))
			}

			continue
		}

		handler, current := c.handlerFor(gen, kind)
		if !current {
			return errors.New("superseded")
		}
		if handler != nil {
			handler(ctx, event)
		}
	}
}

func (c *Channel) handlerFor(gen uint64, kind entity.EventKind) (service.EventHandler, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return nil, false
	}

	return c.handlers[kind], true
}

func (c *Channel) attach(gen uint64, conn *websocket.Conn) bool {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()

		return false
	}
	c.conn = conn
	notify := c.setStateLocked(service.ChannelConnected)
	c.mu.Unlock()
	notify()

	c.logger.Info("Realtime channel connected")

	return true
}

func (c *Channel) detach(gen uint64, conn *websocket.Conn) {
	_ = conn.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen == gen && c.conn == conn {
		c.conn = nil
	}
}

func (c *Channel) transition(gen uint64, state service.ChannelState) bool {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()

		return false
	}
	notify := c.setStateLocked(state)
	c.mu.Unlock()
	notify()

	return true
}

func (c *Channel) giveUp(gen uint64) {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()

		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.credential = ""
	notify := c.setStateLocked(service.ChannelDisconnected)
	c.mu.Unlock()
	notify()
}

// teardownLocked stops the current run. The caller holds c.mu.
func (c *Channel) teardownLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// setStateLocked records state and returns a func that notifies listeners.
// The caller holds c.mu and must call the returned func after unlocking.
func (c *Channel) setStateLocked(state service.ChannelState) func() {
	if c.state == state {
		return func() {}
	}
	c.state = state
	listeners := slices.Clone(c.listeners)

	return func() {
		for _, listener := range listeners {
			listener(state)
		}
	}
}

type frame struct {
	Event entity.EventKind `json:"event"`
	Data  json.RawMessage  `json:"data"`
}

// decodeFrame accepts {"event": ..., "data": ...} objects and
// ["event", data] arrays.
func decodeFrame(data []byte) (entity.EventKind, json.RawMessage, error) {
	var obj frame
	if err := json.Unmarshal(data, &obj); err == nil {
		if obj.Event == "" {
			return "", nil, errors.New("frame without event name")
		}

		return obj.Event, obj.Data, nil
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err != nil {
		return "", nil, errors.Wrap(err, "decode frame")
	}
	if len(arr) < 2 {
		return "", nil, errors.New("frame array needs an event name and a payload")
	}

	var kind entity.EventKind
	if err := json.Unmarshal(arr[0], &kind); err != nil {
		return "", nil, errors.Wrap(err, "decode frame event name")
	}

	return kind, arr[1], nil
}
