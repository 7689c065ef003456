package realtime

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tiffin/internal/domain/entity"
	"tiffin/internal/domain/service"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushServer struct {
	t        *testing.T
	srv      *httptest.Server
	upgrader websocket.Upgrader

	connects atomic.Int32
	mu       sync.Mutex
	auth     []string
	conns    []*websocket.Conn
	onConn   func(conn *websocket.Conn)
}

func newPushServer(t *testing.T, onConn func(conn *websocket.Conn)) *pushServer {
	t.Helper()

	ps := &pushServer{t: t, onConn: onConn}
	ps.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer revoked" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		conn, err := ps.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ps.connects.Add(1)

		ps.mu.Lock()
		ps.auth = append(ps.auth, r.Header.Get("Authorization"))
		ps.conns = append(ps.conns, conn)
		ps.mu.Unlock()

		if ps.onConn != nil {
			ps.onConn(conn)
		}
	}))
	t.Cleanup(func() {
		ps.dropAll()
		ps.srv.Close()
	})

	return ps
}

func (ps *pushServer) url() string {
	return "ws" + strings.TrimPrefix(ps.srv.URL, "http")
}

func (ps *pushServer) dropAll() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for _, conn := range ps.conns {
		_ = conn.Close()
	}
	ps.conns = nil
}

func newTestChannel(url string, attempts int) *Channel {
	return New(Options{
		URL:               url,
		ReconnectAttempts: attempts,
		ReconnectDelay:    20 * time.Millisecond,
		HandshakeTimeout:  time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestChannel_DeliversEventsInOrder(t *testing.T) {
	ps := newPushServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"order_update","data":{"id":1,"status":"confirmed"}}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"rider_location","data":{}}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"order_update","data":{"status":"ready"}}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`["new_notification",{"_id":"n1","title":"Hi","message":"there"}]`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"order_update","data":{"id":1,"status":"preparing"}}`))
	})

	ch := newTestChannel(ps.url(), 1)
	t.Cleanup(func() { _ = ch.Close() })

	var (
		mu     sync.Mutex
		events []entity.Event
	)
	record := func(_ context.Context, event entity.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, event)
	}
	ch.Subscribe(entity.EventOrderUpdate, record)
	ch.Subscribe(entity.EventNewNotification, record)

	require.NoError(t, ch.Open(context.Background(), "tok"))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(events) == 3
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	first, ok := events[0].(entity.OrderUpdated)
	require.True(t, ok)
	assert.Equal(t, entity.OrderStatusConfirmed, first.Order.Status)

	second, ok := events[1].(entity.NotificationReceived)
	require.True(t, ok)
	assert.Equal(t, entity.ID("n1"), second.Notification.ID)

	third, ok := events[2].(entity.OrderUpdated)
	require.True(t, ok)
	assert.Equal(t, entity.OrderStatusPreparing, third.Order.Status)

	ps.mu.Lock()
	assert.Equal(t, []string{"Bearer tok"}, ps.auth)
	ps.mu.Unlock()
}

func TestChannel_OpenIsIdempotentPerCredential(t *testing.T) {
	ps := newPushServer(t, nil)
	ch := newTestChannel(ps.url(), 1)
	t.Cleanup(func() { _ = ch.Close() })

	require.NoError(t, ch.Open(context.Background(), "tok"))
	require.NoError(t, ch.Open(context.Background(), "tok"))

	require.Eventually(t, func() bool { return ch.State() == service.ChannelConnected }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), ps.connects.Load())

	require.NoError(t, ch.Open(context.Background(), "other"))
	require.Eventually(t, func() bool { return ps.connects.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestChannel_SubscribeReplacesHandler(t *testing.T) {
	ps := newPushServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"order_update","data":{"id":3,"status":"ready"}}`))
	})
	ch := newTestChannel(ps.url(), 1)
	t.Cleanup(func() { _ = ch.Close() })

	var first, second atomic.Int32
	ch.Subscribe(entity.EventOrderUpdate, func(context.Context, entity.Event) { first.Add(1) })
	ch.Subscribe(entity.EventOrderUpdate, func(context.Context, entity.Event) { second.Add(1) })

	require.NoError(t, ch.Open(context.Background(), "tok"))
	require.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, first.Load())
}

func TestChannel_CloseIsIdempotent(t *testing.T) {
	ps := newPushServer(t, nil)
	ch := newTestChannel(ps.url(), 1)

	var (
		mu     sync.Mutex
		states []service.ChannelState
	)
	ch.OnStateChange(func(s service.ChannelState) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, s)
	})

	require.NoError(t, ch.Close())
	require.NoError(t, ch.Open(context.Background(), "tok"))
	require.Eventually(t, func() bool { return ch.State() == service.ChannelConnected }, time.Second, 5*time.Millisecond)

	require.NoError(t, ch.Close())
	require.NoError(t, ch.Close())
	assert.Equal(t, service.ChannelDisconnected, ch.State())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []service.ChannelState{
		service.ChannelConnecting,
		service.ChannelConnected,
		service.ChannelDisconnected,
	}, states)
}

func TestChannel_ListenersSeeSnapshotOfRegistrations(t *testing.T) {
	ps := newPushServer(t, nil)
	ch := newTestChannel(ps.url(), 1)

	var (
		mu   sync.Mutex
		late []service.ChannelState
	)
	var once sync.Once
	ch.OnStateChange(func(s service.ChannelState) {
		// Registering from inside a notification must not deadlock or
		// receive the transition that is being delivered.
		once.Do(func() {
			ch.OnStateChange(func(s service.ChannelState) {
				mu.Lock()
				defer mu.Unlock()
				late = append(late, s)
			})
		})
	})

	require.NoError(t, ch.Open(context.Background(), "tok"))
	require.Eventually(t, func() bool { return ch.State() == service.ChannelConnected }, time.Second, 5*time.Millisecond)
	require.NoError(t, ch.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []service.ChannelState{service.ChannelConnected, service.ChannelDisconnected}, late)
}

func TestChannel_ReconnectsAfterDrop(t *testing.T) {
	ps := newPushServer(t, nil)
	ch := newTestChannel(ps.url(), 3)
	t.Cleanup(func() { _ = ch.Close() })

	require.NoError(t, ch.Open(context.Background(), "tok"))
	require.Eventually(t, func() bool { return ch.State() == service.ChannelConnected }, time.Second, 5*time.Millisecond)

	ps.dropAll()

	require.Eventually(t, func() bool { return ps.connects.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return ch.State() == service.ChannelConnected }, time.Second, 5*time.Millisecond)
}

func TestChannel_GivesUpAfterAttempts(t *testing.T) {
	ps := newPushServer(t, nil)
	ch := newTestChannel(ps.url(), 2)
	t.Cleanup(func() { _ = ch.Close() })

	require.NoError(t, ch.Open(context.Background(), "tok"))
	require.Eventually(t, func() bool { return ch.State() == service.ChannelConnected }, time.Second, 5*time.Millisecond)

	ps.dropAll()
	ps.srv.Close()

	require.Eventually(t, func() bool { return ch.State() == service.ChannelDisconnected }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), ps.connects.Load())
}

func TestChannel_RejectedCredential(t *testing.T) {
	ps := newPushServer(t, nil)
	ch := newTestChannel(ps.url(), 1)
	t.Cleanup(func() { _ = ch.Close() })

	err := ch.Open(context.Background(), "revoked")
	require.Error(t, err)

	require.Eventually(t, func() bool { return ch.State() == service.ChannelDisconnected }, time.Second, 5*time.Millisecond)
	assert.Zero(t, ps.connects.Load())
}

func TestDecodeFrame(t *testing.T) {
	kind, payload, err := decodeFrame([]byte(`{"event":"order_update","data":{"id":1}}`))
	require.NoError(t, err)
	assert.Equal(t, entity.EventOrderUpdate, kind)
	assert.JSONEq(t, `{"id":1}`, string(payload))

	kind, payload, err = decodeFrame([]byte(`["new_notification",{"id":2}]`))
	require.NoError(t, err)
	assert.Equal(t, entity.EventNewNotification, kind)
	assert.JSONEq(t, `{"id":2}`, string(payload))

	_, _, err = decodeFrame([]byte(`{"data":{}}`))
	require.Error(t, err)

	_, _, err = decodeFrame([]byte(`["solo"]`))
	require.Error(t, err)

	_, _, err = decodeFrame([]byte(`42`))
	require.Error(t, err)
}
