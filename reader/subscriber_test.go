package reader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/config"
	"orderdesk/internal/channel"
)

// venueFeed starts a websocket server on the feed path that runs script
// against every client.
func venueFeed(t *testing.T, script func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/orderbook/BTC-USDT" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		script(conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(srv *httptest.Server) *config.Config {
	cfg := config.Default()
	cfg.Venue.Host = strings.TrimPrefix(srv.URL, "http://")
	cfg.Feed.HandshakeTimeout = time.Second
	return &cfg
}

func drain(t *testing.T, events *channel.Events, n int) []channel.Event {
	t.Helper()
	out := make([]channel.Event, 0, n)
	for len(out) < n {
		select {
		case ev := <-events.C:
			out = append(out, ev)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d events", len(out), n)
		}
	}
	return out
}

func TestSubscriberRoutesFramesInOrder(t *testing.T) {
	srv := venueFeed(t, func(conn *websocket.Conn) {
		for _, frame := range []string{
			`{"bids":[[100.5,2],[100.0,5]],"asks":[[101.0,3]]}`,
			`{garbage`,
			`{"trades":[{"price":100.5,"quantity":1,"aggressor_side":"buy"}]}`,
			`{"type":"heartbeat"}`,
		} {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		time.Sleep(50 * time.Millisecond)
	})

	events := channel.NewEvents(16)
	sub := NewSubscriber(testConfig(srv), events)
	assert.True(t, strings.HasSuffix(sub.URL(), "/ws/orderbook/BTC-USDT"))

	require.NoError(t, sub.Run(context.Background()))

	got := drain(t, events, 4)
	assert.IsType(t, BookUpdate{}, got[0])
	assert.IsType(t, TradeUpdate{}, got[1])
	assert.IsType(t, Unrecognized{}, got[2])
	closed, ok := got[3].(ConnClosed)
	require.True(t, ok, "got %T", got[3])
	assert.Equal(t, websocket.CloseNormalClosure, closed.Code)
	assert.Len(t, events.C, 0)

	assert.Error(t, sub.Run(context.Background()), "subscriber must not be reused")
}

func TestSubscriberReportsAbruptDisconnect(t *testing.T) {
	srv := venueFeed(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"bids":[],"asks":[]}`))
		conn.UnderlyingConn().Close()
	})

	events := channel.NewEvents(16)
	err := NewSubscriber(testConfig(srv), events).Run(context.Background())
	require.Error(t, err)

	got := drain(t, events, 3)
	assert.IsType(t, BookUpdate{}, got[0])
	assert.IsType(t, ConnError{}, got[1])
	closed, ok := got[2].(ConnClosed)
	require.True(t, ok, "got %T", got[2])
	assert.Equal(t, websocket.CloseAbnormalClosure, closed.Code)
}

func TestSubscriberDialFailure(t *testing.T) {
	srv := venueFeed(t, func(*websocket.Conn) {})
	cfg := testConfig(srv)
	srv.Close()

	events := channel.NewEvents(4)
	err := NewSubscriber(cfg, events).Run(context.Background())
	require.Error(t, err)

	got := drain(t, events, 2)
	assert.IsType(t, ConnError{}, got[0])
	assert.IsType(t, ConnClosed{}, got[1])
}

func TestSubscriberStopsWithContext(t *testing.T) {
	release := make(chan struct{})
	srv := venueFeed(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"trades":[]}`))
		<-release
	})
	defer close(release)

	events := channel.NewEvents(4)
	sub := NewSubscriber(testConfig(srv), events)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- sub.Run(ctx) }()

	got := drain(t, events, 1)
	assert.IsType(t, TradeUpdate{}, got[0])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	sub.Stop()
	assert.Len(t, events.C, 0, "a stop is not reported as a venue close")
}

func TestSubscriberKeepalive(t *testing.T) {
	pinged := make(chan struct{}, 1)
	srv := venueFeed(t, func(conn *websocket.Conn) {
		conn.SetPingHandler(func(string) error {
			select {
			case pinged <- struct{}{}:
			default:
			}
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	cfg := testConfig(srv)
	cfg.Feed.PingInterval = 10 * time.Millisecond
	sub := NewSubscriber(cfg, channel.NewEvents(4))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sub.Run(ctx) }()

	select {
	case <-pinged:
	case <-time.After(2 * time.Second):
		t.Fatal("no ping received")
	}
}
