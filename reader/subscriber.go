package reader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"orderdesk/config"
	"orderdesk/internal/channel"
	"orderdesk/internal/metrics"
	"orderdesk/logger"
)

// Sink receives decoded feed events in arrival order.
type Sink interface {
	Send(ctx context.Context, ev channel.Event) bool
}

// ConnError reports a failure on the feed connection. It is informational:
// the subscriber never reconnects.
type ConnError struct {
	Err error
}

// ConnClosed reports that the feed connection is gone and the view is
// frozen at its last state.
type ConnClosed struct {
	Code   int
	Reason string
}

func (ConnError) EventName() string  { return "conn_error" }
func (ConnClosed) EventName() string { return "conn_closed" }

// Subscriber holds the single market data connection for one symbol. Run
// dials once and reads until the connection ends; it never reconnects.
// Callers wanting resilience wrap Run in their own retry loop.
type Subscriber struct {
	url              string
	handshakeTimeout time.Duration
	readLimit        int64
	pingInterval     time.Duration

	sink    Sink
	log     *logger.Log
	mu      sync.Mutex
	conn    *websocket.Conn
	running bool
	stopped bool
}

func NewSubscriber(cfg *config.Config, sink Sink) *Subscriber {
	return &Subscriber{
		url:              cfg.FeedURL(),
		handshakeTimeout: cfg.Feed.HandshakeTimeout,
		readLimit:        cfg.Feed.ReadLimitBytes,
		pingInterval:     cfg.Feed.PingInterval,
		sink:             sink,
		log:              logger.GetLogger(),
	}
}

// URL is the stream address this subscriber connects to.
func (s *Subscriber) URL() string { return s.url }

// Run connects and forwards every frame to the sink until the connection
// closes or ctx ends. A normal close or a stop returns nil.
func (s *Subscriber) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("feed subscriber already running")
	}
	s.running = true
	s.mu.Unlock()

	log := s.log.WithComponent("feed_reader").WithFields(logger.Fields{"url": s.url})

	dialer := websocket.Dialer{HandshakeTimeout: s.handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		log.WithError(err).Warn("failed to connect feed")
		s.sink.Send(ctx, ConnError{Err: err})
		s.sink.Send(ctx, ConnClosed{Code: websocket.CloseAbnormalClosure, Reason: "connect failed"})
		return fmt.Errorf("failed to connect feed %s: %w", s.url, err)
	}
	if s.readLimit > 0 {
		conn.SetReadLimit(s.readLimit)
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		conn.Close()
		return nil
	}
	s.conn = conn
	s.mu.Unlock()

	log.Info("feed connected")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-done:
		}
	}()
	if s.pingInterval > 0 {
		go s.keepalive(conn, done)
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return s.handleReadError(ctx, err)
		}
		s.handleFrame(ctx, msg)
	}
}

func (s *Subscriber) handleFrame(ctx context.Context, msg []byte) {
	logger.IncrementFeedRead(len(msg))

	decoded, err := Decode(msg)
	if err != nil {
		metrics.DecodeError()
		logger.IncrementDecodeError()
		s.log.WithComponent("feed_reader").WithError(err).WithFields(logger.Fields{
			"size": len(msg),
		}).Warn("dropping feed message")
		return
	}

	metrics.FeedMessage(decoded.EventName())
	s.sink.Send(ctx, decoded)
}

func (s *Subscriber) handleReadError(ctx context.Context, err error) error {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	log := s.log.WithComponent("feed_reader")

	if stopped || ctx.Err() != nil {
		log.Info("feed reader stopped")
		return nil
	}

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) && closeErr.Code != websocket.CloseAbnormalClosure {
		log.WithFields(logger.Fields{"code": closeErr.Code, "reason": closeErr.Text}).Info("feed closed by venue")
		s.sink.Send(ctx, ConnClosed{Code: closeErr.Code, Reason: closeErr.Text})
		if closeErr.Code == websocket.CloseNormalClosure || closeErr.Code == websocket.CloseGoingAway {
			return nil
		}
		return fmt.Errorf("feed closed with code %d: %w", closeErr.Code, err)
	}

	log.WithError(err).Warn("feed read error")
	s.sink.Send(ctx, ConnError{Err: err})
	s.sink.Send(ctx, ConnClosed{Code: websocket.CloseAbnormalClosure, Reason: err.Error()})
	return fmt.Errorf("feed read failed: %w", err)
}

// keepalive writes ping control frames; WriteControl may run concurrently
// with the reader.
func (s *Subscriber) keepalive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(s.pingInterval)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				s.log.WithComponent("feed_reader").WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

// Stop closes the connection. It is safe to call more than once and before
// Run has connected.
func (s *Subscriber) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	if s.conn != nil {
		s.conn.Close()
	}
}
