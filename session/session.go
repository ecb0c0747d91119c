package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"orderdesk/config"
	"orderdesk/internal/channel"
	"orderdesk/logger"
	"orderdesk/models"
	"orderdesk/order"
	"orderdesk/reader"
	"orderdesk/view"
)

// Feed is the market data connection owned by a session.
type Feed interface {
	Run(ctx context.Context) error
	Stop()
}

// Orders sends order requests to the venue.
type Orders interface {
	Submit(ctx context.Context, req models.OrderRequest) order.Result
	Cancel(ctx context.Context, orderID string) order.Result
}

// Display shows frames and notices to the user.
type Display interface {
	Notify(n view.Notice)
	Draw(f view.Frame) error
}

const (
	feedConnecting = "connecting"
	feedLive       = "live"
)

// Session is one run of the client. Its loop is the only goroutine that
// touches the row lists and the form; everything else talks to it through
// the event queue.
type Session struct {
	ID string

	Bids   *view.List
	Asks   *view.List
	Trades *view.List
	Form   *order.Form

	cfg          *config.Config
	events       *channel.Events
	feed         Feed
	orders       Orders
	display      Display
	feedStatus   string
	unrecognized *rate.Limiter
	log          *logger.Entry
	wg           sync.WaitGroup
}

func New(cfg *config.Config, events *channel.Events, feed Feed, orders Orders, display Display) *Session {
	limit := rate.Inf
	if cfg.View.UnrecognizedLogRate > 0 {
		limit = rate.Limit(cfg.View.UnrecognizedLogRate)
	}
	id := uuid.NewString()
	return &Session{
		ID:           id,
		Bids:         view.NewList(0),
		Asks:         view.NewList(0),
		Trades:       view.NewList(cfg.View.TradeLimit),
		Form:         order.NewForm(cfg.Order.Defaults),
		cfg:          cfg,
		events:       events,
		feed:         feed,
		orders:       orders,
		display:      display,
		feedStatus:   feedConnecting,
		unrecognized: rate.NewLimiter(limit, 1),
		log: logger.GetLogger().WithComponent("session").WithFields(logger.Fields{
			"session_id": id,
			"symbol":     cfg.Venue.Symbol,
		}),
	}
}

// Run starts the feed and processes events until a quit command arrives or
// ctx ends. On return the feed is stopped and every task has finished.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.log.Info("session started")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.feed.Run(ctx); err != nil {
			s.log.WithError(err).Warn("feed ended")
		}
	}()

	s.redraw()
	for {
		select {
		case <-ctx.Done():
			s.shutdown(cancel)
			return nil
		case ev := <-s.events.C:
			if s.handle(ctx, ev) {
				s.shutdown(cancel)
				return nil
			}
		}
	}
}

func (s *Session) shutdown(cancel context.CancelFunc) {
	cancel()
	s.feed.Stop()
	s.wg.Wait()
	s.log.Info("session stopped")
}

// handle applies one event and reports whether the session should end.
func (s *Session) handle(ctx context.Context, ev channel.Event) bool {
	switch ev := ev.(type) {
	case reader.BookUpdate:
		s.feedStatus = feedLive
		view.RenderSide(s.Bids, ev.Snapshot.Bids)
		view.RenderSide(s.Asks, ev.Snapshot.Asks)
	case reader.TradeUpdate:
		s.feedStatus = feedLive
		view.RenderTrades(s.Trades, ev.Batch)
	case reader.Unrecognized:
		s.feedStatus = feedLive
		if s.unrecognized.Allow() {
			s.log.WithFields(logger.Fields{
				"keys": strings.Join(ev.Keys, ","),
				"size": len(ev.Raw),
			}).Warn("ignoring feed message of unknown shape")
		}
		return false
	case reader.ConnError:
		s.notify(view.LevelError, fmt.Sprintf("Market data connection error: %v", ev.Err))
	case reader.ConnClosed:
		s.feedStatus = fmt.Sprintf("closed (%d)", ev.Code)
		s.notify(view.LevelWarn, fmt.Sprintf("Market data connection closed: code %d %s", ev.Code, ev.Reason))
	case order.Result:
		s.applyResult(ev)
	case Command:
		if s.apply(ctx, ev) {
			return true
		}
	default:
		s.log.WithFields(logger.Fields{"event": ev.EventName()}).Debug("ignoring event")
		return false
	}
	s.redraw()
	return false
}

func (s *Session) applyResult(res order.Result) {
	if !res.OK() {
		s.notify(view.LevelError, res.Message())
		return
	}
	s.notify(view.LevelInfo, res.Message())
	if res.Op == order.OpPlace {
		s.Form.Reset()
	}
}

// apply runs a console command and reports whether it asked to quit.
func (s *Session) apply(ctx context.Context, cmd Command) bool {
	switch cmd.Name {
	case "symbol":
		if cmd.Arg == "" {
			s.notify(view.LevelWarn, "usage: symbol <s>")
			return false
		}
		s.Form.Symbol = cmd.Arg
	case "side":
		side, err := models.ParseSide(cmd.Arg)
		if err != nil {
			s.notify(view.LevelWarn, err.Error())
			return false
		}
		s.Form.Side = string(side)
	case "type":
		if err := s.Form.SelectOrderType(cmd.Arg); err != nil {
			s.notify(view.LevelWarn, err.Error())
		}
	case "qty", "quantity":
		s.Form.Quantity = cmd.Arg
	case "price":
		if err := s.Form.SetPrice(cmd.Arg); err != nil {
			s.notify(view.LevelWarn, err.Error())
		}
	case "form":
		s.notify(view.LevelInfo, s.Form.String())
	case "submit":
		s.submit(ctx)
	case "cancel":
		if cmd.Arg == "" {
			s.notify(view.LevelWarn, "usage: cancel <order id>")
			return false
		}
		s.cancelOrder(ctx, cmd.Arg)
	case "reset":
		s.Form.Reset()
	case "help":
		s.notify(view.LevelInfo, helpText)
	case "quit", "exit":
		return true
	default:
		s.notify(view.LevelWarn, fmt.Sprintf("unknown command %q, type help", cmd.Name))
	}
	return false
}

// submit builds the request from the form and sends it on its own task.
// Nothing is sent when the form does not validate.
func (s *Session) submit(ctx context.Context) {
	req, err := s.Form.Build()
	if err != nil {
		s.notify(view.LevelError, fmt.Sprintf("Error placing order: %v", err))
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.events.Send(ctx, s.orders.Submit(ctx, req))
	}()
}

func (s *Session) cancelOrder(ctx context.Context, orderID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.events.Send(ctx, s.orders.Cancel(ctx, orderID))
	}()
}

func (s *Session) notify(level view.Level, text string) {
	s.display.Notify(view.Notice{Level: level, Text: text})
}

// Frame is what the display shows for the current state.
func (s *Session) Frame() view.Frame {
	return view.Frame{
		Title:  fmt.Sprintf("%s %s", s.cfg.Client.Name, s.cfg.Venue.Symbol),
		Feed:   s.feedStatus,
		Bids:   s.Bids.Rows(),
		Asks:   s.Asks.Rows(),
		Trades: s.Trades.Rows(),
		Form:   s.Form.String(),
	}
}

func (s *Session) redraw() {
	if err := s.display.Draw(s.Frame()); err != nil {
		s.log.WithError(err).Warn("failed to draw screen")
	}
}
