package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"orderdesk/config"
	"orderdesk/internal/metrics"
	"orderdesk/logger"
	"orderdesk/models"
)

// Client talks to the venue's order endpoints. Each call is one request and
// one response; nothing is retried.
type Client struct {
	http      *http.Client
	ordersURL string
	cancelURL func(orderID string) string
	log       *logger.Log
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		http: &http.Client{
			Transport: tagTransport{agent: cfg.Order.UserAgent, base: http.DefaultTransport},
			Timeout:   cfg.Order.Timeout,
		},
		ordersURL: cfg.OrdersURL(),
		cancelURL: cfg.CancelURL,
		log:       logger.GetLogger(),
	}
}

// Submit posts req to the order intake endpoint.
func (c *Client) Submit(ctx context.Context, req models.OrderRequest) Result {
	body, err := json.Marshal(req)
	if err != nil {
		return c.finish(OpPlace, Result{Op: OpPlace, Kind: Failed, Reason: err.Error()})
	}
	log := c.log.WithComponent("order_client").WithFields(logger.Fields{
		"symbol":     req.Symbol,
		"side":       req.Side,
		"order_type": req.OrderType,
		"quantity":   req.Quantity.String(),
	})
	log.Info("submitting order")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ordersURL, bytes.NewReader(body))
	if err != nil {
		return c.finish(OpPlace, Result{Op: OpPlace, Kind: Failed, Reason: err.Error()})
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.finish(OpPlace, c.exchange(httpReq, OpPlace))
}

// Cancel asks the venue to cancel a resting order.
func (c *Client) Cancel(ctx context.Context, orderID string) Result {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.cancelURL(orderID), nil)
	if err != nil {
		return c.finish(OpCancel, Result{Op: OpCancel, Kind: Failed, OrderID: orderID, Reason: err.Error()})
	}
	res := c.exchange(httpReq, OpCancel)
	res.OrderID = orderID
	return c.finish(OpCancel, res)
}

func (c *Client) exchange(req *http.Request, op Op) Result {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return Result{Op: op, Kind: Failed, Reason: err.Error()}
	}
	defer resp.Body.Close()
	logger.LogPerformanceEntry(c.log.WithComponent("order_client"), "order_client", string(op), time.Since(start), logger.Fields{
		"status": resp.StatusCode,
	})

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Op: op, Kind: Failed, Status: resp.StatusCode, Reason: err.Error()}
	}
	if !json.Valid(raw) {
		return Result{Op: op, Kind: Failed, Status: resp.StatusCode,
			Reason: fmt.Sprintf("invalid JSON in %d response", resp.StatusCode)}
	}

	res := Result{Op: op, Status: resp.StatusCode, Body: json.RawMessage(raw)}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		res.Kind = Rejected
		return res
	}
	res.Kind = Accepted
	res.OrderID = orderID(raw)
	return res
}

// orderID pulls order.order_id out of a confirmation, if present.
func orderID(raw []byte) string {
	var confirmation struct {
		Order struct {
			OrderID string `json:"order_id"`
		} `json:"order"`
	}
	if err := json.Unmarshal(raw, &confirmation); err != nil {
		return ""
	}
	return confirmation.Order.OrderID
}

func (c *Client) finish(op Op, res Result) Result {
	metrics.OrderResult(string(op), string(res.Kind))
	logger.IncrementOrder(res.OK())

	log := c.log.WithComponent("order_client").WithFields(logger.Fields{
		"op":     op,
		"kind":   res.Kind,
		"status": res.Status,
	})
	switch res.Kind {
	case Accepted:
		log.WithFields(logger.Fields{"order_id": res.OrderID}).Info("order exchange accepted")
	case Rejected:
		log.WithFields(logger.Fields{"body": string(res.Body)}).Warn("order exchange rejected")
	default:
		log.WithFields(logger.Fields{"reason": res.Reason}).Warn("order exchange failed")
	}
	return res
}
