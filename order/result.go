package order

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Op names the exchange a Result belongs to.
type Op string

const (
	OpPlace  Op = "place"
	OpCancel Op = "cancel"
)

// Kind classifies how an exchange with the venue ended.
type Kind string

const (
	// Accepted: 2xx with a JSON body.
	Accepted Kind = "accepted"
	// Rejected: non-2xx with a JSON error body, kept verbatim.
	Rejected Kind = "rejected"
	// Failed: no response, or a body that could not be parsed.
	Failed Kind = "failed"
)

// Result is the outcome of one request/response exchange.
type Result struct {
	Op      Op
	Kind    Kind
	Status  int
	Body    json.RawMessage
	OrderID string
	Reason  string
}

func (Result) EventName() string { return "order_result" }

// OK reports whether the venue accepted the request.
func (r Result) OK() bool { return r.Kind == Accepted }

// Message is the text shown to the user. Rejections carry the full error
// body, indented; failures carry the transport reason.
func (r Result) Message() string {
	verb := "placing"
	if r.Op == OpCancel {
		verb = "cancelling"
	}
	switch r.Kind {
	case Accepted:
		if r.Op == OpCancel {
			return fmt.Sprintf("Order %s cancelled successfully!", r.OrderID)
		}
		if r.OrderID != "" {
			return fmt.Sprintf("Order placed successfully! (id %s)", r.OrderID)
		}
		return "Order placed successfully!"
	case Rejected:
		var out bytes.Buffer
		if err := json.Indent(&out, r.Body, "", "  "); err != nil {
			return fmt.Sprintf("Error %s order: %s", verb, r.Body)
		}
		return fmt.Sprintf("Error %s order: %s", verb, out.String())
	default:
		reason := r.Reason
		if reason == "" {
			reason = "Unknown error"
		}
		return fmt.Sprintf("Error %s order: %s", verb, reason)
	}
}
