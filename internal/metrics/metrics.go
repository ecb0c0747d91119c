// Registers:
//
//	#orderdesk_feed_messages_total{kind}
//	#orderdesk_feed_decode_errors_total
//	#orderdesk_order_results_total{op,kind}
//	#go_* and process_* system metrics
//
// Exposes them on the configured address under /metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once         sync.Once
	registry     *prometheus.Registry
	feedMessages *prometheus.CounterVec
	decodeErrors prometheus.Counter
	orderResults *prometheus.CounterVec
)

// Init registers the collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		feedMessages = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderdesk_feed_messages_total",
				Help: "Market data messages by decoded kind",
			},
			[]string{"kind"},
		)
		decodeErrors = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderdesk_feed_decode_errors_total",
			Help: "Market data messages dropped because they could not be parsed",
		})
		orderResults = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderdesk_order_results_total",
				Help: "Order exchanges by operation and outcome",
			},
			[]string{"op", "kind"},
		)

		registry.MustRegister(feedMessages, decodeErrors, orderResults)
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// FeedMessage counts one decoded message of the given kind.
func FeedMessage(kind string) {
	if feedMessages != nil {
		feedMessages.WithLabelValues(kind).Inc()
	}
}

// DecodeError counts one dropped message.
func DecodeError() {
	if decodeErrors != nil {
		decodeErrors.Inc()
	}
}

// OrderResult counts one finished order exchange.
func OrderResult(op, kind string) {
	if orderResults != nil {
		orderResults.WithLabelValues(op, kind).Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	Init()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
