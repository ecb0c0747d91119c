package logger

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

type counter struct {
	messages int64
	bytes    int64
}

var (
	warnCount     sync.Map // component -> *int64
	errorCount    sync.Map // component -> *int64
	feedReads     int64
	decodeErrors  int64
	ordersSent    int64
	ordersFailed  int64
	eventCounters sync.Map // event name -> *counter
)

func bump(m *sync.Map, key string) {
	v, _ := m.LoadOrStore(key, new(int64))
	atomic.AddInt64(v.(*int64), 1)
}

func recordWarn(component string) {
	bump(&warnCount, component)
}

func recordError(component string) {
	bump(&errorCount, component)
}

// IncrementFeedRead counts one frame read from the market data stream.
func IncrementFeedRead(size int) {
	atomic.AddInt64(&feedReads, 1)
	RecordEvent("feed_ws", size)
}

func IncrementDecodeError() {
	atomic.AddInt64(&decodeErrors, 1)
}

// IncrementOrder counts a finished order exchange.
func IncrementOrder(ok bool) {
	if ok {
		atomic.AddInt64(&ordersSent, 1)
	} else {
		atomic.AddInt64(&ordersFailed, 1)
	}
}

// RecordEvent counts an event and its payload size under name.
func RecordEvent(name string, size int) {
	v, _ := eventCounters.LoadOrStore(name, &counter{})
	c := v.(*counter)
	atomic.AddInt64(&c.messages, 1)
	atomic.AddInt64(&c.bytes, int64(size))
}

func snapshotMap(m *sync.Map) map[string]int64 {
	out := map[string]int64{}
	m.Range(func(k, v any) bool {
		out[k.(string)] = atomic.LoadInt64(v.(*int64))
		return true
	})
	return out
}

// StartReport logs runtime and traffic counters every interval until ctx
// is done, publishing them to CloudWatch when a client is configured.
func StartReport(ctx context.Context, log *Log, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logReport(ctx, log)
			}
		}
	}()
}

func reportFields() Fields {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	events := map[string]map[string]int64{}
	eventCounters.Range(func(k, v any) bool {
		c := v.(*counter)
		events[k.(string)] = map[string]int64{
			"messages": atomic.LoadInt64(&c.messages),
			"bytes":    atomic.LoadInt64(&c.bytes),
		}
		return true
	})

	return Fields{
		"feed_reads":    atomic.LoadInt64(&feedReads),
		"decode_errors": atomic.LoadInt64(&decodeErrors),
		"orders_sent":   atomic.LoadInt64(&ordersSent),
		"orders_failed": atomic.LoadInt64(&ordersFailed),
		"warns":         snapshotMap(&warnCount),
		"errors":        snapshotMap(&errorCount),
		"events":        events,
		"goroutines":    runtime.NumGoroutine(),
		"heap_mb":       int64(mem.HeapAlloc) / 1024 / 1024,
	}
}

func logReport(ctx context.Context, log *Log) {
	fields := reportFields()
	log.WithComponent("report").WithFields(fields).Info("runtime report")

	count := func(name string, key string) cwtypes.MetricDatum {
		return cwtypes.MetricDatum{
			MetricName: aws.String(name),
			Unit:       cwtypes.StandardUnitCount,
			Value:      aws.Float64(float64(fields[key].(int64))),
		}
	}
	data := []cwtypes.MetricDatum{
		count("FeedReads", "feed_reads"),
		count("DecodeErrors", "decode_errors"),
		count("OrdersSent", "orders_sent"),
		count("OrdersFailed", "orders_failed"),
		{MetricName: aws.String("HeapMB"), Unit: cwtypes.StandardUnitMegabytes, Value: aws.Float64(float64(fields["heap_mb"].(int64)))},
		{MetricName: aws.String("Goroutines"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["goroutines"].(int)))},
	}
	for name, stats := range fields["events"].(map[string]map[string]int64) {
		data = append(data, cwtypes.MetricDatum{
			MetricName: aws.String("EventMessages"),
			Unit:       cwtypes.StandardUnitCount,
			Dimensions: []cwtypes.Dimension{{Name: aws.String("Event"), Value: aws.String(name)}},
			Value:      aws.Float64(float64(stats["messages"])),
		})
	}

	publishMetrics(ctx, data)
}
