package channel

import (
	"context"
	"sync"
	"time"

	"orderdesk/logger"
)

// Event is anything the session loop consumes. Name labels logs and
// counters.
type Event interface {
	EventName() string
}

type Stats struct {
	Sent    int64
	Aborted int64
}

// Events is the single queue feeding the session loop. Sends block while
// the buffer is full so no feed message is ever dropped or reordered; they
// only give up when the context ends. The queue is never closed because the
// console goroutine may still be blocked on stdin when the session ends.
type Events struct {
	C chan Event

	stats      Stats
	statsMutex sync.RWMutex
	log        *logger.Log
}

func NewEvents(bufferSize int) *Events {
	log := logger.GetLogger()
	e := &Events{
		C:   make(chan Event, bufferSize),
		log: log,
	}

	log.WithComponent("events").WithFields(logger.Fields{
		"buffer_size": bufferSize,
	}).Debug("event channel initialized")

	return e
}

// Send enqueues ev, waiting for room. It reports false when ctx ended first.
func (e *Events) Send(ctx context.Context, ev Event) bool {
	select {
	case e.C <- ev:
		e.statsMutex.Lock()
		e.stats.Sent++
		e.statsMutex.Unlock()
		logger.RecordEvent(ev.EventName(), 0)
		return true
	case <-ctx.Done():
		e.statsMutex.Lock()
		e.stats.Aborted++
		e.statsMutex.Unlock()
		return false
	}
}

func (e *Events) Stats() Stats {
	e.statsMutex.RLock()
	defer e.statsMutex.RUnlock()
	return e.stats
}

// StartMetricsReporting logs queue depth every interval until ctx is done.
func (e *Events) StartMetricsReporting(ctx context.Context, interval time.Duration) {
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
				stats := e.Stats()
				e.log.WithComponent("events").WithFields(logger.Fields{
					"sent":    stats.Sent,
					"aborted": stats.Aborted,
					"len":     len(e.C),
					"cap":     cap(e.C),
				}).Debug("event channel statistics")
			}
		}
	}()
}
