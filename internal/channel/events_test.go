package channel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type named string

func (n named) EventName() string { return string(n) }

func TestEventsPreserveOrder(t *testing.T) {
	e := NewEvents(4)
	ctx := context.Background()
	for _, n := range []string{"a", "b", "c"} {
		require.True(t, e.Send(ctx, named(n)))
	}
	assert.Equal(t, named("a"), <-e.C)
	assert.Equal(t, named("b"), <-e.C)
	assert.Equal(t, named("c"), <-e.C)
	assert.Equal(t, int64(3), e.Stats().Sent)
}

func TestSendBlocksUntilContextEnds(t *testing.T) {
	e := NewEvents(1)
	require.True(t, e.Send(context.Background(), named("first")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.False(t, e.Send(ctx, named("second")))
	assert.Equal(t, int64(1), e.Stats().Aborted)
	assert.Len(t, e.C, 1)
}

func TestMetricsReportingStopsWithContext(t *testing.T) {
	e := NewEvents(1)
	ctx, cancel := context.WithCancel(context.Background())
	e.StartMetricsReporting(ctx, time.Millisecond)
	e.StartMetricsReporting(ctx, 0)
	time.Sleep(5 * time.Millisecond)
	cancel()
	assert.True(t, e.Send(context.Background(), named("after")))
}
