package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAndHandler(t *testing.T) {
	Init()

	before := testutil.ToFloat64(feedMessages.WithLabelValues("book_update"))
	FeedMessage("book_update")
	FeedMessage("book_update")
	assert.Equal(t, before+2, testutil.ToFloat64(feedMessages.WithLabelValues("book_update")))

	beforeErr := testutil.ToFloat64(decodeErrors)
	DecodeError()
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(decodeErrors))

	OrderResult("place", "accepted")
	assert.GreaterOrEqual(t, testutil.ToFloat64(orderResults.WithLabelValues("place", "accepted")), 1.0)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "orderdesk_feed_messages_total")
	assert.Contains(t, string(body), "orderdesk_order_results_total")
}
