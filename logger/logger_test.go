package logger

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithComponent(t *testing.T) {
	log := Logger()
	entry := log.WithComponent("test")
	assert.Equal(t, "test", entry.Entry.Data["component"])
}

func TestConfigureInvalidLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	log := Logger()
	assert.Error(t, log.Configure("invalid", "json", "stderr", 0))
	assert.Error(t, log.Configure("info", "xml", "stderr", 0))
}

func TestConfigureFileOutput(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	log := Logger()
	path := filepath.Join(t.TempDir(), "out.log")
	require.NoError(t, log.Configure("debug", "json", path, 0))
	assert.FileExists(t, path)
}

func TestWarnCountsPerComponent(t *testing.T) {
	log := Logger()
	var buf bytes.Buffer
	log.SetOutput(&buf)

	before := snapshotMap(&warnCount)["counting_test"]
	log.WithComponent("counting_test").Warn("first")
	log.WithComponent("counting_test").Warn("second")
	assert.Equal(t, before+2, snapshotMap(&warnCount)["counting_test"])
	assert.Contains(t, buf.String(), "second")
}

type fakePublisher struct {
	metrics    []*cloudwatch.PutMetricDataInput
	dashboards int
}

func (f *fakePublisher) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.metrics = append(f.metrics, in)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func (f *fakePublisher) PutDashboard(_ context.Context, _ *cloudwatch.PutDashboardInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutDashboardOutput, error) {
	f.dashboards++
	return &cloudwatch.PutDashboardOutput{}, nil
}

func TestReportPublishesToCloudWatch(t *testing.T) {
	fake := &fakePublisher{}
	cwClient = fake
	t.Cleanup(func() { cwClient = nil })

	log := Logger()
	log.SetOutput(&bytes.Buffer{})

	IncrementFeedRead(42)
	IncrementDecodeError()
	IncrementOrder(true)
	logReport(context.Background(), log)

	require.Len(t, fake.metrics, 1)
	assert.Equal(t, cwNamespace, *fake.metrics[0].Namespace)

	names := map[string]bool{}
	for _, d := range fake.metrics[0].MetricData {
		names[*d.MetricName] = true
	}
	assert.True(t, names["FeedReads"])
	assert.True(t, names["OrdersSent"])
	assert.True(t, names["EventMessages"])

	createDefaultDashboard(context.Background())
	assert.Equal(t, 1, fake.dashboards)
}
