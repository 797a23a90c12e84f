package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestObservability_RecordSubmission(t *testing.T) {
	reader := metric.NewManualReader()
	obs, err := NewWithReader("fiscal-forum-test", reader)
	require.NoError(t, err)
	defer obs.Shutdown(context.Background())

	ctx := context.Background()
	obs.RecordSubmission(ctx, "home-loan", "accepted", 12*time.Millisecond)
	obs.RecordSubmission(ctx, "home-loan", "accepted", 8*time.Millisecond)
	obs.RecordStepValidation(ctx, "home-loan", 1, false)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	found := map[string]bool{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		found[m.Name] = true
		if m.Name == "leads.submitted" {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			require.Len(t, sum.DataPoints, 1)
			assert.Equal(t, int64(2), sum.DataPoints[0].Value)
		}
	}
	assert.True(t, found["leads.submitted"])
	assert.True(t, found["leads.submit.duration"])
	assert.True(t, found["forms.step.validated"])
}

func TestObservability_NilIsNoop(t *testing.T) {
	var obs *Observability
	assert.NotPanics(t, func() {
		obs.RecordSubmission(context.Background(), "subscribe", "accepted", time.Millisecond)
		obs.RecordStepValidation(context.Background(), "subscribe", 0, true)
		_ = obs.Shutdown(context.Background())
	})
}
