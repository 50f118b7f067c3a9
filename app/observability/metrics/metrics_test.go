package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestRecordOutcomeAndQuery(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := New(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	start := time.Now()
	RecordOutcome(ctx, m.LoginRequestsTotal, m.LoginDurationSeconds, start, "success")
	RecordOutcome(ctx, m.LoginRequestsTotal, m.LoginDurationSeconds, start, "invalid_credentials")
	m.RecordQuery(ctx, "SELECT", start, nil)
	m.RecordQuery(ctx, "INSERT", start, errors.New("boom"))

	got := collect(t, reader)

	logins, ok := got["login_requests_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, logins.DataPoints, 2)

	dbErrors, ok := got["db_query_errors_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, dbErrors.DataPoints, 1)
	assert.Equal(t, int64(1), dbErrors.DataPoints[0].Value)

	durations, ok := got["db_query_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, durations.DataPoints, 2)
}

func TestGetFallsBackToGlobalProvider(t *testing.T) {
	m := Get()
	require.NotNil(t, m)
	assert.NotPanics(t, func() {
		m.TokenRejectionsTotal.Add(context.Background(), 1)
	})
}
