package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "StudyHub"

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	SignupRequestsTotal    metric.Int64Counter
	SignupDurationSeconds  metric.Float64Histogram
	LoginRequestsTotal     metric.Int64Counter
	LoginDurationSeconds   metric.Float64Histogram
	TokenRejectionsTotal   metric.Int64Counter
	DbQueryDurationSeconds metric.Float64Histogram
	DbQueryErrorsTotal     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// New creates the instruments on meter.
func New(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	if m.SignupRequestsTotal, err = meter.Int64Counter(
		"signup_requests_total",
		metric.WithDescription("Total number of signup requests completed, by outcome"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("signup_requests_total: %w", err)
	}

	if m.SignupDurationSeconds, err = meter.Float64Histogram(
		"signup_duration_seconds",
		metric.WithDescription("Duration of signup requests in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("signup_duration_seconds: %w", err)
	}

	if m.LoginRequestsTotal, err = meter.Int64Counter(
		"login_requests_total",
		metric.WithDescription("Total number of login requests completed, by outcome"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("login_requests_total: %w", err)
	}

	if m.LoginDurationSeconds, err = meter.Float64Histogram(
		"login_duration_seconds",
		metric.WithDescription("Duration of login requests in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("login_duration_seconds: %w", err)
	}

	if m.TokenRejectionsTotal, err = meter.Int64Counter(
		"token_rejections_total",
		metric.WithDescription("Bearer tokens rejected as missing, invalid or expired"),
		metric.WithUnit("{token}"),
	); err != nil {
		return nil, fmt.Errorf("token_rejections_total: %w", err)
	}

	if m.DbQueryDurationSeconds, err = meter.Float64Histogram(
		"db_query_duration_seconds",
		metric.WithDescription("Duration of database queries in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("db_query_duration_seconds: %w", err)
	}

	if m.DbQueryErrorsTotal, err = meter.Int64Counter(
		"db_query_errors_total",
		metric.WithDescription("Total number of database query errors"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, fmt.Errorf("db_query_errors_total: %w", err)
	}

	return m, nil
}

// InitAppMetrics creates the global instruments once, from the global MeterProvider.
func InitAppMetrics() error {
	var err error
	once.Do(func() {
		appMetrics, err = New(otel.GetMeterProvider().Meter(meterName))
	})
	return err
}

// Get returns the global instruments. Before InitAppMetrics it returns
// instruments backed by the global provider (a no-op until one is installed).
func Get() *AppMetrics {
	if appMetrics == nil {
		if err := InitAppMetrics(); err != nil {
			panic(fmt.Sprintf("metrics instruments not initialized: %v", err))
		}
	}
	return appMetrics
}

// RecordOutcome adds one to counter and records the elapsed time on histogram,
// both labelled with outcome.
func RecordOutcome(ctx context.Context, counter metric.Int64Counter, histogram metric.Float64Histogram, start time.Time, outcome string) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	counter.Add(ctx, 1, attrs)
	histogram.Record(ctx, time.Since(start).Seconds(), attrs)
}

// RecordQuery records a database call's duration and, on failure, an error.
// A nil receiver records nothing.
func (m *AppMetrics) RecordQuery(ctx context.Context, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("db.operation", operation))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}
