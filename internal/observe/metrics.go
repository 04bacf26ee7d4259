package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all guess-icon metrics.
const meterName = "guessicon"

// Metric names.
const (
	ResolutionsName    = "guessicon.resolutions"
	LookupDurationName = "guessicon.icon_lookup.duration"
)

// Metrics holds the instruments recorded by the icon resolver pass. All
// fields are safe for concurrent use.
type Metrics struct {
	// Resolutions counts processed streams. Attributes: outcome, stream_kind.
	Resolutions metric.Int64Counter

	// LookupDuration tracks icon theme lookup latency. Attribute: found.
	LookupDuration metric.Float64Histogram
}

// lookupBuckets are histogram boundaries in seconds. Cached lookups finish
// in microseconds; cold directory scans take milliseconds.
var lookupBuckets = []float64{
	0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1,
}

// NewMetrics creates the instruments from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Resolutions, err = m.Int64Counter(ResolutionsName,
		metric.WithDescription("Streams processed by the icon resolver by outcome and stream kind."),
	); err != nil {
		return nil, err
	}
	if met.LookupDuration, err = m.Float64Histogram(LookupDurationName,
		metric.WithDescription("Latency of icon theme lookups."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(lookupBuckets...),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level instance built from
// [otel.GetMeterProvider] on first call.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordResolution counts one processed stream.
func (m *Metrics) RecordResolution(ctx context.Context, outcome, kind string) {
	if m == nil {
		return
	}
	m.Resolutions.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("outcome", outcome),
			attribute.String("stream_kind", kind),
		),
	)
}

// RecordLookup records the latency of one icon theme query.
func (m *Metrics) RecordLookup(ctx context.Context, elapsed time.Duration, found bool) {
	if m == nil {
		return
	}
	m.LookupDuration.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(attribute.Bool("found", found)),
	)
}
