// Package observe provides the OpenTelemetry metrics recorded by guess-icon.
//
// Instruments are created through the OpenTelemetry Metrics API. [InitProvider]
// bridges them to a Prometheus registry so the filter command can expose a
// /metrics endpoint. Tests should use [NewMetrics] with a
// [sdkmetric.ManualReader] backed provider instead of [DefaultMetrics].
package observe
