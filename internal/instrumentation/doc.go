// Package instrumentation provides OpenTelemetry metrics and tracing for
// flok.
//
// The Provider wires a meter provider and tracer provider from environment
// configuration. Metrics cover Graph API requests and retries, the token
// lifecycle, and MCP tool invocations. The Prometheus exporter is the
// default; OTLP and stdout exporters are available for collector setups and
// local debugging.
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	metrics := provider.Metrics()
//	metrics.RecordTokenRefresh(ctx, instrumentation.StatusSuccess)
//
// Account identifiers recorded on metrics or audit logs are anonymized
// first. Set METRICS_DETAILED_LABELS=true to include them at all.
package instrumentation
