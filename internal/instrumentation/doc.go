// Package instrumentation wires OpenTelemetry metrics and tracing. It owns
// the exporter lifecycle and exposes a Metrics recorder for the rest of the
// service. All recording methods are safe on a nil receiver, so callers
// never have to branch on whether instrumentation is enabled.
package instrumentation
