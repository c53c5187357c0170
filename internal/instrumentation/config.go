package instrumentation

import (
	"fmt"
	"os"
	"strconv"
)

// Exporter types.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the name of the service (default: zara).
	ServiceName string

	// ServiceVersion is the version of the service.
	ServiceVersion string

	// ServiceInstanceID is the unique instance identifier (default: hostname).
	ServiceInstanceID string

	// Enabled determines if instrumentation is active (default: true).
	// Set INSTRUMENTATION_ENABLED=false to disable metrics and tracing.
	Enabled bool

	// MetricsExporter selects the metrics exporter: "prometheus", "otlp" or
	// "stdout" (default: "prometheus").
	MetricsExporter string

	// TracingExporter selects the tracing exporter: "otlp", "stdout" or
	// "none" (default: "none").
	TracingExporter string

	// OTLPEndpoint is the OTLP collector endpoint without protocol prefix,
	// for example "localhost:4318".
	OTLPEndpoint string

	// OTLPInsecure uses plain HTTP for OTLP export. Development only.
	OTLPInsecure bool

	// TraceSamplingRate is the trace sampling rate (0.0 to 1.0, default 0.1).
	TraceSamplingRate float64
}

// DefaultConfig returns a Config with defaults taken from the environment.
func DefaultConfig() Config {
	return Config{
		ServiceName:       envOrDefault("OTEL_SERVICE_NAME", "zara"),
		ServiceVersion:    "unknown",
		ServiceInstanceID: envOrDefault("OTEL_SERVICE_INSTANCE_ID", ""),
		Enabled:           envBoolOrDefault("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:   envOrDefault("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:   envOrDefault("TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:      envOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:      envBoolOrDefault("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSamplingRate: envFloatOrDefault("OTEL_TRACES_SAMPLER_ARG", 0.1),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	validMetrics := map[string]bool{ExporterPrometheus: true, ExporterOTLP: true, ExporterStdout: true}
	if c.MetricsExporter != "" && !validMetrics[c.MetricsExporter] {
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	validTracing := map[string]bool{ExporterOTLP: true, ExporterStdout: true, ExporterNone: true}
	if c.TracingExporter != "" && !validTracing[c.TracingExporter] {
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	if c.MetricsExporter == ExporterOTLP && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
	}
	if c.TracingExporter == ExporterOTLP && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
	}

	return nil
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func envFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
