package instrumentation

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.ServiceName != "zara" {
		t.Errorf("Expected service name zara, got %s", config.ServiceName)
	}
	if !config.Enabled {
		t.Error("Expected instrumentation enabled by default")
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("Expected prometheus metrics exporter, got %s", config.MetricsExporter)
	}
	if config.TracingExporter != ExporterNone {
		t.Errorf("Expected tracing disabled by default, got %s", config.TracingExporter)
	}
}

func TestDefaultConfig_EnvOverrides(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "zara-test")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", ExporterStdout)
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")

	config := DefaultConfig()

	if config.ServiceName != "zara-test" {
		t.Errorf("Expected service name zara-test, got %s", config.ServiceName)
	}
	if config.Enabled {
		t.Error("Expected instrumentation disabled via env")
	}
	if config.MetricsExporter != ExporterStdout {
		t.Errorf("Expected stdout metrics exporter, got %s", config.MetricsExporter)
	}
	if config.TraceSamplingRate != 0.5 {
		t.Errorf("Expected sampling rate 0.5, got %f", config.TraceSamplingRate)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "sampling rate too high", mutate: func(c *Config) { c.TraceSamplingRate = 1.5 }, wantErr: true},
		{name: "sampling rate negative", mutate: func(c *Config) { c.TraceSamplingRate = -0.1 }, wantErr: true},
		{name: "unknown metrics exporter", mutate: func(c *Config) { c.MetricsExporter = "statsd" }, wantErr: true},
		{name: "unknown tracing exporter", mutate: func(c *Config) { c.TracingExporter = "jaeger" }, wantErr: true},
		{name: "otlp metrics without endpoint", mutate: func(c *Config) { c.MetricsExporter = ExporterOTLP }, wantErr: true},
		{name: "otlp tracing without endpoint", mutate: func(c *Config) { c.TracingExporter = ExporterOTLP }, wantErr: true},
		{
			name: "otlp with endpoint",
			mutate: func(c *Config) {
				c.MetricsExporter = ExporterOTLP
				c.TracingExporter = ExporterOTLP
				c.OTLPEndpoint = "localhost:4318"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)

			err := config.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}
