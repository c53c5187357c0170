// Package config loads the process configuration for the scheduling
// assistant. Configuration is read once at startup from an optional YAML
// file plus ZARA_-prefixed environment variables, validated, and returned as
// an immutable Config that is injected into the components that need it.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults for the scheduling surface. Slot duration and scan stride
// coincide today but stay independent settings so the slot length can change
// without altering the scan granularity.
const (
	DefaultTimezone      = "Asia/Kolkata"
	DefaultCalendarID    = "primary"
	DefaultSlotMinutes   = 30
	DefaultStrideMinutes = 30
	DefaultListenAddr    = ":3090"
	DefaultMetricsAddr   = ":9090"
	DefaultOpenAIModel   = "gpt-4o"
)

// Config holds the full, validated process configuration. It is constructed
// once by Load and never mutated afterwards.
type Config struct {
	// Timezone is the fixed timezone all user-facing times are expressed in.
	Timezone string
	// Location is the resolved *time.Location for Timezone.
	Location *time.Location

	// CalendarID identifies the single calendar that is queried and booked.
	CalendarID string

	// SlotDuration is the fixed meeting length.
	SlotDuration time.Duration
	// ScanStride is the granularity of the availability scan.
	ScanStride time.Duration

	// MeetingTitle and MeetingDescription are applied to every booking.
	MeetingTitle       string
	MeetingDescription string

	// OpenAIModel and OpenAIAPIKey configure the dialogue capability.
	OpenAIModel  string
	OpenAIAPIKey string

	// GoogleCredentialsFile is the OAuth client secret JSON; GoogleTokenFile
	// is where the user token is cached between runs.
	GoogleCredentialsFile string
	GoogleTokenFile       string

	// ListenAddr is the chat server address; MetricsAddr the metrics server.
	ListenAddr  string
	MetricsAddr string
}

// Load reads configuration from the given file (optional, "" means env and
// defaults only) and the environment, then validates it. Invalid timezone or
// durations are startup failures, not runtime surprises.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("timezone", DefaultTimezone)
	v.SetDefault("calendar_id", DefaultCalendarID)
	v.SetDefault("slot_minutes", DefaultSlotMinutes)
	v.SetDefault("stride_minutes", DefaultStrideMinutes)
	v.SetDefault("meeting_title", "Meeting with Zeeshan")
	v.SetDefault("meeting_description", "Auto-scheduled via assistant.")
	v.SetDefault("openai_model", DefaultOpenAIModel)
	v.SetDefault("google_credentials_file", "desktop_credentials.json")
	v.SetDefault("google_token_file", "token.json")
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("metrics_addr", DefaultMetricsAddr)

	v.SetEnvPrefix("ZARA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Timezone:              v.GetString("timezone"),
		CalendarID:            v.GetString("calendar_id"),
		SlotDuration:          time.Duration(v.GetInt("slot_minutes")) * time.Minute,
		ScanStride:            time.Duration(v.GetInt("stride_minutes")) * time.Minute,
		MeetingTitle:          v.GetString("meeting_title"),
		MeetingDescription:    v.GetString("meeting_description"),
		OpenAIModel:           v.GetString("openai_model"),
		OpenAIAPIKey:          v.GetString("openai_api_key"),
		GoogleCredentialsFile: v.GetString("google_credentials_file"),
		GoogleTokenFile:       v.GetString("google_token_file"),
		ListenAddr:            v.GetString("listen_addr"),
		MetricsAddr:           v.GetString("metrics_addr"),
	}

	// Fall back to the conventional variable the OpenAI SDK ecosystem uses.
	if cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	return cfg, nil
}

func (c *Config) validate() error {
	if c.SlotDuration <= 0 {
		return fmt.Errorf("slot_minutes must be positive, got %v", c.SlotDuration)
	}
	if c.ScanStride <= 0 {
		return fmt.Errorf("stride_minutes must be positive, got %v", c.ScanStride)
	}
	if c.CalendarID == "" {
		return fmt.Errorf("calendar_id must not be empty")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	return nil
}
