package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zarahq/zara/internal/agent"
	"github.com/zarahq/zara/internal/calendar"
	"github.com/zarahq/zara/internal/config"
	"github.com/zarahq/zara/internal/google"
	"github.com/zarahq/zara/internal/instrumentation"
	"github.com/zarahq/zara/internal/logging"
	"github.com/zarahq/zara/internal/server"
	"github.com/zarahq/zara/internal/session"
)

func newServeCmd() *cobra.Command {
	var (
		configFile     string
		listenAddr     string
		metricsAddr    string
		metricsEnabled bool
		debugMode      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the chat server",
		Long: `Start the websocket chat server.

Clients connect to /ws and exchange JSON frames: {"message": "..."} in,
{"message": "..."} or {"error": "..."} out. Each connection is its own
conversation with its own history.

Requires Google Calendar authorization (run 'zara auth' first) and an
OpenAI API key in the OPENAI_API_KEY environment variable or the config
file.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(configFile, listenAddr, metricsAddr, metricsEnabled, debugMode)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Path to config file (YAML). Settings can also come from ZARA_* env vars.")
	cmd.Flags().StringVar(&listenAddr, "listen-addr", "", "Chat server address (default \":3090\", or listen_addr from config)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Metrics server address (default \":9090\", or metrics_addr from config)")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Serve Prometheus metrics on a dedicated port")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	return cmd
}

func runServe(configFile, listenAddr, metricsAddr string, metricsEnabled, debugMode bool) error {
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}
	if cfg.OpenAIAPIKey == "" {
		return fmt.Errorf("an OpenAI API key is required: set OPENAI_API_KEY or openai_api_key in the config file")
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if err := instrConfig.Validate(); err != nil {
		return fmt.Errorf("invalid instrumentation configuration: %w", err)
	}

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Error("Instrumentation shutdown failed", logging.Err(err))
		}
	}()

	var metricsServer *server.MetricsServer
	if metricsEnabled && provider.Enabled() && instrConfig.MetricsExporter == instrumentation.ExporterPrometheus {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.MetricsAddr,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", logging.Err(err))
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Error("Metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	tokenProvider := google.NewFileTokenProvider(cfg.GoogleCredentialsFile, cfg.GoogleTokenFile)
	if !tokenProvider.HasToken() {
		return fmt.Errorf("no Google OAuth token found at %s: run 'zara auth' first", cfg.GoogleTokenFile)
	}

	gateway, err := calendar.NewClient(shutdownCtx, tokenProvider, cfg.CalendarID, cfg.Timezone, cfg.Location, calendar.EventMetadata{
		Summary:     cfg.MeetingTitle,
		Description: cfg.MeetingDescription,
	})
	if err != nil {
		return fmt.Errorf("failed to create calendar client: %w", err)
	}

	parser := calendar.NewTimeParser(cfg.Location)
	decider := agent.NewOpenAIDecider(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	metrics := provider.Metrics()

	manager := session.NewManager(func(sessionID string) session.Responder {
		return agent.New(decider, gateway, parser, agent.Config{
			Location:     cfg.Location,
			SlotDuration: cfg.SlotDuration,
			ScanStride:   cfg.ScanStride,
		}, logging.WithSession(logger, sessionID), metrics)
	}, logger)

	chat, err := server.NewChatServer(server.ChatServerConfig{
		Addr:    cfg.ListenAddr,
		Manager: manager,
		Logger:  logger,
		Metrics: metrics,
	})
	if err != nil {
		return fmt.Errorf("failed to create chat server: %w", err)
	}

	logger.Info("Configuration loaded",
		slog.String("listen_addr", cfg.ListenAddr),
		slog.String("calendar_id", cfg.CalendarID),
		slog.String("timezone", cfg.Timezone),
		slog.String("model", cfg.OpenAIModel))

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- chat.Start()
	}()

	select {
	case <-shutdownCtx.Done():
		logger.Info("Shutdown signal received, stopping chat server")
		ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := chat.Shutdown(ctx); err != nil {
			return fmt.Errorf("error shutting down chat server: %w", err)
		}
		return nil
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("chat server stopped with error: %w", err)
		}
		return nil
	}
}
