package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zarahq/zara/internal/config"
	"github.com/zarahq/zara/internal/google"
)

func newAuthCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to the Google Calendar",
		Long: `Run the OAuth authorization flow for the Google Calendar account.

Prints an authorization URL to open in a browser, then reads the
authorization code from stdin and caches the resulting token for the
serve command to use.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAuth(cmd, configFile)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Path to config file (YAML)")
	return cmd
}

func runAuth(cmd *cobra.Command, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	provider := google.NewFileTokenProvider(cfg.GoogleCredentialsFile, cfg.GoogleTokenFile)

	url, err := provider.AuthURL()
	if err != nil {
		return err
	}

	fmt.Println("Visit the following URL to authorize calendar access:")
	fmt.Println()
	fmt.Println("  " + url)
	fmt.Println()
	fmt.Print("Enter the authorization code: ")

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("no authorization code provided")
	}

	if err := provider.Exchange(cmd.Context(), code); err != nil {
		return err
	}

	fmt.Printf("Authorization complete. Token saved to %s\n", cfg.GoogleTokenFile)
	return nil
}
