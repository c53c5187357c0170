package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the zara application
var rootCmd = &cobra.Command{
	Use:   "zara",
	Short: "Conversational assistant that books meetings on a Google Calendar",
	Long: `zara is a chat assistant that helps visitors schedule meetings with
Mr. Zeeshan. It checks his Google Calendar for free slots, offers them in
conversation, and books a confirmed slot with a Meet link.

Clients connect over websocket and exchange JSON chat frames.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "zara version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}
