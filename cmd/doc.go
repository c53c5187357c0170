// Package cmd implements the command-line interface for zara.
//
// This package provides the following commands:
//   - serve: Start the websocket chat server
//   - auth: Run the Google Calendar OAuth authorization flow
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
