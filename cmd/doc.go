// Package cmd implements the command-line interface for worklens.
//
// This package provides the following commands:
//   - events: Acquire calendar events from the local calendar interface and print them
//   - status: Report calendar integration health
//   - serve: Start the MCP server to provide calendar context tools for AI assistants
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The events command is the default command when no subcommand is specified.
package cmd
