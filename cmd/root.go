// Package cmd contains all CLI commands for the sheetpipe binary.
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetpipe/cmd/apply"
	"github.com/klytics/sheetpipe/cmd/completion"
	"github.com/klytics/sheetpipe/cmd/doctor"
	"github.com/klytics/sheetpipe/cmd/excel"
	cmdshell "github.com/klytics/sheetpipe/cmd/shell"
	"github.com/klytics/sheetpipe/cmd/version"
	cmdwatch "github.com/klytics/sheetpipe/cmd/watch"
)

var (
	jsonOutput bool
	verbose    bool
	noColor    bool
)

// NewRootCommand creates and returns the root cobra command with all
// subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetpipe",
		Short: "Spreadsheets as a read/write target for automation pipelines",
		Long: `sheetpipe — structured access to workbook files from your terminal.

Enumerate sheets, extract cell values, and write scalar or rectangular data
blocks into any sheet at any anchor cell — with merged-cell awareness, an
overwrite policy, and optional formula recalculation through the installed
spreadsheet application.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")

	// Register subcommands
	rootCmd.AddCommand(excel.NewCommand())
	rootCmd.AddCommand(apply.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(cmdshell.NewCommand(NewRootCommand))
	rootCmd.AddCommand(doctor.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
