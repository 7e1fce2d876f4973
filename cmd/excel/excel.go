// Package excel provides the CLI commands for reading and writing workbook
// files.
package excel

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the excel subcommand group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "excel",
		Short: "Read, write, and inspect Excel workbooks (.xlsx)",
		Long:  "Commands for working with .xlsx workbook files — enumerate sheets, extract cell values, and write data blocks at an anchor cell.",
	}

	cmd.AddCommand(newReadCommand())
	cmd.AddCommand(newWriteCommand())
	cmd.AddCommand(newSheetsCommand())

	return cmd
}
