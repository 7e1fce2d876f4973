// Package shell provides the "sheetpipe shell" interactive REPL command.
package shell

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	shellpkg "github.com/klytics/sheetpipe/internal/shell"
)

// NewCommand creates the "shell" command. rootFactory builds a fresh root
// command per evaluated line so flag state never leaks between commands.
func NewCommand(rootFactory func() *cobra.Command) *cobra.Command {
	var (
		evalCommand string
		defaultBook string
	)

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive sheetpipe shell",
		Long: `Start an interactive shell with command history, tab completion,
and per-session workbook defaults.

Example:
  sheetpipe shell
  sheetpipe shell --book report.xlsx
  sheetpipe shell --eval "excel sheets report.xlsx"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			shellpkg.DefaultRunner = func(ctx context.Context, args []string, stdout, stderr io.Writer) error {
				root := rootFactory()
				root.SetArgs(args)
				root.SetOut(stdout)
				root.SetErr(stderr)
				return root.ExecuteContext(ctx)
			}

			session, err := shellpkg.NewSession()
			if err != nil {
				return fmt.Errorf("could not start shell session: %w", err)
			}
			session.DefaultBook = defaultBook

			if evalCommand != "" {
				out, err := session.Eval(cmd.Context(), evalCommand)
				if out != "" {
					fmt.Fprint(cmd.OutOrStdout(), out)
				}
				return err
			}

			return session.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&evalCommand, "eval", "", "Evaluate a single command and exit")
	cmd.Flags().StringVar(&defaultBook, "book", "", "Default workbook for excel commands")

	return cmd
}
