// Package apply provides the "sheetpipe apply" command: run a YAML plan of
// sheet operations.
package apply

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetpipe/internal/ops"
	"github.com/klytics/sheetpipe/internal/pipeline"
)

// NewCommand creates the "apply" command.
func NewCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "apply <plan.yaml>",
		Short: "Execute a plan of sheet operations from a YAML file",
		Long: `Runs the read and write steps of a YAML plan sequentially.

Use --dry-run to execute read steps and preview what write steps would do.

Plan format:
  name: nightly refresh
  steps:
    - id: seed
      action: write
      file: out.xlsx
      sheet: Data
      cell: B2
      data: [[1, 2], [3, 4]]
      override: false
    - id: verify
      action: read
      file: out.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")

			p, err := pipeline.LoadPlan(args[0])
			if err != nil {
				return err
			}

			executor := pipeline.NewExecutor(verbose)
			executor.SetDryRun(dryRun)
			pipeline.RegisterActions(executor, ops.NewService())

			results, execErr := executor.Run(cmd.Context(), p)

			if jsonFlag {
				// Build JSON-safe output (errors don't serialize well)
				type jsonResult struct {
					StepID string `json:"stepId"`
					Output string `json:"output,omitempty"`
					Error  string `json:"error,omitempty"`
				}
				out := make([]jsonResult, len(results))
				for i, r := range results {
					out[i] = jsonResult{StepID: r.StepID, Output: r.Output}
					if r.Error != nil {
						out[i].Error = r.Error.Error()
					}
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				_ = enc.Encode(out)
			} else {
				for _, r := range results {
					if r.Error != nil {
						fmt.Fprintf(os.Stderr, "Step %s: FAILED — %s\n", r.StepID, r.Error)
					} else {
						fmt.Printf("Step %s: OK\n", r.StepID)
						if verbose && r.Output != "" {
							fmt.Printf("  Output: %s\n", truncate(r.Output, 200))
						}
					}
				}
			}

			return execErr
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview write steps without touching any workbook")

	return cmd
}


func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
