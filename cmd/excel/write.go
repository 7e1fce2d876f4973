package excel

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetpipe/internal/block"
	"github.com/klytics/sheetpipe/internal/ops"
	"github.com/klytics/sheetpipe/internal/output"
)

func newWriteCommand() *cobra.Command {
	var (
		sheetName string
		cell      string
		dataPath  string
		override  bool
		evaluate  bool
	)

	cmd := &cobra.Command{
		Use:   "write <file.xlsx>",
		Short: "Write a data block into a sheet",
		Long: `Writes a flat or rectangular JSON data block into a sheet, starting at
the anchor cell. Merged cells are skipped without shifting later values.

With --override=false only empty cells are filled; occupied cells are left
untouched. The workbook is saved only when at least one cell changed.

JSON data formats:
  ["a", 1, 2.5]             one row, written left to right
  [[1, 2], [3, 4]]          rows written downward from the anchor`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			if dataPath == "" {
				return fmt.Errorf("--data is required — provide a JSON data file or - for stdin\n\nExample: sheetpipe excel write book.xlsx --data values.json --cell B2")
			}

			var raw []byte
			var err error
			if dataPath == "-" {
				raw, err = io.ReadAll(os.Stdin)
			} else {
				raw, err = os.ReadFile(dataPath)
			}
			if err != nil {
				return fmt.Errorf("could not read data: %w", err)
			}
			data, err := block.DecodeJSON(bytes.NewReader(raw))
			if err != nil {
				return err
			}

			svc := ops.NewService()
			res, err := svc.WriteSheet(cmd.Context(), ops.WriteRequest{
				Path:     args[0],
				Sheet:    sheetName,
				Cell:     cell,
				Data:     data,
				Override: override,
				Evaluate: evaluate,
			})
			if err != nil {
				return err
			}

			if jsonFlag {
				return output.PrintJSON("excel write", res)
			}

			if !res.Changed {
				fmt.Printf("No cells changed in %s (sheet %q)\n", res.Path, res.Sheet)
				return nil
			}
			fmt.Printf("Wrote %d cell(s) to %s (sheet %q): %s\n",
				len(res.Cells), res.Path, res.Sheet, strings.Join(res.Cells, ", "))
			if res.Evaluated {
				fmt.Println("Formulas recalculated.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet to write to (default: first sheet; created if missing)")
	cmd.Flags().StringVar(&cell, "cell", "A1", "Anchor cell to start writing at")
	cmd.Flags().StringVar(&dataPath, "data", "", "Path to JSON data file (or - for stdin)")
	cmd.Flags().BoolVar(&override, "override", true, "Replace occupied cells; with --override=false only empty cells are written")
	cmd.Flags().BoolVar(&evaluate, "evaluate", false, "Recalculate formulas after writing (needs an installed spreadsheet application)")

	return cmd
}
