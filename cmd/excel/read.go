package excel

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetpipe/internal/ops"
	"github.com/klytics/sheetpipe/internal/output"
)

func newReadCommand() *cobra.Command {
	var (
		sheetName string
		evaluate  bool
		csvOutput bool
	)

	cmd := &cobra.Command{
		Use:   "read <file.xlsx>",
		Short: "Extract cell values from a workbook",
		Long: `Reads a workbook and outputs its cell values, row by row.

Without --sheet the whole document is read, one block per sheet; with
--sheet only the named sheet. With --evaluate the installed spreadsheet
application recalculates formulas first (Windows and macOS only).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			svc := ops.NewService()

			if !strings.HasSuffix(strings.ToLower(args[0]), ".xlsx") {
				return fmt.Errorf("expected an .xlsx file, got %q — use 'sheetpipe excel read <file.xlsx>'", args[0])
			}

			sheetFlagSet := cmd.Flags().Changed("sheet")
			if sheetFlagSet {
				res, err := svc.ReadSheet(cmd.Context(), args[0], sheetName, evaluate)
				if err != nil {
					return err
				}
				if jsonFlag {
					return output.PrintJSON("excel read", res)
				}
				if csvOutput {
					printCSV(res.Content)
					return nil
				}
				printSheet(res.Sheet, res.Content)
				return nil
			}

			res, err := svc.ReadDocument(cmd.Context(), args[0], evaluate)
			if err != nil {
				return err
			}
			if jsonFlag {
				return output.PrintJSON("excel read", res)
			}
			for _, sc := range res.Content {
				if csvOutput {
					fmt.Printf("--- %s ---\n", sc.Name)
					printCSV(sc.Rows)
					continue
				}
				printSheet(sc.Name, sc.Rows)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sheetName, "sheet", "", "Read only the named sheet (empty value means the first sheet)")
	cmd.Flags().BoolVar(&evaluate, "evaluate", false, "Recalculate formulas before reading (needs an installed spreadsheet application)")
	cmd.Flags().BoolVar(&csvOutput, "csv", false, "Output as CSV")

	return cmd
}

func printSheet(name string, rows [][]any) {
	headerStyle := color.New(color.Bold, color.FgCyan)
	dim := color.New(color.FgHiBlack)

	headerStyle.Printf("Sheet: %s\n", name)
	if len(rows) == 0 {
		dim.Println("  (empty)")
		fmt.Println()
		return
	}

	// Calculate column widths
	colWidths := make([]int, 0)
	for _, row := range rows {
		for j, cell := range row {
			for len(colWidths) <= j {
				colWidths = append(colWidths, 0)
			}
			if w := len(cellText(cell)); w > colWidths[j] {
				colWidths[j] = w
			}
		}
	}
	for i := range colWidths {
		if colWidths[i] > 40 {
			colWidths[i] = 40
		}
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	for _, row := range rows {
		printRow(row, colWidths)
	}
	dim.Printf("  (%d rows)\n\n", len(rows))
}

func printRow(row []any, colWidths []int) {
	fmt.Print("  ")
	for j := range colWidths {
		if j > 0 {
			fmt.Print("| ")
		}
		cell := ""
		if j < len(row) {
			cell = cellText(row[j])
		}
		if len(cell) > colWidths[j] {
			cell = cell[:colWidths[j]-1] + "~"
		}
		fmt.Print(cell + strings.Repeat(" ", colWidths[j]-len(cell)+1))
	}
	fmt.Println()
}

func printCSV(rows [][]any) {
	for _, row := range rows {
		for j, cell := range row {
			if j > 0 {
				fmt.Print(",")
			}
			text := cellText(cell)
			if strings.ContainsAny(text, ",\"\n\r") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			fmt.Print(text)
		}
		fmt.Println()
	}
}

func cellText(cell any) string {
	if cell == nil {
		return ""
	}
	return fmt.Sprintf("%v", cell)
}
