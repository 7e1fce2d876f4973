package excel

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetpipe/internal/output"
	"github.com/klytics/sheetpipe/internal/xlsx"
)

func newSheetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets <file.xlsx>",
		Short: "List the sheet names of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := xlsx.Open(args[0])
			if err != nil {
				return err
			}
			defer d.Close()

			sheets := d.Sheets()

			jsonFlag, _ := cmd.Flags().GetBool("json")
			if jsonFlag {
				return output.PrintJSON("excel sheets", map[string]any{
					"path":   d.Path(),
					"sheets": sheets,
				})
			}

			for _, s := range sheets {
				fmt.Println(s)
			}
			return nil
		},
	}
}
