// Package doctor provides the "sheetpipe doctor" command for checking system health.
package doctor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetpipe/internal/config"
	"github.com/klytics/sheetpipe/internal/recalc"
)

// Check represents a single health check result.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Message string `json:"message"`
}

// NewCommand creates the "doctor" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check system health and dependencies",
		Long:  "Run diagnostic checks to verify sheetpipe is properly configured.",
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := runChecks()

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(checks)
			}

			green := color.New(color.FgGreen).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			fmt.Println("Sheetpipe Doctor")
			fmt.Println("================")
			fmt.Println()

			okCount, warnCount, errCount := 0, 0, 0
			for _, c := range checks {
				var icon string
				switch c.Status {
				case "ok":
					icon = green("✓")
					okCount++
				case "warning":
					icon = yellow("!")
					warnCount++
				case "error":
					icon = red("✗")
					errCount++
				}
				fmt.Printf("  %s %s: %s\n", icon, c.Name, c.Message)
			}

			fmt.Println()
			fmt.Printf("  %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

			if errCount > 0 {
				return fmt.Errorf("%d check(s) failed", errCount)
			}
			return nil
		},
	}
}

func runChecks() []Check {
	var checks []Check

	// Check Go runtime
	checks = append(checks, Check{
		Name:    "Go Runtime",
		Status:  "ok",
		Message: fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	})

	// Check config directory
	configDir := config.Dir()
	if info, err := os.Stat(configDir); err == nil && info.IsDir() {
		checks = append(checks, Check{
			Name:    "Config Directory",
			Status:  "ok",
			Message: configDir,
		})
	} else {
		checks = append(checks, Check{
			Name:    "Config Directory",
			Status:  "warning",
			Message: fmt.Sprintf("%s not found — created on first use", configDir),
		})
	}

	// Check config file
	configFile := config.Path()
	if _, err := os.Stat(configFile); err == nil {
		checks = append(checks, Check{
			Name:    "Config File",
			Status:  "ok",
			Message: configFile,
		})
	} else {
		checks = append(checks, Check{
			Name:    "Config File",
			Status:  "warning",
			Message: "Not found — defaults in effect",
		})
	}

	// Check formula recalculation capability
	installed, err := recalc.Detect()
	switch {
	case errors.Is(err, recalc.ErrUnsupported):
		checks = append(checks, Check{
			Name:    "Formula Recalculation",
			Status:  "warning",
			Message: fmt.Sprintf("Not available on %s — reads return cached formula values", runtime.GOOS),
		})
	case installed:
		checks = append(checks, Check{
			Name:    "Formula Recalculation",
			Status:  "ok",
			Message: "Spreadsheet application detected",
		})
	default:
		checks = append(checks, Check{
			Name:    "Formula Recalculation",
			Status:  "warning",
			Message: "No spreadsheet application found — set evaluate.app_path in config",
		})
	}

	// Check environment overrides
	if os.Getenv("SHEETPIPE_EVALUATE_APP_PATH") != "" {
		checks = append(checks, Check{
			Name:    "App Path Override",
			Status:  "ok",
			Message: "SHEETPIPE_EVALUATE_APP_PATH set",
		})
	}

	return checks
}
