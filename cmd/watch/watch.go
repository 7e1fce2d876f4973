// Package watch provides the "sheetpipe watch" CLI commands for workbook
// monitoring.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetpipe/internal/ops"
	"github.com/klytics/sheetpipe/internal/pipeline"
	w "github.com/klytics/sheetpipe/internal/watch"
)

// NewCommand creates the "watch" command with subcommands.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Monitor directories for workbook changes and auto-process",
		Long: `Watch directories for new or modified workbook files and trigger
automated processing based on configured rules.

Example:
  sheetpipe watch start ./reports --action read
  sheetpipe watch start ./intake --action apply --plan refresh.yaml
  sheetpipe watch status
  sheetpipe watch stop`,
	}

	cmd.AddCommand(newStartCmd())
	cmd.AddCommand(newStopCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func newStartCmd() *cobra.Command {
	var (
		extensions []string
		recursive  bool
		actionName string
		planPath   string
		debounce   int
	)

	cmd := &cobra.Command{
		Use:   "start <directory> [directory...]",
		Short: "Start watching directories for workbook changes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(extensions) == 0 {
				extensions = []string{".xlsx", ".xlsm"}
			}
			if actionName == "apply" && planPath == "" {
				return fmt.Errorf("--plan is required with --action apply")
			}

			rules := []w.Rule{
				{
					ID:         "default",
					Extensions: extensions,
					Action:     w.Action{Name: actionName, Type: actionName, Options: map[string]string{"plan": planPath}},
					Enabled:    true,
				},
			}

			cfg := w.Config{
				Directories: args,
				Rules:       rules,
				Recursive:   recursive,
				Debounce:    debounce,
			}

			watcher, err := w.New(cfg)
			if err != nil {
				return err
			}
			watcher.Handler = handleEvent

			// Write PID
			configDir := w.DefaultConfigDir()
			if err := w.WritePIDFile(configDir); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not write PID file: %v\n", err)
			}
			defer w.RemovePIDFile(configDir)

			// Save config for status command
			w.SaveConfig(configDir, cfg)

			fmt.Printf("Watching %d directory(ies) for %s files\n",
				len(args), strings.Join(extensions, ", "))
			fmt.Println("Press Ctrl+C to stop")

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				fmt.Println("\nStopping watcher...")
				cancel()
			}()

			return watcher.Start(ctx)
		},
	}

	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "File extensions to watch (default: .xlsx,.xlsm)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Watch directories recursively")
	cmd.Flags().StringVar(&actionName, "action", "log", "Action to perform: log, read, apply")
	cmd.Flags().StringVar(&planPath, "plan", "", "Plan file to run for --action apply")
	cmd.Flags().IntVar(&debounce, "debounce", 500, "Debounce interval in milliseconds")

	return cmd
}

// handleEvent reacts to a matched workbook change.
func handleEvent(path string, rule w.Rule) error {
	switch rule.Action.Type {
	case "read":
		res, err := ops.NewService().ReadDocument(context.Background(), path, false)
		if err != nil {
			return err
		}
		return json.NewEncoder(os.Stdout).Encode(res)
	case "apply":
		p, err := pipeline.LoadPlan(rule.Action.Options["plan"])
		if err != nil {
			return err
		}
		executor := pipeline.NewExecutor(false)
		pipeline.RegisterActions(executor, ops.NewService())
		_, err = executor.Run(context.Background(), p)
		return err
	default:
		fmt.Printf("[%s] %s → processed\n", rule.Action.Name, path)
		return nil
	}
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running watcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir := w.DefaultConfigDir()
			pid, err := w.ReadPIDFile(configDir)
			if err != nil {
				return fmt.Errorf("no watcher running (PID file not found)")
			}

			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("could not find process %d: %w", pid, err)
			}

			if err := process.Signal(syscall.SIGTERM); err != nil {
				w.RemovePIDFile(configDir)
				return fmt.Errorf("could not stop watcher (PID %d): %w", pid, err)
			}

			w.RemovePIDFile(configDir)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"stopped": true,
					"pid":     pid,
				})
			}

			fmt.Printf("Stopped watcher (PID %d)\n", pid)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current watcher status",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir := w.DefaultConfigDir()

			pid, err := w.ReadPIDFile(configDir)
			running := err == nil

			if running {
				process, err := os.FindProcess(pid)
				if err != nil {
					running = false
				} else {
					// Signal 0 probes for process existence
					err = process.Signal(syscall.Signal(0))
					if err != nil {
						running = false
						w.RemovePIDFile(configDir)
					}
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")

			if !running {
				if jsonOut {
					return json.NewEncoder(os.Stdout).Encode(map[string]any{"running": false})
				}
				fmt.Println("Watcher is not running")
				return nil
			}

			cfg, _ := w.LoadConfig(configDir)

			status := map[string]any{
				"running": true,
				"pid":     pid,
			}
			if cfg != nil {
				status["directories"] = cfg.Directories
				status["rules"] = len(cfg.Rules)
				status["recursive"] = cfg.Recursive
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(status)
			}

			fmt.Printf("Watcher is running (PID %d)\n", pid)
			if cfg != nil {
				fmt.Printf("  Directories: %s\n", strings.Join(cfg.Directories, ", "))
				fmt.Printf("  Rules:       %d\n", len(cfg.Rules))
				fmt.Printf("  Recursive:   %v\n", cfg.Recursive)
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the current watcher configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir := w.DefaultConfigDir()
			cfg, err := w.LoadConfig(configDir)
			if err != nil {
				return fmt.Errorf("no watcher configuration found (run 'sheetpipe watch start' first)")
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(cfg)
			}

			fmt.Printf("Directories: %s\n", strings.Join(cfg.Directories, ", "))
			fmt.Printf("Recursive:   %v\n", cfg.Recursive)
			fmt.Printf("Debounce:    %dms\n", cfg.Debounce)
			fmt.Printf("Rules:       %d\n", len(cfg.Rules))
			for _, r := range cfg.Rules {
				fmt.Printf("  [%s] ext=%v action=%s enabled=%v\n",
					r.ID, r.Extensions, r.Action.Name, r.Enabled)
			}
			return nil
		},
	}
}
