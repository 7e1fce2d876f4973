package pipeline

import (
	"context"
	"fmt"
)

// ActionFunc is the signature for plan action handlers.
type ActionFunc func(ctx context.Context, step Step) (string, error)

// Executor runs plan steps sequentially.
type Executor struct {
	actions map[string]ActionFunc
	verbose bool
	dryRun  bool
}

// NewExecutor creates a new plan executor.
func NewExecutor(verbose bool) *Executor {
	return &Executor{
		actions: make(map[string]ActionFunc),
		verbose: verbose,
	}
}

// SetDryRun enables dry-run mode: read steps execute normally, mutating
// steps are described instead of executed.
func (e *Executor) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// RegisterAction adds an action handler to the executor's registry.
func (e *Executor) RegisterAction(name string, fn ActionFunc) {
	e.actions[name] = fn
}

// Run executes all steps in the plan sequentially. A failing step aborts the
// run unless its on_failure is "skip".
func (e *Executor) Run(ctx context.Context, p *Plan) ([]StepResult, error) {
	var results []StepResult

	if e.verbose {
		fmt.Printf("Running plan: %s (v%s)\n", p.Name, p.Version)
		if e.dryRun {
			fmt.Println("  (dry-run mode — write steps will be skipped)")
		}
	}

	for i, step := range p.Steps {
		if e.verbose {
			fmt.Printf("[%d/%d] Running step: %s (%s)\n", i+1, len(p.Steps), step.ID, step.Action)
		}

		if e.dryRun && mutates(step.Action) {
			msg := fmt.Sprintf("[DRY-RUN] Would %s to %s (sheet %q, cell %q)",
				step.Action, step.File, step.Sheet, step.Cell)
			if e.verbose {
				fmt.Printf("  %s\n", msg)
			}
			results = append(results, StepResult{StepID: step.ID, Output: msg})
			continue
		}

		action, ok := e.actions[step.Action]
		if !ok {
			err := fmt.Errorf("unknown action %q in step %q — registered actions: %v",
				step.Action, step.ID, e.actionNames())
			if step.OnFailure == "skip" {
				if e.verbose {
					fmt.Printf("  Skipping step %s: %s\n", step.ID, err)
				}
				results = append(results, StepResult{StepID: step.ID, Error: err})
				continue
			}
			return results, err
		}

		out, err := action(ctx, step)
		if err != nil {
			wrapped := fmt.Errorf("step %q: %w", step.ID, err)
			if step.OnFailure == "skip" {
				if e.verbose {
					fmt.Printf("  Skipping step %s: %s\n", step.ID, err)
				}
				results = append(results, StepResult{StepID: step.ID, Error: wrapped})
				continue
			}
			results = append(results, StepResult{StepID: step.ID, Error: wrapped})
			return results, wrapped
		}

		results = append(results, StepResult{StepID: step.ID, Output: out})
	}

	return results, nil
}

func mutates(action string) bool {
	return action == "write"
}

func (e *Executor) actionNames() []string {
	names := make([]string, 0, len(e.actions))
	for name := range e.actions {
		names = append(names, name)
	}
	return names
}
