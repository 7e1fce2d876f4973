// Package pipeline provides the YAML-based plan runner: a sequential list of
// read and write steps applied to workbook files.
package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan is a complete workflow definition.
type Plan struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
	Steps   []Step `yaml:"steps" json:"steps"`
}

// Step is one action in a plan. Data carries the raw YAML value; shape
// validation happens inside the write action, before any cell is touched.
type Step struct {
	ID        string `yaml:"id" json:"id"`
	Action    string `yaml:"action" json:"action"`
	File      string `yaml:"file" json:"file"`
	Sheet     string `yaml:"sheet,omitempty" json:"sheet,omitempty"`
	Cell      string `yaml:"cell,omitempty" json:"cell,omitempty"`
	Data      any    `yaml:"data,omitempty" json:"data,omitempty"`
	Override  *bool  `yaml:"override,omitempty" json:"override,omitempty"`
	Evaluate  bool   `yaml:"evaluate,omitempty" json:"evaluate,omitempty"`
	OnFailure string `yaml:"on_failure,omitempty" json:"onFailure,omitempty"`
}

// OverrideValue resolves the step's override flag; omitted means true.
func (s Step) OverrideValue() bool {
	if s.Override == nil {
		return true
	}
	return *s.Override
}

// StepResult holds the output of a completed plan step.
type StepResult struct {
	StepID string `json:"stepId"`
	Output string `json:"output"`
	Error  error  `json:"error,omitempty"`
}

// LoadPlan reads and parses a plan YAML file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("plan file not found: %s — check that the path is correct", path)
		}
		return nil, fmt.Errorf("could not read plan file %s: %w", path, err)
	}

	return ParsePlan(data)
}

// ParsePlan parses a plan from YAML bytes.
func ParsePlan(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid plan YAML: %w", err)
	}

	if err := validatePlan(&p); err != nil {
		return nil, err
	}

	return &p, nil
}

func validatePlan(p *Plan) error {
	if p.Name == "" {
		return fmt.Errorf("plan is missing a 'name' field")
	}

	if len(p.Steps) == 0 {
		return fmt.Errorf("plan %q has no steps defined", p.Name)
	}

	seen := make(map[string]bool)
	for i, step := range p.Steps {
		if step.ID == "" {
			return fmt.Errorf("step %d is missing an 'id' field", i+1)
		}
		if seen[step.ID] {
			return fmt.Errorf("duplicate step ID %q — each step must have a unique ID", step.ID)
		}
		seen[step.ID] = true

		if step.Action == "" {
			return fmt.Errorf("step %q is missing an 'action' field", step.ID)
		}
		if step.File == "" {
			return fmt.Errorf("step %q is missing a 'file' field", step.ID)
		}
	}

	return nil
}
