package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/klytics/sheetpipe/internal/block"
	"github.com/klytics/sheetpipe/internal/ops"
)

// RegisterActions wires the sheet operations into the executor.
func RegisterActions(e *Executor, svc *ops.Service) {
	e.RegisterAction("write", writeAction(svc))
	e.RegisterAction("read", readAction(svc))
}

func writeAction(svc *ops.Service) ActionFunc {
	return func(ctx context.Context, step Step) (string, error) {
		data, err := stepData(step)
		if err != nil {
			return "", err
		}

		res, err := svc.WriteSheet(ctx, ops.WriteRequest{
			Path:     step.File,
			Sheet:    step.Sheet,
			Cell:     step.Cell,
			Data:     data,
			Override: step.OverrideValue(),
			Evaluate: step.Evaluate,
		})
		if err != nil {
			return "", err
		}
		return marshalOutput(res)
	}
}

func readAction(svc *ops.Service) ActionFunc {
	return func(ctx context.Context, step Step) (string, error) {
		if step.Sheet != "" {
			res, err := svc.ReadSheet(ctx, step.File, step.Sheet, step.Evaluate)
			if err != nil {
				return "", err
			}
			return marshalOutput(res)
		}
		res, err := svc.ReadDocument(ctx, step.File, step.Evaluate)
		if err != nil {
			return "", err
		}
		return marshalOutput(res)
	}
}

// stepData normalizes the step's YAML data value into the loose list form
// the validator takes. A bare scalar becomes a one-element list.
func stepData(step Step) ([]any, error) {
	switch t := step.Data.(type) {
	case nil:
		return nil, fmt.Errorf("%w: step has no 'data' field", block.ErrEmptyData)
	case []any:
		return t, nil
	default:
		return []any{t}, nil
	}
}

func marshalOutput(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("could not marshal step output: %w", err)
	}
	return string(data), nil
}
