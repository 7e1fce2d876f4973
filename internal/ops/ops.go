// Package ops implements the operation surface of the tool: reading a whole
// workbook, reading one sheet, and writing a data block into a sheet. The
// host adapter (cmd/) only marshals arguments and results for these calls.
package ops

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/klytics/sheetpipe/internal/block"
	"github.com/klytics/sheetpipe/internal/cellref"
	"github.com/klytics/sheetpipe/internal/config"
	"github.com/klytics/sheetpipe/internal/engine"
	"github.com/klytics/sheetpipe/internal/recalc"
	"github.com/klytics/sheetpipe/internal/xlsx"
)

// ErrEvaluationUnavailable means evaluate=true was requested but no
// recalculation capability is wired in on this host.
var ErrEvaluationUnavailable = errors.New("formula evaluation is not available")

// Service executes the logical operations. Recalc is optional; it is only
// consulted when an operation requests evaluation.
type Service struct {
	Recalc recalc.Engine
}

// NewService builds a Service with the recalculation bridge configured from
// the user config. Every command entry point goes through here so evaluation
// behaves the same whether an operation runs directly, from a plan, or from
// the watcher. A config load failure leaves the bridge on its defaults.
func NewService() *Service {
	eng := &recalc.AppEngine{}
	if cfg, err := config.Load(); err == nil {
		eng.Timeout = cfg.EvaluateTimeout()
		eng.AppPath = cfg.Evaluate.AppPath
	}
	return &Service{Recalc: eng}
}

// SheetContent pairs a sheet name with its extracted rows.
type SheetContent struct {
	Name string
	Rows [][]any
}

// Content is the per-sheet row content of a workbook, in workbook sheet
// order. It marshals to a JSON object that preserves that order.
type Content []SheetContent

// MarshalJSON emits {"name": rows, ...} keeping insertion order; a plain Go
// map would re-sort the sheet names.
func (c Content) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(s.Name)
		if err != nil {
			return nil, err
		}
		rows, err := json.Marshal(s.Rows)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(rows)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DocumentResult is the outcome of ReadDocument.
type DocumentResult struct {
	Path      string   `json:"path"`
	Sheets    []string `json:"sheets"`
	Content   Content  `json:"content"`
	Evaluated bool     `json:"evaluated"`
}

// SheetResult is the outcome of ReadSheet.
type SheetResult struct {
	Path      string  `json:"path"`
	Sheet     string  `json:"sheet"`
	Content   [][]any `json:"content"`
	Evaluated bool    `json:"evaluated"`
}

// WriteRequest carries the arguments of WriteSheet. Zero values mean the
// defaults: first sheet, anchor A1, override on, no evaluation.
type WriteRequest struct {
	Path     string
	Sheet    string
	Cell     string
	Data     []any
	Override bool
	Evaluate bool
}

// WriteResult is the outcome of WriteSheet.
type WriteResult struct {
	Path      string   `json:"path"`
	Sheet     string   `json:"sheet"`
	Cells     []string `json:"cells"`
	Changed   bool     `json:"changed"`
	Evaluated bool     `json:"evaluated"`
}

// ReadDocument extracts all rows of all sheets. With evaluate, formulas are
// recalculated by the bridge before the workbook is read.
func (s *Service) ReadDocument(ctx context.Context, path string, evaluate bool) (*DocumentResult, error) {
	evaluated, err := s.maybeEvaluate(ctx, path, evaluate)
	if err != nil {
		return nil, err
	}

	d, err := xlsx.Open(path)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	sheets := d.Sheets()
	content := make(Content, 0, len(sheets))
	for _, name := range sheets {
		rows, err := d.Rows(name)
		if err != nil {
			return nil, err
		}
		content = append(content, SheetContent{Name: name, Rows: rows})
	}

	return &DocumentResult{
		Path:      d.Path(),
		Sheets:    sheets,
		Content:   content,
		Evaluated: evaluated,
	}, nil
}

// ReadSheet extracts the rows of one sheet; an empty name means the first
// sheet in workbook order.
func (s *Service) ReadSheet(ctx context.Context, path, sheet string, evaluate bool) (*SheetResult, error) {
	// Resolve the sheet name before spending time on evaluation, so an
	// unknown sheet fails fast.
	d, err := xlsx.Open(path)
	if err != nil {
		return nil, err
	}
	name, err := d.ResolveRead(sheet)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.Close()

	evaluated, err := s.maybeEvaluate(ctx, path, evaluate)
	if err != nil {
		return nil, err
	}
	// Reopen so an evaluation's recomputed cached values are picked up.
	d, err = xlsx.Open(path)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	rows, err := d.Rows(name)
	if err != nil {
		return nil, err
	}

	return &SheetResult{
		Path:      d.Path(),
		Sheet:     name,
		Content:   rows,
		Evaluated: evaluated,
	}, nil
}

// WriteSheet validates the data block, writes it into the target sheet
// starting at the anchor cell, and persists the workbook only when cells
// actually changed. A requested evaluation runs after persistence; its
// failure does not roll the write back.
func (s *Service) WriteSheet(ctx context.Context, req WriteRequest) (*WriteResult, error) {
	b, err := block.Validate(req.Data)
	if err != nil {
		return nil, err
	}

	cell := req.Cell
	if cell == "" {
		cell = "A1"
	}
	anchor, err := cellref.Parse(cell)
	if err != nil {
		return nil, err
	}

	d, err := xlsx.Open(req.Path)
	if err != nil {
		return nil, err
	}

	name, err := d.ResolveWrite(req.Sheet)
	if err != nil {
		d.Close()
		return nil, err
	}

	grid, err := d.Grid(name)
	if err != nil {
		d.Close()
		return nil, err
	}

	res, err := engine.Write(grid, b, anchor, req.Override)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("writing to sheet %q of %s: %w", name, d.Path(), err)
	}

	if res.Changed {
		if err := d.Save(); err != nil {
			d.Close()
			return nil, err
		}
	}
	absPath := d.Path()
	d.Close()

	evaluated, err := s.maybeEvaluate(ctx, req.Path, req.Evaluate)
	if err != nil {
		return nil, err
	}

	return &WriteResult{
		Path:      absPath,
		Sheet:     name,
		Cells:     res.Cells,
		Changed:   res.Changed,
		Evaluated: evaluated,
	}, nil
}

func (s *Service) maybeEvaluate(ctx context.Context, path string, evaluate bool) (bool, error) {
	if !evaluate {
		return false, nil
	}
	if s.Recalc == nil {
		return false, ErrEvaluationUnavailable
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, fmt.Errorf("%w at %s — check that the path is correct", xlsx.ErrNotFound, path)
	}
	if err := s.Recalc.Recalculate(ctx, path); err != nil {
		return false, err
	}
	return true, nil
}
