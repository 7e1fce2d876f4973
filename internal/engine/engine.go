// Package engine maps a validated data block onto worksheet cells starting
// at an anchor reference, applying the per-cell overwrite policy and
// reporting exactly which cells changed.
package engine

import (
	"fmt"
	"sort"

	"github.com/klytics/sheetpipe/internal/block"
	"github.com/klytics/sheetpipe/internal/cellref"
)

// State describes one worksheet cell as seen by the writer.
type State struct {
	// Merged marks a merged-region member that is not the region's anchor.
	// Such cells are never written; the traversal cursor still advances.
	Merged bool
	// HasValue reports whether the cell currently holds a value.
	HasValue bool
	// Value is the cell's stored value in canonical string form, empty when
	// HasValue is false.
	Value string
}

// Grid is the mutable worksheet surface the engine writes against. Cells
// come into existence implicitly as (row, col) positions are touched.
type Grid interface {
	State(row, col int) (State, error)
	Set(row, col int, v block.Scalar) error
}

// Result reports the outcome of one write call.
type Result struct {
	// Cells lists the references that were actually modified, sorted by
	// (column letters, row). Never nil.
	Cells []string
	// Changed is true iff Cells is non-empty.
	Changed bool
}

// Write lays the block out on the grid starting at anchor. A Flat block
// fills a single row, one column per element; a Grid block fills one row
// per sub-row. Per target cell:
//
//   - a merged-member cell is skipped (position consumed, nothing written)
//   - an empty cell is written unconditionally
//   - an occupied cell is rewritten only when override is true and the new
//     value differs; with override false it is never touched
//
// Traversal always covers every element of the block; skips never shift
// later elements.
func Write(g Grid, b block.Block, anchor cellref.Ref, override bool) (Result, error) {
	var changed []cellref.Ref

	row := anchor.Row
	for _, cells := range b.Rows {
		col := anchor.Col
		for _, v := range cells {
			wrote, err := writeCell(g, row, col, v, override)
			if err != nil {
				return Result{}, fmt.Errorf("writing cell %s: %w", cellref.Ref{Row: row, Col: col}, err)
			}
			if wrote {
				changed = append(changed, cellref.Ref{Row: row, Col: col})
			}
			col++
		}
		row++
	}

	sort.Slice(changed, func(i, j int) bool { return cellref.Less(changed[i], changed[j]) })

	cells := make([]string, len(changed))
	for i, r := range changed {
		cells[i] = r.String()
	}
	return Result{Cells: cells, Changed: len(cells) > 0}, nil
}

func writeCell(g Grid, row, col int, v block.Scalar, override bool) (bool, error) {
	st, err := g.State(row, col)
	if err != nil {
		return false, err
	}
	if st.Merged {
		return false, nil
	}
	if !st.HasValue {
		return true, g.Set(row, col, v)
	}
	if override && st.Value != v.CellString() {
		return true, g.Set(row, col, v)
	}
	return false, nil
}
