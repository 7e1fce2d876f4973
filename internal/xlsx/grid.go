package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetpipe/internal/block"
	"github.com/klytics/sheetpipe/internal/engine"
)

// mergeRange is one merged region in 1-based coordinates. Its top-left cell
// is the region's anchor; every other member is read-only for the writer.
type mergeRange struct {
	startCol, startRow int
	endCol, endRow     int
}

func (m mergeRange) member(row, col int) bool {
	if row < m.startRow || row > m.endRow || col < m.startCol || col > m.endCol {
		return false
	}
	return !(row == m.startRow && col == m.startCol)
}

// Grid adapts one worksheet to the write engine's grid interface. The merged
// regions are snapshotted at construction; write operations never alter them.
type Grid struct {
	f      *excelize.File
	sheet  string
	merged []mergeRange
}

// Grid returns a writable grid view of the named sheet.
func (d *Document) Grid(sheet string) (*Grid, error) {
	cells, err := d.f.GetMergeCells(sheet)
	if err != nil {
		return nil, fmt.Errorf("could not read merged cells of %q: %w", sheet, err)
	}

	merged := make([]mergeRange, 0, len(cells))
	for _, mc := range cells {
		sc, sr, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			return nil, fmt.Errorf("bad merge range start %q: %w", mc.GetStartAxis(), err)
		}
		ec, er, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			return nil, fmt.Errorf("bad merge range end %q: %w", mc.GetEndAxis(), err)
		}
		merged = append(merged, mergeRange{startCol: sc, startRow: sr, endCol: ec, endRow: er})
	}

	return &Grid{f: d.f, sheet: sheet, merged: merged}, nil
}

func (g *Grid) State(row, col int) (engine.State, error) {
	for _, m := range g.merged {
		if m.member(row, col) {
			return engine.State{Merged: true}, nil
		}
	}

	addr, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return engine.State{}, err
	}
	v, err := g.f.GetCellValue(g.sheet, addr)
	if err != nil {
		return engine.State{}, fmt.Errorf("could not read cell %s: %w", addr, err)
	}
	return engine.State{HasValue: v != "", Value: v}, nil
}

func (g *Grid) Set(row, col int, v block.Scalar) error {
	addr, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := g.f.SetCellValue(g.sheet, addr, v.Value()); err != nil {
		return fmt.Errorf("could not set cell %s: %w", addr, err)
	}
	return nil
}
