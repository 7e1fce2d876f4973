package xlsx

import "fmt"

// Rows extracts all rows of the named sheet. Each row spans from column 1 to
// its last populated column; absent cells are nil. Trailing rows that are
// entirely empty are dropped from the end only — interior blank rows stay.
func (d *Document) Rows(sheet string) ([][]any, error) {
	raw, err := d.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q: %w", sheet, err)
	}

	rows := make([][]any, len(raw))
	for i, r := range raw {
		row := make([]any, len(r))
		for j, cell := range r {
			if cell == "" {
				row[j] = nil
			} else {
				row[j] = cell
			}
		}
		rows[i] = row
	}

	for len(rows) > 0 && allEmpty(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows, nil
}

func allEmpty(row []any) bool {
	for _, cell := range row {
		if cell != nil {
			return false
		}
	}
	return true
}
