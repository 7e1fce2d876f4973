// Package cellref converts between A1-style cell references and 1-based
// (row, column) coordinates.
package cellref

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalid is wrapped by Parse for any malformed reference.
var ErrInvalid = errors.New("invalid cell reference")

// cellRefRe matches a cell reference like A1, $B$2, AA100
var cellRefRe = regexp.MustCompile(`^\$?([A-Z]+)\$?([0-9]+)$`)

// Ref is a single cell position. Row and Col are 1-based.
type Ref struct {
	Row int
	Col int
}

// Parse converts a reference like "B10" into a Ref. Absolute markers ($) and
// lowercase column letters are accepted; the row must be a positive integer.
func Parse(ref string) (Ref, error) {
	m := cellRefRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(ref)))
	if m == nil {
		return Ref{}, fmt.Errorf("%w %q — expected column letters followed by a row number (e.g. A1, B10)", ErrInvalid, ref)
	}
	row, err := strconv.Atoi(m[2])
	if err != nil || row < 1 {
		return Ref{}, fmt.Errorf("%w %q — row must be a positive integer", ErrInvalid, ref)
	}
	return Ref{Row: row, Col: ColumnNumber(m[1])}, nil
}

// String renders the canonical form, e.g. Ref{Row: 10, Col: 28} → "AB10".
func (r Ref) String() string {
	return ColumnName(r.Col) + strconv.Itoa(r.Row)
}

// ColumnName converts a 1-based column number to its letter form (1→A, 27→AA).
func ColumnName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return name
}

// ColumnNumber converts column letters to a 1-based column number. Letters
// form a base-26 number with no zero digit (A=1 … Z=26, AA=27).
func ColumnNumber(letters string) int {
	col := 0
	for _, c := range letters {
		col = col*26 + int(c-'A'+1)
	}
	return col
}

// Less orders refs by column letters, then row. This is the output order for
// changed-cell lists, kept independent of write traversal order.
func Less(a, b Ref) bool {
	ca, cb := ColumnName(a.Col), ColumnName(b.Col)
	if ca != cb {
		return ca < cb
	}
	return a.Row < b.Row
}
