// Package block validates and normalizes the data blocks accepted by the
// sheet writer: a flat row of scalars, or a rectangular grid of rows.
package block

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Validation failures. All are wrapped with element context by Validate.
var (
	ErrEmptyData        = errors.New("empty data list")
	ErrMixedScalarTypes = errors.New("data must be a string or number across the whole list")
	ErrMixedRowTypes    = errors.New("data must be a string or number across the sublist")
	ErrNonListRow       = errors.New("all elements in a list of sublists must be lists")
	ErrUnsupportedShape = errors.New("data must be a list of strings or numbers, or a 2d list")
)

// Kind discriminates the closed scalar sum type.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
)

// Scalar is a single cell value: a string, an integer, or a float.
type Scalar struct {
	kind Kind
	str  string
	num  int64
	flt  float64
}

// Str returns a string scalar.
func Str(s string) Scalar { return Scalar{kind: KindString, str: s} }

// Int returns an integer scalar.
func Int(i int64) Scalar { return Scalar{kind: KindInt, num: i} }

// Float returns a floating-point scalar.
func Float(f float64) Scalar { return Scalar{kind: KindFloat, flt: f} }

// Kind reports which member of the sum the scalar holds.
func (v Scalar) Kind() Kind { return v.kind }

// Value returns the dynamically-typed value for handing to the workbook codec.
func (v Scalar) Value() any {
	switch v.kind {
	case KindInt:
		return v.num
	case KindFloat:
		return v.flt
	default:
		return v.str
	}
}

// CellString renders the scalar the way the workbook codec surfaces stored
// cell values, so equality against an existing cell compares like for like.
func (v Scalar) CellString() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.flt, 'f', -1, 64)
	default:
		return v.str
	}
}

// Shape classifies a validated block.
type Shape int

const (
	// Flat is a single row of scalars written left to right from the anchor.
	Flat Shape = iota
	// Grid is a list of rows written top to bottom from the anchor.
	Grid
)

// Block is a fully validated data block. Rows always holds at least one row;
// for a Flat block it holds exactly one.
type Block struct {
	Shape Shape
	Rows  [][]Scalar
}

// Validate classifies raw decoded data as a flat row or a grid of rows.
// It checks the entire block before returning — a returned Block is safe to
// write without further type inspection.
func Validate(data []any) (Block, error) {
	if len(data) == 0 {
		return Block{}, ErrEmptyData
	}

	if _, ok := coerce(data[0]); ok {
		row := make([]Scalar, len(data))
		for i, el := range data {
			s, ok := coerce(el)
			if !ok {
				return Block{}, fmt.Errorf("%w (element %d is %T)", ErrMixedScalarTypes, i, el)
			}
			row[i] = s
		}
		return Block{Shape: Flat, Rows: [][]Scalar{row}}, nil
	}

	if _, ok := data[0].([]any); ok {
		rows := make([][]Scalar, len(data))
		for i, el := range data {
			sub, ok := el.([]any)
			if !ok {
				return Block{}, fmt.Errorf("%w (element %d is %T)", ErrNonListRow, i, el)
			}
			row := make([]Scalar, len(sub))
			for j, cell := range sub {
				s, ok := coerce(cell)
				if !ok {
					return Block{}, fmt.Errorf("%w (row %d, element %d is %T)", ErrMixedRowTypes, i, j, cell)
				}
				row[j] = s
			}
			rows[i] = row
		}
		return Block{Shape: Grid, Rows: rows}, nil
	}

	return Block{}, fmt.Errorf("%w (got %T)", ErrUnsupportedShape, data[0])
}

// coerce maps the loosely-typed values produced by JSON and YAML decoding
// onto the scalar sum type.
func coerce(v any) (Scalar, bool) {
	switch t := v.(type) {
	case string:
		return Str(t), true
	case int:
		return Int(int64(t)), true
	case int64:
		return Int(t), true
	case float64:
		return Float(t), true
	case json.Number:
		if !strings.ContainsAny(t.String(), ".eE") {
			if i, err := t.Int64(); err == nil {
				return Int(i), true
			}
		}
		if f, err := t.Float64(); err == nil {
			return Float(f), true
		}
		return Scalar{}, false
	default:
		return Scalar{}, false
	}
}

// DecodeJSON reads a JSON data block. Numbers are kept distinct from floats
// via json.Number. A bare scalar is accepted as a one-element list, matching
// the list coercion the automation host applies.
func DecodeJSON(r io.Reader) ([]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON data: %w", err)
	}

	switch t := raw.(type) {
	case []any:
		return t, nil
	case string, json.Number:
		return []any{t}, nil
	default:
		return nil, fmt.Errorf("%w (got %T)", ErrUnsupportedShape, raw)
	}
}
