package engine

import (
	"reflect"
	"testing"

	"github.com/klytics/sheetpipe/internal/block"
	"github.com/klytics/sheetpipe/internal/cellref"
)

// fakeGrid is an in-memory grid with optional merged-member positions.
type fakeGrid struct {
	values map[[2]int]string
	merged map[[2]int]bool
}

func newFakeGrid() *fakeGrid {
	return &fakeGrid{values: make(map[[2]int]string), merged: make(map[[2]int]bool)}
}

func (g *fakeGrid) State(row, col int) (State, error) {
	k := [2]int{row, col}
	if g.merged[k] {
		return State{Merged: true}, nil
	}
	v, ok := g.values[k]
	return State{HasValue: ok, Value: v}, nil
}

func (g *fakeGrid) Set(row, col int, v block.Scalar) error {
	g.values[[2]int{row, col}] = v.CellString()
	return nil
}

func mustValidate(t *testing.T, data []any) block.Block {
	t.Helper()
	b, err := block.Validate(data)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	return b
}

func anchor(t *testing.T, ref string) cellref.Ref {
	t.Helper()
	r, err := cellref.Parse(ref)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", ref, err)
	}
	return r
}

func TestWriteFlatEmptySheet(t *testing.T) {
	g := newFakeGrid()
	res, err := Write(g, mustValidate(t, []any{"x", "y"}), anchor(t, "A1"), true)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Changed {
		t.Error("expected changed=true")
	}
	if !reflect.DeepEqual(res.Cells, []string{"A1", "B1"}) {
		t.Errorf("cells = %v, want [A1 B1]", res.Cells)
	}
	if g.values[[2]int{1, 1}] != "x" || g.values[[2]int{1, 2}] != "y" {
		t.Errorf("values placed wrong: %v", g.values)
	}
}

func TestWriteGridAdvancesRows(t *testing.T) {
	g := newFakeGrid()
	b := mustValidate(t, []any{
		[]any{int64(1), int64(2)},
		[]any{int64(3), int64(4)},
	})
	res, err := Write(g, b, anchor(t, "B2"), true)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"B2", "B3", "C2", "C3"}
	if !reflect.DeepEqual(res.Cells, want) {
		t.Errorf("cells = %v, want %v", res.Cells, want)
	}
	if g.values[[2]int{3, 3}] != "4" {
		t.Errorf("C3 = %q, want 4", g.values[[2]int{3, 3}])
	}
}

func TestWriteEqualValueIsNoOp(t *testing.T) {
	g := newFakeGrid()
	g.values[[2]int{1, 1}] = "x"

	res, err := Write(g, mustValidate(t, []any{"x"}), anchor(t, "A1"), true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed || len(res.Cells) != 0 {
		t.Errorf("equal value rewrite should report no change, got %v", res)
	}
}

func TestWriteOverrideReplaces(t *testing.T) {
	g := newFakeGrid()
	g.values[[2]int{1, 1}] = "x"

	res, err := Write(g, mustValidate(t, []any{"z"}), anchor(t, "A1"), true)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Changed || !reflect.DeepEqual(res.Cells, []string{"A1"}) {
		t.Errorf("expected A1 changed, got %v", res)
	}
	if g.values[[2]int{1, 1}] != "z" {
		t.Errorf("A1 = %q, want z", g.values[[2]int{1, 1}])
	}
}

func TestWriteNoOverrideSkipsOccupied(t *testing.T) {
	g := newFakeGrid()
	g.values[[2]int{1, 1}] = "x"

	// Differing value, override=false: never written, never recorded.
	res, err := Write(g, mustValidate(t, []any{"z"}), anchor(t, "A1"), false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed || len(res.Cells) != 0 {
		t.Errorf("occupied cell with override=false should be untouched, got %v", res)
	}
	if g.values[[2]int{1, 1}] != "x" {
		t.Errorf("A1 = %q, want x preserved", g.values[[2]int{1, 1}])
	}
}

func TestWriteNoOverrideFillsEmpty(t *testing.T) {
	g := newFakeGrid()
	res, err := Write(g, mustValidate(t, []any{"z"}), anchor(t, "A1"), false)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Changed || !reflect.DeepEqual(res.Cells, []string{"A1"}) {
		t.Errorf("empty cell should be written with override=false, got %v", res)
	}
}

func TestWriteSkipsMergedMemberWithoutShift(t *testing.T) {
	g := newFakeGrid()
	g.merged[[2]int{1, 2}] = true // B1 belongs to a merged region

	res, err := Write(g, mustValidate(t, []any{"a", "b"}), anchor(t, "A1"), true)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.Cells, []string{"A1"}) {
		t.Errorf("cells = %v, want [A1]", res.Cells)
	}
	// The merged position consumed element "b"; nothing lands in C1.
	if _, ok := g.values[[2]int{1, 3}]; ok {
		t.Error("merged skip must not shift later elements into C1")
	}
	if _, ok := g.values[[2]int{1, 2}]; ok {
		t.Error("merged member must not be written")
	}
}

func TestWriteMixedSkipsStillCoverWholeBlock(t *testing.T) {
	g := newFakeGrid()
	g.values[[2]int{1, 1}] = "keep"
	g.merged[[2]int{1, 2}] = true

	res, err := Write(g, mustValidate(t, []any{"a", "b", "c"}), anchor(t, "A1"), false)
	if err != nil {
		t.Fatal(err)
	}
	// A1 occupied (skip), B1 merged (skip), C1 empty (write "c").
	if !reflect.DeepEqual(res.Cells, []string{"C1"}) {
		t.Errorf("cells = %v, want [C1]", res.Cells)
	}
	if g.values[[2]int{1, 3}] != "c" {
		t.Errorf("C1 = %q, want c", g.values[[2]int{1, 3}])
	}
}

func TestWriteResultOrderIndependentOfTraversal(t *testing.T) {
	g := newFakeGrid()
	// Wide flat row crossing the Z→AA boundary from anchor Y1.
	b := mustValidate(t, []any{int64(1), int64(2), int64(3), int64(4)})
	res, err := Write(g, b, anchor(t, "Y1"), true)
	if err != nil {
		t.Fatal(err)
	}
	// Column-letter order: AA before AB, both after Y and Z.
	want := []string{"AA1", "AB1", "Y1", "Z1"}
	if !reflect.DeepEqual(res.Cells, want) {
		t.Errorf("cells = %v, want %v", res.Cells, want)
	}
}

func TestWriteNumericEquality(t *testing.T) {
	g := newFakeGrid()
	g.values[[2]int{1, 1}] = "42"

	res, err := Write(g, mustValidate(t, []any{int64(42)}), anchor(t, "A1"), true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed {
		t.Errorf("integer 42 over stored \"42\" should be a no-op, got %v", res)
	}
}
