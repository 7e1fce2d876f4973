package xlsx

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetpipe/internal/block"
)

// newWorkbook writes a fixture workbook and returns its path.
func newWorkbook(t *testing.T, build func(f *excelize.File)) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.xlsx")

	f := excelize.NewFile()
	defer f.Close()
	if build != nil {
		build(f)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("could not save fixture: %v", err)
	}
	return path
}

func TestOpenNotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestResolveReadDefaultsToFirstSheet(t *testing.T) {
	path := newWorkbook(t, func(f *excelize.File) {
		f.SetSheetName("Sheet1", "S1")
		f.NewSheet("S2")
	})

	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	name, err := d.ResolveRead("")
	if err != nil {
		t.Fatal(err)
	}
	if name != "S1" {
		t.Errorf("resolved %q, want S1", name)
	}
}

func TestResolveReadUnknownSheet(t *testing.T) {
	path := newWorkbook(t, nil)

	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	if _, err := d.ResolveRead("Nope"); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("got %v, want ErrSheetNotFound", err)
	}
}

func TestResolveWriteCreatesAndAppends(t *testing.T) {
	path := newWorkbook(t, func(f *excelize.File) {
		f.SetSheetName("Sheet1", "S1")
		f.NewSheet("S2")
	})

	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	name, err := d.ResolveWrite("S3")
	if err != nil {
		t.Fatal(err)
	}
	if name != "S3" {
		t.Errorf("resolved %q, want S3", name)
	}

	sheets := d.Sheets()
	if len(sheets) != 3 || sheets[2] != "S3" {
		t.Errorf("sheets = %v, want [S1 S2 S3]", sheets)
	}
}

func TestRowsTrimsTrailingEmptyRowsOnly(t *testing.T) {
	path := newWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", 1)
		f.SetCellValue("Sheet1", "B1", 2)
		// row 2 fully blank, interior
		f.SetCellValue("Sheet1", "A3", 3)
		// rows 4 and 5 blank but forced into the sheet dimension
		f.SetCellValue("Sheet1", "A5", "tmp")
		f.SetCellValue("Sheet1", "A5", "")
	})

	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	rows, err := d.Rows("Sheet1")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows after trimming, got %d: %v", len(rows), rows)
	}
	if rows[0][0] != "1" || rows[0][1] != "2" {
		t.Errorf("row 1 = %v", rows[0])
	}
	if !allEmpty(rows[1]) {
		t.Errorf("interior blank row must be preserved, got %v", rows[1])
	}
	if rows[2][0] != "3" {
		t.Errorf("row 3 = %v", rows[2])
	}
}

func TestGridMergedMember(t *testing.T) {
	path := newWorkbook(t, func(f *excelize.File) {
		f.MergeCell("Sheet1", "B1", "C2")
	})

	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	g, err := d.Grid("Sheet1")
	if err != nil {
		t.Fatal(err)
	}

	// B1 is the region anchor, writable; C1, B2, C2 are members.
	st, err := g.State(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if st.Merged {
		t.Error("region anchor B1 must not be classified as a merged member")
	}

	for _, pos := range [][2]int{{1, 3}, {2, 2}, {2, 3}} {
		st, err := g.State(pos[0], pos[1])
		if err != nil {
			t.Fatal(err)
		}
		if !st.Merged {
			t.Errorf("cell (row %d, col %d) should be a merged member", pos[0], pos[1])
		}
	}

	// A1, outside the region.
	st, err = g.State(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if st.Merged {
		t.Error("A1 is outside the merge region")
	}
}

func TestGridSetAndState(t *testing.T) {
	path := newWorkbook(t, nil)

	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	g, err := d.Grid("Sheet1")
	if err != nil {
		t.Fatal(err)
	}

	st, err := g.State(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if st.HasValue {
		t.Error("fresh sheet A1 should be empty")
	}

	if err := g.Set(1, 1, block.Int(42)); err != nil {
		t.Fatal(err)
	}
	st, err = g.State(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !st.HasValue || st.Value != "42" {
		t.Errorf("A1 state = %+v, want value 42", st)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := newWorkbook(t, nil)

	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	g, _ := d.Grid("Sheet1")
	if err := g.Set(2, 2, block.Str("hello")); err != nil {
		t.Fatal(err)
	}
	if err := d.Save(); err != nil {
		t.Fatal(err)
	}
	d.Close()

	d2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d2.Close()

	rows, err := d2.Rows("Sheet1")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1][1] != "hello" {
		t.Errorf("rows = %v, want B2=hello", rows)
	}
}
