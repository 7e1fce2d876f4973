package watch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	w "github.com/klytics/sheetpipe/internal/watch"
)

func fixtureWorkbook(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "book.xlsx")
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "x")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()
	return path
}

func TestHandleEventReadsWorkbook(t *testing.T) {
	book := fixtureWorkbook(t, t.TempDir())

	rule := w.Rule{ID: "r", Action: w.Action{Name: "read", Type: "read"}}
	if err := handleEvent(book, rule); err != nil {
		t.Fatalf("handleEvent: %v", err)
	}
}

func TestHandleEventAppliesPlan(t *testing.T) {
	dir := t.TempDir()
	book := fixtureWorkbook(t, dir)

	plan := filepath.Join(dir, "plan.yaml")
	planText := "name: readback\nsteps:\n  - id: check\n    action: read\n    file: " + book + "\n"
	if err := os.WriteFile(plan, []byte(planText), 0644); err != nil {
		t.Fatal(err)
	}

	rule := w.Rule{
		ID:     "r",
		Action: w.Action{Name: "apply", Type: "apply", Options: map[string]string{"plan": plan}},
	}
	if err := handleEvent(book, rule); err != nil {
		t.Fatalf("handleEvent: %v", err)
	}
}
