// Package xlsx wraps the workbook codec: opening and saving .xlsx files,
// sheet resolution, row extraction, and the writable grid view used by the
// sheet-write engine.
package xlsx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrNotFound means no file exists at the given path.
	ErrNotFound = errors.New("file not found")
	// ErrOpen means the file exists but is not a readable workbook.
	ErrOpen = errors.New("could not open workbook")
	// ErrNoSheets means the workbook has no sheets to default to.
	ErrNoSheets = errors.New("workbook has no sheets")
	// ErrSheetNotFound means a named sheet is absent on a read path.
	ErrSheetNotFound = errors.New("worksheet does not exist")
)

// Document is an exclusively-owned open workbook. It is opened, operated on,
// and closed within a single read-or-write call; no handle outlives the call.
type Document struct {
	path string
	f    *excelize.File
}

// Open opens the workbook at path.
func Open(path string) (*Document, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w at %s — check that the path is correct", ErrNotFound, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s — is this a valid .xlsx file? %v", ErrOpen, path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &Document{path: abs, f: f}, nil
}

// Close releases the underlying file handle.
func (d *Document) Close() error {
	return d.f.Close()
}

// Save persists the workbook back to the path it was opened from.
func (d *Document) Save() error {
	if err := d.f.SaveAs(d.path); err != nil {
		return fmt.Errorf("could not save %s: %w", d.path, err)
	}
	return nil
}

// Path returns the absolute path of the open workbook.
func (d *Document) Path() string { return d.path }

// Sheets returns the sheet names in workbook order.
func (d *Document) Sheets() []string {
	return d.f.GetSheetList()
}

// ResolveRead resolves a sheet name for reading. An empty name resolves to
// the first sheet in workbook order; an unknown name fails.
func (d *Document) ResolveRead(name string) (string, error) {
	sheets := d.Sheets()
	if name == "" {
		if len(sheets) == 0 {
			return "", fmt.Errorf("%w: %s", ErrNoSheets, d.path)
		}
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == name {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q in workbook %s", ErrSheetNotFound, name, d.path)
}

// ResolveWrite resolves a sheet name for writing. An empty name resolves to
// the first sheet; an unknown name creates a new empty sheet appended after
// the existing ones, so writing never fails due to sheet absence.
func (d *Document) ResolveWrite(name string) (string, error) {
	sheets := d.Sheets()
	if name == "" {
		if len(sheets) == 0 {
			return "", fmt.Errorf("%w: %s — supply a sheet name to create one", ErrNoSheets, d.path)
		}
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == name {
			return name, nil
		}
	}
	if _, err := d.f.NewSheet(name); err != nil {
		return "", fmt.Errorf("could not create sheet %q: %w", name, err)
	}
	return name, nil
}
