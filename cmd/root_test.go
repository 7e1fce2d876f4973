package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetpipe/internal/xlsx"
)

func TestAllCommandsRegistered(t *testing.T) {
	root := NewRootCommand()

	want := []string{
		"excel", "apply", "watch", "shell",
		"doctor", "completion", "version",
	}

	registered := map[string]bool{}
	for _, c := range root.Commands() {
		registered[c.Name()] = true
	}

	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestHelpListsExcelSubcommands(t *testing.T) {
	root := NewRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"excel", "--help"})

	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, sub := range []string{"read", "write", "sheets"} {
		if !strings.Contains(out, sub) {
			t.Errorf("excel help missing subcommand %q", sub)
		}
	}
}

func TestExcelReadMissingFile(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"excel", "read", filepath.Join(t.TempDir(), "absent.xlsx")})

	err := root.Execute()
	if !errors.Is(err, xlsx.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUnknownCommandFails(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"no-such-command"})

	if err := root.Execute(); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestExcelSheetsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	f := excelize.NewFile()
	f.NewSheet("Data")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	root := NewRootCommand()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"excel", "sheets", path})

	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
}
