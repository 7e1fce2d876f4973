package recalc

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDetectUnsupportedPlatform(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("platform has native recalculation support")
	}
	if _, err := Detect(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Detect() = %v, want ErrUnsupported", err)
	}
}

func TestRecalculateUnsupportedPlatform(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("platform has native recalculation support")
	}
	e := &AppEngine{}
	if err := e.Recalculate(context.Background(), "book.xlsx"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Recalculate = %v, want ErrUnsupported", err)
	}
}

func TestRecalculateAppPathMissing(t *testing.T) {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		t.Skip("platform has no native recalculation support")
	}
	e := &AppEngine{AppPath: filepath.Join(t.TempDir(), "absent.app")}
	err := e.Recalculate(context.Background(), "book.xlsx")
	if !errors.Is(err, ErrNotInstalled) {
		t.Errorf("Recalculate = %v, want ErrNotInstalled", err)
	}
	if err != nil && !strings.Contains(err.Error(), "absent.app") {
		t.Errorf("error should name the configured path, got %v", err)
	}
}

func TestCommandDarwinDefaultApplication(t *testing.T) {
	e := &AppEngine{}
	cmd, err := e.command(context.Background(), "darwin", "/tmp/book.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	script := strings.Join(cmd.Args, " ")
	if !strings.Contains(script, `"Microsoft Excel"`) {
		t.Errorf("launch should target Microsoft Excel, got args %q", cmd.Args)
	}
}

func TestCommandDarwinConfiguredApplication(t *testing.T) {
	e := &AppEngine{AppPath: "/Applications/Other Sheets.app"}
	cmd, err := e.command(context.Background(), "darwin", "/tmp/book.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	script := strings.Join(cmd.Args, " ")
	if !strings.Contains(script, "/Applications/Other Sheets.app") {
		t.Errorf("launch should target the configured application, got args %q", cmd.Args)
	}
	if strings.Contains(script, `tell application "Microsoft Excel"`) {
		t.Error("configured application path should replace the default name")
	}
}

func TestCommandWindowsUsesCOMScript(t *testing.T) {
	e := &AppEngine{AppPath: `C:\Apps\Excel\EXCEL.EXE`}
	cmd, err := e.command(context.Background(), "windows", `C:\book.xlsx`)
	if err != nil {
		t.Fatal(err)
	}
	script := strings.Join(cmd.Args, " ")
	if !strings.Contains(script, "Excel.Application") {
		t.Errorf("windows launch should go through COM activation, got args %q", cmd.Args)
	}
}

func TestCommandUnsupportedPlatform(t *testing.T) {
	e := &AppEngine{}
	if _, err := e.command(context.Background(), "linux", "book.xlsx"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("command = %v, want ErrUnsupported", err)
	}
}
