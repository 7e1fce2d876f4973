// Package recalc forces a live spreadsheet application to recompute a
// workbook's formulas. The core never evaluates formulas itself; this is the
// boundary to the installed desktop application, and it only exists on
// platforms that have one.
package recalc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

var (
	// ErrUnsupported means the current platform has no recalculation support.
	ErrUnsupported = errors.New("formula evaluation is only supported on Windows and macOS")
	// ErrNotInstalled means no spreadsheet application was found.
	ErrNotInstalled = errors.New("Excel is not installed, needed for function evaluation")
	// ErrLaunchFailed wraps failures of the application once launched.
	ErrLaunchFailed = errors.New("could not run Excel for function evaluation")
)

// Engine recomputes all formulas in the workbook at path and persists the
// cached results in place. The call blocks until the application finishes or
// ctx expires.
type Engine interface {
	Recalculate(ctx context.Context, path string) error
}

// AppEngine drives the installed desktop spreadsheet application: it opens
// the workbook invisibly, saves it (which recomputes the formula cache), and
// quits.
type AppEngine struct {
	// AppPath overrides the detected application location. Optional. On
	// macOS the launch targets the bundle at this path; on Windows COM
	// activation is registry-based, so the path acts as the install check.
	AppPath string
	// Timeout bounds each invocation; zero means no deadline. The external
	// application can hang, so callers normally set this from config.
	Timeout time.Duration
}

// Detect reports whether a spreadsheet application is available for
// recalculation on this host. ErrUnsupported on platforms without one.
func Detect() (bool, error) {
	switch runtime.GOOS {
	case "windows":
		return windowsExcelPath() != "", nil
	case "darwin":
		_, err := os.Stat("/Applications/Microsoft Excel.app")
		return err == nil, nil
	default:
		return false, ErrUnsupported
	}
}

// Recalculate implements Engine.
func (e *AppEngine) Recalculate(ctx context.Context, path string) error {
	installed, err := Detect()
	if err != nil {
		return err
	}
	if e.AppPath != "" {
		if _, err := os.Stat(e.AppPath); err != nil {
			return fmt.Errorf("%w: %s not found", ErrNotInstalled, e.AppPath)
		}
	} else if !installed {
		return ErrNotInstalled
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("could not resolve %s: %w", path, err)
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	return e.run(ctx, abs)
}

func windowsExcelPath() string {
	for _, env := range []string{"ProgramFiles", "ProgramFiles(x86)"} {
		root := os.Getenv(env)
		if root == "" {
			continue
		}
		p := filepath.Join(root, "Microsoft Office", "root", "Office16", "EXCEL.EXE")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
