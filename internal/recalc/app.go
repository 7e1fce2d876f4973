package recalc

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// powershellRecalc opens the workbook through the Excel COM interface, saves
// it to recompute the formula cache, and quits.
const powershellRecalc = `
$ErrorActionPreference = "Stop"
$excel = New-Object -ComObject Excel.Application
$excel.Visible = $false
$excel.DisplayAlerts = $false
try {
  $book = $excel.Workbooks.Open($args[0])
  $book.Save()
  $book.Close($false)
} finally {
  $excel.Quit()
}
`

// appleScriptRecalc is the osascript equivalent for macOS. The first verb is
// the application reference, so a configured bundle path replaces the default
// "Microsoft Excel" name.
const appleScriptRecalc = `
tell application %q
	set displayed to visible
	set visible to false
	open %q
	save active workbook
	close active workbook saving no
	set visible to displayed
end tell
`

func (e *AppEngine) run(ctx context.Context, path string) error {
	cmd, err := e.command(ctx, runtime.GOOS, path)
	if err != nil {
		return err
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrLaunchFailed, ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%w: %s", ErrLaunchFailed, msg)
	}
	return nil
}

// command builds the platform launch invocation. On macOS the script drives
// the application at AppPath when one is configured. On Windows COM
// activation resolves the registered application from the registry, so the
// configured path cannot redirect the launch; Recalculate validates it as the
// install check instead.
func (e *AppEngine) command(ctx context.Context, goos, path string) (*exec.Cmd, error) {
	switch goos {
	case "windows":
		return exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive",
			"-Command", powershellRecalc, path), nil
	case "darwin":
		app := "Microsoft Excel"
		if e.AppPath != "" {
			app = e.AppPath
		}
		return exec.CommandContext(ctx, "osascript", "-e", fmt.Sprintf(appleScriptRecalc, app, path)), nil
	default:
		return nil, ErrUnsupported
	}
}
