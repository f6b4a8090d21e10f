package output

import (
	"io"

	"github.com/fatih/color"
)

// Report palette. Status colors stay distinct so a long listing can be
// scanned for the yellow rows.
var (
	UpToDate = color.New(color.FgGreen)
	Outdated = color.New(color.FgYellow)
	Ahead    = color.New(color.FgCyan)
	Missing  = color.New(color.FgRed)

	Success = color.New(color.FgGreen)
	Warning = color.New(color.FgYellow)
	Error   = color.New(color.FgRed)
	Info    = color.New(color.FgCyan)
	Dim     = color.New(color.Faint)

	Header  = color.New(color.FgWhite, color.Bold)
	Package = color.New(color.FgBlue, color.Bold)
)

// NoColor strips ANSI codes from all subsequent output.
func NoColor() {
	color.NoColor = true
}

// ForceColor turns colors back on even without a TTY.
func ForceColor() {
	color.NoColor = false
}

// notify writes one marked line. Errors go to stderr so result output
// on stdout stays pipeable.
func notify(c *color.Color, w io.Writer, mark, format string, args ...interface{}) {
	c.Fprintf(w, mark+" "+format+"\n", args...)
}

// PrintSuccess prints a green check-marked line on stdout.
func PrintSuccess(format string, args ...interface{}) {
	notify(Success, color.Output, "✓", format, args...)
}

// PrintError prints a red cross-marked line on stderr.
func PrintError(format string, args ...interface{}) {
	notify(Error, color.Error, "✗", format, args...)
}

// PrintWarning prints a yellow warning line on stdout.
func PrintWarning(format string, args ...interface{}) {
	notify(Warning, color.Output, "⚠", format, args...)
}

// PrintInfo prints a cyan arrow line on stdout.
func PrintInfo(format string, args ...interface{}) {
	notify(Info, color.Output, "→", format, args...)
}

// Sprintf renders format in c without printing it.
func Sprintf(c *color.Color, format string, args ...interface{}) string {
	return c.Sprintf(format, args...)
}

// Sprint renders its arguments in c without printing them.
func Sprint(c *color.Color, a ...interface{}) string {
	return c.Sprint(a...)
}

// Printf prints in c on stdout.
func Printf(c *color.Color, format string, args ...interface{}) {
	c.Printf(format, args...)
}

// FormatPackage renders a package name in the package color.
func FormatPackage(name string) string {
	return Package.Sprint(name)
}
