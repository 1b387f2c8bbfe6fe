package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// formatter applies a color when the output supports it and falls back to
// plain prefixes and suffixes otherwise.
type formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

func (f formatter) Sprint(a ...any) string {
	text := fmt.Sprint(a...)
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

func (f formatter) Sprintf(format string, a ...any) string {
	return f.Sprint(fmt.Sprintf(format, a...))
}

var (
	successText  = formatter{color.New(color.FgGreen), "", ""}
	errorText    = formatter{color.New(color.FgRed, color.Bold), "", ""}
	identityText = formatter{color.New(color.FgCyan), "'", "'"}
	codeText     = formatter{color.New(color.FgYellow), "`", "`"}
)

func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// startSpinner shows message with a spinner on w while a slow call runs.
// The returned stop function is safe to call when no spinner was started.
func startSpinner(w io.Writer, message string, quiet bool) func() {
	if quiet || !isTerminal(w) {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	_ = s.Color("cyan")
	s.Start()
	return s.Stop
}
