package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Banner printed by commands that do work
const Banner = `
  ┌─────────────────────────────────────────────┐
  │  steamreviews · review collector & flattener │
  └─────────────────────────────────────────────┘
`

var (
	out     io.Writer = os.Stdout
	colorOn           = term.IsTerminal(int(os.Stdout.Fd()))
	quietOn           = false
)

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
)

// SetOutput redirects all printing, mainly for tests
func SetOutput(w io.Writer) {
	out = w
}

// SetColor enables or disables ANSI colors
func SetColor(enabled bool) {
	colorOn = enabled
}

// SetQuietMode suppresses everything except errors
func SetQuietMode(quiet bool) {
	quietOn = quiet
}

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		if !colorOn {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// PrintBanner prints the banner with color
func PrintBanner() {
	if quietOn {
		return
	}
	fmt.Fprint(out, Cyan(Banner))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(out, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(out, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	if quietOn {
		return
	}
	fmt.Fprintln(out, Green(msg))
}

// PrintInfo prints a label and value
func PrintInfo(label string, value string) {
	if quietOn {
		return
	}
	fmt.Fprintf(out, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if quietOn {
		return
	}
	if len(args) > 0 {
		fmt.Fprintln(out, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(out, Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	if quietOn {
		return
	}
	fmt.Fprintln(out, Magenta(msg))
}

// Println prints plain text unless quiet
func Println(a ...interface{}) {
	if quietOn {
		return
	}
	fmt.Fprintln(out, a...)
}

// Printf prints formatted plain text unless quiet
func Printf(format string, a ...interface{}) {
	if quietOn {
		return
	}
	fmt.Fprintf(out, format, a...)
}
