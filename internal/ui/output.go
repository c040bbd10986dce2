package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

const (
	BoxWidth = 46
)

var (
	// Color/style functions
	Bold   = color.New(color.Bold).SprintFunc()
	Dim    = color.New(color.Faint).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()

	// Output destination. Stdout stays free for nothing but the prompts.
	Out io.Writer = os.Stderr
)

// Header prints the top border with "token·rotator" branding.
func Header() {
	border := strings.Repeat("─", BoxWidth-16)
	fmt.Fprintf(Out, "  %s %s %s\n", Dim("┌"), Bold("token·rotator"), Dim(border))
}

// Footer prints the bottom border.
func Footer() {
	fmt.Fprintf(Out, "  %s\n", Dim("└"+strings.Repeat("─", BoxWidth-1)))
}

// Divider prints a titled separator between sections of a run.
func Divider(title string) {
	pad := BoxWidth - 4 - len([]rune(title))
	if pad < 3 {
		pad = 3
	}
	fmt.Fprintf(Out, "  %s %s %s\n", Dim("──"), Bold(title), Dim(strings.Repeat("─", pad)))
}

// Info prints an informational message with a cyan arrow.
func Info(format string, args ...interface{}) {
	fmt.Fprintf(Out, "  %s %s\n", Cyan("→"), fmt.Sprintf(format, args...))
}

// Success prints a success message with a green checkmark.
func Success(format string, args ...interface{}) {
	fmt.Fprintf(Out, "  %s %s\n", Green("✔"), fmt.Sprintf(format, args...))
}

// Fail prints an error message with a red X.
func Fail(format string, args ...interface{}) {
	fmt.Fprintf(Out, "  %s %s\n", Red("✘"), fmt.Sprintf(format, args...))
}

// Warn prints a warning message with a yellow circle.
func Warn(format string, args ...interface{}) {
	fmt.Fprintf(Out, "  %s %s\n", Yellow("○"), fmt.Sprintf(format, args...))
}

// Plain prints an indented message without a marker.
func Plain(format string, args ...interface{}) {
	fmt.Fprintf(Out, "  %s\n", fmt.Sprintf(format, args...))
}

// DimMsg prints a dimmed message.
func DimMsg(format string, args ...interface{}) {
	fmt.Fprintf(Out, "  %s\n", Dim(fmt.Sprintf(format, args...)))
}

// Secret prints a freshly issued secret on a line of its own so it can be
// selected without decoration.
func Secret(secret string) {
	fmt.Fprintf(Out, "\n    %s\n\n", Bold(secret))
}

// BlankLine prints a blank line.
func BlankLine() {
	fmt.Fprintln(Out, "")
}
