package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// User-facing output for CLI commands, kept apart from the structured
// debug log. Step lines mark the progress of long provisioning runs.

type userStream struct {
	w io.Writer
	r *lipgloss.Renderer
}

func newUserStream(w io.Writer) userStream {
	return userStream{w: w, r: lipgloss.NewRenderer(w)}
}

// print writes one status line with a colored prefix. Writers that are not
// terminals get the plain prefix.
func (s userStream) print(prefix, color, format string, args ...interface{}) {
	styled := s.r.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(prefix)
	fmt.Fprintf(s.w, styled+" "+format+"\n", args...)
}

var (
	stdout = newUserStream(os.Stdout)
	stderr = newUserStream(os.Stderr)
)

// SetOutput redirects user output. Nil writers restore the process streams.
func SetOutput(out, errOut io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout = newUserStream(out)
	stderr = newUserStream(errOut)
}

// UserStep prints a provisioning step to stdout.
func UserStep(format string, args ...interface{}) {
	stdout.print("→", "39", format, args...)
}

// UserInfo prints an info message to stdout.
func UserInfo(format string, args ...interface{}) {
	stdout.print("ℹ", "245", format, args...)
}

// UserSuccess prints a success message to stdout.
func UserSuccess(format string, args ...interface{}) {
	stdout.print("✓", "42", format, args...)
}

// UserWarning prints a warning message to stderr.
func UserWarning(format string, args ...interface{}) {
	stderr.print("⚠", "214", format, args...)
}

// UserError prints an error message to stderr.
func UserError(format string, args ...interface{}) {
	stderr.print("✗", "196", format, args...)
}
