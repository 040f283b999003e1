// Package diagnostic renders a yamlerr error as a colorized, positional
// report: the source line the error occurred on, a caret under the
// offending column, and the error message.
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/corvantis/goyaml/yamlerr"
)

// Property is a prefix/suffix pair of ANSI escapes wrapped around one piece
// of rendered text.
type Property struct {
	Prefix string
	Suffix string
}

// PrintFunc returns the Property to apply to one diagnostic element.
type PrintFunc func() *Property

// Printer renders errors. For each PrintFunc field, nil means "use the
// built-in color", non-nil overrides it.
type Printer struct {
	LineNumber       bool
	LineNumberFormat func(num int) string
	Message          PrintFunc
	Marker           PrintFunc
	Source           PrintFunc
}

func defaultLineNumberFormat(num int) string {
	return fmt.Sprintf("%2d | ", num)
}

func (p *Printer) messageProp() *Property {
	if p.Message != nil {
		return p.Message()
	}
	return &Property{Prefix: escape(color.FgHiRed, color.Bold), Suffix: reset()}
}

func (p *Printer) markerProp() *Property {
	if p.Marker != nil {
		return p.Marker()
	}
	return &Property{Prefix: escape(color.FgHiRed, color.Bold), Suffix: reset()}
}

func (p *Printer) sourceProp() *Property {
	if p.Source != nil {
		return p.Source()
	}
	return &Property{Prefix: "", Suffix: ""}
}

const escapeChar = "\x1b"

func escape(attrs ...color.Attribute) string {
	var b strings.Builder
	for _, a := range attrs {
		fmt.Fprintf(&b, "%s[%dm", escapeChar, a)
	}
	return b.String()
}

func reset() string {
	return escape(color.Reset)
}

// Format renders err as a multi-line diagnostic. When err carries no
// token.Position (yamlerr.PositionOf returns nil), only the message line is
// produced.
func (p *Printer) Format(err error) string {
	if err == nil {
		return ""
	}
	msgProp := p.messageProp()
	lines := []string{msgProp.Prefix + "error: " + err.Error() + msgProp.Suffix}

	pos := yamlerr.PositionOf(err)
	if pos == nil {
		return strings.Join(lines, "\n")
	}

	lineNumberFormat := p.LineNumberFormat
	if lineNumberFormat == nil {
		lineNumberFormat = defaultLineNumberFormat
	}
	header := ""
	if p.LineNumber {
		header = lineNumberFormat(pos.Line)
	}

	srcProp := p.sourceProp()
	lines = append(lines, fmt.Sprintf("%s%s%s%s", header, srcProp.Prefix, pos.Text, srcProp.Suffix))

	markerProp := p.markerProp()
	gutterWidth := len(header)
	col := pos.Column
	if col < 1 {
		col = 1
	}
	caret := strings.Repeat(" ", gutterWidth+col-1) + markerProp.Prefix + "^" + markerProp.Suffix
	lines = append(lines, caret)

	return strings.Join(lines, "\n")
}

// New returns a Printer configured with the package's default coloring:
// bold red for the message and caret, line numbers off.
func New() *Printer {
	return &Printer{}
}

// FormatError is the package-level convenience entry point equivalent to
// New().Format(err), with line numbers enabled when withLineNumber is true.
func FormatError(err error, withLineNumber bool) string {
	p := New()
	p.LineNumber = withLineNumber
	return p.Format(err)
}
