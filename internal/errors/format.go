package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Styles used by Format. Each is an SGR parameter list.
const (
	styleError  = "1;31"
	styleTitle  = "1;37"
	styleSource = "36"
	styleMuted  = "90"
	styleLink   = "34"
	styleMark   = "31"
)

var colorEnabled = true

// DisableColors turns off ANSI styling in formatted errors.
func DisableColors() { colorEnabled = false }

// EnableColors turns on ANSI styling in formatted errors.
func EnableColors() { colorEnabled = true }

// AutoColors enables colors only when w is a terminal.
func AutoColors(w io.Writer) {
	f, ok := w.(*os.File)
	colorEnabled = ok && term.IsTerminal(int(f.Fd()))
}

func style(sgr, text string) string {
	if !colorEnabled || text == "" {
		return text
	}
	return "\033[" + sgr + "m" + text + "\033[0m"
}

func red(text string) string { return style(styleMark, text) }

// block collects the sections of a formatted error. Every section is
// indented two spaces and followed by a blank line.
type block struct {
	strings.Builder
}

func (b *block) line(parts ...string) {
	b.WriteString("  ")
	for _, p := range parts {
		b.WriteString(p)
	}
	b.WriteByte('\n')
}

func (b *block) end() { b.WriteByte('\n') }

// Format renders the error for a terminal: header, input location with
// surrounding lines, detail, cause chain, hint, example and doc link.
func (e *Error) Format() string {
	var b block
	b.WriteByte('\n')

	title := "ERROR"
	if e.Code != "" {
		title += " " + e.Code
	}
	b.WriteString(style(styleError, title+":") + " " + style(styleTitle, e.Message) + "\n\n")

	if e.Location != nil {
		b.line(style(styleSource, e.Location.String()))
		b.end()
		if len(e.Context) > 0 {
			e.writeContext(&b)
			b.end()
		}
	}

	if e.Detail != "" {
		for _, l := range wrapText(e.Detail, 70) {
			b.line(l)
		}
		b.end()
	}

	if causes := causeChain(e.Wrapped); len(causes) > 0 {
		b.line(style(styleMuted, "Caused by: "), causes[0])
		for _, c := range causes[1:] {
			b.line("           ", c)
		}
		b.end()
	}

	if e.Suggestion != "" {
		b.line(style(styleSource, "Hint: "), e.Suggestion)
		b.end()
	}

	if e.Example != "" {
		b.line(style(styleSource, "Example:"))
		for _, l := range strings.Split(e.Example, "\n") {
			b.line("  ", l)
		}
		b.end()
	}

	if e.DocURL != "" {
		b.line(style(styleMuted, "Learn more: "), style(styleLink, e.DocURL))
	}
	return b.String()
}

// writeContext prints the input lines around the location, marking the
// failing line and column.
func (e *Error) writeContext(b *block) {
	first := e.Location.Line - len(e.Context)/2
	for i, text := range e.Context {
		n := first + i
		gutter := style(styleMuted, fmt.Sprintf("%4d │ ", n))
		if n != e.Location.Line {
			b.line("  ", gutter, text)
			continue
		}
		b.line(red("→ "), gutter, text)
		if e.Location.Column > 0 {
			b.line("  ", style(styleMuted, "     │ "), strings.Repeat(" ", e.Location.Column-1), red("^"))
		}
	}
}

// causeChain lists the messages of err and the errors it wraps, dropping
// each message's repetition of the next one.
func causeChain(err error) []string {
	var out []string
	for err != nil {
		msg := err.Error()
		next := stderrors.Unwrap(err)
		if next != nil {
			msg = strings.TrimSuffix(strings.TrimSuffix(msg, next.Error()), ": ")
		}
		if msg != "" {
			out = append(out, msg)
		}
		err = next
	}
	return out
}

// FormatCompact returns "file:line:col: CODE: message".
func (e *Error) FormatCompact() string {
	var parts []string
	if e.Location != nil {
		parts = append(parts, e.Location.String())
	}
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	return strings.Join(append(parts, e.Message), ": ")
}

// FormatJSON returns the error as a JSON object.
func (e *Error) FormatJSON() string {
	out := struct {
		Code       string    `json:"code,omitempty"`
		Category   Category  `json:"category"`
		Message    string    `json:"message"`
		Detail     string    `json:"detail,omitempty"`
		Location   *Location `json:"location,omitempty"`
		Suggestion string    `json:"suggestion,omitempty"`
		Cause      string    `json:"cause,omitempty"`
		DocURL     string    `json:"docUrl,omitempty"`
	}{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Location:   e.Location,
		Suggestion: e.Suggestion,
		DocURL:     e.DocURL,
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Message)
	}
	return string(data)
}

// wrapText breaks text into lines of at most width bytes, splitting on
// spaces. A single word longer than width gets a line of its own.
func wrapText(text string, width int) []string {
	var (
		lines []string
		cur   string
	)
	for _, word := range strings.Fields(text) {
		switch {
		case cur == "":
			cur = word
		case len(cur)+1+len(word) > width:
			lines = append(lines, cur)
			cur = word
		default:
			cur += " " + word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// FprintError prints err to w, using Format for structured errors anywhere
// in the chain.
func FprintError(w io.Writer, err error) {
	var e *Error
	if stderrors.As(err, &e) {
		fmt.Fprint(w, e.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", style(styleError, "ERROR:"), err)
}
