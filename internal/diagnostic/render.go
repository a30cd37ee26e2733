package diagnostic

import (
	"fmt"
	"os"
	"strings"

	"github.com/jodin-lang/jodin/internal/position"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[31m"
	ansiBlue  = "\x1b[34m"
	ansiCyan  = "\x1b[36m"
)

// Renderer formats diagnostics with an excerpt of the offending line.
type Renderer struct {
	Color   bool
	sources map[string]*position.SourceFile
}

// NewRenderer creates a renderer. Color is enabled when out is a terminal.
func NewRenderer(out *os.File) *Renderer {
	r := &Renderer{sources: make(map[string]*position.SourceFile)}
	if out != nil {
		r.Color = IsTerminal(out.Fd())
	}
	return r
}

// AddSource registers the content of a file so its lines can be quoted.
func (r *Renderer) AddSource(sf *position.SourceFile) {
	if r.sources == nil {
		r.sources = make(map[string]*position.SourceFile)
	}
	r.sources[sf.Filename] = sf
}

func (r *Renderer) paint(code, s string) string {
	if !r.Color {
		return s
	}
	return code + s + ansiReset
}

// Render formats one diagnostic.
func (r *Renderer) Render(d *Diagnostic) string {
	var b strings.Builder

	start := d.Span.Start
	location := start.Filename
	if start.Line > 0 {
		location = fmt.Sprintf("%s:%d:%d", start.Filename, start.Line, start.Column)
	}

	levelColor := ansiRed
	if d.Level != DiagnosticError {
		levelColor = ansiCyan
	}
	fmt.Fprintf(&b, "%s: %s: %s\n",
		r.paint(ansiBold, location),
		r.paint(ansiBold+levelColor, fmt.Sprintf("%s[%s]", d.Level, d.Code)),
		d.Title)

	if d.Message != "" {
		fmt.Fprintf(&b, "  %s\n", d.Message)
	}

	if sf, ok := r.sources[start.Filename]; ok && start.Line > 0 {
		line := sf.GetLine(start.Line)
		gutter := fmt.Sprintf("%d", start.Line)
		pad := strings.Repeat(" ", len(gutter))

		fmt.Fprintf(&b, "%s %s %s\n", r.paint(ansiBlue, gutter), r.paint(ansiBlue, "|"), line)
		fmt.Fprintf(&b, "%s %s %s%s\n", pad, r.paint(ansiBlue, "|"),
			caretIndent(line, start.Column), r.paint(levelColor, strings.Repeat("^", caretWidth(sf, d.Span, line))))
	}

	for _, note := range d.Notes {
		fmt.Fprintf(&b, "  %s %s\n", r.paint(ansiBold, "note:"), note)
	}

	return b.String()
}

// caretIndent reproduces the whitespace before column so tabs line up.
func caretIndent(line string, column int) string {
	var b strings.Builder
	for i := 0; i < column-1 && i < len(line); i++ {
		if line[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// caretWidth is the number of columns the span covers on its first line,
// at least one and never past the end of line.
func caretWidth(sf *position.SourceFile, span position.Span, line string) int {
	text := sf.GetSpanText(span)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = strings.TrimSuffix(text[:i], "\r")
	}
	width := max(len(text), 1)
	if rest := len(line) - (span.Start.Column - 1); rest > 0 && width > rest {
		width = rest
	}
	return width
}
