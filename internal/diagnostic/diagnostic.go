// Diagnostic reporting for the Jodin front end.
// Converts parse failures into diagnostics and renders them with source excerpts.

package diagnostic

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jodin-lang/jodin/internal/parser"
	"github.com/jodin-lang/jodin/internal/position"
)

// DiagnosticLevel represents the severity level of a diagnostic message.
type DiagnosticLevel int

const (
	DiagnosticError DiagnosticLevel = iota
	DiagnosticWarning
	DiagnosticInfo
)

func (dl DiagnosticLevel) String() string {
	switch dl {
	case DiagnosticError:
		return "error"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticInfo:
		return "info"
	default:
		return "unknown"
	}
}

// DiagnosticCategory represents the category of diagnostic.
type DiagnosticCategory int

const (
	DiagnosticSyntax DiagnosticCategory = iota
	DiagnosticLexical
	DiagnosticAmbiguity
	DiagnosticUnsupported
	DiagnosticIO
)

func (dc DiagnosticCategory) String() string {
	switch dc {
	case DiagnosticSyntax:
		return "syntax"
	case DiagnosticLexical:
		return "lexical"
	case DiagnosticAmbiguity:
		return "ambiguity"
	case DiagnosticUnsupported:
		return "unsupported"
	case DiagnosticIO:
		return "io"
	default:
		return "unknown"
	}
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Code     string
	Title    string
	Message  string
	Notes    []string
	Span     position.Span
	Level    DiagnosticLevel
	Category DiagnosticCategory
}

// DiagnosticBuilder helps construct diagnostic messages with fluent API.
type DiagnosticBuilder struct {
	diagnostic *Diagnostic
}

// NewDiagnostic creates a new diagnostic builder.
func NewDiagnostic() *DiagnosticBuilder {
	return &DiagnosticBuilder{diagnostic: &Diagnostic{}}
}

func (db *DiagnosticBuilder) Error() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticError

	return db
}

func (db *DiagnosticBuilder) Category(category DiagnosticCategory) *DiagnosticBuilder {
	db.diagnostic.Category = category

	return db
}

func (db *DiagnosticBuilder) Code(code string) *DiagnosticBuilder {
	db.diagnostic.Code = code

	return db
}

func (db *DiagnosticBuilder) Title(title string) *DiagnosticBuilder {
	db.diagnostic.Title = title

	return db
}

func (db *DiagnosticBuilder) Message(message string) *DiagnosticBuilder {
	db.diagnostic.Message = message

	return db
}

func (db *DiagnosticBuilder) Span(span position.Span) *DiagnosticBuilder {
	db.diagnostic.Span = span

	return db
}

func (db *DiagnosticBuilder) Note(note string) *DiagnosticBuilder {
	db.diagnostic.Notes = append(db.diagnostic.Notes, note)

	return db
}

func (db *DiagnosticBuilder) Build() *Diagnostic {
	return db.diagnostic
}

var kindCodes = map[parser.ErrorKind]struct {
	code     string
	category DiagnosticCategory
}{
	parser.SyntaxError:               {"E0100", DiagnosticSyntax},
	parser.LexicalError:              {"E0200", DiagnosticLexical},
	parser.AmbiguityResolutionError:  {"E0300", DiagnosticAmbiguity},
	parser.UnsupportedConstructError: {"E0400", DiagnosticUnsupported},
}

// FromError converts err into a diagnostic. Parse errors keep their kind and
// span; anything else becomes an I/O diagnostic attached to filename.
func FromError(filename string, err error) *Diagnostic {
	var perr *parser.Error
	if !errors.As(err, &perr) {
		return NewDiagnostic().
			Error().
			Category(DiagnosticIO).
			Code("E0001").
			Title("cannot read source").
			Message(err.Error()).
			Span(position.Span{Start: position.Position{Filename: filename}}).
			Build()
	}

	kc := kindCodes[perr.Kind]
	title := perr.Kind.String()
	if perr.SubKind != "" {
		title = perr.SubKind
	}
	b := NewDiagnostic().
		Error().
		Category(kc.category).
		Code(kc.code).
		Title(title).
		Message(perr.Detail()).
		Span(perr.Span)
	if perr.Kind == parser.AmbiguityResolutionError {
		b.Note("write the cast as `(expr as Type)` or call the generic function directly")
	}
	d := b.Build()
	if d.Span.Start.Filename == "" {
		d.Span.Start.Filename = filename
		d.Span.End.Filename = filename
	}
	return d
}

// DiagnosticEngine manages the collection and processing of diagnostics.
type DiagnosticEngine struct {
	diagnostics []Diagnostic
	config      DiagnosticConfig
}

// DiagnosticConfig controls diagnostic behavior.
type DiagnosticConfig struct {
	MaxErrors int // zero means unlimited
}

// NewDiagnosticEngine creates a new diagnostic engine.
func NewDiagnosticEngine(config DiagnosticConfig) *DiagnosticEngine {
	return &DiagnosticEngine{
		diagnostics: make([]Diagnostic, 0),
		config:      config,
	}
}

// AddDiagnostic adds a diagnostic to the engine. It reports false once the
// error limit has been reached.
func (de *DiagnosticEngine) AddDiagnostic(diagnostic *Diagnostic) bool {
	if de.config.MaxErrors > 0 && len(de.GetErrors()) >= de.config.MaxErrors {
		return false
	}

	de.diagnostics = append(de.diagnostics, *diagnostic)

	return true
}

// GetErrors returns only error-level diagnostics.
func (de *DiagnosticEngine) GetErrors() []Diagnostic {
	errs := make([]Diagnostic, 0)

	for _, diag := range de.diagnostics {
		if diag.Level == DiagnosticError {
			errs = append(errs, diag)
		}
	}

	return errs
}

// HasErrors returns true if there are any errors.
func (de *DiagnosticEngine) HasErrors() bool {
	return len(de.GetErrors()) > 0
}

// SortDiagnostics sorts diagnostics by position and severity.
func (de *DiagnosticEngine) SortDiagnostics() {
	sort.SliceStable(de.diagnostics, func(i, j int) bool {
		a, b := de.diagnostics[i], de.diagnostics[j]

		// First by file, then by line, then by column.
		if a.Span.Start.Filename != b.Span.Start.Filename {
			return a.Span.Start.Filename < b.Span.Start.Filename
		}

		if a.Span.Start.Line != b.Span.Start.Line {
			return a.Span.Start.Line < b.Span.Start.Line
		}

		if a.Span.Start.Column != b.Span.Start.Column {
			return a.Span.Start.Column < b.Span.Start.Column
		}

		// Then by severity (errors first).
		return a.Level < b.Level
	})
}

// FormatDiagnostics renders every diagnostic followed by a summary line.
func (de *DiagnosticEngine) FormatDiagnostics(r *Renderer) string {
	if len(de.diagnostics) == 0 {
		return ""
	}

	de.SortDiagnostics()

	var result strings.Builder

	for i := range de.diagnostics {
		if i > 0 {
			result.WriteString("\n")
		}

		result.WriteString(r.Render(&de.diagnostics[i]))
	}

	result.WriteString(de.formatSummary())

	return result.String()
}

// formatSummary formats a summary of all diagnostics.
func (de *DiagnosticEngine) formatSummary() string {
	errorCount := len(de.GetErrors())
	warningCount := len(de.diagnostics) - errorCount

	var parts []string
	if errorCount > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", errorCount))
	}

	if warningCount > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", warningCount))
	}

	return fmt.Sprintf("\nfound %s\n", strings.Join(parts, ", "))
}
