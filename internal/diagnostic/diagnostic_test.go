package diagnostic

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jodin-lang/jodin/internal/parser"
	"github.com/jodin-lang/jodin/internal/position"
)

const badSource = "fn f() {\n    let = 1;\n}"

func parseFailure(t *testing.T, filename, src string) *Diagnostic {
	t.Helper()
	_, err := parser.ParseString(filename, src)
	if err == nil {
		t.Fatalf("expected %q to fail", src)
	}
	return FromError(filename, err)
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		code     string
		category DiagnosticCategory
		title    string
	}{
		{"syntax", badSource, "E0100", DiagnosticSyntax, "syntax error"},
		{"lexical", `let s = "open;`, "E0200", DiagnosticLexical, parser.SubUnterminatedLiteral},
		{"ambiguity", "let x = (int);", "E0300", DiagnosticAmbiguity, "ambiguity error"},
		{"unsupported", "fn f() { foreach (x in xs) {} }", "E0400", DiagnosticUnsupported, "unsupported construct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := parseFailure(t, "a.jdn", tt.src)
			if d.Code != tt.code {
				t.Errorf("code = %s, want %s", d.Code, tt.code)
			}
			if d.Category != tt.category {
				t.Errorf("category = %v, want %v", d.Category, tt.category)
			}
			if d.Title != tt.title {
				t.Errorf("title = %q, want %q", d.Title, tt.title)
			}
			if d.Level != DiagnosticError {
				t.Errorf("level = %v", d.Level)
			}
		})
	}
}

func TestFromIOError(t *testing.T) {
	d := FromError("missing.jdn", errors.New("open missing.jdn: no such file"))
	if d.Category != DiagnosticIO || d.Code != "E0001" {
		t.Errorf("got %s/%v", d.Code, d.Category)
	}
	if d.Span.Start.Filename != "missing.jdn" {
		t.Errorf("filename = %q", d.Span.Start.Filename)
	}
}

func TestRender(t *testing.T) {
	d := parseFailure(t, "a.jdn", badSource)

	r := &Renderer{}
	r.AddSource(position.NewSourceFile("a.jdn", badSource))

	want := "a.jdn:2:9: error[E0100]: syntax error\n" +
		"  expected variable name, found `=`\n" +
		"2 |     let = 1;\n" +
		"  |         ^\n"
	if got := r.Render(d); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderSpanWidth(t *testing.T) {
	const src = "for<T: A> fn f<T: B>() {}"
	d := parseFailure(t, "a.jdn", src)

	r := &Renderer{}
	r.AddSource(position.NewSourceFile("a.jdn", src))

	want := "1 | " + src + "\n" +
		"  |     " + strings.Repeat("^", 15) + "\n"
	if got := r.Render(d); !strings.HasSuffix(got, want) {
		t.Errorf("got:\n%s\nwant suffix:\n%s", got, want)
	}
}

func TestCaretWidth(t *testing.T) {
	sf := position.NewSourceFile("a.jdn", "let x = 1;\r\nfoo(bar);\n")
	at := func(line, col, off int) position.Position {
		return position.Position{Filename: "a.jdn", Line: line, Column: col, Offset: off}
	}

	tests := []struct {
		name string
		span position.Span
		want int
	}{
		{"single token", position.Span{Start: at(1, 5, 4), End: at(1, 6, 5)}, 1},
		{"several tokens", position.Span{Start: at(1, 5, 4), End: at(1, 10, 9)}, 5},
		{"empty", position.Span{Start: at(2, 1, 12), End: at(2, 1, 12)}, 1},
		{"multi-line", position.Span{Start: at(1, 9, 8), End: at(2, 4, 15)}, 2},
		{"other file", position.Span{Start: position.Position{Filename: "b.jdn", Line: 1, Column: 1}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := sf.GetLine(tt.span.Start.Line)
			if got := caretWidth(sf, tt.span, line); got != tt.want {
				t.Errorf("caretWidth() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRenderColor(t *testing.T) {
	d := parseFailure(t, "a.jdn", badSource)
	r := &Renderer{Color: true}
	out := r.Render(d)
	if !strings.Contains(out, ansiRed) || !strings.Contains(out, ansiReset) {
		t.Errorf("expected ANSI colors in %q", out)
	}
}

func TestRenderNote(t *testing.T) {
	d := parseFailure(t, "a.jdn", "let x = (int);")
	out := (&Renderer{}).Render(d)
	if !strings.Contains(out, "note: write the cast as") {
		t.Errorf("missing note in %q", out)
	}
}

func TestEngine(t *testing.T) {
	engine := NewDiagnosticEngine(DiagnosticConfig{MaxErrors: 2})

	later := parseFailure(t, "b.jdn", badSource)
	earlier := parseFailure(t, "a.jdn", "fn f( { }")
	warn := &Diagnostic{Level: DiagnosticWarning, Code: "W0001", Title: "unused",
		Span: position.Span{Start: position.Position{Filename: "a.jdn", Line: 1, Column: 1}}}

	engine.AddDiagnostic(later)
	engine.AddDiagnostic(warn)
	engine.AddDiagnostic(earlier)
	if engine.AddDiagnostic(parseFailure(t, "c.jdn", badSource)) {
		t.Error("expected the error limit to reject a third error")
	}

	if len(engine.GetErrors()) != 2 {
		t.Fatalf("got %d errors", len(engine.GetErrors()))
	}
	engine.SortDiagnostics()
	diags := engine.diagnostics
	if diags[0].Code != "W0001" || diags[1].Span.Start.Filename != "a.jdn" || diags[2].Span.Start.Filename != "b.jdn" {
		t.Errorf("unexpected order: %+v", diags)
	}

	out := engine.FormatDiagnostics(&Renderer{})
	if !strings.HasSuffix(out, "found 2 error(s), 1 warning(s)\n") {
		t.Errorf("unexpected summary in %q", out)
	}
}

func TestIsTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if IsTerminal(f.Fd()) {
		t.Error("a regular file is not a terminal")
	}
	if NewRenderer(f).Color {
		t.Error("color enabled for a regular file")
	}
}
