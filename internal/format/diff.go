// Package format compares Jodin sources with their re-serialized form.
package format

import (
	"fmt"
	"strings"
)

// DiffOptions controls diff generation.
type DiffOptions struct {
	Context     int  // Number of context lines to show
	IgnoreSpace bool // Ignore trailing whitespace differences
}

// DefaultDiffOptions returns default diff options.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{Context: 3}
}

// DiffResult represents the result of a diff operation.
type DiffResult struct {
	Hunks      []Hunk
	Stats      DiffStat
	HasChanges bool
}

// Hunk represents a contiguous block of changes with surrounding context.
type Hunk struct {
	Lines         []Line
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
}

// Header returns the unified diff header of the hunk.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)
}

// Line represents a single line in a diff.
type Line struct {
	Content string
	Type    LineType
}

// LineType represents the type of a diff line.
type LineType int

const (
	LineTypeContext LineType = iota // Unchanged context line
	LineTypeAdded                   // Added line (+)
	LineTypeRemoved                 // Removed line (-)
)

func (t LineType) prefix() string {
	switch t {
	case LineTypeAdded:
		return "+"
	case LineTypeRemoved:
		return "-"
	}
	return " "
}

// DiffStat contains statistics about changes.
type DiffStat struct {
	LinesAdded   int
	LinesRemoved int
}

// DiffFormatter generates unified diffs between a source and its
// formatted form.
type DiffFormatter struct {
	options DiffOptions
}

// NewDiffFormatter creates a new diff formatter.
func NewDiffFormatter(options DiffOptions) *DiffFormatter {
	if options.Context < 0 {
		options.Context = 0
	}
	return &DiffFormatter{options: options}
}

// GenerateDiff creates a diff between original and modified source.
func (df *DiffFormatter) GenerateDiff(original, modified string) *DiffResult {
	a, b := splitLines(original), splitLines(modified)
	ops := df.editScript(a, b)
	hunks := df.group(ops)

	result := &DiffResult{Hunks: hunks, HasChanges: len(hunks) > 0}
	for _, o := range ops {
		switch o.Type {
		case LineTypeAdded:
			result.Stats.LinesAdded++
		case LineTypeRemoved:
			result.Stats.LinesRemoved++
		}
	}
	return result
}

// FormatDiff formats a diff result as a unified diff.
func (df *DiffFormatter) FormatDiff(filename string, result *DiffResult) string {
	if !result.HasChanges {
		return ""
	}

	var output strings.Builder
	fmt.Fprintf(&output, "--- %s\t(original)\n", filename)
	fmt.Fprintf(&output, "+++ %s\t(formatted)\n", filename)
	for _, hunk := range result.Hunks {
		output.WriteString(hunk.Header())
		output.WriteString("\n")
		for _, line := range hunk.Lines {
			output.WriteString(line.Type.prefix())
			output.WriteString(line.Content)
			output.WriteString("\n")
		}
	}
	return output.String()
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func (df *DiffFormatter) same(a, b string) bool {
	if df.options.IgnoreSpace {
		return strings.TrimRight(a, " \t\r") == strings.TrimRight(b, " \t\r")
	}
	return a == b
}

// op is one line of the edit script. Line numbers are 1-based; the number
// of the side a line does not appear on is where it would be inserted.
type op struct {
	Line
	a, b int
}

// editScript computes a shortest edit script from the longest common
// subsequence of a and b.
func (df *DiffFormatter) editScript(a, b []string) []op {
	n, m := len(a), len(b)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if df.same(a[i], b[j]) {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	ops := make([]op, 0, n+m)
	i, j := 0, 0
	for i < n || j < m {
		switch {
		case i < n && j < m && df.same(a[i], b[j]):
			ops = append(ops, op{Line{a[i], LineTypeContext}, i + 1, j + 1})
			i++
			j++
		case i < n && (j == m || lcs[i+1][j] >= lcs[i][j+1]):
			ops = append(ops, op{Line{a[i], LineTypeRemoved}, i + 1, j + 1})
			i++
		default:
			ops = append(ops, op{Line{b[j], LineTypeAdded}, i + 1, j + 1})
			j++
		}
	}
	return ops
}

// group splits the edit script into hunks, keeping Context unchanged lines
// around each change and merging changes whose context overlaps.
func (df *DiffFormatter) group(ops []op) []Hunk {
	ctx := df.options.Context
	var hunks []Hunk

	for k := 0; k < len(ops); {
		if ops[k].Type == LineTypeContext {
			k++
			continue
		}

		start := k - ctx
		if start < 0 {
			start = 0
		}

		// Extend while the next change is within 2*ctx context lines.
		end := k
		for end < len(ops) {
			if ops[end].Type != LineTypeContext {
				end++
				continue
			}
			run := end
			for run < len(ops) && ops[run].Type == LineTypeContext {
				run++
			}
			if run == len(ops) || run-end > 2*ctx {
				end += min(ctx, run-end)
				break
			}
			end = run
		}

		h := Hunk{OriginalStart: ops[start].a, ModifiedStart: ops[start].b}
		for _, o := range ops[start:end] {
			h.Lines = append(h.Lines, o.Line)
			if o.Type != LineTypeAdded {
				h.OriginalCount++
			}
			if o.Type != LineTypeRemoved {
				h.ModifiedCount++
			}
		}
		if h.OriginalCount == 0 {
			h.OriginalStart--
		}
		if h.ModifiedCount == 0 {
			h.ModifiedStart--
		}
		hunks = append(hunks, h)
		k = end
	}
	return hunks
}
