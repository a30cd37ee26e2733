package format

import (
	"strings"
	"testing"
)

func TestGenerateDiff_NoChanges(t *testing.T) {
	df := NewDiffFormatter(DefaultDiffOptions())
	res := df.GenerateDiff("a\nb\n", "a\nb\n")
	if res.HasChanges || len(res.Hunks) != 0 {
		t.Fatalf("expected no changes, got %+v", res)
	}
	if out := df.FormatDiff("x.jdn", res); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestGenerateDiff_Replace(t *testing.T) {
	df := NewDiffFormatter(DefaultDiffOptions())
	res := df.GenerateDiff("a\nb\nc\n", "a\nB\nc\n")

	want := "--- x.jdn\t(original)\n" +
		"+++ x.jdn\t(formatted)\n" +
		"@@ -1,3 +1,3 @@\n" +
		" a\n" +
		"-b\n" +
		"+B\n" +
		" c\n"
	if got := df.FormatDiff("x.jdn", res); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if res.Stats.LinesAdded != 1 || res.Stats.LinesRemoved != 1 {
		t.Errorf("unexpected stats %+v", res.Stats)
	}
}

func TestGenerateDiff_Hunks(t *testing.T) {
	var orig, mod []string
	for i := 0; i < 20; i++ {
		line := string(rune('a' + i))
		orig = append(orig, line)
		switch i {
		case 2, 15:
			mod = append(mod, strings.ToUpper(line))
		default:
			mod = append(mod, line)
		}
	}

	df := NewDiffFormatter(DiffOptions{Context: 1})
	res := df.GenerateDiff(strings.Join(orig, "\n"), strings.Join(mod, "\n"))
	if len(res.Hunks) != 2 {
		t.Fatalf("got %d hunks", len(res.Hunks))
	}
	if h := res.Hunks[0].Header(); h != "@@ -2,3 +2,3 @@" {
		t.Errorf("first hunk header %s", h)
	}
	if h := res.Hunks[1].Header(); h != "@@ -15,3 +15,3 @@" {
		t.Errorf("second hunk header %s", h)
	}

	// Wide context merges both changes into one hunk.
	res = NewDiffFormatter(DiffOptions{Context: 8}).GenerateDiff(strings.Join(orig, "\n"), strings.Join(mod, "\n"))
	if len(res.Hunks) != 1 {
		t.Errorf("expected merged hunk, got %d", len(res.Hunks))
	}
}

func TestGenerateDiff_InsertAndDelete(t *testing.T) {
	df := NewDiffFormatter(DiffOptions{})
	res := df.GenerateDiff("", "x\ny\n")
	if len(res.Hunks) != 1 || res.Hunks[0].Header() != "@@ -0,0 +1,2 @@" {
		t.Fatalf("unexpected insert diff %+v", res.Hunks)
	}

	res = df.GenerateDiff("x\ny\nz\n", "x\n")
	if len(res.Hunks) != 1 || res.Hunks[0].Header() != "@@ -2,2 +1,0 @@" {
		t.Fatalf("unexpected delete diff %s", res.Hunks[0].Header())
	}
}

func TestGenerateDiff_IgnoreSpace(t *testing.T) {
	res := NewDiffFormatter(DiffOptions{IgnoreSpace: true}).GenerateDiff("a  \nb\n", "a\nb\n")
	if res.HasChanges {
		t.Error("trailing whitespace should be ignored")
	}
}
