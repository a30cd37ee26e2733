package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func runTool(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	p := writeSource(t, dir, "main.jdn", "fn main() { return 1 + 2; }")

	code, out, errOut := runTool(t, "parse", "-config", filepath.Join(dir, "none.json"), p)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "(+ 1 2)") {
		t.Errorf("expected dump in %q", out)
	}
}

func TestParseCommandJSON(t *testing.T) {
	dir := t.TempDir()
	p := writeSource(t, dir, "main.jdn", "let x = 1;")

	code, out, errOut := runTool(t, "parse", "-json", "-config", filepath.Join(dir, "none.json"), p)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	var decoded struct {
		Path string    `json:"path"`
		Tree *treeNode `json:"tree"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if decoded.Path != p || decoded.Tree == nil || len(decoded.Tree.Children) != 1 {
		t.Fatalf("unexpected tree %+v", decoded)
	}
	if tags := decoded.Tree.Children[0].Tags; len(tags) != 1 || tags[0] != "protected" {
		t.Errorf("tags = %v", tags)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "none.json")
	writeSource(t, dir, "good.jdn", "struct P { x: int }")

	code, out, _ := runTool(t, "check", "-config", cfg, dir)
	if code != 0 || !strings.Contains(out, "checked 1 file(s)") {
		t.Fatalf("exit %d, out %q", code, out)
	}

	writeSource(t, dir, "bad.jdn", "fn f() {\n    let = 1;\n}")
	code, _, errOut := runTool(t, "check", "-config", cfg, dir)
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(errOut, "bad.jdn:2:9: error[E0100]") || !strings.Contains(errOut, "found 1 error(s)") {
		t.Errorf("unexpected diagnostics %q", errOut)
	}
}

func TestCheckConfig(t *testing.T) {
	dir := t.TempDir()
	p := writeSource(t, dir, "a.jodin", "fn a() {}")
	cfg := writeSource(t, dir, "jodin.json", `{"extensions": [".jodin"], "language": "^0.3"}`)

	code, out, errOut := runTool(t, "check", "-config", cfg, dir)
	if code != 0 || !strings.Contains(out, "checked 1 file(s)") {
		t.Fatalf("exit %d, out %q, err %q", code, out, errOut)
	}

	bad := writeSource(t, dir, "bad.json", `{"language": "^2"}`)
	code, _, errOut = runTool(t, "check", "-config", bad, p)
	if code != 1 || !strings.Contains(errOut, "does not satisfy") {
		t.Errorf("exit %d, err %q", code, errOut)
	}
}

func TestFmtCommand(t *testing.T) {
	dir := t.TempDir()
	p := writeSource(t, dir, "a.jdn", "fn  f(x:int)->int{return x*2;}")

	code, out, errOut := runTool(t, "fmt", "-config", filepath.Join(dir, "none.json"), p)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	// The output must parse back to the same tree.
	again := writeSource(t, dir, "b.jdn", out)
	_, first, _ := runTool(t, "parse", "-config", filepath.Join(dir, "none.json"), p)
	_, second, _ := runTool(t, "parse", "-config", filepath.Join(dir, "none.json"), again)
	if first != second {
		t.Errorf("formatted source parses differently:\n%s\nvs\n%s", first, second)
	}

	code, _, _ = runTool(t, "fmt", "-w", "-config", filepath.Join(dir, "none.json"), p)
	if code != 0 {
		t.Fatalf("fmt -w exit %d", code)
	}
	written, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(written) != out {
		t.Errorf("fmt -w wrote %q, want %q", written, out)
	}
}

func TestTokensCommand(t *testing.T) {
	dir := t.TempDir()
	p := writeSource(t, dir, "a.jdn", "let x = 1;")

	code, out, errOut := runTool(t, "tokens", p)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 6 { // let x = 1 ; EOF
		t.Fatalf("got %d tokens: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "1:1\t") {
		t.Errorf("unexpected first token %q", lines[0])
	}

	if code, _, _ := runTool(t, "tokens"); code != 1 {
		t.Errorf("missing file argument: exit %d", code)
	}
}

func TestVersionAndUsage(t *testing.T) {
	code, out, _ := runTool(t, "version")
	if code != 0 || !strings.HasPrefix(out, toolName+" v") {
		t.Errorf("version: exit %d, %q", code, out)
	}
	code, out, _ = runTool(t)
	if code != 0 || !strings.Contains(out, "COMMANDS:") {
		t.Errorf("usage: exit %d, %q", code, out)
	}
	if code, _, _ := runTool(t, "bogus"); code != 2 {
		t.Errorf("unknown command: exit %d", code)
	}
}

func TestWatchCanceled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"watch", "-config", filepath.Join(dir, "none.json"), dir}, &stdout, &stderr)
	if code != 0 && !strings.Contains(stderr.String(), "failed to start watcher") {
		t.Errorf("exit %d: %s", code, stderr.String())
	}
}

func TestFmtListAndDiff(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "none.json")
	p := writeSource(t, dir, "a.jdn", "let   x=1;")

	code, out, errOut := runTool(t, "fmt", "-l", "-config", cfg, p)
	if code != 0 || strings.TrimSpace(out) != p {
		t.Fatalf("fmt -l: exit %d, out %q, err %q", code, out, errOut)
	}

	code, out, _ = runTool(t, "fmt", "-d", "-config", cfg, p)
	if code != 0 || !strings.Contains(out, "-let   x=1;") || !strings.Contains(out, "+++ "+p) {
		t.Fatalf("fmt -d: exit %d, out %q", code, out)
	}

	_, formatted, _ := runTool(t, "fmt", "-config", cfg, p)
	writeSource(t, dir, "a.jdn", formatted)
	if _, out, _ := runTool(t, "fmt", "-l", "-config", cfg, p); out != "" {
		t.Errorf("formatted file still listed: %q", out)
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "jodin.json")

	code, out, errOut := runTool(t, "init", dir)
	if code != 0 || !strings.Contains(out, "wrote "+cfg) {
		t.Fatalf("exit %d, out %q, err %q", code, out, errOut)
	}
	data, err := os.ReadFile(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"language": "^0.3.0"`) {
		t.Errorf("unexpected config %s", data)
	}

	if code, _, errOut := runTool(t, "init", dir); code != 1 || !strings.Contains(errOut, "already exists") {
		t.Errorf("second init: exit %d, err %q", code, errOut)
	}
	if code, _, errOut := runTool(t, "init", "-f", dir); code != 0 {
		t.Errorf("init -f: exit %d, err %q", code, errOut)
	}

	writeSource(t, dir, "a.jdn", "fn a() {}")
	code, out, errOut = runTool(t, "check", "-config", cfg, dir)
	if code != 0 || !strings.Contains(out, "checked 1 file(s)") {
		t.Errorf("check with generated config: exit %d, out %q, err %q", code, out, errOut)
	}
}

func TestCheckDebugLogsCacheStats(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.jdn", "fn a() {}")

	code, _, errOut := runTool(t, "check", "-debug", "-config", filepath.Join(dir, "none.json"), dir)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(errOut, "cache: 1 entries") || !strings.Contains(errOut, "1 misses") {
		t.Errorf("missing cache stats in %q", errOut)
	}
}
