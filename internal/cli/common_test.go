package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"empty object", `{}`, ""},
		{"full", `{"verbose": true, "workers": 4, "extensions": [".jdn", ".jodin"], "language": "^0.3"}`, ""},
		{"range", `{"language": ">= 0.1, < 1.0"}`, ""},
		{"unsatisfied", `{"language": "^1.0"}`, "does not satisfy"},
		{"bad constraint", `{"language": "not-a-version"}`, "invalid language constraint"},
		{"negative workers", `{"workers": -1}`, "workers must not be negative"},
		{"bad extension", `{"extensions": ["jdn"]}`, "must start with a dot"},
		{"bad json", `{"verbose": }`, "failed to parse config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeConfig(t, t.TempDir(), tt.content)
			cfg, err := LoadConfig(p)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if cfg == nil {
					t.Fatal("nil config")
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil || cfg.Workers != 0 || cfg.Verbose {
		t.Fatalf("unexpected default config %+v, %v", cfg, err)
	}
	cfg, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil || cfg == nil {
		t.Fatalf("missing file should give defaults, got %v", err)
	}
}

func TestSaveAndFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "pkg")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{Workers: 2, Language: "~0.3"}
	if err := cfg.SaveConfig(filepath.Join(root, ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	found := FindConfig(nested)
	if found != filepath.Join(root, ConfigFileName) {
		t.Fatalf("FindConfig = %q", found)
	}
	loaded, err := LoadConfig(found)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Workers != 2 || loaded.Language != "~0.3" {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name           string
		verbose, debug bool
		want, notWant  []string
	}{
		{"quiet", false, false, []string{"warned", "failed"}, []string{"informed", "traced"}},
		{"verbose", true, false, []string{"informed", "warned"}, []string{"traced"}},
		{"debug", false, true, []string{"informed", "traced"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLoggerTo(&buf, tt.verbose, tt.debug)
			l.Info("informed %d", 1)
			l.Debug("traced")
			l.Warn("warned")
			l.Error("failed")

			out := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("missing %q in %q", s, out)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("unexpected %q in %q", s, out)
				}
			}
		})
	}
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintVersion(&buf, "jodin-parse", false); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "jodin-parse v"+Version) {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	if err := PrintVersion(&buf, "jodin-parse", true); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Tool        string      `json:"tool"`
		VersionInfo VersionInfo `json:"version_info"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Tool != "jodin-parse" || decoded.VersionInfo.LanguageVersion != LanguageVersion {
		t.Errorf("unexpected json %+v", decoded)
	}
}

func TestValidateArgs(t *testing.T) {
	if err := ValidateArgs([]string{"a"}, 1, "x"); err != nil {
		t.Error(err)
	}
	if err := ValidateArgs(nil, 1, "tool parse FILE"); err == nil || !strings.Contains(err.Error(), "tool parse FILE") {
		t.Errorf("unexpected error %v", err)
	}
}
