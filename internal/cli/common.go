// Package cli holds the pieces shared by the Jodin command line tools:
// version information, logging and the jodin.json configuration file.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version information for all CLI tools
const (
	Version   = "0.3.0"
	BuildDate = "2026-10-19"
	CommitSHA = "unknown" // Will be set during build
)

// LanguageVersion is the version of the Jodin grammar these tools accept.
const LanguageVersion = "0.3.0"

// ConfigFileName is the name of the project configuration file.
const ConfigFileName = "jodin.json"

// VersionInfo contains version and build information
type VersionInfo struct {
	Version         string `json:"version"`
	LanguageVersion string `json:"language_version"`
	BuildDate       string `json:"build_date"`
	CommitSHA       string `json:"commit_sha"`
	GoVersion       string `json:"go_version"`
	Platform        string `json:"platform"`
	Arch            string `json:"arch"`
}

// GetVersionInfo returns structured version information
func GetVersionInfo() *VersionInfo {
	return &VersionInfo{
		Version:         Version,
		LanguageVersion: LanguageVersion,
		BuildDate:       BuildDate,
		CommitSHA:       CommitSHA,
		GoVersion:       runtime.Version(),
		Platform:        runtime.GOOS,
		Arch:            runtime.GOARCH,
	}
}

// PrintVersion writes version information in a consistent format
func PrintVersion(w io.Writer, toolName string, jsonOutput bool) error {
	info := GetVersionInfo()

	if jsonOutput {
		data, err := json.MarshalIndent(map[string]interface{}{
			"tool":         toolName,
			"version_info": info,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal version info: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	fmt.Fprintf(w, "%s v%s (language %s)\n", toolName, info.Version, info.LanguageVersion)
	fmt.Fprintf(w, "Build Date: %s\n", info.BuildDate)
	if info.CommitSHA != "unknown" && info.CommitSHA != "" {
		fmt.Fprintf(w, "Commit: %s\n", info.CommitSHA)
	}
	fmt.Fprintf(w, "Go Version: %s\n", info.GoVersion)
	_, err := fmt.Fprintf(w, "Platform: %s/%s\n", info.Platform, info.Arch)
	return err
}

// ExitWithCode exits with the specified code and optional message
func ExitWithCode(code int, format string, args ...interface{}) {
	if format != "" {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
	os.Exit(code)
}

// Logger provides leveled logging for CLI tools. Info messages need
// Verbose, debug messages need DebugMode; warnings and errors always print.
type Logger struct {
	Verbose   bool
	DebugMode bool

	base *slog.Logger
}

// NewLoggerTo creates a logger writing slog text records to w.
func NewLoggerTo(w io.Writer, verbose, debug bool) *Logger {
	level := slog.LevelWarn
	switch {
	case debug:
		level = slog.LevelDebug
	case verbose:
		level = slog.LevelInfo
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{Verbose: verbose || debug, DebugMode: debug, base: slog.New(h)}
}

// Slog exposes the underlying structured logger, e.g. for parser.WithLogger.
func (l *Logger) Slog() *slog.Logger { return l.base }

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.base.Info(fmt.Sprintf(format, args...))
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.base.Debug(fmt.Sprintf(format, args...))
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.base.Warn(fmt.Sprintf(format, args...))
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.base.Error(fmt.Sprintf(format, args...))
}

// Config represents the jodin.json project configuration
type Config struct {
	Verbose    bool     `json:"verbose"`
	Debug      bool     `json:"debug"`
	Workers    int      `json:"workers,omitempty"`
	Extensions []string `json:"extensions,omitempty"`
	// Language is a semver constraint on LanguageVersion, e.g. "^0.3".
	Language string `json:"language,omitempty"`
}

// LoadConfig loads configuration from file. A missing file yields the
// default configuration.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil // Default config if file doesn't exist
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	return config, nil
}

// FindConfig looks for ConfigFileName in dir and its parents and returns
// the first match, or "" when there is none.
func FindConfig(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		p := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Validate checks field ranges and that LanguageVersion satisfies the
// configured language constraint.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("invalid extension %q: must start with a dot", ext)
		}
	}
	if c.Language == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(c.Language)
	if err != nil {
		return fmt.Errorf("invalid language constraint %q: %w", c.Language, err)
	}
	current, err := semver.NewVersion(LanguageVersion)
	if err != nil {
		return fmt.Errorf("invalid language version %q: %w", LanguageVersion, err)
	}
	if !constraint.Check(current) {
		return fmt.Errorf("language %s does not satisfy %q", LanguageVersion, c.Language)
	}
	return nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CommandInfo represents information about a CLI command
type CommandInfo struct {
	Name        string
	Usage       string
	Description string
	Examples    []string
}

// PrintUsage prints a standardized usage message
func PrintUsage(w io.Writer, tool string, commands []CommandInfo) {
	fmt.Fprintf(w, "%s - Jodin Language Tools\n\n", tool)
	fmt.Fprintf(w, "USAGE:\n")
	fmt.Fprintf(w, "    %s <command> [OPTIONS] [FILES...]\n\n", tool)

	if len(commands) > 0 {
		fmt.Fprintf(w, "COMMANDS:\n")
		for _, cmd := range commands {
			fmt.Fprintf(w, "    %-12s %s\n", cmd.Name, cmd.Description)
		}
		fmt.Fprintf(w, "\n")
	}

	fmt.Fprintf(w, "Use '%s <command> -h' for more information about a command.\n", tool)
}

// PrintCommandUsage prints usage for a specific command
func PrintCommandUsage(w io.Writer, tool string, cmd CommandInfo) {
	fmt.Fprintf(w, "%s %s - %s\n\n", tool, cmd.Name, cmd.Description)
	fmt.Fprintf(w, "USAGE:\n")
	fmt.Fprintf(w, "    %s\n\n", cmd.Usage)

	if len(cmd.Examples) > 0 {
		fmt.Fprintf(w, "EXAMPLES:\n")
		for _, example := range cmd.Examples {
			fmt.Fprintf(w, "    %s\n", example)
		}
		fmt.Fprintf(w, "\n")
	}
}

// ValidateArgs validates command line arguments
func ValidateArgs(args []string, minArgs int, usage string) error {
	if len(args) < minArgs {
		return fmt.Errorf("insufficient arguments\nUsage: %s", usage)
	}
	return nil
}
