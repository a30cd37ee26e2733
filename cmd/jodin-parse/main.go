// Command jodin-parse parses Jodin sources and reports syntax trees,
// tokens and diagnostics.
//
// Usage:
//
//	jodin-parse parse [-json] FILES...   print syntax trees
//	jodin-parse tokens FILE              print the token stream
//	jodin-parse check FILES...           report diagnostics, exit 1 on failure
//	jodin-parse fmt [-w|-l|-d] FILES...  re-serialize sources
//	jodin-parse watch DIR                re-parse sources as they change
//	jodin-parse init [-f] [DIR]          write a default jodin.json
//	jodin-parse version [-json]
//
// Directories given as FILES are searched for sources recursively.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/jodin-lang/jodin/internal/ast"
	"github.com/jodin-lang/jodin/internal/build"
	"github.com/jodin-lang/jodin/internal/cli"
	"github.com/jodin-lang/jodin/internal/diagnostic"
	"github.com/jodin-lang/jodin/internal/format"
	"github.com/jodin-lang/jodin/internal/lexer"
)

const toolName = "jodin-parse"

var commands = []cli.CommandInfo{
	{Name: "parse", Usage: toolName + " parse [-json] FILES...", Description: "Print the syntax tree of each file",
		Examples: []string{toolName + " parse main.jdn", toolName + " parse -json src/"}},
	{Name: "tokens", Usage: toolName + " tokens FILE", Description: "Print the token stream of a file"},
	{Name: "check", Usage: toolName + " check FILES...", Description: "Report syntax errors; exit 1 if any file fails"},
	{Name: "fmt", Usage: toolName + " fmt [-w|-l|-d] FILES...", Description: "Re-serialize files from their syntax tree"},
	{Name: "watch", Usage: toolName + " watch DIR", Description: "Re-parse sources under DIR as they change"},
	{Name: "init", Usage: toolName + " init [-f] [DIR]", Description: "Write a default " + cli.ConfigFileName + " to DIR"},
	{Name: "version", Usage: toolName + " version [-json]", Description: "Show version information"},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	cli.ExitWithCode(code, "")
}

// errFailed reports that some unit failed to parse; diagnostics have
// already been written.
var errFailed = errors.New("parse failed")

// env carries the resolved settings of one invocation.
type env struct {
	stderr io.Writer
	log    *cli.Logger
	opts   build.Options
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		cli.PrintUsage(stdout, toolName, commands)
		return 0
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "parse":
		err = runParse(ctx, rest, stdout, stderr)
	case "tokens":
		err = runTokens(rest, stdout, stderr)
	case "check":
		err = runCheck(ctx, rest, stdout, stderr)
	case "fmt":
		err = runFmt(ctx, rest, stdout, stderr)
	case "watch":
		err = runWatch(ctx, rest, stdout, stderr)
	case "init":
		err = runInit(rest, stdout, stderr)
	case "version", "-v", "--version":
		err = runVersion(rest, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", cmd)
		cli.PrintUsage(stderr, toolName, commands)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errFailed):
		return 1
	case errors.Is(err, flag.ErrHelp):
		return 0
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func commandInfo(name string) cli.CommandInfo {
	for _, c := range commands {
		if c.Name == name {
			return c
		}
	}
	return cli.CommandInfo{Name: name}
}

// newFlagSet returns a flag set with the options every parsing command
// shares. Call setup after Parse to resolve them against jodin.json.
func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, func() (*env, error)) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { cli.PrintCommandUsage(stderr, toolName, commandInfo(name)); fs.PrintDefaults() }

	configPath := fs.String("config", "", "path to "+cli.ConfigFileName+" (default: search upwards from the working directory)")
	workers := fs.Int("workers", 0, "parallel parses (0 = number of CPUs)")
	verbose := fs.Bool("verbose", false, "log progress")
	debug := fs.Bool("debug", false, "log parser internals")

	setup := func() (*env, error) {
		path := *configPath
		if path == "" {
			path = cli.FindConfig(".")
		}
		cfg, err := cli.LoadConfig(path)
		if err != nil {
			return nil, err
		}

		logger := cli.NewLoggerTo(stderr, *verbose || cfg.Verbose, *debug || cfg.Debug)
		if path != "" {
			logger.Debug("loaded config %s", path)
		}

		opts := build.Options{Workers: cfg.Workers, Extensions: cfg.Extensions, Cache: build.NewCache(0)}
		if *workers > 0 {
			opts.Workers = *workers
		}
		if logger.DebugMode {
			opts.Logger = logger.Slog()
		}
		return &env{stderr: stderr, log: logger, opts: opts}, nil
	}
	return fs, setup
}

// parseInputs parses every file named by args, expanding directories.
func (e *env) parseInputs(ctx context.Context, args []string) ([]*build.Unit, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no input files")
	}
	paths, err := build.ExpandPaths(args, e.opts)
	if err != nil {
		return nil, err
	}
	units, stats, err := build.ParseAll(ctx, paths, e.opts)
	if err != nil {
		return nil, err
	}
	e.log.Info("parsed %d file(s), %d failed, %d cached in %s", stats.Total, stats.Failed, stats.CacheHits, stats.Took)
	if e.opts.Cache != nil {
		cs := e.opts.Cache.Stats()
		e.log.Debug("cache: %d entries, %d bytes, %d hits, %d misses, %d evictions",
			cs.Entries, cs.Bytes, cs.Hits, cs.Misses, cs.Evictions)
	}
	return units, nil
}

// report renders the failures among units to stderr and returns errFailed
// when there is at least one.
func (e *env) report(units []*build.Unit) error {
	engine := diagnostic.NewDiagnosticEngine(diagnostic.DiagnosticConfig{})
	r := newRenderer(e.stderr)
	for _, u := range units {
		if u.OK() {
			continue
		}
		r.AddSource(u.Source)
		engine.AddDiagnostic(diagnostic.FromError(u.Path, u.Err))
	}
	if !engine.HasErrors() {
		return nil
	}
	engine.SortDiagnostics()
	fmt.Fprint(e.stderr, engine.FormatDiagnostics(r))
	return errFailed
}

func newRenderer(w io.Writer) *diagnostic.Renderer {
	if f, ok := w.(*os.File); ok {
		return diagnostic.NewRenderer(f)
	}
	return &diagnostic.Renderer{}
}

func runParse(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, setup := newFlagSet("parse", stderr)
	asJSON := fs.Bool("json", false, "print the tree as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	e, err := setup()
	if err != nil {
		return err
	}

	units, err := e.parseInputs(ctx, fs.Args())
	if err != nil {
		return err
	}

	for _, u := range units {
		if !u.OK() {
			continue
		}
		if *asJSON {
			data, err := json.MarshalIndent(map[string]interface{}{"path": u.Path, "tree": treeOf(u.AST)}, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal tree: %w", err)
			}
			fmt.Fprintln(stdout, string(data))
			continue
		}
		if len(units) > 1 {
			fmt.Fprintf(stdout, ";; %s\n", u.Path)
		}
		fmt.Fprintln(stdout, ast.Dump(u.AST))
	}
	return e.report(units)
}

func runTokens(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tokens", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { cli.PrintCommandUsage(stderr, toolName, commandInfo("tokens")) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cli.ValidateArgs(fs.Args(), 1, commandInfo("tokens").Usage); err != nil {
		return err
	}

	for _, path := range fs.Args() {
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, tok := range lexer.Tokens(lexer.NewWithFilename(string(content), path)) {
			fmt.Fprintf(stdout, "%d:%d\t%s\t%q\n", tok.Span.Start.Line, tok.Span.Start.Column, tok.Type, tok.Literal)
		}
	}
	return nil
}

func runCheck(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, setup := newFlagSet("check", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	e, err := setup()
	if err != nil {
		return err
	}

	units, err := e.parseInputs(ctx, fs.Args())
	if err != nil {
		return err
	}
	if err := e.report(units); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "checked %d file(s), no errors\n", len(units))
	return nil
}

func runFmt(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, setup := newFlagSet("fmt", stderr)
	write := fs.Bool("w", false, "write result to (source) file instead of stdout")
	list := fs.Bool("l", false, "list files whose formatting differs")
	diff := fs.Bool("d", false, "print a unified diff instead of the formatted source")
	if err := fs.Parse(args); err != nil {
		return err
	}
	e, err := setup()
	if err != nil {
		return err
	}

	units, err := e.parseInputs(ctx, fs.Args())
	if err != nil {
		return err
	}
	if err := e.report(units); err != nil {
		return err
	}

	differ := format.NewDiffFormatter(format.DefaultDiffOptions())
	for _, u := range units {
		out := ast.Format(u.AST)
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		if *list {
			if out != u.Source.Content {
				fmt.Fprintln(stdout, u.Path)
			}
			continue
		}
		if *diff {
			fmt.Fprint(stdout, differ.FormatDiff(u.Path, differ.GenerateDiff(u.Source.Content, out)))
			continue
		}
		if *write {
			if out == u.Source.Content {
				continue
			}
			if err := os.WriteFile(u.Path, []byte(out), 0644); err != nil {
				return err
			}
			e.log.Info("formatted %s", u.Path)
			continue
		}
		if len(units) > 1 {
			fmt.Fprintf(stdout, "// %s\n", u.Path)
		}
		fmt.Fprint(stdout, out)
	}
	return nil
}

func runWatch(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, setup := newFlagSet("watch", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cli.ValidateArgs(fs.Args(), 1, commandInfo("watch").Usage); err != nil {
		return err
	}
	e, err := setup()
	if err != nil {
		return err
	}

	w, err := build.NewWatcher(e.opts)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()
	for _, dir := range fs.Args() {
		if err := w.Add(dir); err != nil {
			return err
		}
		e.log.Info("watching %s", dir)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-w.Units():
			if !ok {
				return nil
			}
			if u.OK() {
				fmt.Fprintf(stdout, "ok\t%s\n", u.Path)
				continue
			}
			_ = e.report([]*build.Unit{u})
		case err := <-w.Errors():
			e.log.Warn("watch: %v", err)
		}
	}
}

func runInit(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { cli.PrintCommandUsage(stderr, toolName, commandInfo("init")); fs.PrintDefaults() }
	force := fs.Bool("f", false, "overwrite an existing "+cli.ConfigFileName)
	if err := fs.Parse(args); err != nil {
		return err
	}

	dir := "."
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}
	path := filepath.Join(dir, cli.ConfigFileName)
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("%s already exists (use -f to overwrite)", path)
	}

	cfg := &cli.Config{
		Extensions: []string{build.DefaultExtension},
		Language:   "^" + cli.LanguageVersion,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.SaveConfig(path); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", path)
	return nil
}

func runVersion(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "output version in JSON format")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return cli.PrintVersion(stdout, toolName, *asJSON)
}

// treeNode is the JSON shape of a syntax tree node.
type treeNode struct {
	Kind     string      `json:"kind"`
	Span     string      `json:"span"`
	Tags     []string    `json:"tags,omitempty"`
	Children []*treeNode `json:"children,omitempty"`
}

func treeOf(n ast.Node) *treeNode {
	t := &treeNode{Kind: n.Kind().String(), Span: n.GetSpan().String()}
	for _, tag := range n.Meta().Tags.All() {
		t.Tags = append(t.Tags, tag.String())
	}
	for _, c := range ast.Children(n) {
		t.Children = append(t.Children, treeOf(c))
	}
	return t
}
