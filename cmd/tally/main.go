package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tally/interpreter-go/pkg/driver"
	rterrors "tally/interpreter-go/pkg/errors"
	"tally/interpreter-go/pkg/interpreter"
	"tally/interpreter-go/pkg/printer"
)

const cliToolVersion = "tally-cli 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:])
	case "check":
		return runCheck(args[1:])
	case "repl":
		return runRepl(args[1:])
	case "watch":
		return runWatch(args[1:])
	default:
		return runEntry(args)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  tally run [--trace] [target|program]   run the manifest entry, a named target or a program document")
	fmt.Fprintln(os.Stderr, "  tally check <program>                  decode a program document and report errors")
	fmt.Fprintln(os.Stderr, "  tally watch [--trace] [target|program] run, then run again whenever a program document changes")
	fmt.Fprintln(os.Stderr, "  tally repl [--trace]                   start an interactive session")
	fmt.Fprintln(os.Stderr, "  tally version                          print the tool version")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "environment:")
	fmt.Fprintln(os.Stderr, "  TALLY_LOG    log level for evaluator tracing (debug, info, warn, error)")
	fmt.Fprintln(os.Stderr, "  TALLY_HOME   directory for REPL history (default ~/.tally)")
}

// splitFlags pulls --trace out of args; everything else is positional.
func splitFlags(args []string) (positional []string, trace bool, err error) {
	for _, arg := range args {
		switch {
		case arg == "--trace":
			trace = true
		case strings.HasPrefix(arg, "-"):
			return nil, false, fmt.Errorf("unknown flag %s", arg)
		default:
			positional = append(positional, arg)
		}
	}
	return positional, trace, nil
}

func runEntry(args []string) int {
	positional, trace, err := splitFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	entry, manifest, err := resolveEntry(positional)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return executeEntry(entry, manifest, trace)
}

// resolveEntry picks the program to run: the manifest entry when no argument
// is given, a named manifest target, or a program document path.
func resolveEntry(positional []string) (string, *driver.Manifest, error) {
	if len(positional) > 1 {
		return "", nil, fmt.Errorf("unexpected arguments: %s", strings.Join(positional[1:], " "))
	}

	manifest, err := loadManifestFrom(".")
	if err != nil && !errors.Is(err, driver.ErrManifestNotFound) {
		if len(positional) == 0 || !looksLikePathCandidate(positional[0]) {
			return "", nil, fmt.Errorf("failed to load manifest: %w", err)
		}
		fmt.Fprintf(os.Stderr, "warning: unable to load manifest (%v); falling back to direct file execution\n", err)
		manifest = nil
	}

	if len(positional) == 0 {
		if manifest == nil {
			return "", nil, fmt.Errorf("tally run requires a manifest target or program document (%s not found)", driver.ManifestFileName)
		}
		entry, err := manifest.DefaultEntry()
		if err != nil {
			return "", nil, fmt.Errorf("manifest error: %w", err)
		}
		return entry, manifest, nil
	}

	candidate := positional[0]
	if manifest != nil {
		if target, ok := manifest.FindTarget(candidate); ok {
			return manifest.TargetEntry(target), manifest, nil
		}
	}

	// A program outside the working directory picks up the manifest next to it.
	if absCandidate, err := filepath.Abs(candidate); err == nil {
		if manifestPath, findErr := driver.FindManifest(filepath.Dir(absCandidate)); findErr == nil {
			if manifest == nil || filepath.Clean(manifest.Path) != filepath.Clean(manifestPath) {
				m, loadErr := driver.LoadManifest(manifestPath)
				if loadErr != nil {
					return "", nil, fmt.Errorf("failed to read manifest for %s: %w", candidate, loadErr)
				}
				manifest = m
			}
		}
	}
	return candidate, manifest, nil
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	path, err := driver.FindManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(path)
}

func looksLikePathCandidate(arg string) bool {
	if strings.ContainsRune(arg, filepath.Separator) || strings.Contains(arg, "/") {
		return true
	}
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".yml", ".yaml", ".json":
		return true
	}
	return false
}

func executeEntry(entryPath string, manifest *driver.Manifest, trace bool) int {
	program, err := driver.LoadProgram(entryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	interp, err := newInterpreter(manifest, trace, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if _, err := interp.EvaluateProgram(program); err != nil {
		reportRuntimeError(os.Stderr, err)
		return 1
	}
	return 0
}

// newInterpreter wires manifest settings into the evaluator: the trimmed
// built-in registry, the printer and the trace logger.
func newInterpreter(manifest *driver.Manifest, trace bool, out io.Writer) (*interpreter.Interpreter, error) {
	p, err := newPrinter(manifest)
	if err != nil {
		return nil, err
	}
	if manifest != nil && manifest.Trace {
		trace = true
	}
	return interpreter.NewWithOptions(interpreter.Options{
		Builtins: manifest.Registry(),
		Output:   &printer.Writer{Printer: p, Out: out},
		Logger:   newLogger(trace),
	}), nil
}

func newPrinter(manifest *driver.Manifest) (*printer.Printer, error) {
	if manifest == nil {
		return printer.Plain(), nil
	}
	return printer.New(printer.Options{
		Locale:         manifest.Output.Locale,
		FloatPrecision: manifest.Output.FloatPrecision,
	})
}

// newLogger honours TALLY_LOG; --trace forces debug level.
func newLogger(trace bool) *slog.Logger {
	level := slog.LevelWarn
	enabled := trace
	if raw := strings.TrimSpace(os.Getenv("TALLY_LOG")); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: ignoring TALLY_LOG=%q: %v\n", raw, err)
		} else {
			enabled = true
		}
	}
	if trace {
		level = slog.LevelDebug
	}
	if !enabled {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func reportRuntimeError(w io.Writer, err error) {
	if rt, ok := rterrors.As(err); ok {
		fmt.Fprintln(w, rt.PrettyString())
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

func runCheck(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "tally check requires exactly one program document")
		return 1
	}
	program, err := driver.LoadProgram(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "%s: ok (%d top-level statements)\n", args[0], len(program.Body))
	return 0
}

func resolveTallyHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("TALLY_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve TALLY_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".tally"), nil
}
