package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"tally/interpreter-go/pkg/builtins"
	"tally/interpreter-go/pkg/driver"
	"tally/interpreter-go/pkg/interpreter"
	"tally/interpreter-go/pkg/printer"
)

const (
	replPrompt             = "tally> "
	replContinuationPrompt = "   ..> "
	historyFileName        = "history"
)

// nodeWords are offered by tab completion next to the built-in names.
var nodeWords = []string{
	"type:", "Declare", "Assign", "ExpressionStatement", "Block", "While", "Return",
	"FunctionLiteral", "Call", "Identifier", "NumberLiteral", "BooleanLiteral", "TextLiteral",
	"name:", "declaredType:", "value:", "expression:", "body:", "condition:", "argument:",
	"params:", "paramType:", "returnType:", "callee:", "arguments:", "lexeme:",
	"integer", "whole", "float", "boolean", "text", "function",
}

// replSession evaluates statement documents against one persistent global
// frame. It is independent of the terminal so tests can drive it directly.
type replSession struct {
	manifest *driver.Manifest
	trace    bool
	out      io.Writer
	interp   *interpreter.Interpreter
	buffer   strings.Builder
}

func newReplSession(manifest *driver.Manifest, trace bool, out io.Writer) (*replSession, error) {
	s := &replSession{manifest: manifest, trace: trace, out: out}
	if err := s.reset(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *replSession) reset() error {
	interp, err := newInterpreter(s.manifest, s.trace, s.out)
	if err != nil {
		return err
	}
	s.interp = interp
	s.buffer.Reset()
	return nil
}

func (s *replSession) pending() bool {
	return s.buffer.Len() > 0
}

// handleLine consumes one input line. It returns the complete input that was
// evaluated (for history) and whether the session should end.
func (s *replSession) handleLine(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if !s.pending() {
		switch {
		case trimmed == "":
			return "", false
		case trimmed == "exit" || trimmed == "quit":
			return "", true
		case strings.HasPrefix(trimmed, ":"):
			s.handleCommand(trimmed)
			return "", false
		}
	}
	if s.pending() {
		s.buffer.WriteString("\n")
	}
	s.buffer.WriteString(input)
	full := s.buffer.String()
	if needsMoreInput(full) {
		return "", false
	}
	s.buffer.Reset()
	s.evaluate(full)
	return full, false
}

func (s *replSession) evaluate(input string) {
	stmt, err := driver.DecodeStatementYAML([]byte(input))
	if err != nil {
		fmt.Fprintf(s.out, "decode error: %v\n", err)
		return
	}
	if _, err := s.interp.ExecuteStatement(stmt); err != nil {
		reportRuntimeError(s.out, err)
	}
}

func (s *replSession) handleCommand(cmd string) {
	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(s.out, "Enter one statement per input as a YAML or JSON node, for example:")
		fmt.Fprintln(s.out, `  {type: Declare, name: x, declaredType: whole}`)
		fmt.Fprintln(s.out, `  {type: ExpressionStatement, expression: {type: Call, callee: add, arguments: [{type: NumberLiteral, lexeme: 1}, {type: NumberLiteral, lexeme: 2}]}}`)
		fmt.Fprintln(s.out, "")
		fmt.Fprintln(s.out, "REPL Commands:")
		fmt.Fprintln(s.out, "  :help, :h, :?   Show this help")
		fmt.Fprintln(s.out, "  :env            Show global bindings")
		fmt.Fprintln(s.out, "  :builtins       List built-in functions")
		fmt.Fprintln(s.out, "  :clear          Drop all global bindings")
		fmt.Fprintln(s.out, "  exit, quit      Exit the REPL")
	case ":env":
		s.printEnvironment()
	case ":builtins":
		fmt.Fprintln(s.out, strings.Join(builtinSignatures(s.interp.Builtins()), " "))
	case ":clear":
		if err := s.reset(); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			return
		}
		fmt.Fprintln(s.out, "Environment cleared")
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

func (s *replSession) printEnvironment() {
	bindings := s.interp.GlobalEnvironment().Bindings()
	if len(bindings) == 0 {
		fmt.Fprintln(s.out, "(no bindings)")
		return
	}
	p := printer.Plain()
	for _, b := range bindings {
		val, ok := b.Value()
		if !ok {
			fmt.Fprintf(s.out, "  %s: %s (unset)\n", b.Name, b.Declared)
			continue
		}
		fmt.Fprintf(s.out, "  %s: %s = %s\n", b.Name, b.Declared, p.Format(val))
	}
}

// builtinSignatures lists built-ins as name/arity, with "..." for variadic
// ones.
func builtinSignatures(registry *builtins.Registry) []string {
	names := registry.Names()
	out := make([]string, 0, len(names))
	for _, name := range names {
		b, _ := registry.Lookup(name)
		if b.Arity.IsVariadic() {
			out = append(out, name+"/...")
			continue
		}
		out = append(out, fmt.Sprintf("%s/%d", name, b.Arity.Arity()))
	}
	return out
}

func (s *replSession) completions(line string) []string {
	if line == "" || strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t") {
		return nil
	}
	cut := strings.LastIndexAny(line, " \t{[,") + 1
	prefix, word := line[:cut], line[cut:]
	candidates := append(append([]string(nil), s.interp.Builtins().Names()...), nodeWords...)
	var matches []string
	for _, candidate := range candidates {
		if strings.HasPrefix(candidate, word) {
			matches = append(matches, prefix+candidate)
		}
	}
	return matches
}

// needsMoreInput reports unclosed braces or brackets outside quoted text.
func needsMoreInput(input string) bool {
	depth := 0
	var quote byte
	escaped := false
	for i := 0; i < len(input); i++ {
		ch := input[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == '\\' && quote == '"':
				escaped = true
			case ch == quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		}
	}
	return depth > 0
}

func runRepl(args []string) int {
	positional, trace, err := splitFlags(args)
	if err != nil || len(positional) > 0 {
		fmt.Fprintln(os.Stderr, "usage: tally repl [--trace]")
		return 1
	}
	manifest, err := loadManifestFrom(".")
	if err != nil && !errors.Is(err, driver.ErrManifestNotFound) {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}
	session, err := newReplSession(manifest, trace, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(session.completions)

	historyPath := ""
	if home, err := resolveTallyHome(); err == nil {
		historyPath = filepath.Join(home, historyFileName)
		if f, err := os.Open(historyPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if historyPath == "" {
			return
		}
		if err := os.MkdirAll(filepath.Dir(historyPath), 0o755); err != nil {
			return
		}
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintln(os.Stdout, cliToolVersion)
	fmt.Fprintln(os.Stdout, "Type ':help' for REPL commands, 'exit' or Ctrl+D to quit")

	for {
		prompt := replPrompt
		if session.pending() {
			prompt = replContinuationPrompt
		}
		input, err := line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				session.buffer.Reset()
				fmt.Fprintln(os.Stdout, "^C")
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(os.Stdout)
				return 0
			}
			fmt.Fprintf(os.Stderr, "error reading input: %v\n", err)
			return 1
		}
		complete, done := session.handleLine(input)
		if done {
			return 0
		}
		if complete != "" {
			line.AppendHistory(complete)
		}
	}
}
