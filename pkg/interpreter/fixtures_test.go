package interpreter

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"tally/interpreter-go/pkg/driver"
	"tally/interpreter-go/pkg/errors"
	"tally/interpreter-go/pkg/printer"
	"tally/interpreter-go/pkg/runtime"
)

type fixtureManifest struct {
	Description string `yaml:"description"`
	Entry       string `yaml:"entry"`
	Expect      struct {
		Stdout []string `yaml:"stdout"`
		Error  *struct {
			Kind    string `yaml:"kind"`
			Name    string `yaml:"name"`
			Message string `yaml:"message"`
		} `yaml:"error"`
	} `yaml:"expect"`
}

func readFixtureManifest(t *testing.T, dir string) fixtureManifest {
	t.Helper()
	path := filepath.Join(dir, "manifest.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read manifest %s: %v", path, err)
	}
	var manifest fixtureManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("parse manifest %s: %v", path, err)
	}
	return manifest
}

func TestFixtures(t *testing.T) {
	root := filepath.Join("..", "..", "fixtures")
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("reading fixtures: %v", err)
	}
	ran := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		ran++
		t.Run(entry.Name(), func(t *testing.T) {
			runFixture(t, dir)
		})
	}
	if ran == 0 {
		t.Fatalf("no fixtures found under %s", root)
	}
}

func runFixture(t *testing.T, dir string) {
	t.Helper()
	manifest := readFixtureManifest(t, dir)
	entry := manifest.Entry
	if entry == "" {
		entry = "program.yml"
	}
	program, err := driver.LoadProgram(filepath.Join(dir, entry))
	if err != nil {
		t.Fatalf("load program: %v", err)
	}

	values, err := New().EvaluateProgram(program)

	plain := printer.Plain()
	stdout := make([]string, 0, len(values))
	for _, val := range values {
		stdout = append(stdout, plain.Format(val))
	}
	want := manifest.Expect.Stdout
	if want == nil {
		want = []string{}
	}
	if !reflect.DeepEqual(stdout, want) {
		t.Fatalf("%s: stdout mismatch: expected %q, got %q", manifest.Description, want, stdout)
	}

	expected := manifest.Expect.Error
	if expected == nil {
		if err != nil {
			t.Fatalf("%s: evaluation error: %v", manifest.Description, err)
		}
		return
	}
	if err == nil {
		t.Fatalf("%s: expected %s, got no error", manifest.Description, expected.Kind)
	}
	rt, ok := errors.As(err)
	if !ok {
		t.Fatalf("expected runtime error, got %T: %v", err, err)
	}
	if string(rt.Kind) != expected.Kind {
		t.Fatalf("expected %s, got %s: %v", expected.Kind, rt.Kind, err)
	}
	if expected.Name != "" && rt.Name != expected.Name {
		t.Fatalf("expected error naming %q, got %q", expected.Name, rt.Name)
	}
	if expected.Message != "" && !strings.HasPrefix(rt.Message, expected.Message) {
		t.Fatalf("expected message starting %q, got %q", expected.Message, rt.Message)
	}
}

func TestFixtureOutputMatchesPrinterWriter(t *testing.T) {
	program, err := driver.LoadProgram(filepath.Join("..", "..", "fixtures", "factorial", "program.yml"))
	if err != nil {
		t.Fatalf("load program: %v", err)
	}
	var sb strings.Builder
	interp := NewWithOptions(Options{Output: &printer.Writer{Printer: printer.Plain(), Out: &sb}})
	values, err := interp.EvaluateProgram(program)
	if err != nil {
		t.Fatalf("evaluation error: %v", err)
	}
	if len(values) != 4 {
		t.Fatalf("expected 4 emitted values, got %d", len(values))
	}
	if _, ok := values[3].(runtime.WholeValue); !ok {
		t.Fatalf("expected whole result, got %T", values[3])
	}
	if sb.String() != "1\n1\n120\n3628800\n" {
		t.Fatalf("unexpected printed output %q", sb.String())
	}
}
