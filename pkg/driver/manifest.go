package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"tally/interpreter-go/pkg/builtins"
	rterrors "tally/interpreter-go/pkg/errors"
)

// ManifestFileName is the project manifest looked up by FindManifest.
const ManifestFileName = "tally.yml"

// Manifest represents the parsed contents of tally.yml.
type Manifest struct {
	Path        string
	Name        string
	Entry       string
	Targets     map[string]*TargetSpec
	TargetOrder []string
	Output      OutputSettings
	Builtins    BuiltinSettings
	Trace       bool
}

// TargetSpec names an alternative program document.
type TargetSpec struct {
	Name  string
	Entry string
}

// OutputSettings configures how printed values are rendered.
type OutputSettings struct {
	Locale         string
	FloatPrecision int
}

// BuiltinSettings trims the built-in catalogue.
type BuiltinSettings struct {
	Disable []string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

var (
	ErrManifestNotFound = errors.New("tally.yml not found")
	ErrNoEntry          = errors.New("manifest: no entry or targets defined")
)

// LoadManifest parses tally.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	manifest, err := ParseManifest(file)
	if err != nil {
		return nil, fmt.Errorf("manifest: %s: %w", absPath, err)
	}
	manifest.Path = absPath
	return manifest, nil
}

// ParseManifest decodes and validates a manifest from r.
func ParseManifest(r io.Reader) (*Manifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest is empty")
		}
		return nil, fmt.Errorf("parse: %w", err)
	}
	manifest := raw.toManifest()
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for _, name := range m.TargetOrder {
		if m.Targets[name].Entry == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q requires an entry document", name))
		}
	}
	if m.Output.Locale != "" {
		if _, err := language.Parse(m.Output.Locale); err != nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("output.locale %q is not a valid BCP 47 tag", m.Output.Locale))
		}
	}
	if m.Output.FloatPrecision < -1 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("output.floatPrecision must be -1 or greater, got %d", m.Output.FloatPrecision))
	}
	known := builtins.Standard()
	for _, name := range m.Builtins.Disable {
		if _, ok := known.Lookup(name); ok {
			continue
		}
		issue := fmt.Sprintf("builtins.disable names unknown built-in %q", name)
		if match := rterrors.FindClosestMatch(name, known.Names()); match != "" {
			issue += fmt.Sprintf(" (did you mean %q?)", match)
		}
		errs.Issues = append(errs.Issues, issue)
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// DefaultEntry returns the manifest entry, or the first target's entry when
// no top-level entry is set.
func (m *Manifest) DefaultEntry() (string, error) {
	if m == nil {
		return "", ErrNoEntry
	}
	if m.Entry != "" {
		return m.resolve(m.Entry), nil
	}
	if len(m.TargetOrder) > 0 {
		return m.resolve(m.Targets[m.TargetOrder[0]].Entry), nil
	}
	return "", ErrNoEntry
}

// FindTarget looks up a target by name, case-insensitively.
func (m *Manifest) FindTarget(name string) (*TargetSpec, bool) {
	if m == nil {
		return nil, false
	}
	name = strings.TrimSpace(name)
	if target, ok := m.Targets[name]; ok {
		return target, true
	}
	for _, key := range m.TargetOrder {
		if strings.EqualFold(key, name) {
			return m.Targets[key], true
		}
	}
	return nil, false
}

// TargetEntry resolves a target's entry document relative to the manifest.
func (m *Manifest) TargetEntry(target *TargetSpec) string {
	return m.resolve(target.Entry)
}

// Registry returns the standard built-ins minus builtins.disable.
func (m *Manifest) Registry() *builtins.Registry {
	registry := builtins.Standard()
	if m == nil || len(m.Builtins.Disable) == 0 {
		return registry
	}
	return registry.Without(m.Builtins.Disable...)
}

func (m *Manifest) resolve(entry string) string {
	if filepath.IsAbs(entry) || m.Path == "" {
		return entry
	}
	return filepath.Join(filepath.Dir(m.Path), entry)
}

// FindManifest walks from start up to the filesystem root looking for
// tally.yml.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ManifestFileName, origin, ErrManifestNotFound)
		}
		dir = parent
	}
}

type manifestFile struct {
	Name     string       `yaml:"name"`
	Entry    string       `yaml:"entry"`
	Targets  targetMap    `yaml:"targets"`
	Output   outputYAML   `yaml:"output"`
	Builtins builtinsYAML `yaml:"builtins"`
	Trace    bool         `yaml:"trace"`
}

type outputYAML struct {
	Locale         string `yaml:"locale"`
	FloatPrecision *int   `yaml:"floatPrecision"`
}

type builtinsYAML struct {
	Disable stringList `yaml:"disable"`
}

type targetMap struct {
	items []targetMapEntry
}

type targetMapEntry struct {
	name  string
	entry string
}

func (tm *targetMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		tm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("targets must be a mapping")
	}
	items := make([]targetMapEntry, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valueNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("targets must not use empty keys")
		}
		entry, err := decodeTargetEntry(valueNode)
		if err != nil {
			return fmt.Errorf("target %q: %w", key, err)
		}
		items = append(items, targetMapEntry{name: key, entry: entry})
	}
	tm.items = items
	return nil
}

// decodeTargetEntry accepts either `name: path` or `name: {entry: path}`.
func decodeTargetEntry(value *yaml.Node) (string, error) {
	switch value.Kind {
	case yaml.ScalarNode:
		return strings.TrimSpace(value.Value), nil
	case yaml.MappingNode:
		var raw struct {
			Entry string `yaml:"entry"`
		}
		if err := value.Decode(&raw); err != nil {
			return "", err
		}
		return strings.TrimSpace(raw.Entry), nil
	case yaml.AliasNode:
		return decodeTargetEntry(value.Alias)
	default:
		return "", fmt.Errorf("expected string or mapping, found %s", value.ShortTag())
	}
}

type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			str = strings.TrimSpace(str)
			if str == "" {
				continue
			}
			items = append(items, str)
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("expected string or sequence for list but found %s", value.ShortTag())
	}
}

func (mf manifestFile) toManifest() *Manifest {
	result := &Manifest{
		Name:        strings.TrimSpace(mf.Name),
		Entry:       strings.TrimSpace(mf.Entry),
		Targets:     make(map[string]*TargetSpec, len(mf.Targets.items)),
		TargetOrder: make([]string, 0, len(mf.Targets.items)),
		Output: OutputSettings{
			Locale:         strings.TrimSpace(mf.Output.Locale),
			FloatPrecision: -1,
		},
		Builtins: BuiltinSettings{Disable: append([]string(nil), mf.Builtins.Disable...)},
		Trace:    mf.Trace,
	}
	if mf.Output.FloatPrecision != nil {
		result.Output.FloatPrecision = *mf.Output.FloatPrecision
	}
	for _, item := range mf.Targets.items {
		if _, exists := result.Targets[item.name]; exists {
			continue
		}
		result.Targets[item.name] = &TargetSpec{Name: item.name, Entry: item.entry}
		result.TargetOrder = append(result.TargetOrder, item.name)
	}
	return result
}
