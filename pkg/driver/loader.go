package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tally/interpreter-go/pkg/ast"
)

// Format is the encoding of a program document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the document format from a file extension. Unknown
// extensions are read as YAML, which also accepts JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// DecodeProgram decodes a program document in the given format.
func DecodeProgram(data []byte, format Format) (*ast.Block, error) {
	switch format {
	case FormatJSON:
		return DecodeProgramJSON(data)
	case FormatYAML:
		return DecodeProgramYAML(data)
	default:
		return nil, fmt.Errorf("unsupported program format %q", format)
	}
}

// LoadProgram reads and decodes the program document at path.
func LoadProgram(path string) (*ast.Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program %s: %w", path, err)
	}
	program, err := DecodeProgram(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return program, nil
}
