package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a catalog from a file. The format is chosen by extension:
// .yml/.yaml parse as YAML, everything else as JSON.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return parseYAML(data)
	default:
		return ParseBytes(data)
	}
}

// Parse reads catalog JSON from a reader.
func Parse(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses a catalog from a byte slice. Input starting with '{'
// is treated as JSON, anything else as YAML.
func ParseBytes(data []byte) (*Catalog, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var cat Catalog
		if err := json.Unmarshal(data, &cat); err != nil {
			return nil, fmt.Errorf("failed to parse catalog: %w", err)
		}
		return &cat, validate(&cat)
	}
	return parseYAML(data)
}

func parseYAML(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &cat, validate(&cat)
}

// validate checks each function entry for structural problems. Validation
// is per-function so one malformed entry is reported against its own name
// rather than corrupting the rest of the catalog.
func validate(cat *Catalog) error {
	if cat.Functions == nil {
		return fmt.Errorf("catalog has no functions key")
	}
	for name, fn := range cat.Functions {
		if err := validateFunction(&fn); err != nil {
			return fmt.Errorf("function %s: %w", name, err)
		}
	}
	return nil
}

func validateFunction(fn *Function) error {
	for i, p := range fn.Parameters {
		if p.Name == "" {
			return fmt.Errorf("parameter %d: missing name", i)
		}
		if p.Direction == "" {
			return fmt.Errorf("parameter %s: missing direction", p.Name)
		}
		if p.Type == "" && !p.RepeatingArgument {
			return fmt.Errorf("parameter %s: missing type", p.Name)
		}
		if p.Size != nil && p.Size.Value == "" {
			return fmt.Errorf("parameter %s: size descriptor has no value", p.Name)
		}
	}
	return nil
}
