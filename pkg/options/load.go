package options

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Parse decodes an options tree. format is "json", "yaml"/"yml" or "toml".
func Parse(b []byte, format string) (Options, error) {
	var o map[string]any
	var err error
	switch strings.ToLower(format) {
	case "json":
		err = json.Unmarshal(b, &o)
	case "yaml", "yml":
		err = yaml.Unmarshal(b, &o)
	case "toml":
		_, err = toml.Decode(string(b), &o)
	default:
		return nil, fmt.Errorf("unsupported options format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s options: %w", format, err)
	}
	return Options(o), nil
}

// Load reads an options file; the format follows the extension.
func Load(path string) (Options, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}
	return Parse(b, strings.TrimPrefix(filepath.Ext(path), "."))
}
