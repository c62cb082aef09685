// Package config loads ctxmap project settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/ctxmap/bundler"
	"github.com/LegacyCodeHQ/ctxmap/contextmap"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the project root when no path is given.
const DefaultFileName = ".ctxmap.yaml"

// File is the decoded configuration file.
type File struct {
	// Entries are the modules compilation starts from, relative to the root.
	Entries []string `yaml:"entries"`
	// Contexts configures one static context override each.
	Contexts []contextmap.Config `yaml:"contexts"`
}

// Parse decodes and validates a configuration payload. An empty payload is
// an empty configuration.
func Parse(data []byte) (File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return File{}, nil
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f.Normalized(), nil
}

// Load reads the configuration at path. A relative path is taken from root.
// When path is empty the default file in root is used, and a missing default
// file yields an empty configuration.
func Load(root, path string) (File, error) {
	explicit := path != ""
	switch {
	case !explicit:
		path = filepath.Join(root, DefaultFileName)
	case !filepath.IsAbs(path):
		path = filepath.Join(root, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return f, nil
}

// Validate checks every context override.
func (f File) Validate() error {
	for i, c := range f.Contexts {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("contexts[%d]: %w", i, err)
		}
	}
	for i, entry := range f.Entries {
		if strings.TrimSpace(entry) == "" {
			return fmt.Errorf("entries[%d]: entry is empty", i)
		}
	}
	return nil
}

// Normalized returns a copy with trimmed entries.
func (f File) Normalized() File {
	clone := File{Contexts: f.Contexts}
	if len(f.Entries) > 0 {
		clone.Entries = make([]string, len(f.Entries))
		for i, entry := range f.Entries {
			clone.Entries[i] = strings.TrimSpace(entry)
		}
	}
	return clone
}

// Plugins builds one static context plugin per configured override, in file order.
func (f File) Plugins() ([]bundler.Plugin, error) {
	plugins := make([]bundler.Plugin, 0, len(f.Contexts))
	for i, c := range f.Contexts {
		p, err := contextmap.New(c)
		if err != nil {
			return nil, fmt.Errorf("contexts[%d]: %w", i, err)
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

// Encode renders f as YAML in the layout Load reads.
func (f File) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	return buf.Bytes(), nil
}
