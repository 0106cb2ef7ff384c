// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Template file loading

package mutation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the template file looked up inside a template bundle
const DefaultFileName = "mutations.yaml"

// fileFormat is the on-disk layout. Either sites or a legacy format string
// may be given, not both.
type fileFormat struct {
	Structure string `yaml:"structure,omitempty"`
	Sites     []Site `yaml:"sites,omitempty"`
	Format    string `yaml:"format,omitempty"`
}

// LoadFile reads a YAML template file and validates it
func LoadFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	tmpl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid template file %s: %w", path, err)
	}
	return tmpl, nil
}

// Parse decodes a YAML template document
func Parse(data []byte) (*Template, error) {
	var raw fileFormat
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if raw.Format != "" && len(raw.Sites) > 0 {
		return nil, fmt.Errorf("%w: both sites and format are set", ErrInvalidSite)
	}

	var tmpl *Template
	if raw.Format != "" {
		parsed, err := ParseLegacy(raw.Format)
		if err != nil {
			return nil, err
		}
		tmpl = parsed
	} else {
		tmpl = &Template{Sites: raw.Sites}
		if err := tmpl.Validate(); err != nil {
			return nil, err
		}
	}
	tmpl.Structure = raw.Structure

	return tmpl, nil
}

// Marshal encodes the template as YAML, in the sites form
func (t *Template) Marshal() ([]byte, error) {
	return yaml.Marshal(fileFormat{Structure: t.Structure, Sites: t.Sites})
}
