package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestName is the per-project generation manifest file.
const ManifestName = ".codoc.yaml"

// Manifest tunes generation for one project. All fields are optional;
// CLI flags take precedence over manifest values.
type Manifest struct {
	// Output is the directory generated artifacts are written to.
	Output string `yaml:"output"`
	// Formats lists the artifacts to emit: md, html, docx, json.
	Formats []string `yaml:"formats"`
	// Verbosity is "concise" or "detailed".
	Verbosity string `yaml:"verbosity"`
	// Ignore adds directories the explorer should skip for this project.
	Ignore []string `yaml:"ignore"`
}

// LoadManifest reads .codoc.yaml from dir. A missing file returns (nil, nil).
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	for _, f := range m.Formats {
		switch f {
		case "md", "html", "docx", "json":
		default:
			return fmt.Errorf("unknown format %q (expected md|html|docx|json)", f)
		}
	}
	switch m.Verbosity {
	case "", "concise", "detailed":
	default:
		return fmt.Errorf("unknown verbosity %q (expected concise|detailed)", m.Verbosity)
	}
	return nil
}
