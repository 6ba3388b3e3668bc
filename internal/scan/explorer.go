// Package scan explores local projects: directory structure, file
// contents and important-file discovery feeding the documentation
// analyzer.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codoc/internal/config"
)

// Explorer walks a project tree honoring the configured ignore rules.
type Explorer struct {
	ignoreDirs       map[string]bool
	ignoreExtensions map[string]bool
	ignorePrefixes   []string
	maxDepth         int
}

// NewExplorer builds an Explorer from the explorer configuration.
// extraIgnoreDirs come from a project's .codoc.yaml manifest.
func NewExplorer(cfg config.ExplorerConfig, maxDepth int, extraIgnoreDirs ...string) *Explorer {
	ignoreDirs := make(map[string]bool)
	for _, dir := range cfg.IgnoreDirs {
		ignoreDirs[dir] = true
	}
	for _, dir := range extraIgnoreDirs {
		ignoreDirs[dir] = true
	}
	ignoreExtensions := make(map[string]bool)
	for _, ext := range cfg.IgnoreExtensions {
		ignoreExtensions[ext] = true
	}

	return &Explorer{
		ignoreDirs:       ignoreDirs,
		ignoreExtensions: ignoreExtensions,
		ignorePrefixes:   cfg.IgnorePrefixes,
		maxDepth:         maxDepth,
	}
}

// DirectoryStructure returns the project tree as nested maps. Files map
// to a size string, directories to a sub-map. Depth is limited and
// ignored entries are skipped.
func (e *Explorer) DirectoryStructure(rootDir string) (map[string]any, error) {
	return e.walk(rootDir, 0)
}

func (e *Explorer) walk(dir string, depth int) (map[string]any, error) {
	structure := make(map[string]any)
	if depth >= e.maxDepth {
		structure["..."] = fmt.Sprintf("(depth limit %d reached)", e.maxDepth)
		return structure, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot list directory %q: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()

		if e.ignoreDirs[name] {
			continue
		}
		if e.hasIgnoredPrefix(name) {
			continue
		}

		if entry.IsDir() {
			sub, err := e.walk(filepath.Join(dir, name), depth+1)
			if err != nil {
				structure[name+"/"] = fmt.Sprintf("access error: %v", err)
			} else {
				structure[name+"/"] = sub
			}
			continue
		}

		ext := strings.ToLower(filepath.Ext(name))
		if e.ignoreExtensions[ext] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			structure[name] = "stat error"
			continue
		}
		structure[name] = fmt.Sprintf("%d bytes", info.Size())
	}
	return structure, nil
}

func (e *Explorer) hasIgnoredPrefix(name string) bool {
	for _, prefix := range e.ignorePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
