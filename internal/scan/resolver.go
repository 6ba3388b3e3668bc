package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// DependencyFileMapping defines fallback candidates per ecosystem.
var DependencyFileMapping = map[string][]string{
	"composer": {"composer.json", "composer.lock"},
	"npm":      {"package.json", "package-lock.json", "yarn.lock"},
	"python":   {"requirements.txt", "pyproject.toml", "setup.py", "Pipfile"},
	"go":       {"go.mod", "go.sum"},
	"rust":     {"Cargo.toml", "Cargo.lock"},
	"java":     {"pom.xml", "build.gradle", "build.gradle.kts"},
	"dotnet":   {"*.csproj", "*.sln", "project.json"},
	"ruby":     {"Gemfile", "Gemfile.lock", "*.gemspec"},
}

// CommonConfigFiles are project files worth surfacing even when no
// dependency manifest mentions them.
var CommonConfigFiles = []string{
	"README.md", "README.txt", "README.rst",
	"LICENSE", "LICENSE.txt", "LICENSE.md",
	"CHANGELOG.md", "CHANGELOG.txt",
	"docker-compose.yml", "docker-compose.yaml", "Dockerfile",
	".gitignore", ".env.example",
	"Makefile", "makefile",
}

// Resolver finds the best available file for a request, with fallback
// alternatives and a per-file retry ceiling.
type Resolver struct {
	projectPath      string
	maxRetryAttempts int

	failedAttempts  map[string]int
	availableFiles  map[string]bool
	dependencyFiles map[string]string
	projectHint     string
}

// NewResolver creates a Resolver rooted at projectPath.
func NewResolver(projectPath string, maxRetryAttempts int) *Resolver {
	if maxRetryAttempts <= 0 {
		maxRetryAttempts = 3
	}
	return &Resolver{
		projectPath:      projectPath,
		maxRetryAttempts: maxRetryAttempts,
		failedAttempts:   make(map[string]int),
		availableFiles:   make(map[string]bool),
		dependencyFiles:  make(map[string]string),
	}
}

// SetProjectHint records the estimated project type; alternatives for
// vague requests are picked from the matching ecosystem.
func (r *Resolver) SetProjectHint(hint string) {
	r.projectHint = strings.ToLower(hint)
}

// Resolve returns the relative path of the best existing file for the
// requested one, or an error when nothing suitable exists.
func (r *Resolver) Resolve(requestedFile string) (string, error) {
	if r.failedAttempts[requestedFile] >= r.maxRetryAttempts {
		return "", fmt.Errorf("file %q has exceeded maximum retry attempts (%d)", requestedFile, r.maxRetryAttempts)
	}

	if r.fileExists(requestedFile) {
		r.availableFiles[requestedFile] = true
		return requestedFile, nil
	}

	for _, alt := range r.alternatives(requestedFile) {
		if r.fileExists(alt) {
			logrus.Infof("Found alternative for '%s': '%s'", requestedFile, alt)
			r.availableFiles[alt] = true
			return alt, nil
		}
	}

	r.failedAttempts[requestedFile]++
	return "", fmt.Errorf("file %q not found and no suitable alternatives available", requestedFile)
}

func (r *Resolver) alternatives(requestedFile string) []string {
	lower := strings.ToLower(requestedFile)
	var alts []string

	if strings.Contains(lower, "composer") {
		alts = append(alts, DependencyFileMapping["composer"]...)
	}
	if strings.Contains(lower, "package") {
		alts = append(alts, DependencyFileMapping["npm"]...)
	}
	if strings.Contains(lower, "requirements") || strings.Contains(lower, "setup") {
		alts = append(alts, DependencyFileMapping["python"]...)
	}

	switch {
	case strings.Contains(r.projectHint, "go"):
		alts = append(alts, DependencyFileMapping["go"]...)
	case strings.Contains(r.projectHint, "node"),
		strings.Contains(r.projectHint, "react"),
		strings.Contains(r.projectHint, "javascript"):
		alts = append(alts, DependencyFileMapping["npm"]...)
	case strings.Contains(r.projectHint, "python"):
		alts = append(alts, DependencyFileMapping["python"]...)
	case strings.Contains(r.projectHint, "rust"):
		alts = append(alts, DependencyFileMapping["rust"]...)
	case strings.Contains(r.projectHint, "java"):
		alts = append(alts, DependencyFileMapping["java"]...)
	}

	return dedupe(alts)
}

// Discover scans the project root for dependency manifests and common
// config files, recording what is available.
func (r *Resolver) Discover() {
	logrus.Info("Discovering available project files...")

	for depType, files := range DependencyFileMapping {
		for _, file := range files {
			if strings.Contains(file, "*") {
				matches, _ := filepath.Glob(filepath.Join(r.projectPath, file))
				for _, m := range matches {
					rel, err := filepath.Rel(r.projectPath, m)
					if err != nil {
						continue
					}
					r.dependencyFiles[depType] = rel
					r.availableFiles[rel] = true
				}
				continue
			}
			if r.fileExists(file) {
				r.dependencyFiles[depType] = file
				r.availableFiles[file] = true
			}
		}
	}

	for _, file := range CommonConfigFiles {
		if r.fileExists(file) {
			r.availableFiles[file] = true
		}
	}

	logrus.Infof("File discovery complete. Found %d available files", len(r.availableFiles))
}

// AvailableFiles returns the discovered files sorted for stable output.
func (r *Resolver) AvailableFiles() []string {
	files := make([]string, 0, len(r.availableFiles))
	for f := range r.availableFiles {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// DependencyFiles maps ecosystem names to the manifest found for each.
func (r *Resolver) DependencyFiles() map[string]string {
	out := make(map[string]string, len(r.dependencyFiles))
	for k, v := range r.dependencyFiles {
		out[k] = v
	}
	return out
}

func (r *Resolver) fileExists(relPath string) bool {
	info, err := os.Stat(filepath.Join(r.projectPath, relPath))
	return err == nil && !info.IsDir()
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
