package analyze

import (
	"path/filepath"
	"strings"
)

var extLanguages = map[string]string{
	".py":    "Python",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".java":  "Java",
	".cpp":   "C++",
	".cc":    "C++",
	".cxx":   "C++",
	".c":     "C",
	".h":     "C",
	".cs":    "C#",
	".go":    "Go",
	".rb":    "Ruby",
	".rs":    "Rust",
	".php":   "PHP",
	".kt":    "Kotlin",
	".swift": "Swift",
}

// DetectLanguage guesses a language from a filename extension.
// Returns "" when the extension is unknown.
func DetectLanguage(filename string) string {
	return extLanguages[strings.ToLower(filepath.Ext(filename))]
}

// guessLanguageFromDeps maps a discovered dependency manifest ecosystem
// to a primary language for local projects without GitHub metadata.
func guessLanguageFromDeps(deps map[string]string) string {
	ordered := []struct{ eco, lang string }{
		{"go", "Go"},
		{"python", "Python"},
		{"npm", "JavaScript"},
		{"rust", "Rust"},
		{"java", "Java"},
		{"composer", "PHP"},
		{"ruby", "Ruby"},
		{"dotnet", "C#"},
	}
	for _, o := range ordered {
		if _, ok := deps[o.eco]; ok {
			return o.lang
		}
	}
	return ""
}
