package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteJSON marshals v with indentation and writes it to path,
// creating parent directories and enforcing the .json suffix.
func WriteJSON(path string, v any) (string, error) {
	if !strings.HasSuffix(path, ".json") {
		path += ".json"
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("writing JSON file: %w", err)
	}
	return path, nil
}
