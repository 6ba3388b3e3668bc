package scan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFileContent_Small(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "small.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	content, err := ReadFileContent(path, 1024)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if content != "hello world" {
		t.Errorf("Expected full content, got: %q", content)
	}
}

func TestReadFileContent_Binary(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "binary.bin")
	if err := os.WriteFile(path, []byte{0x89, 0x50, 0x00, 0x47}, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := ReadFileContent(path, 1024)
	if err == nil {
		t.Error("Expected error for binary file, got nil")
	}
}

func TestReadFileContent_Truncated(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "big.txt")
	big := strings.Repeat("a", 500) + strings.Repeat("z", 500)
	if err := os.WriteFile(path, []byte(big), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	content, err := ReadFileContent(path, 100)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(content, "content truncated") {
		t.Error("Expected truncation marker in content")
	}
	if !strings.HasPrefix(content, "aaaa") {
		t.Error("Expected head of file before marker")
	}
	if !strings.HasSuffix(content, "zzzz") {
		t.Error("Expected tail of file after marker")
	}
	if len(content) >= len(big) {
		t.Error("Expected truncated content to be shorter than the file")
	}
}

func TestReadFileContent_Directory(t *testing.T) {
	tempDir := t.TempDir()
	_, err := ReadFileContent(tempDir, 1024)
	if err == nil {
		t.Error("Expected error for directory path, got nil")
	}
}

func TestReadFileContent_Missing(t *testing.T) {
	_, err := ReadFileContent(filepath.Join(t.TempDir(), "nope.txt"), 1024)
	if err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}
