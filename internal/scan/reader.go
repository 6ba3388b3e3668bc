package scan

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// ReadFileContent reads a file with binary detection and a size cap.
// Files over maxSize are returned as head+tail halves around a
// truncation marker so prompts never blow up on large files.
func ReadFileContent(absFilepath string, maxSize int64) (string, error) {
	fileInfo, err := os.Stat(absFilepath)
	if err != nil {
		return "", fmt.Errorf("file not found or stat error: %w", err)
	}
	if fileInfo.IsDir() {
		return "", fmt.Errorf("path %q is a directory, not a file", absFilepath)
	}

	// Binary sniff: a NUL byte in the first KiB disqualifies the file.
	file, err := os.Open(absFilepath)
	if err != nil {
		return "", fmt.Errorf("cannot open file for binary check: %w", err)
	}
	buffer := make([]byte, 1024)
	n, _ := file.Read(buffer)
	file.Close()
	for i := 0; i < n; i++ {
		if buffer[i] == 0 {
			return "", fmt.Errorf("file %q appears to be binary", filepath.Base(absFilepath))
		}
	}

	content, err := os.ReadFile(absFilepath)
	if err != nil {
		return "", fmt.Errorf("error reading file: %w", err)
	}

	if maxSize > 0 && fileInfo.Size() > maxSize {
		logrus.Warnf("File '%s' (%d bytes) is too large. Reading partially.", filepath.Base(absFilepath), fileInfo.Size())
		half := int(maxSize) / 2
		head := string(content[:half])
		tail := string(content[len(content)-half:])
		return fmt.Sprintf("%s\n\n[... content truncated (file too large) ...]\n\n%s", head, tail), nil
	}

	logrus.Debugf("Read complete file '%s' (%d bytes).", filepath.Base(absFilepath), fileInfo.Size())
	return string(content), nil
}
