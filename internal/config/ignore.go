// Package config loads the layered application configuration and the
// optional ignore file feeding extra exclude patterns into a scan.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/lens/internal/utils"
)

// LoadIgnoreFilePatterns reads an ignore file and returns its glob patterns.
// Lines are trimmed; blank lines and lines starting with # are skipped. A
// missing file yields no patterns and no error.
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openError := os.Open(ignoreFilePath)
	if openError != nil {
		if os.IsNotExist(openError) {
			return nil, nil
		}
		return nil, openError
	}
	defer func() { _ = fileHandle.Close() }()

	var patterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
			continue
		}
		patterns = append(patterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf("reading %s: %w", ignoreFilePath, scanError)
	}
	return patterns, nil
}

// LoadRootIgnorePatterns merges the exclusion patterns already collected from
// flags and configuration with those in the root's ignore file, dropping
// duplicates while keeping first occurrences.
func LoadRootIgnorePatterns(rootDirectory string, exclusionPatterns []string) ([]string, error) {
	ignoreFilePath := filepath.Join(rootDirectory, utils.IgnoreFileName)
	filePatterns, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
	if loadError != nil {
		return nil, fmt.Errorf("loading %s from %s: %w", utils.IgnoreFileName, rootDirectory, loadError)
	}
	combined := append([]string{}, exclusionPatterns...)
	combined = append(combined, filePatterns...)
	return utils.DeduplicatePatterns(combined), nil
}
