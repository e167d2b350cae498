package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// HomeShortenedPath replaces a leading user-home prefix with "~" for display.
func HomeShortenedPath(path string) string {
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil || homeDirectory == EmptyString {
		return path
	}
	if path == homeDirectory {
		return "~"
	}
	separatedHome := homeDirectory + string(os.PathSeparator)
	if strings.HasPrefix(path, separatedHome) {
		return "~" + string(os.PathSeparator) + strings.TrimPrefix(path, separatedHome)
	}
	return path
}

// FileExtension returns the lower-cased extension of name including the dot,
// or the empty string when the name has none.
func FileExtension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// DecodeText converts raw file bytes into a string, dropping byte sequences
// that are not valid UTF-8. The result is always valid UTF-8.
func DecodeText(data []byte) string {
	return strings.ToValidUTF8(string(data), EmptyString)
}
