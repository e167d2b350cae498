// Package scan walks a project tree, filters candidate files through the
// inclusion rules, and reads the survivors into file records.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/lens/internal/filter"
	"github.com/temirov/lens/internal/types"
)

// Enumeration holds the outcome of walking the scan root: file paths that
// survived the coarse pre-filter plus the raw count of visited entries.
type Enumeration struct {
	CandidatePaths  []string
	TotalCandidates int
}

// EnumeratePaths walks the root directory and collects candidate file paths.
// Excluded directories, directories matching an exclude pattern, and ignored
// directories are pruned here for speed; the filter chain re-validates every
// surviving path and stays authoritative. Symbolic links are never followed.
// An untraversable root is the only fatal condition; unreadable entries below
// it are skipped silently.
func EnumeratePaths(configuration *types.ScanConfig, ignoreMatcher filter.IgnoreMatcher) (Enumeration, error) {
	rootInformation, rootError := os.Stat(configuration.RootDirectory)
	if rootError != nil {
		return Enumeration{}, fmt.Errorf("cannot scan %s: %w", configuration.RootDirectory, rootError)
	}
	if !rootInformation.IsDir() {
		return Enumeration{}, fmt.Errorf("%s is not a directory", configuration.RootDirectory)
	}

	// Ignored directories may only be pruned when no include pattern could
	// override the gitignore rule for a file inside them.
	pruneIgnoredDirectories := ignoreMatcher != nil &&
		configuration.Mode != types.GitModeNone &&
		len(configuration.IncludedPatterns) == 0
	restrictToIncludePatterns := configuration.IncludeOnlyMode && len(configuration.IncludedPatterns) > 0

	enumeration := Enumeration{}
	walkError := filepath.WalkDir(configuration.RootDirectory, func(currentPath string, entry fs.DirEntry, entryError error) error {
		if currentPath == configuration.RootDirectory {
			return entryError
		}
		if entryError != nil {
			return nil
		}
		enumeration.TotalCandidates++
		if entry.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		relativePath, relativeError := filepath.Rel(configuration.RootDirectory, currentPath)
		if relativeError != nil {
			return nil
		}
		slashPath := filepath.ToSlash(relativePath)
		if configuration.MaxDepth > 0 && strings.Count(slashPath, "/")+1 > configuration.MaxDepth {
			if entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			if _, excluded := configuration.ExcludedDirectories[entry.Name()]; excluded {
				return fs.SkipDir
			}
			if filter.MatchesAnyGlob(configuration.ExcludedPatterns, entry.Name(), slashPath) {
				return fs.SkipDir
			}
			if pruneIgnoredDirectories && ignoreMatcher.Match(currentPath, true) {
				return fs.SkipDir
			}
			return nil
		}
		if restrictToIncludePatterns && !filter.MatchesIncludePatterns(configuration.IncludedPatterns, entry.Name(), slashPath) {
			return nil
		}
		enumeration.CandidatePaths = append(enumeration.CandidatePaths, currentPath)
		return nil
	})
	if walkError != nil {
		return Enumeration{}, fmt.Errorf("cannot scan %s: %w", configuration.RootDirectory, walkError)
	}
	return enumeration, nil
}
