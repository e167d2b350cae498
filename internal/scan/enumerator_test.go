package scan_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/lens/internal/filter"
	"github.com/temirov/lens/internal/scan"
	"github.com/temirov/lens/internal/types"
)

type suffixIgnoreMatcher struct {
	ignoredSuffixes []string
}

func (matcher suffixIgnoreMatcher) Match(path string, _ bool) bool {
	for _, suffix := range matcher.ignoredSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

func newEnumerationConfiguration(rootDirectory string) *types.ScanConfig {
	return &types.ScanConfig{
		RootDirectory:       rootDirectory,
		Mode:                types.GitModeNone,
		ExcludedDirectories: filter.DefaultExcludedDirectorySet(),
	}
}

func candidateSet(enumeration scan.Enumeration, rootDirectory string) map[string]bool {
	candidates := map[string]bool{}
	for _, candidatePath := range enumeration.CandidatePaths {
		relativePath, _ := filepath.Rel(rootDirectory, candidatePath)
		candidates[filepath.ToSlash(relativePath)] = true
	}
	return candidates
}

func TestEnumeratePathsCountsAndPrunes(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, "main.go"), "package main")
	writeTestFile(t, filepath.Join(rootDirectory, "README.md"), "# readme")
	writeTestFile(t, filepath.Join(rootDirectory, "node_modules", "junk.js"), "junk")

	enumeration, enumerationError := scan.EnumeratePaths(newEnumerationConfiguration(rootDirectory), nil)
	if enumerationError != nil {
		t.Fatalf("unexpected enumeration error: %v", enumerationError)
	}

	// Two files plus the pruned directory entry itself.
	if enumeration.TotalCandidates != 3 {
		t.Fatalf("expected 3 visited entries, got %d", enumeration.TotalCandidates)
	}
	candidates := candidateSet(enumeration, rootDirectory)
	if !candidates["main.go"] || !candidates["README.md"] {
		t.Fatalf("expected top-level files as candidates, got %v", candidates)
	}
	if candidates["node_modules/junk.js"] {
		t.Fatal("expected node_modules to be pruned")
	}
}

func TestEnumeratePathsDepthLimit(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, "a.go"), "package a")
	writeTestFile(t, filepath.Join(rootDirectory, "sub", "b.go"), "package b")
	writeTestFile(t, filepath.Join(rootDirectory, "sub", "deep", "c.go"), "package c")

	configuration := newEnumerationConfiguration(rootDirectory)
	configuration.MaxDepth = 2
	enumeration, enumerationError := scan.EnumeratePaths(configuration, nil)
	if enumerationError != nil {
		t.Fatalf("unexpected enumeration error: %v", enumerationError)
	}
	candidates := candidateSet(enumeration, rootDirectory)
	if !candidates["a.go"] || !candidates["sub/b.go"] {
		t.Fatalf("expected files within depth 2, got %v", candidates)
	}
	if candidates["sub/deep/c.go"] {
		t.Fatal("expected files beyond the depth limit to be dropped")
	}
}

func TestEnumeratePathsSkipsSymlinks(t *testing.T) {
	rootDirectory := t.TempDir()
	targetPath := filepath.Join(rootDirectory, "main.go")
	writeTestFile(t, targetPath, "package main")
	linkPath := filepath.Join(rootDirectory, "link.go")
	if symlinkError := os.Symlink(targetPath, linkPath); symlinkError != nil {
		t.Skipf("symlinks unavailable: %v", symlinkError)
	}

	enumeration, enumerationError := scan.EnumeratePaths(newEnumerationConfiguration(rootDirectory), nil)
	if enumerationError != nil {
		t.Fatalf("unexpected enumeration error: %v", enumerationError)
	}
	if enumeration.TotalCandidates != 2 {
		t.Fatalf("expected the symlink to be counted, got %d entries", enumeration.TotalCandidates)
	}
	candidates := candidateSet(enumeration, rootDirectory)
	if candidates["link.go"] {
		t.Fatal("expected the symlink to be excluded from candidates")
	}
}

func TestEnumeratePathsPrunesIgnoredDirectories(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, "main.go"), "package main")
	writeTestFile(t, filepath.Join(rootDirectory, "artifacts", "out.go"), "package out")

	ignoreMatcher := suffixIgnoreMatcher{ignoredSuffixes: []string{string(os.PathSeparator) + "artifacts"}}

	prunedConfiguration := newEnumerationConfiguration(rootDirectory)
	prunedConfiguration.Mode = types.GitModeGitignore
	prunedEnumeration, prunedError := scan.EnumeratePaths(prunedConfiguration, ignoreMatcher)
	if prunedError != nil {
		t.Fatalf("unexpected enumeration error: %v", prunedError)
	}
	if candidates := candidateSet(prunedEnumeration, rootDirectory); candidates["artifacts/out.go"] {
		t.Fatal("expected the ignored directory to be pruned")
	}

	// Include patterns could override the gitignore rule, so pruning is
	// disabled and the filter chain decides.
	overriddenConfiguration := newEnumerationConfiguration(rootDirectory)
	overriddenConfiguration.Mode = types.GitModeGitignore
	overriddenConfiguration.IncludedPatterns = []string{"out.go"}
	overriddenEnumeration, overriddenError := scan.EnumeratePaths(overriddenConfiguration, ignoreMatcher)
	if overriddenError != nil {
		t.Fatalf("unexpected enumeration error: %v", overriddenError)
	}
	if candidates := candidateSet(overriddenEnumeration, rootDirectory); !candidates["artifacts/out.go"] {
		t.Fatal("expected ignored directory contents to reach the filter chain when include patterns exist")
	}
}

func TestEnumeratePathsIncludeOnlyPreFilter(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, "keep.go"), "package keep")
	writeTestFile(t, filepath.Join(rootDirectory, "drop.txt"), "drop")

	configuration := newEnumerationConfiguration(rootDirectory)
	configuration.IncludeOnlyMode = true
	configuration.IncludedPatterns = []string{"*.go"}
	enumeration, enumerationError := scan.EnumeratePaths(configuration, nil)
	if enumerationError != nil {
		t.Fatalf("unexpected enumeration error: %v", enumerationError)
	}
	candidates := candidateSet(enumeration, rootDirectory)
	if !candidates["keep.go"] || candidates["drop.txt"] {
		t.Fatalf("expected only include matches as candidates, got %v", candidates)
	}
	if enumeration.TotalCandidates != 2 {
		t.Fatalf("expected both files counted, got %d", enumeration.TotalCandidates)
	}
}

func TestEnumeratePathsFatalRoot(t *testing.T) {
	missingConfiguration := newEnumerationConfiguration(filepath.Join(t.TempDir(), "missing"))
	if _, enumerationError := scan.EnumeratePaths(missingConfiguration, nil); enumerationError == nil {
		t.Fatal("expected an error for a missing root")
	}

	rootDirectory := t.TempDir()
	filePath := filepath.Join(rootDirectory, "file.txt")
	writeTestFile(t, filePath, "content")
	fileConfiguration := newEnumerationConfiguration(filePath)
	if _, enumerationError := scan.EnumeratePaths(fileConfiguration, nil); enumerationError == nil {
		t.Fatal("expected an error when the root is a file")
	}
}
