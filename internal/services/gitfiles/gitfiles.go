// Package gitfiles loads repository metadata used to narrow scans: the
// .gitignore matcher for the scan root and the set of paths tracked in the
// repository index.
package gitfiles

import (
	"errors"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	gitignore "github.com/monochromegane/go-gitignore"

	"github.com/temirov/lens/internal/filter"
	"github.com/temirov/lens/internal/utils"
)

// LoadIgnoreMatcher parses the .gitignore at the scan root. It returns nil
// when the file is absent or unreadable, in which case no gitignore filtering
// applies.
func LoadIgnoreMatcher(rootDirectory string) filter.IgnoreMatcher {
	gitignorePath := filepath.Join(rootDirectory, utils.GitIgnoreFileName)
	ignoreMatcher, parseError := gitignore.NewGitIgnore(gitignorePath)
	if parseError != nil {
		return nil
	}
	return ignoreMatcher
}

// LoadTrackedPaths returns the slash-separated paths recorded in the
// repository index, relative to rootDirectory. Paths tracked outside the scan
// root are dropped. The result is nil when rootDirectory is not inside a
// repository.
func LoadTrackedPaths(rootDirectory string) (map[string]struct{}, error) {
	repository, openError := git.PlainOpenWithOptions(rootDirectory, &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		if errors.Is(openError, git.ErrRepositoryNotExists) {
			return nil, nil
		}
		return nil, openError
	}
	worktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		return nil, worktreeError
	}
	repositoryRoot := worktree.Filesystem.Root()
	repositoryIndex, indexError := repository.Storer.Index()
	if indexError != nil {
		return nil, indexError
	}
	absoluteRoot, absoluteError := filepath.Abs(rootDirectory)
	if absoluteError != nil {
		return nil, absoluteError
	}
	trackedPaths := make(map[string]struct{}, len(repositoryIndex.Entries))
	for _, indexEntry := range repositoryIndex.Entries {
		absoluteEntryPath := filepath.Join(repositoryRoot, filepath.FromSlash(indexEntry.Name))
		relativePath, relativeError := filepath.Rel(absoluteRoot, absoluteEntryPath)
		if relativeError != nil || strings.HasPrefix(relativePath, "..") {
			continue
		}
		trackedPaths[filepath.ToSlash(relativePath)] = struct{}{}
	}
	return trackedPaths, nil
}
