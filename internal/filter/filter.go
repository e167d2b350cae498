// Package filter implements the ordered inclusion rule chain that decides
// which files of a scanned project become source context. Rules are evaluated
// in a fixed sequence and the first failing rule wins; the ordering encodes
// which exclusions an explicit include pattern may override and which it may
// not.
package filter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/lens/internal/types"
)

// FilterVerdict is the outcome of evaluating one candidate path. Reason is
// advisory text for diagnostics and preview output, never control flow.
type FilterVerdict struct {
	Included bool
	Reason   string
}

// IgnoreMatcher matches relative or absolute paths against loaded
// .gitignore semantics.
type IgnoreMatcher interface {
	Match(path string, isDir bool) bool
}

// CandidatePath bundles the path forms rules operate on.
type CandidatePath struct {
	AbsolutePath string
	RelativePath string
	FileName     string
}

// Rule is one predicate of the inclusion chain.
type Rule interface {
	Name() string
	Evaluate(candidate CandidatePath, configuration *types.ScanConfig) FilterVerdict
}

// Chain evaluates candidates against the configured rule sequence.
type Chain struct {
	configuration *types.ScanConfig
	rules         []Rule
}

// NewChain assembles the rule sequence for one scan. The gitignore matcher
// and tracked-path set come from the git collaborators and may be nil, which
// disables the corresponding rules.
func NewChain(configuration *types.ScanConfig, ignoreMatcher IgnoreMatcher, trackedPaths map[string]struct{}) *Chain {
	rules := []Rule{
		alwaysSkipRule{},
		directoryAncestorRule{},
	}
	if ignoreMatcher != nil && (configuration.Mode == types.GitModeGitignore || configuration.Mode == types.GitModeFull) {
		rules = append(rules, gitignoreRule{matcher: ignoreMatcher})
	}
	if trackedPaths != nil && configuration.Mode == types.GitModeFull {
		rules = append(rules, gitTrackingRule{trackedPaths: trackedPaths})
	}
	rules = append(rules, patternRule{}, sizeRule{}, binaryRule{}, defaultPatternRule{})
	if configuration.SkipLargeFiles && configuration.MaxFileChars > 0 {
		rules = append(rules, characterLimitRule{})
	}
	return &Chain{configuration: configuration, rules: rules}
}

// Evaluate runs absolutePath through every rule in order and returns the
// first failing verdict, or an included verdict when all rules pass.
func (chain *Chain) Evaluate(absolutePath string) FilterVerdict {
	candidate, candidateError := chain.candidateFor(absolutePath)
	if candidateError != nil {
		return FilterVerdict{Included: false, Reason: candidateError.Error()}
	}
	for _, rule := range chain.rules {
		verdict := rule.Evaluate(candidate, chain.configuration)
		if !verdict.Included {
			return verdict
		}
	}
	return FilterVerdict{Included: true, Reason: "passed all filters"}
}

// RuleNames returns the names of the assembled rules in evaluation order.
func (chain *Chain) RuleNames() []string {
	names := make([]string, 0, len(chain.rules))
	for _, rule := range chain.rules {
		names = append(names, rule.Name())
	}
	return names
}

func (chain *Chain) candidateFor(absolutePath string) (CandidatePath, error) {
	relativePath, relativeError := filepath.Rel(chain.configuration.RootDirectory, absolutePath)
	if relativeError != nil || strings.HasPrefix(relativePath, "..") {
		return CandidatePath{}, fmt.Errorf("path %s is not under the scan root", absolutePath)
	}
	slashPath := filepath.ToSlash(relativePath)
	return CandidatePath{
		AbsolutePath: absolutePath,
		RelativePath: slashPath,
		FileName:     filepath.Base(absolutePath),
	}, nil
}

// matchesGlob matches value against a single glob pattern. Patterns follow
// filepath.Match semantics; a leading "**/" additionally matches the bare
// remainder and any slash-path ending in it.
func matchesGlob(pattern, value string) bool {
	if matched, matchError := filepath.Match(pattern, value); matchError == nil && matched {
		return true
	}
	if strings.HasPrefix(pattern, "**/") {
		remainder := strings.TrimPrefix(pattern, "**/")
		if matched, matchError := filepath.Match(remainder, value); matchError == nil && matched {
			return true
		}
		if matched, matchError := filepath.Match(remainder, pathBase(value)); matchError == nil && matched {
			return true
		}
	}
	return false
}

// matchesNameOrPath matches the candidate's file name or slash-separated
// relative path against the pattern.
func matchesNameOrPath(pattern string, candidate CandidatePath) bool {
	return matchesGlob(pattern, candidate.FileName) || matchesGlob(pattern, candidate.RelativePath)
}

// matchesAnyPattern reports whether any pattern matches the candidate's name
// or relative path.
func matchesAnyPattern(patterns []string, candidate CandidatePath) bool {
	for _, pattern := range patterns {
		if matchesNameOrPath(pattern, candidate) {
			return true
		}
	}
	return false
}

func pathBase(slashPath string) string {
	if separatorIndex := strings.LastIndex(slashPath, "/"); separatorIndex >= 0 {
		return slashPath[separatorIndex+1:]
	}
	return slashPath
}

// MatchesAnyGlob reports whether any pattern matches the file name or the
// slash-separated relative path.
func MatchesAnyGlob(patterns []string, fileName, relativePath string) bool {
	return matchesAnyPattern(patterns, CandidatePath{FileName: fileName, RelativePath: relativePath})
}

// MatchesIncludePatterns reports whether at least one include pattern accepts
// the file, including the `**/name` suffix form. The enumerator shares this
// with the pattern rule so pre-filtering cannot drop a file the rule would
// keep.
func MatchesIncludePatterns(patterns []string, fileName, relativePath string) bool {
	candidate := CandidatePath{FileName: fileName, RelativePath: relativePath}
	for _, pattern := range patterns {
		if matchesNameOrPath(pattern, candidate) {
			return true
		}
		if strings.Contains(pattern, "**/") && strings.HasSuffix(pattern, fileName) {
			return true
		}
	}
	return false
}
