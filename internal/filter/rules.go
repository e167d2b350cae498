package filter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/temirov/lens/internal/types"
	"github.com/temirov/lens/internal/utils"
)

const passedVerdictReason = ""

func passingVerdict() FilterVerdict {
	return FilterVerdict{Included: true, Reason: passedVerdictReason}
}

func rejectingVerdict(reasonFormat string, formatArguments ...any) FilterVerdict {
	return FilterVerdict{Included: false, Reason: fmt.Sprintf(reasonFormat, formatArguments...)}
}

// alwaysSkipRule rejects hardcoded file names before any other rule runs.
type alwaysSkipRule struct{}

func (alwaysSkipRule) Name() string { return "always-skip" }

func (alwaysSkipRule) Evaluate(candidate CandidatePath, _ *types.ScanConfig) FilterVerdict {
	if _, skipped := alwaysSkipFileNames[candidate.FileName]; skipped {
		return rejectingVerdict("always skipped file: %s", candidate.FileName)
	}
	return passingVerdict()
}

// directoryAncestorRule rejects files residing inside an excluded directory.
// Only ancestor segments are checked, never the file's own name, and no later
// rule can override the rejection.
type directoryAncestorRule struct{}

func (directoryAncestorRule) Name() string { return "directory" }

func (directoryAncestorRule) Evaluate(candidate CandidatePath, configuration *types.ScanConfig) FilterVerdict {
	segments := strings.Split(candidate.RelativePath, "/")
	for _, ancestorSegment := range segments[:len(segments)-1] {
		if _, excluded := configuration.ExcludedDirectories[ancestorSegment]; excluded {
			return rejectingVerdict("in excluded directory: %s", ancestorSegment)
		}
		for _, pattern := range configuration.ExcludedPatterns {
			if matchesGlob(pattern, ancestorSegment) {
				return rejectingVerdict("directory matches exclude pattern: %s", pattern)
			}
		}
	}
	return passingVerdict()
}

// gitignoreRule rejects paths matching the loaded .gitignore patterns unless
// an explicit include pattern matches.
type gitignoreRule struct {
	matcher IgnoreMatcher
}

func (gitignoreRule) Name() string { return "gitignore" }

func (rule gitignoreRule) Evaluate(candidate CandidatePath, configuration *types.ScanConfig) FilterVerdict {
	if !rule.ignored(candidate, configuration) {
		return passingVerdict()
	}
	if matchesAnyPattern(configuration.IncludedPatterns, candidate) {
		return passingVerdict()
	}
	return rejectingVerdict("matched .gitignore pattern")
}

// ignored reports whether the candidate or any of its ancestor directories
// matches the loaded patterns. A file inside an ignored directory is ignored.
func (rule gitignoreRule) ignored(candidate CandidatePath, configuration *types.ScanConfig) bool {
	if rule.matcher.Match(candidate.AbsolutePath, false) {
		return true
	}
	ancestorPath := filepath.Dir(candidate.AbsolutePath)
	rootPath := filepath.Clean(configuration.RootDirectory)
	for ancestorPath != rootPath && strings.HasPrefix(ancestorPath, rootPath) {
		if rule.matcher.Match(ancestorPath, true) {
			return true
		}
		parentPath := filepath.Dir(ancestorPath)
		if parentPath == ancestorPath {
			break
		}
		ancestorPath = parentPath
	}
	return false
}

// gitTrackingRule rejects paths absent from the git index unless the file
// name is always included or an explicit include pattern matches.
type gitTrackingRule struct {
	trackedPaths map[string]struct{}
}

func (gitTrackingRule) Name() string { return "git-tracking" }

func (rule gitTrackingRule) Evaluate(candidate CandidatePath, configuration *types.ScanConfig) FilterVerdict {
	if _, tracked := rule.trackedPaths[candidate.RelativePath]; tracked {
		return passingVerdict()
	}
	if IsAlwaysIncludedFileName(candidate.FileName) {
		return passingVerdict()
	}
	if matchesAnyPattern(configuration.IncludedPatterns, candidate) {
		return passingVerdict()
	}
	return rejectingVerdict("not tracked by git")
}

// patternRule applies user exclude patterns and, in include-only mode,
// requires a match against at least one include pattern.
type patternRule struct{}

func (patternRule) Name() string { return "pattern" }

func (patternRule) Evaluate(candidate CandidatePath, configuration *types.ScanConfig) FilterVerdict {
	for _, pattern := range configuration.ExcludedPatterns {
		if matchesNameOrPath(pattern, candidate) {
			return rejectingVerdict("matches exclude pattern: %s", pattern)
		}
	}
	if configuration.IncludeOnlyMode && len(configuration.IncludedPatterns) > 0 {
		if !MatchesIncludePatterns(configuration.IncludedPatterns, candidate.FileName, candidate.RelativePath) {
			return rejectingVerdict("include-only mode: no include pattern matched")
		}
	}
	return passingVerdict()
}

// sizeRule rejects files whose on-disk size exceeds the configured ceiling.
type sizeRule struct{}

func (sizeRule) Name() string { return "size" }

func (sizeRule) Evaluate(candidate CandidatePath, configuration *types.ScanConfig) FilterVerdict {
	if configuration.MaxFileSizeBytes <= 0 {
		return passingVerdict()
	}
	information, statError := os.Stat(candidate.AbsolutePath)
	if statError != nil {
		return rejectingVerdict("cannot stat file")
	}
	if information.Size() > configuration.MaxFileSizeBytes {
		return rejectingVerdict("file too large: %d > %d", information.Size(), configuration.MaxFileSizeBytes)
	}
	return passingVerdict()
}

// binaryRule rejects files whose leading bytes contain a NUL, unless binary
// files were requested.
type binaryRule struct{}

func (binaryRule) Name() string { return "binary" }

func (binaryRule) Evaluate(candidate CandidatePath, configuration *types.ScanConfig) FilterVerdict {
	if configuration.IncludeBinary {
		return passingVerdict()
	}
	isBinary, detectError := utils.IsFileBinary(candidate.AbsolutePath)
	if detectError != nil {
		return rejectingVerdict("cannot read file for binary check")
	}
	if isBinary {
		return rejectingVerdict("binary file detected")
	}
	return passingVerdict()
}

// defaultPatternRule applies the type overrides and built-in denylists.
// Always-include names and enabled overrides pass outright. A disabled
// override grants nothing; explicit include patterns beat the denylists.
type defaultPatternRule struct{}

func (defaultPatternRule) Name() string { return "default-pattern" }

func (defaultPatternRule) Evaluate(candidate CandidatePath, configuration *types.ScanConfig) FilterVerdict {
	if IsAlwaysIncludedFileName(candidate.FileName) {
		return passingVerdict()
	}
	if configuration.TypeOverrides[utils.FileExtension(candidate.FileName)] {
		return passingVerdict()
	}
	if matchesAnyPattern(configuration.IncludedPatterns, candidate) {
		return passingVerdict()
	}
	for _, patternGroup := range defaultPatternGroups {
		for _, pattern := range patternGroup.patterns {
			if matchesGlob(pattern, candidate.FileName) {
				return rejectingVerdict("matches default %s pattern: %s", patternGroup.label, pattern)
			}
		}
	}
	return passingVerdict()
}

// characterLimitRule reads the full file and rejects it when the decoded
// character count exceeds the per-file ceiling. The read is repeated later by
// the content reader; the duplication is intentional.
type characterLimitRule struct{}

func (characterLimitRule) Name() string { return "character-limit" }

func (characterLimitRule) Evaluate(candidate CandidatePath, configuration *types.ScanConfig) FilterVerdict {
	fileBytes, readError := os.ReadFile(candidate.AbsolutePath)
	if readError != nil {
		return rejectingVerdict("cannot read file for character count")
	}
	characterCount := utf8.RuneCountInString(utils.DecodeText(fileBytes))
	if characterCount > configuration.MaxFileChars {
		return rejectingVerdict("file exceeds character limit: %d > %d", characterCount, configuration.MaxFileChars)
	}
	return passingVerdict()
}
