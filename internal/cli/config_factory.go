package cli

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/lens/internal/filter"
	"github.com/temirov/lens/internal/types"
	"github.com/temirov/lens/internal/utils"
)

const (
	invalidGitModeFormat     = "invalid git mode '%s'; accepted values: %s, %s, %s"
	invalidSizeWarningFormat = "Invalid size format: %s"

	markdownSampleLimit    = 100
	markdownShareThreshold = 0.5
)

// documentationDirectoryIndicators flag scan roots that are documentation
// trees by name, which turns markdown inclusion on without a flag.
var documentationDirectoryIndicators = []string{
	"docs", "documentation", "doc", "guide", "manual", "readme", "wiki", "help",
}

var markdownSampleExtensions = map[string]struct{}{
	".md":       {},
	".markdown": {},
	".rst":      {},
}

// targetedDirectoryExtensions are forced on when the scan root differs from
// the working directory. Pointing the tool at a subdirectory signals interest
// in everything there, including formats excluded at the project level.
var targetedDirectoryExtensions = []string{
	".txt", ".log", ".sh", ".bash", ".zsh", ".fish",
	".ps1", ".bat", ".cmd", ".ini", ".cfg", ".conf",
	".properties", ".toml", ".lock",
}

// scanConfigurationInputs carries everything buildScanConfiguration needs
// beyond the raw flag values. GitModeExplicit records whether the git mode
// was chosen by the user rather than defaulted, which suppresses markdown
// auto-inclusion for explicit "none".
type scanConfigurationInputs struct {
	RootDirectory    string
	WorkingDirectory string
	Options          scanOptions
	GitModeExplicit  bool
}

func parseGitMode(value string) (types.GitMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case string(types.GitModeNone), "":
		return types.GitModeNone, nil
	case string(types.GitModeGitignore):
		return types.GitModeGitignore, nil
	case string(types.GitModeFull):
		return types.GitModeFull, nil
	default:
		return types.GitModeNone, fmt.Errorf(invalidGitModeFormat, value, types.GitModeNone, types.GitModeGitignore, types.GitModeFull)
	}
}

// buildScanConfiguration translates flag values into the immutable scan
// configuration. Malformed size limits are logged and treated as unlimited.
func buildScanConfiguration(inputs scanConfigurationInputs, loggerInstance *zap.Logger) (*types.ScanConfig, error) {
	gitMode, gitModeError := parseGitMode(inputs.Options.gitMode)
	if gitModeError != nil {
		return nil, gitModeError
	}

	maxSizeBytes, sizeError := utils.ParseSizeLimit(inputs.Options.maxSize)
	if sizeError != nil && loggerInstance != nil {
		loggerInstance.Warn(fmt.Sprintf(invalidSizeWarningFormat, inputs.Options.maxSize))
	}

	targeted := isTargetedDirectory(inputs.RootDirectory, inputs.WorkingDirectory)
	autoMarkdown := shouldAutoIncludeMarkdown(inputs.RootDirectory, inputs.Options, gitMode, inputs.GitModeExplicit)

	excludedDirectories := filter.DefaultExcludedDirectorySet()
	for _, directoryName := range inputs.Options.excludeDirectories {
		trimmed := strings.TrimSpace(directoryName)
		if trimmed != "" {
			excludedDirectories[trimmed] = struct{}{}
		}
	}

	excludedPatterns := append([]string(nil), inputs.Options.excludePatterns...)
	for _, extension := range inputs.Options.excludeExtensions {
		excludedPatterns = append(excludedPatterns, extensionGlob(extension))
	}
	includedPatterns := append([]string(nil), inputs.Options.includePatterns...)
	for _, extension := range inputs.Options.includeExtensions {
		includedPatterns = append(includedPatterns, extensionGlob(extension))
	}

	return &types.ScanConfig{
		RootDirectory:       inputs.RootDirectory,
		Mode:                gitMode,
		MaxFileSizeBytes:    maxSizeBytes,
		MaxFileChars:        inputs.Options.maxChars,
		MaxDepth:            inputs.Options.maxDepth,
		IncludeBinary:       inputs.Options.includeBinary,
		SortAlphabetically:  inputs.Options.sortAlphabetically,
		IncludeOnlyMode:     inputs.Options.includeOnly,
		TruncateLargeFiles:  inputs.Options.truncateLarge,
		SkipLargeFiles:      inputs.Options.skipLarge,
		TargetedDirectory:   targeted,
		ExcludedDirectories: excludedDirectories,
		ExcludedPatterns:    utils.DeduplicatePatterns(excludedPatterns),
		IncludedPatterns:    utils.DeduplicatePatterns(includedPatterns),
		TypeOverrides:       buildTypeOverrides(inputs.Options, targeted, autoMarkdown),
	}, nil
}

func extensionGlob(extension string) string {
	trimmed := strings.TrimSpace(extension)
	if !strings.HasPrefix(trimmed, ".") {
		trimmed = "." + trimmed
	}
	return "*" + trimmed
}

func isTargetedDirectory(rootDirectory, workingDirectory string) bool {
	if rootDirectory == "" || workingDirectory == "" {
		return false
	}
	return filepath.Clean(rootDirectory) != filepath.Clean(workingDirectory)
}

// shouldAutoIncludeMarkdown turns markdown on for documentation trees: roots
// whose name suggests documentation, or whose first hundred files are mostly
// markdown. An explicit --include-markdown makes detection redundant and an
// explicit git mode of none disables it.
func shouldAutoIncludeMarkdown(rootDirectory string, options scanOptions, gitMode types.GitMode, gitModeExplicit bool) bool {
	if options.includeMarkdown {
		return false
	}
	if gitModeExplicit && gitMode == types.GitModeNone {
		return false
	}
	directoryName := strings.ToLower(filepath.Base(rootDirectory))
	for _, indicator := range documentationDirectoryIndicators {
		if strings.Contains(directoryName, indicator) {
			return true
		}
	}
	totalFiles := 0
	markdownFiles := 0
	_ = filepath.WalkDir(rootDirectory, func(path string, entry fs.DirEntry, walkError error) error {
		if walkError != nil {
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		totalFiles++
		if _, matches := markdownSampleExtensions[strings.ToLower(filepath.Ext(path))]; matches {
			markdownFiles++
		}
		if totalFiles >= markdownSampleLimit {
			return fs.SkipAll
		}
		return nil
	})
	return totalFiles > 0 && float64(markdownFiles)/float64(totalFiles) > markdownShareThreshold
}

func buildTypeOverrides(options scanOptions, targeted bool, autoMarkdown bool) map[string]bool {
	markdownIncluded := options.includeMarkdown || autoMarkdown || targeted
	overrides := map[string]bool{
		".json":     options.includeJSON || targeted,
		".jsonc":    options.includeJSON || targeted,
		".yaml":     options.includeYAML || targeted,
		".yml":      options.includeYAML || targeted,
		".xml":      options.includeXML,
		".html":     options.includeHTML,
		".htm":      options.includeHTML,
		".css":      options.includeCSS,
		".sql":      options.includeSQL,
		".csv":      options.includeCSV,
		".tsv":      options.includeCSV,
		".md":       markdownIncluded,
		".markdown": markdownIncluded,
		".rst":      markdownIncluded,
	}
	if targeted {
		for _, extension := range targetedDirectoryExtensions {
			overrides[extension] = true
		}
	}
	return overrides
}
