// Package types defines every cross-package data structure used by the lens CLI.
package types

// GitMode selects how much git metadata participates in filtering.
type GitMode string

const (
	// GitModeNone disables gitignore matching and tracking checks.
	GitModeNone GitMode = "none"
	// GitModeGitignore honors .gitignore patterns without consulting the index.
	GitModeGitignore GitMode = "gitignore"
	// GitModeFull honors .gitignore patterns and restricts files to the git index.
	GitModeFull GitMode = "full"
)

const (
	CommandTree    = "tree"
	CommandContent = "content"
	CommandPreview = "preview"

	FormatRaw      = "raw"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// ScanConfig holds every knob of a single scan. It is assembled once before
// scanning and never mutated afterward.
type ScanConfig struct {
	RootDirectory      string
	Mode               GitMode
	MaxFileSizeBytes   int64
	MaxFileChars       int
	MaxDepth           int
	IncludeBinary      bool
	SortAlphabetically bool
	IncludeOnlyMode    bool
	TruncateLargeFiles bool
	SkipLargeFiles     bool
	TargetedDirectory  bool

	ExcludedDirectories map[string]struct{}
	ExcludedPatterns    []string
	IncludedPatterns    []string
	TypeOverrides       map[string]bool
}

// FileRecord describes one accepted file after content loading. Percentage is
// filled in by the analyzer once total character counts are known.
type FileRecord struct {
	RelativePath string  `json:"path"`
	AbsolutePath string  `json:"-"`
	Content      string  `json:"-"`
	ByteSize     int64   `json:"-"`
	LineCount    int     `json:"lines"`
	CharCount    int     `json:"chars"`
	Language     string  `json:"language"`
	Percentage   float64 `json:"percentage"`
	Truncated    bool    `json:"truncated,omitempty"`
	Tokens       int     `json:"tokens,omitempty"`
}

// TreeOutputNode represents one node of the reconstructed project tree.
// Line, character and percentage figures are populated for files only;
// directories carry zero values and rely on Included reflecting descendants.
type TreeOutputNode struct {
	Name       string            `json:"name"`
	Path       string            `json:"path"`
	IsDir      bool              `json:"isDir"`
	Included   bool              `json:"included"`
	LineCount  int               `json:"lines,omitempty"`
	CharCount  int               `json:"chars,omitempty"`
	Percentage float64           `json:"percentage,omitempty"`
	Children   []*TreeOutputNode `json:"children,omitempty"`
}

// ScanResult is the complete outcome of one pipeline run.
type ScanResult struct {
	Config         ScanConfig
	Files          []*FileRecord
	Tree           []*TreeOutputNode
	TotalScanned   int
	TechStack      []string
	KeyDirectories []string
	Duration       float64
}

// TotalLineCount sums line counts across all accepted files.
func (result *ScanResult) TotalLineCount() int {
	total := 0
	for _, record := range result.Files {
		total += record.LineCount
	}
	return total
}

// TotalCharCount sums character counts across all accepted files.
func (result *ScanResult) TotalCharCount() int {
	total := 0
	for _, record := range result.Files {
		total += record.CharCount
	}
	return total
}

// OutputSummary captures aggregate information about rendered files.
type OutputSummary struct {
	TotalFiles     int      `json:"totalFiles"`
	TotalScanned   int      `json:"totalScanned"`
	TotalLines     int      `json:"totalLines"`
	TotalChars     int      `json:"totalChars"`
	TotalTokens    int      `json:"totalTokens,omitempty"`
	Model          string   `json:"model,omitempty"`
	TechStack      []string `json:"techStack,omitempty"`
	KeyDirectories []string `json:"keyDirectories,omitempty"`
	Duration       float64  `json:"durationSeconds"`
}
