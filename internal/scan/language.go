package scan

import (
	"path/filepath"
	"strings"
)

// dockerfileName receives a language tag by file name rather than extension.
const dockerfileName = "Dockerfile"

// defaultLanguageTag is used when no extension hint matches.
const defaultLanguageTag = "text"

// languageHints maps lowercased file extensions to fence language tags.
var languageHints = map[string]string{
	".py":         "python",
	".js":         "javascript",
	".ts":         "typescript",
	".jsx":        "jsx",
	".tsx":        "tsx",
	".java":       "java",
	".kt":         "kotlin",
	".cs":         "csharp",
	".go":         "go",
	".rs":         "rust",
	".c":          "c",
	".cpp":        "cpp",
	".h":          "c",
	".hpp":        "cpp",
	".rb":         "ruby",
	".php":        "php",
	".swift":      "swift",
	".scala":      "scala",
	".html":       "html",
	".htm":        "html",
	".css":        "css",
	".scss":       "scss",
	".sass":       "sass",
	".json":       "json",
	".jsonc":      "jsonc",
	".yaml":       "yaml",
	".yml":        "yaml",
	".xml":        "xml",
	".sh":         "bash",
	".bash":       "bash",
	".zsh":        "zsh",
	".fish":       "fish",
	".sql":        "sql",
	".md":         "markdown",
	".markdown":   "markdown",
	".rst":        "rst",
	".dockerfile": "dockerfile",
	".toml":       "toml",
	".ini":        "ini",
	".cfg":        "ini",
	".conf":       "ini",
	".env":        "env",
	".tf":         "terraform",
	".tfvars":     "terraform",
}

// DetectLanguage returns the fence language tag for a file name.
func DetectLanguage(fileName string) string {
	if filepath.Base(fileName) == dockerfileName {
		return "dockerfile"
	}
	if languageTag, found := languageHints[strings.ToLower(filepath.Ext(fileName))]; found {
		return languageTag
	}
	return defaultLanguageTag
}
