package filter

// DefaultExcludedDirectories lists directory names whose contents never
// contribute source context unless the defaults are explicitly overridden.
var DefaultExcludedDirectories = []string{
	".git", ".svn", ".hg", ".bzr", "node_modules", "vendor", ".tap",
	"venv", "env", ".venv", "ENV", "virtualenv",
	"build", "dist", "target", "out", "bin", "obj",
	"__pycache__", ".cache", "cache",
	".pytest_cache", ".mypy_cache", ".tox",
	".idea", ".vscode", "logs", "log", "coverage", "htmlcov",
	".terraform", ".next", ".nuxt", "public", "static",
	"assets", "images", "img", "icons", "fonts", "media", "uploads",
	"downloads", "resources", "screenshots", "thumbnails", "previews",
	"demos", "examples", "tests", "__tests__", "test", "docs", "documentation",
}

// DefaultExcludedDirectorySet returns the default directory exclusions as a set.
func DefaultExcludedDirectorySet() map[string]struct{} {
	set := make(map[string]struct{}, len(DefaultExcludedDirectories))
	for _, directoryName := range DefaultExcludedDirectories {
		set[directoryName] = struct{}{}
	}
	return set
}

// artifactPatterns match build products, archives, media and other binary or
// generated files that are never useful as context.
var artifactPatterns = []string{
	"*.pyc", "*.pyo", "*.pyd", "*.so", "*.o", "*.a", "*.lib", "*.dylib",
	"*.bundle", "*.dll", "*.exe", "*.class", "*.jar", "*.war", "*.ear", ".tap",
	"*.log", "*.tsbuildinfo",
	"*.swp", "*.swo", "*~", "#*#", ".DS_Store", "Thumbs.db",
	"*.patch", "*.diff",
	"*.lock", "pnpm-lock.yaml", "yarn.lock", "package-lock.json",
	"poetry.lock", "composer.lock", "Gemfile.lock",
	"*.tfstate", "*.tfstate.backup",
	"*.bak", "*.tmp", "*.temp",
	"*.min.*", "*.map",
	"*.svg", "*.png", "*.jpg", "*.jpeg", "*.gif", "*.ico", "*.webp", "*.bmp",
	"*.tiff", "*.tif", "*.woff", "*.woff2", "*.ttf", "*.eot", "*.otf",
	"*.mp3", "*.mp4", "*.avi", "*.mov", "*.wmv", "*.flv", "*.webm",
	"*.zip", "*.tar", "*.gz", "*.rar", "*.7z",
	"*.psd", "*.ai", "*.eps", "*.sketch", "*.fig", "*.xd",
	"*.blend", "*.obj", "*.fbx", "*.dae", "*.3ds",
	"*.pdf", "*.doc", "*.docx", "*.xls", "*.xlsx", "*.ppt", "*.pptx",
}

// dataFormatPatterns match data and markup formats that are excluded by
// default but reachable through the per-type override flags. The bare ".sql"
// and ".rst" entries mirror the historical defaults verbatim.
var dataFormatPatterns = []string{
	"*.spec.*", "*.test.*", "*.csv", "*.tsv", "*.xml", "*.yaml", "*.yml",
	"*.htm", "*.html", "*.css", ".sql", "*.md", "*.markdown", ".rst",
	"*.json", "*.jsonc", "package.json", "**/package.json",
}

// toolConfigPatterns match editor and tool configuration files.
var toolConfigPatterns = []string{
	".editorconfig", ".gitattributes", ".gitmodules",
	"tsconfig.json", "tsconfig.*.json",
}

// defaultPatternGroups pairs each built-in denylist with the label used in
// rejection reasons.
var defaultPatternGroups = []struct {
	label    string
	patterns []string
}{
	{label: "artifact", patterns: artifactPatterns},
	{label: "data format", patterns: dataFormatPatterns},
	{label: "tool config", patterns: toolConfigPatterns},
}

// AlwaysIncludeFileNames lists files that pass the default-pattern rule and
// the git-tracking rule unconditionally. Order matters for the importance
// sort, which ranks these names ahead of ordinary files.
var AlwaysIncludeFileNames = []string{
	"README.md", ".env.example", "docker-compose.yml", "docker-compose.yaml",
	"Dockerfile", "requirements.txt", "pyproject.toml", "go.mod", "go.sum",
	"Cargo.toml",
}

var alwaysIncludeFileNameSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(AlwaysIncludeFileNames))
	for _, fileName := range AlwaysIncludeFileNames {
		set[fileName] = struct{}{}
	}
	return set
}()

// IsAlwaysIncludedFileName reports whether fileName is on the always-include list.
func IsAlwaysIncludedFileName(fileName string) bool {
	_, found := alwaysIncludeFileNameSet[fileName]
	return found
}

// alwaysSkipFileNames lists files rejected before any other rule runs. No
// later rule, including explicit include patterns, can resurrect them.
var alwaysSkipFileNames = map[string]struct{}{
	".gitignore":                {},
	"pnpm-lock.yaml":            {},
	"package.json":              {},
	"tsconfig.json":             {},
	".eslintrc.js":              {},
	".prettierrc.js":            {},
	".env":                      {},
	".tap":                      {},
	"bun.lock":                  {},
	"LICENSE":                   {},
	"eslint.config.js":          {},
	".prettierrc":               {},
	".prettierignore":           {},
	"package-lock.json":         {},
	"worker-configuration.d.ts": {},
}
