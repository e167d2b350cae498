package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/lens/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Content StreamCommandConfiguration `mapstructure:"content"`
	Tree    StreamCommandConfiguration `mapstructure:"tree"`
}

// StreamCommandConfiguration defines options shared by the content and tree
// commands. Pointer fields distinguish "unset" from an explicit false so a
// local file can override a global one without clobbering its defaults.
type StreamCommandConfiguration struct {
	Format  string             `mapstructure:"format"`
	Summary *bool              `mapstructure:"summary"`
	Copy    *bool              `mapstructure:"copy"`
	Tokens  TokenConfiguration `mapstructure:"tokens"`
	Scan    ScanConfiguration  `mapstructure:"scan"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// ScanConfiguration configures traversal and filtering defaults.
type ScanConfiguration struct {
	GitMode       string   `mapstructure:"git_mode"`
	MaxSize       string   `mapstructure:"max_size"`
	MaxChars      *int     `mapstructure:"max_chars"`
	SkipLarge     *bool    `mapstructure:"skip_large"`
	MaxDepth      *int     `mapstructure:"max_depth"`
	IncludeBinary *bool    `mapstructure:"include_binary"`
	SortAlpha     *bool    `mapstructure:"sort_alpha"`
	IncludeOnly   *bool    `mapstructure:"include_only"`
	Exclude       []string `mapstructure:"exclude"`
	Include       []string `mapstructure:"include"`
	ExcludeDirs   []string `mapstructure:"exclude_dirs"`
}

// LoadApplicationConfiguration loads configuration from the global file under
// the user home and the local file in the working directory, local last.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Content.Scan = merged.Content.Scan.deduplicated()
	merged.Tree.Scan = merged.Tree.Scan.deduplicated()

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Content = result.Content.merge(override.Content)
	result.Tree = result.Tree.merge(override.Tree)
	return result
}

func (config StreamCommandConfiguration) merge(override StreamCommandConfiguration) StreamCommandConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Summary != nil {
		result.Summary = cloneBool(override.Summary)
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	result.Scan = result.Scan.merge(override.Scan)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (config ScanConfiguration) merge(override ScanConfiguration) ScanConfiguration {
	result := config
	if override.GitMode != "" {
		result.GitMode = override.GitMode
	}
	if override.MaxSize != "" {
		result.MaxSize = override.MaxSize
	}
	if override.MaxChars != nil {
		result.MaxChars = cloneInt(override.MaxChars)
	}
	if override.SkipLarge != nil {
		result.SkipLarge = cloneBool(override.SkipLarge)
	}
	if override.MaxDepth != nil {
		result.MaxDepth = cloneInt(override.MaxDepth)
	}
	if override.IncludeBinary != nil {
		result.IncludeBinary = cloneBool(override.IncludeBinary)
	}
	if override.SortAlpha != nil {
		result.SortAlpha = cloneBool(override.SortAlpha)
	}
	if override.IncludeOnly != nil {
		result.IncludeOnly = cloneBool(override.IncludeOnly)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if len(override.Include) > 0 {
		result.Include = append([]string{}, utils.DeduplicatePatterns(override.Include)...)
	}
	if len(override.ExcludeDirs) > 0 {
		result.ExcludeDirs = append([]string{}, utils.DeduplicatePatterns(override.ExcludeDirs)...)
	}
	return result
}

func (config ScanConfiguration) deduplicated() ScanConfiguration {
	result := config
	result.Exclude = utils.DeduplicatePatterns(result.Exclude)
	result.Include = utils.DeduplicatePatterns(result.Include)
	result.ExcludeDirs = utils.DeduplicatePatterns(result.ExcludeDirs)
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
