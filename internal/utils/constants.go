package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// ErrorLogFormat defines the formatting string for error log messages.
const ErrorLogFormat = "Error: %v"

// Messages used by the command entry point.
const (
	// LoggerInitializationFailedMessageFormat wraps a logger construction failure.
	LoggerInitializationFailedMessageFormat = "logger initialization failed: %w"
	// ApplicationExecutionFailedMessage prefixes a fatal command error.
	ApplicationExecutionFailedMessage = "application execution failed"
)

// Configuration file locations consulted by the CLI.
const (
	// ConfigFileName is the YAML configuration file looked up in the working directory.
	ConfigFileName = ".lens.yaml"
	// GlobalConfigDirectoryName is the directory under the user home holding global configuration.
	GlobalConfigDirectoryName = ".config/lens"
	// IgnoreFileName lists extra exclude patterns at the scan root, one glob per line.
	IgnoreFileName = ".lensignore"
)

// Well-known repository file names.
const (
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)
