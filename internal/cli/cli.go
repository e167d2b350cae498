// Package cli provides the command line interface.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/temirov/lens/internal/config"
	"github.com/temirov/lens/internal/filter"
	"github.com/temirov/lens/internal/output"
	"github.com/temirov/lens/internal/scan"
	"github.com/temirov/lens/internal/services/gitfiles"
	"github.com/temirov/lens/internal/services/stream"
	"github.com/temirov/lens/internal/tokenizer"
	"github.com/temirov/lens/internal/types"
	"github.com/temirov/lens/internal/utils"
)

const (
	gitModeFlagName          = "git-mode"
	maxSizeFlagName          = "max-size"
	maxCharsFlagName         = "max-chars"
	truncateLargeFlagName    = "truncate-large"
	skipLargeFlagName        = "skip-large"
	maxDepthFlagName         = "max-depth"
	includeBinaryFlagName    = "include-binary"
	sortAlphaFlagName        = "sort-alpha"
	includeOnlyFlagName      = "include-only"
	excludeFlagName          = "exclude"
	includeFlagName          = "include"
	excludeDirFlagName       = "exclude-dir"
	includeExtensionFlagName = "include-extension"
	excludeExtensionFlagName = "exclude-extension"
	includeJSONFlagName      = "include-json"
	includeYAMLFlagName      = "include-yaml"
	includeXMLFlagName       = "include-xml"
	includeHTMLFlagName      = "include-html"
	includeCSSFlagName       = "include-css"
	includeSQLFlagName       = "include-sql"
	includeCSVFlagName       = "include-csv"
	includeMarkdownFlagName  = "include-markdown"
	formatFlagName           = "format"
	outputFlagName           = "output"
	outputFlagShorthand      = "o"
	copyFlagName             = "copy"
	summaryFlagName          = "summary"
	tokensFlagName           = "tokens"
	modelFlagName            = "model"
	dryRunFlagName           = "dry-run"
	versionFlagName          = "version"
	configFlagName           = "config"
	globalFlagName           = "global"
	forceFlagName            = "force"

	versionTemplate      = "lens version: %s\n"
	defaultPath          = "."
	rootUse              = "lens"
	rootShortDescription = "lens command line interface"
	rootLongDescription  = `lens gathers a project directory into LLM-ready context.
It scans and filters the tree, orders files by importance, and renders the
result as markdown, json, or raw text. Use content for the full document,
tree for structure and statistics, preview to inspect filtering decisions,
and init to write a starter configuration file.`
	versionFlagDescription = "display application version"
	configFlagDescription  = "path to a configuration file"

	contentUse              = "content [path]"
	treeUse                 = "tree [path]"
	previewUse              = "preview [path]"
	initUse                 = "init"
	contentAlias            = "c"
	treeAlias               = "t"
	previewAlias            = "p"
	contentShortDescription = "render project context with file contents (" + contentAlias + ")"
	treeShortDescription    = "render project structure and statistics (" + treeAlias + ")"
	previewShortDescription = "list filtering decisions without reading files (" + previewAlias + ")"
	initShortDescription    = "write a default configuration file"

	// contentLongDescription provides detailed help for the content command.
	contentLongDescription = `Scan the project rooted at path, filter and order its files, and render
a single document with every included file's content.
Use --format to select markdown, json, or raw output; --output to write to
a file; --copy to place the document on the clipboard.`
	// contentUsageExample demonstrates content command usage.
	contentUsageExample = `  # Render the current project as markdown to stdout
  lens content

  # Write JSON context for a subdirectory to a file
  lens content --format json --output context.json ./internal

  # Copy the document with token counts for gpt-4o
  lens content --copy --tokens .`

	// treeLongDescription provides detailed help for the tree command.
	treeLongDescription = `Render the filtered project tree with per-file statistics and the
project summary, without file contents.
Use --format to select raw, json, or markdown output.`
	// treeUsageExample demonstrates tree command usage.
	treeUsageExample = `  # Show the filtered tree
  lens tree

  # Markdown structure report with size bars
  lens tree --format markdown .`

	// previewLongDescription provides detailed help for the preview command.
	previewLongDescription = `Evaluate every candidate path against the filter rules and print the
verdict for each: included paths carry a check mark, excluded paths the
rule that rejected them. Nothing is read or rendered.`
	// previewUsageExample demonstrates preview command usage.
	previewUsageExample = `  # Inspect filtering decisions for the current project
  lens preview

  # Check what a full git-tracking scan would include
  lens preview --git-mode full .`

	// initLongDescription provides detailed help for the init command.
	initLongDescription = `Write the default configuration template to .lens.yaml in the working
directory, or to the per-user configuration directory with --global.`
	// initUsageExample demonstrates init command usage.
	initUsageExample = `  # Create .lens.yaml in the current directory
  lens init

  # Create or overwrite the global configuration
  lens init --global --force`

	gitModeFlagDescription          = "git handling mode: none, gitignore, or full"
	maxSizeFlagDescription          = "maximum file size, e.g. 500k or 2M; 0 disables the limit"
	maxCharsFlagDescription         = "maximum characters per file; 0 disables the limit"
	truncateLargeFlagDescription    = "truncate files above --max-chars instead of skipping them"
	skipLargeFlagDescription        = "skip files above --max-chars entirely"
	maxDepthFlagDescription         = "maximum directory depth; 0 disables the limit"
	includeBinaryFlagDescription    = "include binary files"
	sortAlphaFlagDescription        = "sort files alphabetically instead of by importance"
	includeOnlyFlagDescription      = "include only files matching --include patterns"
	exclusionFlagDescription        = "glob pattern to exclude"
	inclusionFlagDescription        = "glob pattern to include"
	excludeDirFlagDescription       = "directory name to exclude"
	includeExtensionFlagDescription = "file extension to include"
	excludeExtensionFlagDescription = "file extension to exclude"
	includeJSONFlagDescription      = "include JSON files"
	includeYAMLFlagDescription      = "include YAML files"
	includeXMLFlagDescription       = "include XML files"
	includeHTMLFlagDescription      = "include HTML files"
	includeCSSFlagDescription       = "include CSS files"
	includeSQLFlagDescription       = "include SQL files"
	includeCSVFlagDescription       = "include CSV files"
	includeMarkdownFlagDescription  = "include Markdown files"
	formatFlagDescription           = "output format"
	outputFlagDescription           = "write the document to this file"
	copyFlagDescription             = "copy the document to the clipboard"
	summaryFlagDescription          = "include the summary of rendered files"
	tokensFlagDescription           = "include token counts"
	modelFlagDescription            = "tokenizer model to use for token counting"
	dryRunFlagDescription           = "run the scan and report what would be produced without writing output"
	globalFlagDescription           = "write the configuration to the per-user directory"
	forceFlagDescription            = "overwrite an existing configuration file"
	defaultTokenizerModelName       = "gpt-4o"
	defaultMaxSizeValue             = "2M"

	invalidFormatMessage        = "Invalid format value '%s'"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorPathMissingFormat reports a missing scan root.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNotDirectoryFormat rejects scan roots that are not directories.
	errorNotDirectoryFormat = "path '%s' is not a directory"

	trackedPathsWarningFormat = "Could not read git index for %s: %v"
	noFilesMatchedMessage     = "No files matched the filters"
	emptyScanDocument         = "# No files included\n"
	initSuccessFormat         = "Created configuration at %s\n"
	previewIncludedFormat     = "✅ %s\n"
	previewExcludedFormat     = "❌ %s (%s)\n"
	previewFooterFormat       = "Preview: %s of %s scanned paths included\n"
	dryRunReportFormat        = "Dry run complete\nWould process %s files\nWould generate %s characters (%s)\nWould write to %s\n"
)

// statusPrinter renders counts with thousands separators in status lines.
var statusPrinter = message.NewPrinter(language.English)

// scanOptions mirrors the shared scan flag set of the content, tree, and
// preview commands.
type scanOptions struct {
	gitMode            string
	maxSize            string
	maxChars           int
	truncateLarge      bool
	skipLarge          bool
	maxDepth           int
	includeBinary      bool
	sortAlphabetically bool
	includeOnly        bool
	excludePatterns    []string
	includePatterns    []string
	excludeDirectories []string
	includeExtensions  []string
	excludeExtensions  []string
	includeJSON        bool
	includeYAML        bool
	includeXML         bool
	includeHTML        bool
	includeCSS         bool
	includeSQL         bool
	includeCSV         bool
	includeMarkdown    bool
}

// streamOptions carries the rendering and delivery flags of the content and
// tree commands.
type streamOptions struct {
	format         string
	outputPath     string
	copyEnabled    bool
	summaryEnabled bool
	tokensEnabled  bool
	tokenModel     string
	dryRun         bool
}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatMarkdown, types.FormatJSON, types.FormatRaw:
		return true
	default:
		return false
	}
}

// Execute runs the lens application.
func Execute() error {
	rootCommand := createRootCommand()
	arguments := normalizeCopyFlagArguments(os.Args[1:])
	arguments = normalizeBooleanFlagArguments(rootCommand, arguments)
	rootCommand.SetArgs(arguments)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool
	var configFilePath string

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&configFilePath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		createContentCommand(),
		createTreeCommand(),
		createPreviewCommand(),
		createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// addScanFlags registers the shared scan flags on the command.
func addScanFlags(command *cobra.Command, options *scanOptions) {
	flags := command.Flags()
	flags.StringVar(&options.gitMode, gitModeFlagName, string(types.GitModeNone), gitModeFlagDescription)
	flags.StringVar(&options.maxSize, maxSizeFlagName, defaultMaxSizeValue, maxSizeFlagDescription)
	flags.IntVar(&options.maxChars, maxCharsFlagName, 0, maxCharsFlagDescription)
	flags.BoolVar(&options.truncateLarge, truncateLargeFlagName, true, truncateLargeFlagDescription)
	flags.BoolVar(&options.skipLarge, skipLargeFlagName, false, skipLargeFlagDescription)
	flags.IntVar(&options.maxDepth, maxDepthFlagName, 0, maxDepthFlagDescription)
	flags.BoolVar(&options.includeBinary, includeBinaryFlagName, false, includeBinaryFlagDescription)
	flags.BoolVar(&options.sortAlphabetically, sortAlphaFlagName, false, sortAlphaFlagDescription)
	flags.BoolVar(&options.includeOnly, includeOnlyFlagName, false, includeOnlyFlagDescription)
	flags.StringArrayVarP(&options.excludePatterns, excludeFlagName, "e", nil, exclusionFlagDescription)
	flags.StringArrayVar(&options.includePatterns, includeFlagName, nil, inclusionFlagDescription)
	flags.StringArrayVar(&options.excludeDirectories, excludeDirFlagName, nil, excludeDirFlagDescription)
	flags.StringArrayVar(&options.includeExtensions, includeExtensionFlagName, nil, includeExtensionFlagDescription)
	flags.StringArrayVar(&options.excludeExtensions, excludeExtensionFlagName, nil, excludeExtensionFlagDescription)
	flags.BoolVar(&options.includeJSON, includeJSONFlagName, false, includeJSONFlagDescription)
	flags.BoolVar(&options.includeYAML, includeYAMLFlagName, false, includeYAMLFlagDescription)
	flags.BoolVar(&options.includeXML, includeXMLFlagName, false, includeXMLFlagDescription)
	flags.BoolVar(&options.includeHTML, includeHTMLFlagName, false, includeHTMLFlagDescription)
	flags.BoolVar(&options.includeCSS, includeCSSFlagName, false, includeCSSFlagDescription)
	flags.BoolVar(&options.includeSQL, includeSQLFlagName, false, includeSQLFlagDescription)
	flags.BoolVar(&options.includeCSV, includeCSVFlagName, false, includeCSVFlagDescription)
	flags.BoolVar(&options.includeMarkdown, includeMarkdownFlagName, false, includeMarkdownFlagDescription)
}

// addStreamFlags registers rendering and delivery flags on the command.
func addStreamFlags(command *cobra.Command, options *streamOptions, defaultFormat string) {
	flags := command.Flags()
	flags.StringVar(&options.format, formatFlagName, defaultFormat, formatFlagDescription)
	flags.StringVarP(&options.outputPath, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	registerCopyFlag(flags, &options.copyEnabled)
	registerBooleanFlag(flags, &options.summaryEnabled, summaryFlagName, true, summaryFlagDescription)
	registerBooleanFlag(flags, &options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	flags.StringVar(&options.tokenModel, modelFlagName, defaultTokenizerModelName, modelFlagDescription)
}

// createContentCommand returns the content subcommand.
func createContentCommand() *cobra.Command {
	var scanConfiguration scanOptions
	var streamConfiguration streamOptions

	contentCommand := &cobra.Command{
		Use:     contentUse,
		Aliases: []string{contentAlias},
		Short:   contentShortDescription,
		Long:    contentLongDescription,
		Example: contentUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootArgument := defaultPath
			if len(arguments) > 0 {
				rootArgument = arguments[0]
			}
			return runStreamCommand(command, types.CommandContent, rootArgument, &scanConfiguration, &streamConfiguration)
		},
	}

	addScanFlags(contentCommand, &scanConfiguration)
	addStreamFlags(contentCommand, &streamConfiguration, types.FormatMarkdown)
	contentCommand.Flags().BoolVar(&streamConfiguration.dryRun, dryRunFlagName, false, dryRunFlagDescription)
	return contentCommand
}

// createTreeCommand returns the tree subcommand.
func createTreeCommand() *cobra.Command {
	var scanConfiguration scanOptions
	var streamConfiguration streamOptions

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootArgument := defaultPath
			if len(arguments) > 0 {
				rootArgument = arguments[0]
			}
			return runStreamCommand(command, types.CommandTree, rootArgument, &scanConfiguration, &streamConfiguration)
		},
	}

	addScanFlags(treeCommand, &scanConfiguration)
	addStreamFlags(treeCommand, &streamConfiguration, types.FormatRaw)
	return treeCommand
}

// createPreviewCommand returns the preview subcommand.
func createPreviewCommand() *cobra.Command {
	var scanConfiguration scanOptions

	previewCommand := &cobra.Command{
		Use:     previewUse,
		Aliases: []string{previewAlias},
		Short:   previewShortDescription,
		Long:    previewLongDescription,
		Example: previewUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootArgument := defaultPath
			if len(arguments) > 0 {
				rootArgument = arguments[0]
			}
			return runPreviewCommand(command, rootArgument, &scanConfiguration)
		},
	}

	addScanFlags(previewCommand, &scanConfiguration)
	return previewCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var writeGlobal bool
	var force bool

	initCommand := &cobra.Command{
		Use:     initUse,
		Short:   initShortDescription,
		Long:    initLongDescription,
		Example: initUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			destinationPath, initializationError := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  force,
			})
			if initializationError != nil {
				return initializationError
			}
			fmt.Fprintf(command.OutOrStdout(), initSuccessFormat, destinationPath)
			return nil
		},
	}

	initCommand.Flags().BoolVar(&writeGlobal, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// resolveRootDirectory converts the positional argument to an absolute,
// cleaned directory path and verifies it exists.
func resolveRootDirectory(argument string) (string, error) {
	absolutePath, absolutePathError := filepath.Abs(argument)
	if absolutePathError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, argument, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	information, fileStatusError := os.Stat(cleanPath)
	if fileStatusError != nil {
		if os.IsNotExist(fileStatusError) {
			return "", fmt.Errorf(errorPathMissingFormat, argument)
		}
		return "", fmt.Errorf(errorStatFormat, argument, fileStatusError)
	}
	if !information.IsDir() {
		return "", fmt.Errorf(errorNotDirectoryFormat, argument)
	}
	return cleanPath, nil
}

// prepareScan assembles the scan configuration from flags, configuration
// files, and the ignore file, and loads the git collaborators the configured
// mode requires.
func prepareScan(command *cobra.Command, commandName string, rootArgument string, scanConfiguration *scanOptions, streamConfiguration *streamOptions, loggerInstance *zap.Logger) (*scan.Scanner, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return nil, fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}

	explicitConfigPath, _ := command.Flags().GetString(configFlagName)
	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: explicitConfigPath,
	})
	if configurationError != nil {
		return nil, configurationError
	}
	section := applicationConfiguration.Content
	if commandName == types.CommandTree {
		section = applicationConfiguration.Tree
	}
	gitModeExplicit := command.Flags().Changed(gitModeFlagName) || section.Scan.GitMode != ""
	applyCommandConfiguration(command, section, scanConfiguration, streamConfiguration)

	rootPath, rootError := resolveRootDirectory(rootArgument)
	if rootError != nil {
		return nil, rootError
	}

	scanConfig, factoryError := buildScanConfiguration(scanConfigurationInputs{
		RootDirectory:    rootPath,
		WorkingDirectory: workingDirectory,
		Options:          *scanConfiguration,
		GitModeExplicit:  gitModeExplicit,
	}, loggerInstance)
	if factoryError != nil {
		return nil, factoryError
	}

	ignorePatterns, ignoreError := config.LoadRootIgnorePatterns(rootPath, scanConfig.ExcludedPatterns)
	if ignoreError != nil {
		return nil, ignoreError
	}
	scanConfig.ExcludedPatterns = ignorePatterns

	var ignoreMatcher filter.IgnoreMatcher
	var trackedPaths map[string]struct{}
	if scanConfig.Mode != types.GitModeNone {
		ignoreMatcher = gitfiles.LoadIgnoreMatcher(rootPath)
	}
	if scanConfig.Mode == types.GitModeFull {
		loadedPaths, trackedError := gitfiles.LoadTrackedPaths(rootPath)
		if trackedError != nil {
			loggerInstance.Warn(fmt.Sprintf(trackedPathsWarningFormat, rootPath, trackedError))
		} else {
			trackedPaths = loadedPaths
		}
	}

	return scan.NewScanner(scanConfig, ignoreMatcher, trackedPaths, loggerInstance), nil
}

// applyCommandConfiguration overlays configuration file values onto flag
// defaults. Values the user set on the command line always win; pattern
// lists from the file extend the flag-provided ones.
func applyCommandConfiguration(command *cobra.Command, section config.StreamCommandConfiguration, scanConfiguration *scanOptions, streamConfiguration *streamOptions) {
	flags := command.Flags()
	if streamConfiguration != nil {
		if section.Format != "" && !flags.Changed(formatFlagName) {
			streamConfiguration.format = section.Format
		}
		if section.Summary != nil && !flags.Changed(summaryFlagName) {
			streamConfiguration.summaryEnabled = *section.Summary
		}
		if section.Copy != nil && !flags.Changed(copyFlagName) {
			streamConfiguration.copyEnabled = *section.Copy
		}
		if section.Tokens.Enabled != nil && !flags.Changed(tokensFlagName) {
			streamConfiguration.tokensEnabled = *section.Tokens.Enabled
		}
		if section.Tokens.Model != "" && !flags.Changed(modelFlagName) {
			streamConfiguration.tokenModel = section.Tokens.Model
		}
	}
	scanSection := section.Scan
	if scanSection.GitMode != "" && !flags.Changed(gitModeFlagName) {
		scanConfiguration.gitMode = scanSection.GitMode
	}
	if scanSection.MaxSize != "" && !flags.Changed(maxSizeFlagName) {
		scanConfiguration.maxSize = scanSection.MaxSize
	}
	if scanSection.MaxChars != nil && !flags.Changed(maxCharsFlagName) {
		scanConfiguration.maxChars = *scanSection.MaxChars
	}
	if scanSection.SkipLarge != nil && !flags.Changed(skipLargeFlagName) {
		scanConfiguration.skipLarge = *scanSection.SkipLarge
	}
	if scanSection.MaxDepth != nil && !flags.Changed(maxDepthFlagName) {
		scanConfiguration.maxDepth = *scanSection.MaxDepth
	}
	if scanSection.IncludeBinary != nil && !flags.Changed(includeBinaryFlagName) {
		scanConfiguration.includeBinary = *scanSection.IncludeBinary
	}
	if scanSection.SortAlpha != nil && !flags.Changed(sortAlphaFlagName) {
		scanConfiguration.sortAlphabetically = *scanSection.SortAlpha
	}
	if scanSection.IncludeOnly != nil && !flags.Changed(includeOnlyFlagName) {
		scanConfiguration.includeOnly = *scanSection.IncludeOnly
	}
	if len(scanSection.Exclude) > 0 {
		scanConfiguration.excludePatterns = append(scanConfiguration.excludePatterns, scanSection.Exclude...)
	}
	if len(scanSection.Include) > 0 {
		scanConfiguration.includePatterns = append(scanConfiguration.includePatterns, scanSection.Include...)
	}
	if len(scanSection.ExcludeDirs) > 0 {
		scanConfiguration.excludeDirectories = append(scanConfiguration.excludeDirectories, scanSection.ExcludeDirs...)
	}
}

// runStreamCommand executes the content or tree command end to end: scan,
// analyze, stream through the selected renderer, and deliver the document.
func runStreamCommand(command *cobra.Command, commandName string, rootArgument string, scanConfiguration *scanOptions, streamConfiguration *streamOptions) error {
	loggerInstance, loggerError := utils.NewApplicationLogger()
	if loggerError != nil {
		return loggerError
	}
	defer loggerInstance.Sync()

	scanner, prepareError := prepareScan(command, commandName, rootArgument, scanConfiguration, streamConfiguration, loggerInstance)
	if prepareError != nil {
		return prepareError
	}

	format := strings.ToLower(strings.TrimSpace(streamConfiguration.format))
	if !isSupportedFormat(format) {
		return fmt.Errorf(invalidFormatMessage, streamConfiguration.format)
	}

	result, scanError := scanner.Run()
	if scanError != nil {
		return scanError
	}

	writeOptions := output.WriteOptions{
		OutputPath:      streamConfiguration.outputPath,
		CopyToClipboard: streamConfiguration.copyEnabled,
	}

	if len(result.Files) == 0 && commandName == types.CommandContent {
		loggerInstance.Warn(noFilesMatchedMessage)
		if streamConfiguration.dryRun {
			printDryRunReport(0, len(emptyScanDocument), writeOptions)
			return nil
		}
		return deliverDocument(emptyScanDocument, "", writeOptions)
	}

	resolvedModel := ""
	if streamConfiguration.tokensEnabled {
		tokenCounter, modelName, counterError := tokenizer.NewCounter(tokenizer.Config{Model: streamConfiguration.tokenModel})
		if counterError != nil {
			return counterError
		}
		if countError := tokenizer.CountRecords(context.Background(), tokenCounter, result.Files); countError != nil {
			return countError
		}
		resolvedModel = modelName
	}
	summary := output.ComputeSummary(result)
	summary.Model = resolvedModel

	var documentBuffer bytes.Buffer
	var renderTarget io.Writer = os.Stdout
	if writeOptions.NeedsCapture() || streamConfiguration.dryRun {
		renderTarget = &documentBuffer
	}

	renderer, rendererError := output.NewStreamRenderer(format, renderTarget, commandName)
	if rendererError != nil {
		return rendererError
	}

	eventSummary := summary
	if format == types.FormatRaw && !streamConfiguration.summaryEnabled {
		eventSummary = nil
	}

	producer := func(streamCtx context.Context, events chan<- stream.Event) error {
		return stream.StreamResult(streamCtx, stream.Options{
			Command: commandName,
			Result:  result,
			Summary: eventSummary,
		}, events)
	}
	consumer := func(event stream.Event) error {
		return renderer.Handle(event)
	}
	if dispatchError := dispatchStream(context.Background(), producer, consumer); dispatchError != nil {
		return dispatchError
	}
	if flushError := renderer.Flush(); flushError != nil {
		return flushError
	}

	if streamConfiguration.dryRun {
		printDryRunReport(len(result.Files), documentBuffer.Len(), writeOptions)
		return nil
	}

	if writeOptions.NeedsCapture() {
		summaryLine := ""
		if streamConfiguration.summaryEnabled {
			summaryLine = output.FormatSummaryLine(summary)
		}
		return deliverDocument(documentBuffer.String(), summaryLine, writeOptions)
	}
	return nil
}

// printDryRunReport describes what a real run would have produced, including
// where the document would have gone. Destination precedence mirrors the
// deliverer: an output path beats the clipboard flag.
func printDryRunReport(fileCount int, documentLength int, writeOptions output.WriteOptions) {
	destination := "stdout"
	switch {
	case writeOptions.OutputPath != "":
		destination = writeOptions.OutputPath
	case writeOptions.CopyToClipboard:
		destination = "clipboard"
	}
	fmt.Fprintf(os.Stdout, dryRunReportFormat,
		statusPrinter.Sprintf("%d", fileCount),
		statusPrinter.Sprintf("%d", documentLength),
		utils.FormatFileSize(int64(documentLength)),
		destination)
}

func deliverDocument(document string, summaryLine string, writeOptions output.WriteOptions) error {
	if !writeOptions.NeedsCapture() {
		_, writeError := io.WriteString(os.Stdout, document)
		return writeError
	}
	deliverer := output.NewDeliverer(os.Stderr, nil)
	return deliverer.Deliver(document, summaryLine, writeOptions)
}

// runPreviewCommand prints the filter verdict for every candidate path.
func runPreviewCommand(command *cobra.Command, rootArgument string, scanConfiguration *scanOptions) error {
	loggerInstance, loggerError := utils.NewApplicationLogger()
	if loggerError != nil {
		return loggerError
	}
	defer loggerInstance.Sync()

	scanner, prepareError := prepareScan(command, types.CommandPreview, rootArgument, scanConfiguration, nil, loggerInstance)
	if prepareError != nil {
		return prepareError
	}

	pathVerdicts, totalScanned, previewError := scanner.Preview()
	if previewError != nil {
		return previewError
	}

	destination := command.OutOrStdout()
	includedCount := 0
	for _, pathVerdict := range pathVerdicts {
		if pathVerdict.Verdict.Included {
			includedCount++
			fmt.Fprintf(destination, previewIncludedFormat, pathVerdict.RelativePath)
			continue
		}
		fmt.Fprintf(destination, previewExcludedFormat, pathVerdict.RelativePath, pathVerdict.Verdict.Reason)
	}
	fmt.Fprintf(destination, previewFooterFormat,
		statusPrinter.Sprintf("%d", includedCount),
		statusPrinter.Sprintf("%d", totalScanned))
	return nil
}

func dispatchStream(
	ctx context.Context,
	produce func(context.Context, chan<- stream.Event) error,
	consume func(stream.Event) error,
) error {
	group, streamCtx := errgroup.WithContext(ctx)
	events := make(chan stream.Event)

	group.Go(func() error {
		defer close(events)
		return produce(streamCtx, events)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := consume(event); err != nil {
					return err
				}
			}
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
