package scan

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/lens/internal/analyze"
	"github.com/temirov/lens/internal/filter"
	"github.com/temirov/lens/internal/types"
	"github.com/temirov/lens/internal/utils"
)

const exclusionDebugFormat = "Excluded %s: %s"

// Scanner binds enumeration, filtering, reading, and analysis into one pass
// over a project tree.
type Scanner struct {
	configuration *types.ScanConfig
	chain         *filter.Chain
	ignoreMatcher filter.IgnoreMatcher
	logger        *zap.Logger
}

// PathVerdict pairs a candidate path with its filter outcome.
type PathVerdict struct {
	RelativePath string
	Verdict      filter.FilterVerdict
}

// NewScanner assembles the filter chain for the given configuration. The
// ignore matcher and tracked path set may be nil when git metadata is absent
// or unused.
func NewScanner(configuration *types.ScanConfig, ignoreMatcher filter.IgnoreMatcher, trackedPaths map[string]struct{}, loggerInstance *zap.Logger) *Scanner {
	return &Scanner{
		configuration: configuration,
		chain:         filter.NewChain(configuration, ignoreMatcher, trackedPaths),
		ignoreMatcher: ignoreMatcher,
		logger:        loggerInstance,
	}
}

// Run walks the project, filters candidates, reads the accepted files, and
// returns the analyzed result.
func (scanner *Scanner) Run() (*types.ScanResult, error) {
	startTime := time.Now()
	enumeration, enumerationError := EnumeratePaths(scanner.configuration, scanner.ignoreMatcher)
	if enumerationError != nil {
		return nil, enumerationError
	}
	acceptedPaths := make([]string, 0, len(enumeration.CandidatePaths))
	for _, candidatePath := range enumeration.CandidatePaths {
		verdict := scanner.chain.Evaluate(candidatePath)
		if verdict.Included {
			acceptedPaths = append(acceptedPaths, candidatePath)
			continue
		}
		scanner.logger.Debug(fmt.Sprintf(exclusionDebugFormat, candidatePath, verdict.Reason))
	}
	fileRecords := BuildFileRecords(acceptedPaths, scanner.configuration, scanner.logger)
	return analyze.Analyze(fileRecords, scanner.configuration, enumeration.TotalCandidates, time.Since(startTime)), nil
}

// Preview evaluates every candidate path and returns its verdict in walk
// order, without building file records. The verdict rules that inspect file
// contents still read from disk.
func (scanner *Scanner) Preview() ([]PathVerdict, int, error) {
	enumeration, enumerationError := EnumeratePaths(scanner.configuration, scanner.ignoreMatcher)
	if enumerationError != nil {
		return nil, 0, enumerationError
	}
	pathVerdicts := make([]PathVerdict, 0, len(enumeration.CandidatePaths))
	for _, candidatePath := range enumeration.CandidatePaths {
		pathVerdicts = append(pathVerdicts, PathVerdict{
			RelativePath: filepath.ToSlash(utils.RelativePathOrSelf(candidatePath, scanner.configuration.RootDirectory)),
			Verdict:      scanner.chain.Evaluate(candidatePath),
		})
	}
	return pathVerdicts, enumeration.TotalCandidates, nil
}
