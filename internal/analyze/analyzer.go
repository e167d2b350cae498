// Package analyze turns filtered file records into the final scan result:
// percentage shares, file ordering, tech stack, key directories, and the
// reconstructed project tree. It performs no I/O.
package analyze

import (
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/temirov/lens/internal/filter"
	"github.com/temirov/lens/internal/types"
)

const (
	readmeFileName    = "README.md"
	keyDirectoryLimit = 10
)

// numberedNamePattern recognizes file names with a leading-integer prefix,
// such as 01_intro.md.
var numberedNamePattern = regexp.MustCompile(`^(\d+)_`)

// technologyByExtension maps lowercased extensions to detected stack names.
var technologyByExtension = map[string]string{
	".tsx":  "TypeScript",
	".ts":   "TypeScript",
	".jsx":  "JavaScript",
	".js":   "JavaScript",
	".py":   "Python",
	".go":   "Go",
	".rs":   "Rust",
	".java": "Java",
	".kt":   "Kotlin",
	".cs":   "C#",
	".rb":   "Ruby",
	".php":  "PHP",
}

// Analyze assembles the ScanResult: it fills in percentage shares, orders the
// records, detects the tech stack and key directories, and nests the tree.
func Analyze(fileRecords []*types.FileRecord, configuration *types.ScanConfig, totalScanned int, elapsed time.Duration) *types.ScanResult {
	assignPercentages(fileRecords)
	sortedRecords := sortRecords(fileRecords, configuration)
	return &types.ScanResult{
		Config:         *configuration,
		Files:          sortedRecords,
		Tree:           BuildTree(sortedRecords),
		TotalScanned:   totalScanned,
		TechStack:      detectTechStack(sortedRecords),
		KeyDirectories: keyDirectories(sortedRecords),
		Duration:       elapsed.Seconds(),
	}
}

func assignPercentages(fileRecords []*types.FileRecord) {
	totalCharacters := 0
	for _, record := range fileRecords {
		totalCharacters += record.CharCount
	}
	for _, record := range fileRecords {
		if totalCharacters > 0 {
			record.Percentage = float64(record.CharCount) / float64(totalCharacters) * 100
		} else {
			record.Percentage = 0
		}
	}
}

func sortRecords(fileRecords []*types.FileRecord, configuration *types.ScanConfig) []*types.FileRecord {
	sortedRecords := make([]*types.FileRecord, len(fileRecords))
	copy(sortedRecords, fileRecords)
	switch {
	case configuration.SortAlphabetically:
		sort.SliceStable(sortedRecords, func(leftIndex, rightIndex int) bool {
			return strings.ToLower(sortedRecords[leftIndex].RelativePath) < strings.ToLower(sortedRecords[rightIndex].RelativePath)
		})
	case mostlyNumbered(sortedRecords):
		sortNumerically(sortedRecords)
	default:
		sortByImportance(sortedRecords)
	}
	return sortedRecords
}

// mostlyNumbered reports whether more than half of the files carry a
// leading-integer name prefix, in which case numeric ordering is used.
func mostlyNumbered(fileRecords []*types.FileRecord) bool {
	numberedCount := 0
	for _, record := range fileRecords {
		if numberedNamePattern.MatchString(path.Base(record.RelativePath)) {
			numberedCount++
		}
	}
	return numberedCount*2 > len(fileRecords)
}

func sortNumerically(fileRecords []*types.FileRecord) {
	sort.SliceStable(fileRecords, func(leftIndex, rightIndex int) bool {
		leftGroup, leftNumber, leftName := numericSortKey(fileRecords[leftIndex])
		rightGroup, rightNumber, rightName := numericSortKey(fileRecords[rightIndex])
		if leftGroup != rightGroup {
			return leftGroup < rightGroup
		}
		if leftNumber != rightNumber {
			return leftNumber < rightNumber
		}
		return leftName < rightName
	})
}

// numericSortKey orders numbered names by their leading integer and places
// unnumbered names after them.
func numericSortKey(record *types.FileRecord) (int, int, string) {
	fileName := path.Base(record.RelativePath)
	lowerName := strings.ToLower(fileName)
	if match := numberedNamePattern.FindStringSubmatch(fileName); match != nil {
		if leadingNumber, parseError := strconv.Atoi(match[1]); parseError == nil {
			return 0, leadingNumber, lowerName
		}
	}
	return 1, 0, lowerName
}

func sortByImportance(fileRecords []*types.FileRecord) {
	sort.SliceStable(fileRecords, func(leftIndex, rightIndex int) bool {
		leftRecord, rightRecord := fileRecords[leftIndex], fileRecords[rightIndex]
		leftRank, rightRank := importanceRank(leftRecord), importanceRank(rightRecord)
		if leftRank != rightRank {
			return leftRank < rightRank
		}
		leftDepth := strings.Count(leftRecord.RelativePath, "/")
		rightDepth := strings.Count(rightRecord.RelativePath, "/")
		if leftDepth != rightDepth {
			return leftDepth < rightDepth
		}
		return strings.ToLower(path.Base(leftRecord.RelativePath)) < strings.ToLower(path.Base(rightRecord.RelativePath))
	})
}

// importanceRank groups files for the heuristic ordering: README first, then
// always-included manifests, then everything else.
func importanceRank(record *types.FileRecord) int {
	fileName := path.Base(record.RelativePath)
	if strings.EqualFold(fileName, readmeFileName) {
		return 0
	}
	if filter.IsAlwaysIncludedFileName(fileName) {
		return 1
	}
	return 2
}

// detectTechStack collects technology names in the order files introduce
// them, one hit per technology.
func detectTechStack(fileRecords []*types.FileRecord) []string {
	seenTechnologies := map[string]struct{}{}
	technologies := []string{}
	for _, record := range fileRecords {
		technology, found := technologyByExtension[strings.ToLower(path.Ext(record.RelativePath))]
		if !found {
			continue
		}
		if _, seen := seenTechnologies[technology]; seen {
			continue
		}
		seenTechnologies[technology] = struct{}{}
		technologies = append(technologies, technology)
	}
	return technologies
}

// keyDirectories ranks parent directories by contained file count, most
// populated first, ties broken by name.
func keyDirectories(fileRecords []*types.FileRecord) []string {
	directoryCounts := map[string]int{}
	for _, record := range fileRecords {
		parentDirectory := path.Dir(record.RelativePath)
		if parentDirectory == "." {
			continue
		}
		directoryCounts[parentDirectory]++
	}
	directories := make([]string, 0, len(directoryCounts))
	for directoryPath := range directoryCounts {
		directories = append(directories, directoryPath)
	}
	sort.Slice(directories, func(leftIndex, rightIndex int) bool {
		if directoryCounts[directories[leftIndex]] != directoryCounts[directories[rightIndex]] {
			return directoryCounts[directories[leftIndex]] > directoryCounts[directories[rightIndex]]
		}
		return directories[leftIndex] < directories[rightIndex]
	})
	if len(directories) > keyDirectoryLimit {
		directories = directories[:keyDirectoryLimit]
	}
	return directories
}
