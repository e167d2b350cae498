package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/temirov/lens/internal/types"
	"github.com/temirov/lens/internal/utils"
)

const (
	truncationMarkerFormat   = "\n\n[content truncated: showing %d of %d characters]"
	readFailureWarningFormat = "Could not read %s: %v"
	readFailureContentFormat = "# Error reading file: %v"
	readFailureLanguageTag   = "plaintext"
)

// ReadResult carries the outcome of reading a single file.
type ReadResult struct {
	Content      string
	WasTruncated bool
	ByteSize     int64
}

// ReadFileContent reads a file as text, dropping byte sequences that are not
// valid UTF-8. When truncate is set and the content exceeds maximumCharacters
// runes, the content is cut there and a marker records the original length.
func ReadFileContent(absolutePath string, maximumCharacters int, truncate bool) (ReadResult, error) {
	fileBytes, readError := os.ReadFile(absolutePath)
	if readError != nil {
		return ReadResult{}, readError
	}
	information, statError := os.Stat(absolutePath)
	if statError != nil {
		return ReadResult{}, statError
	}
	content := utils.DecodeText(fileBytes)
	wasTruncated := false
	if truncate && maximumCharacters > 0 {
		contentRunes := []rune(content)
		if len(contentRunes) > maximumCharacters {
			content = string(contentRunes[:maximumCharacters]) +
				fmt.Sprintf(truncationMarkerFormat, maximumCharacters, len(contentRunes))
			wasTruncated = true
		}
	}
	return ReadResult{Content: content, WasTruncated: wasTruncated, ByteSize: information.Size()}, nil
}

// BuildFileRecords reads every accepted path into a FileRecord, preserving the
// input order. Unreadable files produce placeholder records so downstream
// output still lists them.
func BuildFileRecords(acceptedPaths []string, configuration *types.ScanConfig, loggerInstance *zap.Logger) []*types.FileRecord {
	fileRecords := make([]*types.FileRecord, 0, len(acceptedPaths))
	for _, absolutePath := range acceptedPaths {
		relativePath := filepath.ToSlash(utils.RelativePathOrSelf(absolutePath, configuration.RootDirectory))
		readResult, readError := ReadFileContent(absolutePath, configuration.MaxFileChars, configuration.TruncateLargeFiles)
		if readError != nil {
			loggerInstance.Warn(fmt.Sprintf(readFailureWarningFormat, absolutePath, readError))
			fileRecords = append(fileRecords, &types.FileRecord{
				RelativePath: relativePath,
				AbsolutePath: absolutePath,
				Content:      fmt.Sprintf(readFailureContentFormat, readError),
				Language:     readFailureLanguageTag,
			})
			continue
		}
		lineCount := 0
		if len(readResult.Content) > 0 {
			lineCount = strings.Count(readResult.Content, "\n") + 1
		}
		fileRecords = append(fileRecords, &types.FileRecord{
			RelativePath: relativePath,
			AbsolutePath: absolutePath,
			Content:      readResult.Content,
			ByteSize:     readResult.ByteSize,
			LineCount:    lineCount,
			CharCount:    utf8.RuneCountInString(readResult.Content),
			Language:     DetectLanguage(filepath.Base(absolutePath)),
			Truncated:    readResult.WasTruncated,
		})
	}
	return fileRecords
}
