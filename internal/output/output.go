// Package output renders scan results for terminals, files and pipelines.
// Each renderer consumes the event stream produced by services/stream,
// buffers what its document needs and writes everything on Flush.
package output

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/temirov/lens/internal/services/stream"
	"github.com/temirov/lens/internal/types"
)

// StreamRenderer consumes scan events one at a time and writes its document
// when the stream completes.
type StreamRenderer interface {
	Handle(event stream.Event) error
	Flush() error
}

// NewStreamRenderer returns the renderer registered for the requested format.
func NewStreamRenderer(format string, destination io.Writer, command string) (StreamRenderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case types.FormatMarkdown:
		return newMarkdownRenderer(destination, command), nil
	case types.FormatJSON:
		return newJSONRenderer(destination, command), nil
	case types.FormatRaw:
		return newRawRenderer(destination, command), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// ComputeSummary folds a scan result into the totals the renderers and the
// status line report. Token totals accumulate whatever the counting pass
// stored on the records; the model label is stamped by the caller.
func ComputeSummary(result *types.ScanResult) *types.OutputSummary {
	if result == nil {
		return nil
	}
	summary := &types.OutputSummary{
		TotalFiles:     len(result.Files),
		TotalScanned:   result.TotalScanned,
		TotalLines:     result.TotalLineCount(),
		TotalChars:     result.TotalCharCount(),
		TechStack:      append([]string(nil), result.TechStack...),
		KeyDirectories: append([]string(nil), result.KeyDirectories...),
		Duration:       result.Duration,
	}
	for _, record := range result.Files {
		summary.TotalTokens += record.Tokens
	}
	return summary
}

// FormatSummaryLine renders the single status line printed to stderr when
// the document itself goes to a file or the clipboard.
func FormatSummaryLine(summary *types.OutputSummary) string {
	if summary == nil {
		return ""
	}
	tokenSegment := ""
	if summary.TotalTokens > 0 {
		tokenSegment = fmt.Sprintf(", ~%s tokens", formatCount(summary.TotalTokens))
		if summary.Model != "" {
			tokenSegment = fmt.Sprintf("%s (%s)", tokenSegment, summary.Model)
		}
	}
	return fmt.Sprintf("Summary: %s of %s scanned, %s lines, %s chars%s",
		formatCount(summary.TotalFiles),
		formatCount(summary.TotalScanned),
		formatCount(summary.TotalLines),
		formatCount(summary.TotalChars),
		tokenSegment)
}

var countPrinter = message.NewPrinter(language.English)

func formatCount(value int) string {
	return countPrinter.Sprintf("%d", value)
}

func formatKilobytes(charCount int) string {
	return fmt.Sprintf("%.1f kB", float64(charCount)/1024)
}

func techStackLabel(techStack []string) string {
	if len(techStack) == 0 {
		return "Unknown"
	}
	return strings.Join(techStack, ", ")
}

func topEntries(entries []string, limit int) []string {
	if len(entries) <= limit {
		return entries
	}
	return entries[:limit]
}
