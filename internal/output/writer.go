package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/temirov/lens/internal/services/clipboard"
)

// WriteOptions selects the delivery target for a rendered document. An
// output path wins over the clipboard flag; with neither set the document
// streams straight to stdout and no delivery step runs.
type WriteOptions struct {
	OutputPath      string
	CopyToClipboard bool
}

// NeedsCapture reports whether rendering must go through a buffer because
// the document leaves the process by file or clipboard instead of stdout.
func (options WriteOptions) NeedsCapture() bool {
	return options.OutputPath != "" || options.CopyToClipboard
}

// Deliverer routes captured documents to their target and echoes the
// summary line on the status stream so terminal users still see totals.
type Deliverer struct {
	statusWriter io.Writer
	copier       clipboard.Copier
}

func NewDeliverer(statusWriter io.Writer, copier clipboard.Copier) *Deliverer {
	if copier == nil {
		copier = clipboard.NewService()
	}
	return &Deliverer{statusWriter: statusWriter, copier: copier}
}

func (deliverer *Deliverer) Deliver(document string, summaryLine string, options WriteOptions) error {
	switch {
	case options.OutputPath != "":
		parentDirectory := filepath.Dir(options.OutputPath)
		if parentDirectory != "." {
			if mkdirError := os.MkdirAll(parentDirectory, 0o755); mkdirError != nil {
				return fmt.Errorf("creating output directory %s: %w", parentDirectory, mkdirError)
			}
		}
		if writeError := os.WriteFile(options.OutputPath, []byte(document), 0o644); writeError != nil {
			return fmt.Errorf("writing %s: %w", options.OutputPath, writeError)
		}
		deliverer.status(summaryLine)
		deliverer.status(fmt.Sprintf("Success: Written to %s", options.OutputPath))
		return nil
	case options.CopyToClipboard:
		if copyError := deliverer.copier.Copy(document); copyError != nil {
			return fmt.Errorf("copying to clipboard: %w", copyError)
		}
		deliverer.status(summaryLine)
		deliverer.status(fmt.Sprintf("Success: %s chars copied to clipboard", formatCount(utf8.RuneCountInString(document))))
		return nil
	default:
		return nil
	}
}

func (deliverer *Deliverer) status(line string) {
	if deliverer.statusWriter == nil || line == "" {
		return
	}
	fmt.Fprintln(deliverer.statusWriter, line)
}
