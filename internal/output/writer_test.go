package output_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/lens/internal/output"
)

type recordingCopier struct {
	copied    string
	copyError error
}

func (copier *recordingCopier) Copy(text string) error {
	if copier.copyError != nil {
		return copier.copyError
	}
	copier.copied = text
	return nil
}

func TestWriteOptionsNeedsCapture(t *testing.T) {
	if (output.WriteOptions{}).NeedsCapture() {
		t.Fatal("stdout delivery should not require capture")
	}
	if !(output.WriteOptions{OutputPath: "out.md"}).NeedsCapture() {
		t.Fatal("file delivery requires capture")
	}
	if !(output.WriteOptions{CopyToClipboard: true}).NeedsCapture() {
		t.Fatal("clipboard delivery requires capture")
	}
}

func TestDeliverToFileCreatesParents(t *testing.T) {
	temporaryDirectory := t.TempDir()
	outputPath := filepath.Join(temporaryDirectory, "nested", "context.md")

	var status bytes.Buffer
	deliverer := output.NewDeliverer(&status, &recordingCopier{})
	deliverError := deliverer.Deliver("# document\n", "Summary: 1 of 1 scanned, 1 lines, 10 chars", output.WriteOptions{OutputPath: outputPath})
	if deliverError != nil {
		t.Fatalf("delivering to file: %v", deliverError)
	}

	written, readError := os.ReadFile(outputPath)
	if readError != nil {
		t.Fatalf("reading delivered file: %v", readError)
	}
	if string(written) != "# document\n" {
		t.Fatalf("unexpected file content: %q", written)
	}
	statusOutput := status.String()
	if !strings.Contains(statusOutput, "Summary: 1 of 1 scanned") {
		t.Fatalf("expected summary echo, got %q", statusOutput)
	}
	if !strings.Contains(statusOutput, "Success: Written to "+outputPath) {
		t.Fatalf("expected success message, got %q", statusOutput)
	}
}

func TestDeliverToClipboard(t *testing.T) {
	copier := &recordingCopier{}
	var status bytes.Buffer
	deliverer := output.NewDeliverer(&status, copier)

	deliverError := deliverer.Deliver("content body", "Summary line", output.WriteOptions{CopyToClipboard: true})
	if deliverError != nil {
		t.Fatalf("delivering to clipboard: %v", deliverError)
	}
	if copier.copied != "content body" {
		t.Fatalf("expected clipboard to receive document, got %q", copier.copied)
	}
	if !strings.Contains(status.String(), "Success: 12 chars copied to clipboard") {
		t.Fatalf("expected char count in status, got %q", status.String())
	}
}

func TestDeliverClipboardFailure(t *testing.T) {
	copier := &recordingCopier{copyError: errors.New("no display")}
	deliverer := output.NewDeliverer(nil, copier)

	deliverError := deliverer.Deliver("content", "", output.WriteOptions{CopyToClipboard: true})
	if deliverError == nil {
		t.Fatal("expected clipboard failure to surface")
	}
}

func TestDeliverOutputPathWinsOverClipboard(t *testing.T) {
	temporaryDirectory := t.TempDir()
	outputPath := filepath.Join(temporaryDirectory, "context.md")
	copier := &recordingCopier{}
	deliverer := output.NewDeliverer(nil, copier)

	deliverError := deliverer.Deliver("body", "", output.WriteOptions{OutputPath: outputPath, CopyToClipboard: true})
	if deliverError != nil {
		t.Fatalf("delivering: %v", deliverError)
	}
	if copier.copied != "" {
		t.Fatal("clipboard should stay untouched when an output path is set")
	}
	if _, statError := os.Stat(outputPath); statError != nil {
		t.Fatalf("expected file delivery: %v", statError)
	}
}
