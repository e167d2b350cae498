package output_test

import (
	"strings"
	"testing"

	"github.com/temirov/lens/internal/types"
)

func TestRawContentDumpsFilesInStreamOrder(t *testing.T) {
	document := renderDocument(t, types.FormatRaw, types.CommandContent, sampleEvents(types.CommandContent, true))

	firstHeader := strings.Index(document, "File: main.go\n")
	secondHeader := strings.Index(document, "File: internal/app/server.go\n")
	if firstHeader < 0 || secondHeader < 0 || firstHeader > secondHeader {
		t.Fatalf("expected file dumps in stream order:\n%s", document)
	}
	if !strings.Contains(document, "package main\n\nfunc main() {}\n") {
		t.Fatalf("expected file content in dump:\n%s", document)
	}
	if !strings.Contains(document, "End of file: main.go\n----------------------------------------\n") {
		t.Fatalf("expected trailer and separator:\n%s", document)
	}
	if strings.Contains(document, "├──") {
		t.Fatalf("content dump should not draw a tree:\n%s", document)
	}
}

func TestRawContentAppendsSummaryLine(t *testing.T) {
	document := renderDocument(t, types.FormatRaw, types.CommandContent, sampleEvents(types.CommandContent, true))
	if !strings.HasSuffix(document, "Summary: 2 of 9 scanned, 15 lines, 1,000 chars\n") {
		t.Fatalf("expected trailing summary line:\n%s", document)
	}
}

func TestRawContentTerminatesUnterminatedContent(t *testing.T) {
	events := sampleEvents(types.CommandContent, false)
	for _, event := range events {
		if event.File != nil {
			event.File.Content = "no trailing newline"
		}
	}
	document := renderDocument(t, types.FormatRaw, types.CommandContent, events)
	if !strings.Contains(document, "no trailing newline\nEnd of file:") {
		t.Fatalf("expected newline inserted before trailer:\n%s", document)
	}
}

func TestRawTreeRendersGlyphTree(t *testing.T) {
	document := renderDocument(t, types.FormatRaw, types.CommandTree, sampleEvents(types.CommandTree, true))

	expectedLines := []string{
		"/project",
		"├── internal ✅",
		"│   └── app ✅",
		"│       └── server.go ✅ (5L, 400C)",
		"└── main.go ✅ (10L, 600C)",
	}
	expected := strings.Join(expectedLines, "\n") + "\n"
	if !strings.HasPrefix(document, expected) {
		t.Fatalf("expected tree:\n%s\ngot:\n%s", expected, document)
	}
	if strings.Contains(document, "File: ") {
		t.Fatalf("tree output should not dump file contents:\n%s", document)
	}
}

func TestRawTreeWithoutSummaryHasNoStatusLine(t *testing.T) {
	document := renderDocument(t, types.FormatRaw, types.CommandTree, sampleEvents(types.CommandTree, false))
	if strings.Contains(document, "Summary:") {
		t.Fatalf("expected no summary line:\n%s", document)
	}
}
