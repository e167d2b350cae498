package output_test

import (
	"encoding/json"
	"testing"

	"github.com/temirov/lens/internal/types"
)

func decodeJSONDocument(t *testing.T, document string) map[string]any {
	t.Helper()
	var decoded map[string]any
	if decodeError := json.Unmarshal([]byte(document), &decoded); decodeError != nil {
		t.Fatalf("decoding document: %v\n%s", decodeError, document)
	}
	return decoded
}

func TestJSONContentDocument(t *testing.T) {
	document := renderDocument(t, types.FormatJSON, types.CommandContent, sampleEvents(types.CommandContent, true))
	decoded := decodeJSONDocument(t, document)

	projectInfo, ok := decoded["project_info"].(map[string]any)
	if !ok {
		t.Fatalf("expected project_info object, got %v", decoded)
	}
	if projectInfo["root_dir"] != sampleRootPath {
		t.Fatalf("unexpected root_dir: %v", projectInfo["root_dir"])
	}
	if projectInfo["total_files"] != float64(2) || projectInfo["scanned_count"] != float64(9) {
		t.Fatalf("unexpected counts: %v", projectInfo)
	}
	if projectInfo["total_lines"] != float64(15) || projectInfo["total_chars"] != float64(1000) {
		t.Fatalf("unexpected totals: %v", projectInfo)
	}

	techStack, ok := projectInfo["tech_stack"].([]any)
	if !ok || len(techStack) != 1 || techStack[0] != "Go" {
		t.Fatalf("unexpected tech_stack: %v", projectInfo["tech_stack"])
	}

	files, ok := decoded["files"].([]any)
	if !ok || len(files) != 2 {
		t.Fatalf("expected two file entries, got %v", decoded["files"])
	}
	firstFile := files[0].(map[string]any)
	if firstFile["path"] != "main.go" || firstFile["lines"] != float64(10) {
		t.Fatalf("unexpected file entry: %v", firstFile)
	}
	if _, hasContent := firstFile["content"]; hasContent {
		t.Fatalf("file contents must not leak into JSON output: %v", firstFile)
	}

	tree, ok := decoded["tree"].([]any)
	if !ok || len(tree) != 2 {
		t.Fatalf("expected tree nodes, got %v", decoded["tree"])
	}
}

func TestJSONTreeDocumentOmitsFiles(t *testing.T) {
	document := renderDocument(t, types.FormatJSON, types.CommandTree, sampleEvents(types.CommandTree, true))
	decoded := decodeJSONDocument(t, document)

	if _, hasFiles := decoded["files"]; hasFiles {
		t.Fatalf("tree document should omit the files array: %v", decoded)
	}
	if _, hasTree := decoded["tree"]; !hasTree {
		t.Fatalf("tree document should carry tree nodes: %v", decoded)
	}
}

func TestJSONEmptyTechStackStaysArray(t *testing.T) {
	document := renderDocument(t, types.FormatJSON, types.CommandContent, sampleEvents(types.CommandContent, false))
	decoded := decodeJSONDocument(t, document)

	projectInfo := decoded["project_info"].(map[string]any)
	techStack, ok := projectInfo["tech_stack"].([]any)
	if !ok {
		t.Fatalf("tech_stack should be an array even when empty, got %v", projectInfo["tech_stack"])
	}
	if len(techStack) != 0 {
		t.Fatalf("expected empty tech_stack without a summary, got %v", techStack)
	}
}

func TestJSONDocumentIsIndented(t *testing.T) {
	document := renderDocument(t, types.FormatJSON, types.CommandContent, sampleEvents(types.CommandContent, true))
	if document[0] != '{' || document[1] != '\n' {
		t.Fatalf("expected indented document, got %q", document[:20])
	}
}
