package output

import (
	"encoding/json"
	"io"

	"github.com/temirov/lens/internal/services/stream"
	"github.com/temirov/lens/internal/types"
)

// jsonProjectInfo is the header object of the JSON document. Field names
// stay snake_case for consumers scripted against the established format.
type jsonProjectInfo struct {
	RootDirectory  string   `json:"root_dir"`
	TotalFiles     int      `json:"total_files"`
	TotalLines     int      `json:"total_lines"`
	TotalChars     int      `json:"total_chars"`
	ScannedCount   int      `json:"scanned_count"`
	TechStack      []string `json:"tech_stack"`
	KeyDirectories []string `json:"key_directories,omitempty"`
	TotalTokens    int      `json:"total_tokens,omitempty"`
	Model          string   `json:"model,omitempty"`
	Duration       float64  `json:"duration_seconds,omitempty"`
}

type jsonDocument struct {
	ProjectInfo jsonProjectInfo         `json:"project_info"`
	Files       []*types.FileRecord     `json:"files,omitempty"`
	Tree        []*types.TreeOutputNode `json:"tree,omitempty"`
}

// jsonRenderer buffers the stream and encodes one indented document on
// Flush. File contents never appear in JSON output; records expose their
// statistics only.
type jsonRenderer struct {
	destination io.Writer
	command     string
	rootPath    string
	fileRecords []*types.FileRecord
	treeNodes   []*types.TreeOutputNode
	summary     *types.OutputSummary
}

func newJSONRenderer(destination io.Writer, command string) *jsonRenderer {
	return &jsonRenderer{destination: destination, command: command}
}

func (renderer *jsonRenderer) Handle(event stream.Event) error {
	switch event.Kind {
	case stream.EventKindStart:
		renderer.rootPath = event.Path
	case stream.EventKindFile:
		if event.File != nil {
			renderer.fileRecords = append(renderer.fileRecords, event.File)
		}
	case stream.EventKindTree:
		renderer.treeNodes = event.Tree
	case stream.EventKindSummary:
		renderer.summary = event.Summary
	}
	return nil
}

func (renderer *jsonRenderer) Flush() error {
	lineTotal, charTotal := 0, 0
	for _, record := range renderer.fileRecords {
		lineTotal += record.LineCount
		charTotal += record.CharCount
	}

	info := jsonProjectInfo{
		RootDirectory: renderer.rootPath,
		TotalFiles:    len(renderer.fileRecords),
		TotalLines:    lineTotal,
		TotalChars:    charTotal,
		ScannedCount:  len(renderer.fileRecords),
		TechStack:     []string{},
	}
	if renderer.summary != nil {
		info.ScannedCount = renderer.summary.TotalScanned
		if len(renderer.summary.TechStack) > 0 {
			info.TechStack = renderer.summary.TechStack
		}
		info.KeyDirectories = renderer.summary.KeyDirectories
		info.TotalTokens = renderer.summary.TotalTokens
		info.Model = renderer.summary.Model
		info.Duration = renderer.summary.Duration
	}

	document := jsonDocument{ProjectInfo: info, Tree: renderer.treeNodes}
	if renderer.command != types.CommandTree {
		fileRecords := renderer.fileRecords
		if fileRecords == nil {
			fileRecords = []*types.FileRecord{}
		}
		document.Files = fileRecords
	}

	encoder := json.NewEncoder(renderer.destination)
	encoder.SetIndent("", "  ")
	return encoder.Encode(document)
}
