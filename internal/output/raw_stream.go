package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/temirov/lens/internal/services/stream"
	"github.com/temirov/lens/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	separatorLine = "----------------------------------------"

	rawFileHeaderFormat  = "File: %s\n"
	rawFileTrailerFormat = "End of file: %s\n"
)

// rawRenderer writes plain text with no markup: file dumps for the content
// command, a glyph tree for the tree command, and the status line whenever
// a summary event arrived. Files stream through without buffering.
type rawRenderer struct {
	destination io.Writer
	command     string
	summary     *types.OutputSummary
}

func newRawRenderer(destination io.Writer, command string) *rawRenderer {
	return &rawRenderer{destination: destination, command: command}
}

func (renderer *rawRenderer) Handle(event stream.Event) error {
	switch event.Kind {
	case stream.EventKindFile:
		if renderer.command == types.CommandContent && event.File != nil {
			return renderer.writeFileDump(event.File)
		}
	case stream.EventKindTree:
		if renderer.command != types.CommandContent {
			return renderer.writeTree(event.Path, event.Tree)
		}
	case stream.EventKindSummary:
		renderer.summary = event.Summary
	}
	return nil
}

func (renderer *rawRenderer) Flush() error {
	if renderer.summary == nil {
		return nil
	}
	_, writeError := io.WriteString(renderer.destination, FormatSummaryLine(renderer.summary)+"\n")
	return writeError
}

func (renderer *rawRenderer) writeFileDump(record *types.FileRecord) error {
	var builder strings.Builder
	fmt.Fprintf(&builder, rawFileHeaderFormat, record.RelativePath)
	builder.WriteString(record.Content)
	if !strings.HasSuffix(record.Content, "\n") {
		builder.WriteString("\n")
	}
	fmt.Fprintf(&builder, rawFileTrailerFormat, record.RelativePath)
	builder.WriteString(separatorLine + "\n")
	_, writeError := io.WriteString(renderer.destination, builder.String())
	return writeError
}

func (renderer *rawRenderer) writeTree(rootPath string, nodes []*types.TreeOutputNode) error {
	var builder strings.Builder
	if rootPath != "" {
		builder.WriteString(rootPath + "\n")
	}
	renderRawTreeNodes(&builder, nodes, "")
	_, writeError := io.WriteString(renderer.destination, builder.String())
	return writeError
}

func renderRawTreeNodes(builder *strings.Builder, nodes []*types.TreeOutputNode, prefix string) {
	for index, node := range nodes {
		if node == nil {
			continue
		}
		connector := treeBranchConnector
		padding := treeBranchPadding
		if index == len(nodes)-1 {
			connector = treeLastConnector
			padding = treeLastPadding
		}
		builder.WriteString(prefix + connector + rawTreeLabel(node) + "\n")
		if len(node.Children) > 0 {
			renderRawTreeNodes(builder, node.Children, prefix+padding)
		}
	}
}

func rawTreeLabel(node *types.TreeOutputNode) string {
	mark := excludedMark
	if node.Included {
		mark = includedMark
	}
	if node.IsDir || !node.Included {
		return fmt.Sprintf("%s %s", node.Name, mark)
	}
	return fmt.Sprintf("%s %s (%sL, %sC)", node.Name, mark, formatCount(node.LineCount), formatCount(node.CharCount))
}
