package output

import (
	"fmt"
	"io"
	"math"
	"path"
	"strings"

	"github.com/temirov/lens/internal/services/stream"
	"github.com/temirov/lens/internal/types"
	"github.com/temirov/lens/internal/utils"
)

const (
	markdownTreeChildGlyph  = "├──"
	markdownTreeLastGlyph   = "└──"
	markdownTreeChildSpacer = "│"
	markdownTreeLastSpacer  = " "

	includedMark = "✅"
	excludedMark = "❌"

	sizeBlockGlyph = "🔲"
	sizeBlockLimit = 10
)

// markdownRenderer buffers the whole stream and emits one of two documents
// on Flush: the full context document for the content command, or the
// tree-and-statistics document for the tree command.
type markdownRenderer struct {
	destination io.Writer
	command     string
	rootPath    string
	fileRecords []*types.FileRecord
	treeNodes   []*types.TreeOutputNode
	summary     *types.OutputSummary
}

func newMarkdownRenderer(destination io.Writer, command string) *markdownRenderer {
	return &markdownRenderer{destination: destination, command: command}
}

func (renderer *markdownRenderer) Handle(event stream.Event) error {
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

func (renderer *markdownRenderer) Flush() error {
	document := renderer.renderFullDocument()
	if renderer.command == types.CommandTree {
		document = renderer.renderSummaryDocument()
	}
	_, writeError := io.WriteString(renderer.destination, document)
	return writeError
}

func (renderer *markdownRenderer) totals() (lineTotal int, charTotal int) {
	for _, record := range renderer.fileRecords {
		lineTotal += record.LineCount
		charTotal += record.CharCount
	}
	return lineTotal, charTotal
}

func (renderer *markdownRenderer) scannedCount() int {
	if renderer.summary != nil {
		return renderer.summary.TotalScanned
	}
	return len(renderer.fileRecords)
}

func (renderer *markdownRenderer) techStack() []string {
	if renderer.summary == nil {
		return nil
	}
	return renderer.summary.TechStack
}

func (renderer *markdownRenderer) keyDirectories() []string {
	if renderer.summary == nil {
		return nil
	}
	return renderer.summary.KeyDirectories
}

func (renderer *markdownRenderer) renderFullDocument() string {
	lineTotal, charTotal := renderer.totals()
	techStack := renderer.techStack()

	var builder strings.Builder
	builder.WriteString("# 📁 Project Context & Codebase Analysis\n")
	fmt.Fprintf(&builder, "*Project Directory: `%s`*\n\n", utils.HomeShortenedPath(renderer.rootPath))

	builder.WriteString("## 🎯 Project Overview\n")
	fmt.Fprintf(&builder, "*This is a **%s** project with **%s source files** and **%s lines of code**.*\n\n",
		techStackLabel(techStack), formatCount(len(renderer.fileRecords)), formatCount(lineTotal))

	builder.WriteString("### 📊 Quick Stats\n")
	fmt.Fprintf(&builder, "- **Files:** %s\n", formatCount(len(renderer.fileRecords)))
	fmt.Fprintf(&builder, "- **Lines:** %s\n", formatCount(lineTotal))
	fmt.Fprintf(&builder, "- **Size:** ~%s\n", formatKilobytes(charTotal))
	fmt.Fprintf(&builder, "- **Scanned:** %s items\n", formatCount(renderer.scannedCount()))
	if renderer.summary != nil && renderer.summary.TotalTokens > 0 {
		fmt.Fprintf(&builder, "- **Tokens:** ~%s (%s)\n", formatCount(renderer.summary.TotalTokens), renderer.summary.Model)
	}
	builder.WriteString("\n")

	builder.WriteString("### 🏗️ Project Structure\n")
	builder.WriteString("```\n")
	builder.WriteString(renderer.renderTree(false))
	builder.WriteString("\n```\n\n")

	builder.WriteString("### 🔍 Key Insights\n")
	if len(techStack) > 0 {
		fmt.Fprintf(&builder, "- **Technology Stack:** %s\n", strings.Join(techStack, ", "))
	}
	if directories := renderer.keyDirectories(); len(directories) > 0 {
		fmt.Fprintf(&builder, "- **Key Directories:** %s\n", strings.Join(topEntries(directories, 5), ", "))
	}
	builder.WriteString("\n---\n\n")

	builder.WriteString("## 📄 Source Code & Configuration Files\n\n")
	builder.WriteString("*Files are organized by importance and relevance.*\n\n")
	for _, record := range renderer.fileRecords {
		builder.WriteString(fileSectionHeader(record) + "\n")
		fmt.Fprintf(&builder, "**File Info:** %s lines • %s chars • ~%.2f%% of codebase\n",
			formatCount(record.LineCount), formatCount(record.CharCount), record.Percentage)
		if record.Language != "" {
			fmt.Fprintf(&builder, "**Language:** %s\n", record.Language)
		}
		fmt.Fprintf(&builder, "\n```%s\n%s\n```\n\n", record.Language, record.Content)
	}

	return strings.TrimSpace(builder.String()) + "\n"
}

func (renderer *markdownRenderer) renderSummaryDocument() string {
	lineTotal, charTotal := renderer.totals()
	techStack := renderer.techStack()

	var builder strings.Builder
	builder.WriteString("# 📁 Project Structure & Statistics\n")
	fmt.Fprintf(&builder, "*Directory: %s*\n\n", utils.HomeShortenedPath(renderer.rootPath))

	builder.WriteString("## 🎯 Quick Overview\n")
	fmt.Fprintf(&builder, "*%s project with %s source files*\n\n",
		techStackLabel(techStack), formatCount(len(renderer.fileRecords)))

	fmt.Fprintf(&builder, "Legend: %s=Included, %s=Excluded, %s=%% Size (Max %d)\n\n",
		includedMark, excludedMark, sizeBlockGlyph, sizeBlockLimit)

	builder.WriteString("## 🏗️ Project Tree & Statistics\n")
	builder.WriteString("```\n")
	builder.WriteString(renderer.renderTree(true))
	builder.WriteString("\n```\n\n")

	builder.WriteString("## 📊 Summary Statistics\n")
	fmt.Fprintf(&builder, "*   **Total Files:** %s of %s scanned\n",
		formatCount(len(renderer.fileRecords)), formatCount(renderer.scannedCount()))
	fmt.Fprintf(&builder, "*   **Total Lines:** %s\n", formatCount(lineTotal))
	fmt.Fprintf(&builder, "*   **Total Characters:** %s (%s)\n", formatCount(charTotal), formatKilobytes(charTotal))
	if renderer.summary != nil && renderer.summary.TotalTokens > 0 {
		fmt.Fprintf(&builder, "*   **Total Tokens:** ~%s (%s)\n", formatCount(renderer.summary.TotalTokens), renderer.summary.Model)
	}
	builder.WriteString("\n")

	builder.WriteString("## 🔍 Key Insights\n")
	if len(techStack) > 0 {
		fmt.Fprintf(&builder, "- **Technology Stack:** %s\n", strings.Join(techStack, ", "))
	}
	if directories := renderer.keyDirectories(); len(directories) > 0 {
		fmt.Fprintf(&builder, "- **Key Directories:** %s\n", strings.Join(topEntries(directories, 5), ", "))
	}
	builder.WriteString("\n")

	return builder.String()
}

// renderTree draws the project tree with a synthetic "." root. With blocks
// enabled every node appears and large files gain size blocks; without them
// excluded leaves are dropped for a cleaner listing.
func (renderer *markdownRenderer) renderTree(withBlocks bool) string {
	treeLines := []string{". " + includedMark}
	appendMarkdownTreeLines(&treeLines, renderer.treeNodes, "", withBlocks)
	return strings.Join(treeLines, "\n")
}

func appendMarkdownTreeLines(treeLines *[]string, nodes []*types.TreeOutputNode, indent string, withBlocks bool) {
	for index, node := range nodes {
		if node == nil {
			continue
		}
		isLast := index == len(nodes)-1
		glyph := markdownTreeChildGlyph
		spacer := markdownTreeChildSpacer
		if isLast {
			glyph = markdownTreeLastGlyph
			spacer = markdownTreeLastSpacer
		}
		if !withBlocks && !node.Included && len(node.Children) == 0 {
			continue
		}
		mark := excludedMark
		if node.Included {
			mark = includedMark
		}
		line := fmt.Sprintf("%s%s %s %s", indent, glyph, node.Name, mark)
		if !node.IsDir && node.Included {
			line += fmt.Sprintf(" (%sL, %sC) [~%.2f%%]",
				formatCount(node.LineCount), formatCount(node.CharCount), node.Percentage)
			if withBlocks && node.Percentage > 0.1 {
				blockCount := int(math.Round(node.Percentage / 100 * sizeBlockLimit))
				if blockCount < 1 {
					blockCount = 1
				}
				line += " " + strings.Repeat(sizeBlockGlyph, blockCount)
			}
		}
		*treeLines = append(*treeLines, line)
		if len(node.Children) > 0 {
			appendMarkdownTreeLines(treeLines, node.Children, indent+spacer+" ", withBlocks)
		}
	}
}

func fileSectionHeader(record *types.FileRecord) string {
	baseName := strings.ToLower(path.Base(record.RelativePath))
	extension := path.Ext(baseName)
	switch {
	case baseName == "readme.md":
		return fmt.Sprintf("### 📖 `/%s` - Project Documentation", record.RelativePath)
	case extension == ".tsx" || extension == ".ts" || extension == ".jsx" || extension == ".js":
		return fmt.Sprintf("### ⚛️ `/%s` - React/JS Component", record.RelativePath)
	case extension == ".py":
		return fmt.Sprintf("### 🐍 `/%s` - Python Module", record.RelativePath)
	case extension == ".go":
		return fmt.Sprintf("### 🐹 `/%s` - Go Module", record.RelativePath)
	case extension == ".rs":
		return fmt.Sprintf("### 🦀 `/%s` - Rust Module", record.RelativePath)
	case extension == ".json":
		return fmt.Sprintf("### ⚙️ `/%s` - Configuration", record.RelativePath)
	case extension == ".md":
		return fmt.Sprintf("### 📝 `/%s` - Documentation", record.RelativePath)
	default:
		return fmt.Sprintf("### 📄 `/%s`", record.RelativePath)
	}
}
