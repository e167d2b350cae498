package analyze

import (
	"path"
	"sort"
	"strings"

	"github.com/temirov/lens/internal/types"
)

type segmentTree map[string]segmentTree

// BuildTree nests the accepted files and their ancestor directories into tree
// nodes. Siblings are ordered by segment name at every level; a directory is
// included when at least one descendant file is.
func BuildTree(fileRecords []*types.FileRecord) []*types.TreeOutputNode {
	recordsByPath := make(map[string]*types.FileRecord, len(fileRecords))
	pathSet := map[string]struct{}{}
	for _, record := range fileRecords {
		recordsByPath[record.RelativePath] = record
		pathSet[record.RelativePath] = struct{}{}
		for parentPath := path.Dir(record.RelativePath); parentPath != "."; parentPath = path.Dir(parentPath) {
			pathSet[parentPath] = struct{}{}
		}
	}

	allPaths := make([]string, 0, len(pathSet))
	for treePath := range pathSet {
		allPaths = append(allPaths, treePath)
	}
	sort.Strings(allPaths)

	rootLevel := segmentTree{}
	for _, treePath := range allPaths {
		currentLevel := rootLevel
		for _, segment := range strings.Split(treePath, "/") {
			childLevel, exists := currentLevel[segment]
			if !exists {
				childLevel = segmentTree{}
				currentLevel[segment] = childLevel
			}
			currentLevel = childLevel
		}
	}
	return segmentsToNodes(rootLevel, "", recordsByPath)
}

func segmentsToNodes(level segmentTree, parentPath string, recordsByPath map[string]*types.FileRecord) []*types.TreeOutputNode {
	segments := make([]string, 0, len(level))
	for segment := range level {
		segments = append(segments, segment)
	}
	sort.Strings(segments)

	nodes := make([]*types.TreeOutputNode, 0, len(segments))
	for _, segment := range segments {
		nodePath := segment
		if parentPath != "" {
			nodePath = parentPath + "/" + segment
		}
		childLevel := level[segment]
		if len(childLevel) > 0 {
			children := segmentsToNodes(childLevel, nodePath, recordsByPath)
			included := false
			for _, child := range children {
				if child.Included {
					included = true
					break
				}
			}
			nodes = append(nodes, &types.TreeOutputNode{
				Name:     segment,
				Path:     nodePath,
				IsDir:    true,
				Included: included,
				Children: children,
			})
			continue
		}
		node := &types.TreeOutputNode{Name: segment, Path: nodePath}
		if record, found := recordsByPath[nodePath]; found {
			node.Included = true
			node.LineCount = record.LineCount
			node.CharCount = record.CharCount
			node.Percentage = record.Percentage
		}
		nodes = append(nodes, node)
	}
	return nodes
}
