package stream

import (
	"github.com/temirov/lens/internal/types"
)

const SchemaVersion = 1

type EventKind string

const (
	EventKindStart   EventKind = "start"
	EventKindFile    EventKind = "file"
	EventKindTree    EventKind = "tree"
	EventKindSummary EventKind = "summary"
	EventKindDone    EventKind = "done"
)

// Event is one element of the ordered sequence a scan produces: start, one
// file event per record in final order, the tree, an optional summary, done.
type Event struct {
	Version int       `json:"version"`
	Kind    EventKind `json:"kind"`
	Command string    `json:"command,omitempty"`
	Path    string    `json:"path,omitempty"`

	File    *types.FileRecord       `json:"file,omitempty"`
	Tree    []*types.TreeOutputNode `json:"tree,omitempty"`
	Summary *types.OutputSummary    `json:"summary,omitempty"`
}
