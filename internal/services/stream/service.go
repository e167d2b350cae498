// Package stream converts a completed scan result into an ordered event
// sequence consumed by the output renderers.
package stream

import (
	"context"
	"fmt"

	"github.com/temirov/lens/internal/types"
)

// Options configures one event stream.
type Options struct {
	Command string
	Result  *types.ScanResult
	Summary *types.OutputSummary
}

type emitter struct {
	ctx     context.Context
	out     chan<- Event
	command string
}

func newEmitter(ctx context.Context, out chan<- Event, command string) *emitter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &emitter{ctx: ctx, out: out, command: command}
}

func (e *emitter) send(event Event) error {
	if e.out == nil {
		return fmt.Errorf("stream: event channel is nil")
	}
	event.Version = SchemaVersion
	if event.Command == "" {
		event.Command = e.command
	}
	select {
	case <-e.ctx.Done():
		return e.ctx.Err()
	case e.out <- event:
		return nil
	}
}

// StreamResult emits the scan result as events in render order. The summary
// event is emitted only when options carry one.
func StreamResult(ctx context.Context, options Options, out chan<- Event) error {
	if options.Result == nil {
		return fmt.Errorf("stream: scan result is nil")
	}
	eventEmitter := newEmitter(ctx, out, options.Command)
	rootPath := options.Result.Config.RootDirectory

	if sendError := eventEmitter.send(Event{Kind: EventKindStart, Path: rootPath}); sendError != nil {
		return sendError
	}
	for _, record := range options.Result.Files {
		if sendError := eventEmitter.send(Event{Kind: EventKindFile, Path: record.RelativePath, File: record}); sendError != nil {
			return sendError
		}
	}
	if sendError := eventEmitter.send(Event{Kind: EventKindTree, Path: rootPath, Tree: options.Result.Tree}); sendError != nil {
		return sendError
	}
	if options.Summary != nil {
		if sendError := eventEmitter.send(Event{Kind: EventKindSummary, Path: rootPath, Summary: options.Summary}); sendError != nil {
			return sendError
		}
	}
	return eventEmitter.send(Event{Kind: EventKindDone, Path: rootPath})
}
