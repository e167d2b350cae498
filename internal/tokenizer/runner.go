package tokenizer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/lens/internal/types"
)

// CountRecords fills in the Tokens field of every record, running counts in
// parallel with one worker per CPU. Records whose content cannot be counted
// keep a zero count.
func CountRecords(ctx context.Context, counter Counter, fileRecords []*types.FileRecord) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())
	for _, record := range fileRecords {
		group.Go(func() error {
			if contextError := groupCtx.Err(); contextError != nil {
				return contextError
			}
			countResult, countError := CountBytes(counter, []byte(record.Content))
			if countError != nil {
				return countError
			}
			if countResult.Counted {
				record.Tokens = countResult.Tokens
			}
			return nil
		})
	}
	return group.Wait()
}
