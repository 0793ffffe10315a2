// Package batch runs per-item writes in fixed-size batches. Members of a batch
// run concurrently; batches run one after another.
package batch

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultSize is the batch size used when callers pass a non-positive size.
const DefaultSize = 100

// Result reports how far a run got. Succeeded counts items whose fn returned nil.
type Result struct {
	Attempted int
	Succeeded int
}

// Run applies fn to every item. A batch always runs to completion; when any
// member fails, later batches are not started and the first error is returned
// together with the counts so far.
func Run[T any](ctx context.Context, items []T, size int, fn func(ctx context.Context, item T) error) (Result, error) {
	if size <= 0 {
		size = DefaultSize
	}

	var res Result
	var succeeded atomic.Int64
	for start := 0; start < len(items); start += size {
		if err := ctx.Err(); err != nil {
			res.Succeeded = int(succeeded.Load())
			return res, err
		}

		end := min(start+size, len(items))
		var g errgroup.Group
		for _, item := range items[start:end] {
			g.Go(func() error {
				if err := fn(ctx, item); err != nil {
					return err
				}
				succeeded.Add(1)
				return nil
			})
		}
		err := g.Wait()
		res.Attempted += end - start
		if err != nil {
			res.Succeeded = int(succeeded.Load())
			return res, err
		}
	}

	res.Succeeded = int(succeeded.Load())
	return res, nil
}

// Chunks splits items into consecutive slices of at most size elements.
func Chunks[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultSize
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		chunks = append(chunks, items[start:min(start+size, len(items))])
	}
	return chunks
}
