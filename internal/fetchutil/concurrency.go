package fetchutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Task produces one result. Failure policy belongs to the caller: a task
// that can fail should fold the error into its result type.
type Task[T any] func(ctx context.Context) T

// RunWithConcurrency executes tasks with at most limit running at once and
// returns results in task order regardless of completion order. Each output
// slot is written by exactly one worker, so the pre-sized slice needs no
// locking. An empty task list returns immediately; limit < 1 is a caller
// bug and fails fast.
func RunWithConcurrency[T any](ctx context.Context, tasks []Task[T], limit int) ([]T, error) {
	if limit < 1 {
		return nil, fmt.Errorf("concurrency limit must be at least 1, got %d", limit)
	}

	results := make([]T, len(tasks))
	if len(tasks) == 0 {
		return results, nil
	}

	workers := limit
	if workers > len(tasks) {
		workers = len(tasks)
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				idx := int(next.Add(1)) - 1
				if idx >= len(tasks) {
					return
				}
				results[idx] = tasks[idx](ctx)
			}
		}()
	}
	wg.Wait()

	return results, nil
}
