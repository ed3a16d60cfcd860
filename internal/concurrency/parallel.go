package concurrency

import (
	"context"
	"sync"
)

// ParallelOptions configures ProcessParallel.
type ParallelOptions struct {
	// MaxWorkers caps the number of goroutines. Values <= 0 mean 10.
	MaxWorkers int
}

func DefaultOptions() ParallelOptions {
	return ParallelOptions{
		MaxWorkers: 10,
	}
}

// ProcessParallel calls itemFunc for every item on a bounded pool of workers.
// Results come back in input order. Errors are collected in completion order.
// Once ctx is done, remaining items are skipped, left as zero values, and
// ctx.Err() is reported once.
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = DefaultOptions().MaxWorkers
	}
	if maxWorkers > len(items) {
		maxWorkers = len(items)
	}

	type result struct {
		index int
		value R
		err   error
		ran   bool
	}

	jobs := make(chan int, len(items))
	results := make(chan result, len(items))

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					results <- result{index: i}
					continue
				}
				v, err := itemFunc(ctx, i, items[i])
				results <- result{index: i, value: v, err: err, ran: true}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]R, len(items))
	var errs []error
	skipped := false
	for res := range results {
		if !res.ran {
			skipped = true
			continue
		}
		if res.err != nil {
			errs = append(errs, res.err)
		}
		out[res.index] = res.value
	}
	if skipped {
		errs = append(errs, ctx.Err())
	}

	return out, errs
}
