package pipeline

import (
	"context"
	"sync"
)

// Run processes inputs with opts.Threads workers (at least one) and returns
// one result per input, in input order. Workers share nothing but the
// results slice, where each writes only its own slot.
func Run(ctx context.Context, inputs []Input, opts Options) []Result {
	results := make([]Result, len(inputs))
	if len(inputs) == 0 {
		return results
	}
	workers := max(opts.Threads, 1)
	workers = min(workers, len(inputs))

	tasks := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range tasks {
				results[idx] = Process(ctx, inputs[idx], opts)
				if opts.OnDone != nil {
					opts.OnDone(results[idx])
				}
			}
		}()
	}

	for i := range inputs {
		tasks <- i
	}
	close(tasks)
	wg.Wait()
	return results
}
