package ecdsa

import (
	"context"
	"runtime"
	"sync"
)

// BatchItem is a single signature to check with VerifyBatch.
type BatchItem struct {
	PublicKey *PublicKey
	Message   []byte
	Signature *Signature
}

// batchJob pairs an item with its position in the input.
type batchJob struct {
	index int
	item  BatchItem
}

// VerifyBatch verifies items concurrently using the given number of workers
// (0 = one per CPU). The result slice is in input order. If ctx is cancelled
// before every item is checked, VerifyBatch returns ctx.Err().
func VerifyBatch(ctx context.Context, items []BatchItem, workers int) ([]bool, error) {
	results := make([]bool, len(items))
	if len(items) == 0 {
		return results, ctx.Err()
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(items) {
		workers = len(items)
	}
	log.Debugf("Verifying %d signatures with %d workers", len(items), workers)

	jobs := make(chan batchJob, workers*2)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batchWorker(ctx, jobs, results)
		}()
	}

	// Feed jobs until the input is exhausted or the caller gives up.
feed:
	for i, item := range items {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- batchJob{index: i, item: item}:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// batchWorker verifies jobs until the channel is closed. Each worker writes
// only to the result slots of the jobs it receives.
func batchWorker(ctx context.Context, jobs <-chan batchJob, results []bool) {
	for job := range jobs {
		if ctx.Err() != nil {
			continue
		}
		results[job.index] = job.item.Signature.Verify(
			job.item.PublicKey, job.item.Message,
		)
	}
}
