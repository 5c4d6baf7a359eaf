package deploy

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-sitebuilder/internal/assemble"
	"github.com/goliatone/go-sitebuilder/internal/hosting"
)

// uploadRequired sends the files whose digests the host reported missing.
// Uploads run concurrently across a small worker pool; all must finish
// before polling starts. Already-sent bytes are never recalled, so workers
// drain even when one upload fails.
func uploadRequired(ctx context.Context, client hosting.Client, deployID string, manifest *assemble.FileManifest, required []string, workers int) error {
	if len(required) == 0 {
		return nil
	}
	if workers < 1 {
		workers = 4
	}

	needed := make(map[string]struct{}, len(required))
	for _, digest := range required {
		needed[digest] = struct{}{}
	}

	// One upload per required digest; duplicate content uploads once.
	type job struct {
		path string
		body []byte
	}
	var pending []job
	sent := make(map[string]struct{}, len(needed))
	for _, file := range manifest.Files() {
		if _, ok := needed[file.Hash]; !ok {
			continue
		}
		if _, done := sent[file.Hash]; done {
			continue
		}
		sent[file.Hash] = struct{}{}
		pending = append(pending, job{path: file.Path, body: file.Body})
	}

	jobs := make(chan job)
	results := make(chan error, len(pending))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				select {
				case <-ctx.Done():
					results <- ctx.Err()
					continue
				default:
				}
				results <- client.UploadFile(ctx, deployID, j.path, j.body)
			}
		}()
	}

	for _, j := range pending {
		jobs <- j
	}
	close(jobs)
	wg.Wait()
	close(results)

	var errs []error
	for err := range results {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
