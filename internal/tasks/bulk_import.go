package tasks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/time/rate"

	"github.com/desertthunder/recon/internal/models"
	"github.com/desertthunder/recon/internal/shared"
)

// BulkImportOpts contains configuration for bulk imports.
type BulkImportOpts struct {
	NumWorkers int     // Concurrent workers (default: 4)
	RateLimit  float64 // Rows per second (default: 50)
}

// ImportRowResult is the outcome of reconciling one row.
type ImportRowResult struct {
	Line     int
	Identity models.Identity
	View     *models.ClusterView
	Error    error
}

// BulkImportResult summarizes a bulk import.
type BulkImportResult struct {
	TotalRows  int
	Succeeded  int
	Failed     int
	Results    []ImportRowResult // Ordered by line
	PrimaryIDs []int64           // Distinct primaries of the clusters the rows ended up in, ascending
}

// BulkImport reconciles rows concurrently with rate limiting and progress tracking.
//
// Row failures are recorded in the result and do not stop the import. Cancelling ctx stops handing out
// rows; rows already in flight finish and the partial result is returned along with ctx's error.
func (e *ImportEngine) BulkImport(ctx context.Context, prog chan<- ProgressUpdate, rows []ImportRow, opts BulkImportOpts) (*BulkImportResult, error) {
	if e.reconciler == nil {
		return nil, fmt.Errorf("%w: reconciler not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 32 {
		opts.NumWorkers = 32
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 50
	}

	result := &BulkImportResult{
		TotalRows: len(rows),
		Results:   make([]ImportRowResult, 0, len(rows)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan ImportRow, len(rows))
	results := make(chan ImportRowResult, len(rows))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.importWorker(ctx, &wg, jobs, results)
	}

	e.sendProgress(prog, startImportUpdate(len(rows)))

	go func() {
		defer close(jobs)
		for _, row := range rows {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			jobs <- row
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Error == nil {
			result.Succeeded++
			e.sendProgress(prog, rowReconciledUpdate(completed, len(rows), res))
		} else {
			result.Failed++
			e.logger.Warn("row failed", "line", res.Line, "identity", describeIdentity(res.Identity), "err", res.Error)
			e.sendProgress(prog, rowFailedUpdate(completed, len(rows), res))
		}
	}

	slices.SortFunc(result.Results, func(a, b ImportRowResult) int { return a.Line - b.Line })

	if err := ctx.Err(); err != nil {
		return result, err
	}

	primaries, err := e.finalPrimaries(ctx, prog, result.Results)
	if err != nil {
		return result, err
	}
	result.PrimaryIDs = primaries

	e.logger.Info("import finished", "rows", result.TotalRows, "succeeded", result.Succeeded, "failed", result.Failed, "clusters", len(primaries))
	return result, nil
}

// importWorker is a worker goroutine that reconciles rows from the jobs channel.
func (e *ImportEngine) importWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan ImportRow, results chan<- ImportRowResult) {
	defer wg.Done()

	for row := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		view, err := e.reconciler.Reconcile(ctx, row.Identity)
		results <- ImportRowResult{Line: row.Line, Identity: row.Identity, View: view, Error: err}
	}
}

// finalPrimaries resolves the primaries seen during the import to the clusters they belong to now,
// since rows reconciled later may have merged clusters created earlier.
func (e *ImportEngine) finalPrimaries(ctx context.Context, prog chan<- ProgressUpdate, results []ImportRowResult) ([]int64, error) {
	seen := map[int64]struct{}{}
	var candidates []int64
	for _, res := range results {
		if res.View == nil {
			continue
		}
		if _, ok := seen[res.View.PrimaryContactID]; ok {
			continue
		}
		seen[res.View.PrimaryContactID] = struct{}{}
		candidates = append(candidates, res.View.PrimaryContactID)
	}

	e.sendProgress(prog, summarizeUpdate(candidates))

	final := map[int64]struct{}{}
	for _, id := range candidates {
		cluster, err := e.reconciler.Cluster(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrContactNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to resolve cluster for contact %d: %w", id, err)
		}
		final[cluster.View.PrimaryContactID] = struct{}{}
	}

	ids := make([]int64, 0, len(final))
	for id := range final {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}
