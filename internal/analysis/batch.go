package analysis

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Variant is a named dataset: the original or one of its transformations.
type Variant struct {
	Name string
	Data *dataset.Dataset
}

// Job is one analysis of one variant.
type Job struct {
	ID      string
	Variant Variant
	Kind    Kind
}

// Plan returns one job per variant and kind, variants outermost.
func Plan(variants []Variant, kinds []Kind) []Job {
	jobs := make([]Job, 0, len(variants)*len(kinds))
	for _, v := range variants {
		for _, k := range kinds {
			jobs = append(jobs, Job{ID: uuid.NewString(), Variant: v, Kind: k})
		}
	}
	return jobs
}

// Batch runs jobs concurrently.
type Batch struct {
	Params  Params
	Workers int // <= 0 means GOMAXPROCS
	Log     *zap.Logger
	// OnDone is called after each job completes, serialized.
	OnDone func(done, total int, job Job)
}

// Run executes jobs and returns results in job order. The first failure
// cancels the jobs still running and is returned.
func (b *Batch) Run(ctx context.Context, jobs []Job) ([]*Result, error) {
	if err := b.Params.Validate(); err != nil {
		return nil, err
	}
	log := b.Log
	if log == nil {
		log = zap.NewNop()
	}
	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	results := make([]*Result, len(jobs))
	var mu sync.Mutex
	done := 0

	for i, job := range jobs {
		g.Go(func() error {
			start := time.Now()
			log.Debug("job started", zap.String("job", job.ID), zap.String("variant", job.Variant.Name), zap.Stringer("kind", job.Kind))
			res, err := Run(gctx, job.Variant.Data, job.Kind, b.Params, nil)
			if err != nil {
				log.Debug("job failed", zap.String("job", job.ID), zap.Error(err))
				return fmt.Errorf("%s on %s: %w", job.Kind, job.Variant.Name, err)
			}
			res.ID = job.ID
			res.Variant = job.Variant.Name
			results[i] = res
			log.Debug("job finished", zap.String("job", job.ID), zap.Duration("elapsed", time.Since(start)))

			mu.Lock()
			done++
			if b.OnDone != nil {
				b.OnDone(done, len(jobs), job)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
