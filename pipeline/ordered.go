package pipeline

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrSkip, returned or wrapped by an OrderedParallel function, drops the
// value from the output without failing the stream.
var ErrSkip = errors.New("pipeline: skip value")

// OrderedConfig sizes an OrderedParallel stage.
type OrderedConfig struct {
	// Workers is the number of concurrent worker goroutines.
	Workers int
	// ChunkSize is the number of values handed to a worker at once.
	ChunkSize int
	// Window caps the chunks that are dispatched but not yet emitted.
	// Zero means 2 × Workers.
	Window int
}

// InFlight returns the maximum number of values held by the stage at once,
// excluding the output buffer.
func (c OrderedConfig) InFlight() int {
	c = c.withDefaults()
	return c.Window * c.ChunkSize
}

func (c OrderedConfig) withDefaults() OrderedConfig {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = 1
	}
	if c.Window <= 0 {
		c.Window = 2 * c.Workers
	}
	return c
}

type chunk[I any] struct {
	seq   int
	items []I
}

type chunkResult[O any] struct {
	seq   int
	items []O
}

// OrderedParallel applies fn to every value using cfg.Workers goroutines and
// yields the results in input order.
//
// Values are cut into chunks of cfg.ChunkSize and tagged with an increasing
// sequence number. Workers complete chunks in any order; a collector keeps
// finished chunks keyed by sequence number and releases them strictly in
// order, so a slow early chunk holds back faster later ones. The dispatcher
// blocks once cfg.Window chunks are outstanding, which bounds memory and
// propagates backpressure to the source.
//
// The first error from the source or from fn (other than ErrSkip) cancels
// all outstanding work. Values already emitted form an in-order prefix of
// the full output; the error is yielded after them.
func OrderedParallel[I, O any](p *Pipeline[I], cfg OrderedConfig, fn func(context.Context, I) (O, error)) *Pipeline[O] {
	cfg = cfg.withDefaults()
	chunks := Batch(p, cfg.ChunkSize)
	return &Pipeline[O]{
		create: func(ctx context.Context) Iterator[O] {
			return startOrdered(ctx, chunks, cfg, fn)
		},
	}
}

func startOrdered[I, O any](ctx context.Context, chunks *Pipeline[[]I], cfg OrderedConfig, fn func(context.Context, I) (O, error)) Iterator[O] {
	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)
	source := chunks.create(gctx)

	jobs := make(chan chunk[I], cfg.Workers)
	results := make(chan chunkResult[O], cfg.Workers)
	slots := make(chan struct{}, cfg.Window)
	out := make(chan result[O], cfg.ChunkSize)
	done := make(chan struct{})

	// Dispatcher: a slot is taken before the next chunk is read so that at
	// most Window chunks exist between the source and the collector.
	g.Go(func() error {
		defer close(jobs)
		for seq := 0; ; seq++ {
			select {
			case slots <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			items, ok, err := source.Next(gctx)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			select {
			case jobs <- chunk[I]{seq: seq, items: items}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	for range cfg.Workers {
		g.Go(func() error {
			for c := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				res := chunkResult[O]{seq: c.seq, items: make([]O, 0, len(c.items))}
				for _, item := range c.items {
					o, err := fn(gctx, item)
					if err != nil {
						if errors.Is(err, ErrSkip) {
							continue
						}
						return err
					}
					res.items = append(res.items, o)
				}
				select {
				case results <- res:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	var runErr error
	go func() {
		runErr = g.Wait()
		close(results)
	}()

	// Collector: owns the reorder buffer, no other goroutine touches it.
	go func() {
		defer close(done)
		defer close(out)

		completed := make(map[int][]O, cfg.Window)
		next := 0
		emitting := true
		for r := range results {
			completed[r.seq] = r.items
			for emitting {
				items, ready := completed[next]
				if !ready {
					break
				}
				delete(completed, next)
				for i := 0; i < len(items) && emitting; i++ {
					select {
					case out <- result[O]{val: items[i], ok: true}:
					case <-runCtx.Done():
						emitting = false
					}
				}
				next++
				<-slots
			}
		}
		// runErr is set before results is closed.
		if runErr != nil && emitting {
			select {
			case out <- result[O]{err: runErr}:
			case <-runCtx.Done():
			}
		}
	}()

	var once sync.Once
	var closeErr error
	return &channelIter[O]{
		ch: out,
		closer: func() error {
			once.Do(func() {
				cancel()
				<-done
				closeErr = source.Close()
			})
			return closeErr
		},
	}
}
