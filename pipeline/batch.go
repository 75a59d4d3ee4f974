package pipeline

import (
	"context"
)

// Batch groups consecutive values into slices of up to size elements.
// The last slice may be shorter. size <= 0 is treated as 1.
//
// When the source fails mid-batch the values gathered so far are emitted
// first and the error surfaces on the following call, so no value read
// before the failure is lost.
func Batch[T any](p *Pipeline[T], size int) *Pipeline[[]T] {
	if size <= 0 {
		size = 1
	}
	return &Pipeline[[]T]{
		create: func(ctx context.Context) Iterator[[]T] {
			return &batchIter[T]{source: p.create(ctx), size: size}
		},
	}
}

type batchIter[T any] struct {
	source  Iterator[T]
	size    int
	pending error
	done    bool
}

func (it *batchIter[T]) Next(ctx context.Context) ([]T, bool, error) {
	if it.pending != nil {
		err := it.pending
		it.pending = nil
		it.done = true
		return nil, false, err
	}
	if it.done {
		return nil, false, nil
	}

	batch := make([]T, 0, it.size)
	for len(batch) < it.size {
		val, ok, err := it.source.Next(ctx)
		if err != nil {
			if len(batch) > 0 {
				it.pending = err
				return batch, true, nil
			}
			it.done = true
			return nil, false, err
		}
		if !ok {
			it.done = true
			break
		}
		batch = append(batch, val)
	}
	if len(batch) == 0 {
		return nil, false, nil
	}
	return batch, true, nil
}

func (it *batchIter[T]) Close() error { return it.source.Close() }
