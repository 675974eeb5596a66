// Package application contains use-case orchestration services.
package application

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

// Result is the outcome of one page fetch. State is always Loaded or Errored
// once Load returns; Data is the zero value when Errored.
type Result[T any] struct {
	State model.ViewState
	Data  T
	Err   error
}

// Loaded reports whether the fetch succeeded.
func (r Result[T]) Loaded() bool {
	return r.State == model.ViewStateLoaded
}

// Load runs a single fetch through the loading lifecycle. It never retries.
func Load[T any](ctx context.Context, fetch func(context.Context) (T, error)) Result[T] {
	data, err := fetch(ctx)
	if err != nil {
		var zero T
		return Result[T]{State: model.ViewStateErrored, Data: zero, Err: err}
	}
	return Result[T]{State: model.ViewStateLoaded, Data: data}
}

// LoadAll runs fetches concurrently and succeeds only if all of them do. The
// first failure cancels the others. Each fetch writes its own result.
func LoadAll(ctx context.Context, fetches ...func(context.Context) error) (model.ViewState, error) {
	g, gctx := errgroup.WithContext(ctx)
	for _, fetch := range fetches {
		g.Go(func() error {
			return fetch(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		return model.ViewStateErrored, err
	}
	return model.ViewStateLoaded, nil
}
