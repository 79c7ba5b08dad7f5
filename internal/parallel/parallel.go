// Package parallel provides bounded fan-out helpers built on errgroup.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map applies fn to every item with at most limit concurrent calls.
// Results keep the order of items. The first error cancels the remaining work.
func Map[T, R any](ctx context.Context, limit int, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := fn(ctx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// FlatMap is Map with every result slice concatenated in item order.
func FlatMap[T, R any](ctx context.Context, limit int, items []T, fn func(context.Context, T) ([]R, error)) ([]R, error) {
	nested, err := Map(ctx, limit, items, fn)
	if err != nil {
		return nil, err
	}
	var out []R
	for _, rs := range nested {
		out = append(out, rs...)
	}
	return out, nil
}

// ForEach runs fn for every item with at most limit concurrent calls.
func ForEach[T any](ctx context.Context, limit int, items []T, fn func(context.Context, T) error) error {
	_, err := Map(ctx, limit, items, func(ctx context.Context, item T) (struct{}, error) {
		return struct{}{}, fn(ctx, item)
	})
	return err
}
