package ticktick

import "context"

// mergeUpdate runs fetch, overlays the caller's changes on the fetched value and
// submits the result. submit is never called unless fetch and overlay succeeded.
func mergeUpdate[T any](
	ctx context.Context,
	fetch func(context.Context) (T, error),
	overlay func(T) (T, error),
	submit func(context.Context, T) (T, error),
) (T, error) {
	var zero T
	current, err := fetch(ctx)
	if err != nil {
		return zero, err
	}
	next, err := overlay(current)
	if err != nil {
		return zero, err
	}
	return submit(ctx, next)
}

// patcher is a partial change that can be overlaid on a fetched value.
type patcher[T any] interface {
	Apply(T) T
}

// derived builds an overlay that computes the patch from the fetched value.
func derived[T any, P patcher[T]](derive func(T) (P, error)) func(T) (T, error) {
	return func(current T) (T, error) {
		p, err := derive(current)
		if err != nil {
			var zero T
			return zero, err
		}
		return p.Apply(current), nil
	}
}

// fixed builds an overlay for a patch known up front.
func fixed[T any, P patcher[T]](p P) func(T) (T, error) {
	return func(current T) (T, error) { return p.Apply(current), nil }
}
