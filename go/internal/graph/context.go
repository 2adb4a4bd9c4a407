package graph

import "context"

type readOnlyKey struct{}

// WithoutMutations marks ctx as coming from a request that must not write.
// The HTTP handler sets it for GET.
func WithoutMutations(ctx context.Context) context.Context {
	return context.WithValue(ctx, readOnlyKey{}, true)
}

func mutationsAllowed(ctx context.Context) bool {
	readOnly, _ := ctx.Value(readOnlyKey{}).(bool)
	return !readOnly
}
