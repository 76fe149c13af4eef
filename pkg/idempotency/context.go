package idempotency

import "context"

type requestKey struct{}

// WithRequest marks ctx as serving the keyed request r.
func WithRequest(ctx context.Context, r Request) context.Context {
	return context.WithValue(ctx, requestKey{}, r)
}

// FromContext returns the keyed request ctx is serving, if any.
func FromContext(ctx context.Context) (Request, bool) {
	r, ok := ctx.Value(requestKey{}).(Request)

	return r, ok && r.Key != ""
}
