package middleware

import (
	"context"
	"net/http"
)

type unaccountedKey struct{}

// WithoutAccounting marks requests built from ctx as internal. They bypass
// rate limiting and are left out of request metrics. Only in-process callers
// can set the mark; it cannot arrive over the wire.
func WithoutAccounting(ctx context.Context) context.Context {
	return context.WithValue(ctx, unaccountedKey{}, true)
}

func isUnaccounted(r *http.Request) bool {
	if r == nil {
		return false
	}
	marked, _ := r.Context().Value(unaccountedKey{}).(bool)
	return marked
}
