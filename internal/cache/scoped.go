package cache

import (
	"context"
)

type clientIDKey struct{}

// WithClientID attaches the browser client id to ctx.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey{}, id)
}

// ClientIDFromContext returns the browser client id carried by ctx.
func ClientIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(clientIDKey{}).(string)
	return id, ok && id != ""
}

// ClientScoped partitions a shared cache by browser client. Requests without a
// client id see an empty cache and their stores are dropped.
type ClientScoped struct {
	inner Cache
}

func NewClientScoped(inner Cache) *ClientScoped {
	if inner == nil {
		inner = Noop{}
	}
	return &ClientScoped{inner: inner}
}

func (c *ClientScoped) Lookup(ctx context.Context, key string) (string, bool) {
	id, ok := ClientIDFromContext(ctx)
	if !ok {
		return "", false
	}
	return c.inner.Lookup(ctx, scopedKey(id, key))
}

func (c *ClientScoped) Store(ctx context.Context, key, response string) {
	id, ok := ClientIDFromContext(ctx)
	if !ok {
		return
	}
	c.inner.Store(ctx, scopedKey(id, key), response)
}

func scopedKey(clientID, key string) string {
	return clientID + ":" + key
}
