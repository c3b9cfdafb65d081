package api

import "context"

// Lenient exposes the same operations as Client but never returns an error:
// a failed call is logged once and yields a nil Body.
type Lenient struct {
	client *Client
	log    Logger
}

// Lenient returns a view of c that logs failures to log and swallows them.
func (c *Client) Lenient(log Logger) *Lenient {
	return &Lenient{client: c, log: ensureLogger(log)}
}

func (l *Lenient) ListVendors(ctx context.Context) Body {
	return swallow(l, func() (Body, error) { return l.client.ListVendors(ctx) })
}

func (l *Lenient) GetVendor(ctx context.Context, id string) Body {
	return swallow(l, func() (Body, error) { return l.client.GetVendor(ctx, id) })
}

func (l *Lenient) CreateVendor(ctx context.Context, params any) Body {
	return swallow(l, func() (Body, error) { return l.client.CreateVendor(ctx, params) })
}

func (l *Lenient) UpdateVendor(ctx context.Context, id string, params any) Body {
	return swallow(l, func() (Body, error) { return l.client.UpdateVendor(ctx, id, params) })
}

func (l *Lenient) DeleteVendor(ctx context.Context, id string) Body {
	return swallow(l, func() (Body, error) { return l.client.DeleteVendor(ctx, id) })
}

func (l *Lenient) ListUsers(ctx context.Context) Body {
	return swallow(l, func() (Body, error) { return l.client.ListUsers(ctx) })
}

func (l *Lenient) GetUser(ctx context.Context, id string) Body {
	return swallow(l, func() (Body, error) { return l.client.GetUser(ctx, id) })
}

func (l *Lenient) CreateUser(ctx context.Context, params any) Body {
	return swallow(l, func() (Body, error) { return l.client.CreateUser(ctx, params) })
}

func (l *Lenient) UpdateUser(ctx context.Context, id string, params any) Body {
	return swallow(l, func() (Body, error) { return l.client.UpdateUser(ctx, id, params) })
}

func (l *Lenient) DeleteUser(ctx context.Context, id string) Body {
	return swallow(l, func() (Body, error) { return l.client.DeleteUser(ctx, id) })
}

func swallow[T any](l *Lenient, call func() (T, error)) T {
	out, err := call()
	if err != nil {
		l.log.ErrorObj("directory request failed", "error", err)
		var zero T
		return zero
	}
	return out
}
