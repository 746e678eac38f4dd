// Package share hands exported documents to whatever the host uses to pass
// files on. Delivery is best effort; callers ignore failures.
package share

import "context"

// Request describes one exported file.
type Request struct {
	Title       string
	Path        string
	ContentType string
}

// Sharer offers an exported file to the host.
type Sharer interface {
	Share(ctx context.Context, req Request) error
}

// Noop discards share requests.
type Noop struct{}

// Share implements Sharer.
func (Noop) Share(context.Context, Request) error { return nil }

// Func adapts a function to Sharer.
type Func func(ctx context.Context, req Request) error

// Share implements Sharer.
func (f Func) Share(ctx context.Context, req Request) error { return f(ctx, req) }
