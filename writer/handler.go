package writer

import "context"

// Handler implements one business operation against one backend's native
// client. Implementations close over their client; the orchestration path
// never sees it.
type Handler interface {
	// Type returns the request type string this handler serves
	Type() string
	// Handle executes the operation. Returned errors may be backend-native;
	// the adapter wraps anything without a taxonomy kind as a backend
	// failure before it crosses the adapter boundary.
	Handle(ctx context.Context, req Request) (Result, error)
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc struct {
	typ string
	fn  func(ctx context.Context, req Request) (Result, error)
}

// NewHandler builds a Handler from a type string and a function
func NewHandler(typ string, fn func(ctx context.Context, req Request) (Result, error)) HandlerFunc {
	return HandlerFunc{typ: typ, fn: fn}
}

// Type returns the handler's request type
func (h HandlerFunc) Type() string { return h.typ }

// Handle invokes the wrapped function
func (h HandlerFunc) Handle(ctx context.Context, req Request) (Result, error) {
	return h.fn(ctx, req)
}
