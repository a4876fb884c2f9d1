package writer

import (
	"sort"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/c360/writeflow/errors"
)

// HandlerRegistry maps request type strings to handlers for one adapter.
// Registration happens at startup; lookups run on every write, so the
// mapping is a concurrent map and reads never take a lock. Duplicate type
// registration is rejected rather than overwritten.
type HandlerRegistry struct {
	handlers *xsync.MapOf[string, Handler]
}

// NewHandlerRegistry creates an empty handler registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: xsync.NewMapOf[string, Handler](),
	}
}

// Register adds a handler under its type string. Returns an error when the
// handler is nil, reports an empty type, or the type is already taken.
func (r *HandlerRegistry) Register(h Handler) error {
	if h == nil {
		return errors.New(errors.KindInvalidRequest, "handler is nil")
	}
	typ := h.Type()
	if typ == "" {
		return errors.New(errors.KindInvalidRequest, "handler type is empty")
	}
	if _, loaded := r.handlers.LoadOrStore(typ, h); loaded {
		return errors.Newf(errors.KindInvalidRequest, "handler type %q is already registered", typ)
	}
	return nil
}

// Lookup returns the handler for a type string
func (r *HandlerRegistry) Lookup(typ string) (Handler, bool) {
	return r.handlers.Load(typ)
}

// Types returns the registered type strings in sorted order
func (r *HandlerRegistry) Types() []string {
	var types []string
	r.handlers.Range(func(typ string, _ Handler) bool {
		types = append(types, typ)
		return true
	})
	sort.Strings(types)
	return types
}
