package writer

import (
	"context"
	"strings"

	"github.com/c360/writeflow/errors"
)

// Writer is a backend adapter: it wraps one storage backend, claims targets
// through Supports, and dispatches writes to its registered handlers by
// type. Implementations must be safe for concurrent Write calls once
// handler registration is complete.
type Writer interface {
	// Name returns the adapter's stable identity, used as a log and metric
	// dimension
	Name() string
	// Supports reports whether this adapter serves the given target. It is
	// called on every request during routing and must be a cheap, pure
	// predicate.
	Supports(target string) bool
	// Write dispatches the request to the handler registered for its type
	Write(ctx context.Context, req Request) (Result, error)
}

// MatchTargets returns a predicate claiming exactly the given targets
func MatchTargets(targets ...string) func(string) bool {
	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		set[t] = struct{}{}
	}
	return func(target string) bool {
		_, ok := set[target]
		return ok
	}
}

// MatchPrefix returns a predicate claiming every target under a prefix,
// e.g. MatchPrefix("mysql.") claims "mysql.main" and "mysql.archive"
func MatchPrefix(prefix string) func(string) bool {
	return func(target string) bool {
		return strings.HasPrefix(target, prefix)
	}
}

// Base is an embeddable adapter implementation: a name, a target predicate,
// and a handler registry. Concrete adapters construct a Base, register
// their handlers at startup, and expose it as a Writer.
type Base struct {
	name     string
	match    func(string) bool
	registry *HandlerRegistry
}

// NewBase creates an adapter skeleton with the given identity and target
// predicate
func NewBase(name string, match func(string) bool) *Base {
	return &Base{
		name:     name,
		match:    match,
		registry: NewHandlerRegistry(),
	}
}

// Name returns the adapter identity
func (b *Base) Name() string { return b.name }

// Supports reports whether the adapter's predicate claims the target
func (b *Base) Supports(target string) bool {
	return b.match != nil && b.match(target)
}

// RegisterHandler adds a handler to the adapter's registry. Must complete
// before the adapter is exposed to traffic.
func (b *Base) RegisterHandler(h Handler) error {
	return b.registry.Register(h)
}

// Handlers exposes the registered type strings, mainly for startup logging
func (b *Base) Handlers() []string {
	return b.registry.Types()
}

// Write looks up the handler for the request type and invokes it. A type
// with no handler fails with type_not_supported; handler failures without a
// taxonomy kind are wrapped as backend errors so nothing native leaks past
// the adapter boundary.
func (b *Base) Write(ctx context.Context, req Request) (Result, error) {
	h, ok := b.registry.Lookup(req.Type)
	if !ok {
		return Result{}, errors.Newf(errors.KindTypeNotSupported,
			"writer %q has no handler for type %q", b.name, req.Type)
	}

	res, err := h.Handle(ctx, req)
	if err != nil {
		return Result{}, errors.Normalize(err, "writer "+b.name+" write failed")
	}
	res.Success = true
	return res, nil
}
