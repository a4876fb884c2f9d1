package writer

import (
	"maps"

	"github.com/c360/writeflow/errors"
)

// Request describes one write: which backend serves it (Target), which
// business operation runs it (Type), the operation's payload, and optional
// contextual metadata. Requests are treated as immutable once handed to the
// manager; WithMeta returns a copy.
type Request struct {
	// Target identifies the backend adapter, e.g. "mysql.main" or
	// "redis.cache". Routing matches it against each adapter's Supports
	// predicate.
	Target string
	// Type identifies the business handler within the adapter, e.g.
	// "user_profile_update".
	Type string
	// Payload is the operation's business data. Its shape is a contract
	// between the caller and the handler; routing never inspects it.
	Payload any
	// Meta carries optional contextual key-value pairs (trace identifier,
	// source, operator). Ignored by routing, visible to handlers and
	// middleware.
	Meta map[string]string
}

// MetaValue returns the metadata value for key, or "" when absent
func (r Request) MetaValue(key string) string {
	return r.Meta[key]
}

// WithMeta returns a copy of the request with key set in its metadata. The
// original request is not modified.
func (r Request) WithMeta(key, value string) Request {
	meta := make(map[string]string, len(r.Meta)+1)
	maps.Copy(meta, r.Meta)
	meta[key] = value
	r.Meta = meta
	return r
}

// Validate checks the structural invariants that must hold before any
// routing occurs
func (r Request) Validate() error {
	if r.Target == "" {
		return errors.New(errors.KindInvalidRequest, "request target is empty")
	}
	if r.Type == "" {
		return errors.New(errors.KindInvalidRequest, "request type is empty")
	}
	if r.Payload == nil {
		return errors.New(errors.KindInvalidRequest, "request payload is nil")
	}
	return nil
}

// Result is the outcome of one write attempt. Success and the error channel
// are mutually exclusive: a successful write returns Success=true and a nil
// error, a failed write returns the zero Result and a taxonomy error.
type Result struct {
	Success bool
	Message string
	Data    any
}
