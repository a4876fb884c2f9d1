// Package manager implements the write-path orchestration entry point. A
// Manager holds the registered backend adapters, validates incoming
// requests, routes them to the adapter claiming the target, and executes
// the write through the middleware pipeline, normalizing every failure into
// the taxonomy before it reaches the caller.
//
// Registration is a startup-time operation: complete all Register calls
// before issuing traffic. Write is safe for arbitrarily many concurrent
// callers; each request per-request state is Received → Validated → Routed
// → Executing → Succeeded or Failed, and only the inner backend call is
// ever retried, never the routing decision.
package manager

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/c360/writeflow/config"
	"github.com/c360/writeflow/errors"
	"github.com/c360/writeflow/metric"
	"github.com/c360/writeflow/middleware"
	"github.com/c360/writeflow/pkg/retry"
	"github.com/c360/writeflow/writer"
)

// MetaRequestID is the metadata key carrying the per-request identifier.
// The manager stamps a fresh UUID when the caller did not supply one.
const MetaRequestID = "request_id"

// Manager routes write requests to registered backend adapters
type Manager struct {
	cfg     config.Config
	schemas map[string]*gojsonschema.Schema
	logger  *slog.Logger
	metrics *metric.Registry
	writers []writer.Writer
	names   map[string]struct{}
}

// Option customizes a Manager at construction time
type Option func(*Manager)

// WithLogger enables structured logging of writes. Without it the manager
// stays silent.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithMetrics enables Prometheus instrumentation of writes
func WithMetrics(registry *metric.Registry) Option {
	return func(m *Manager) { m.metrics = registry }
}

// New creates a Manager from the given configuration. Payload schemas are
// compiled here so malformed schemas fail at startup rather than per write.
func New(cfg config.Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	schemas, err := cfg.CompileSchemas()
	if err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:     cfg,
		schemas: schemas,
		names:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Register adds a backend adapter. Adapters are consulted in registration
// order during routing, so when two adapters' predicates overlap the first
// registered wins. Registration must complete before Write is called;
// it is not safe concurrently with traffic.
func (m *Manager) Register(w writer.Writer) error {
	if w == nil {
		return errors.New(errors.KindInvalidRequest, "writer is nil")
	}
	name := w.Name()
	if name == "" {
		return errors.New(errors.KindInvalidRequest, "writer name is empty")
	}
	if _, dup := m.names[name]; dup {
		return errors.Newf(errors.KindInvalidRequest, "writer %q is already registered", name)
	}

	m.names[name] = struct{}{}
	m.writers = append(m.writers, w)

	if m.logger != nil {
		m.logger.Info("writer registered", "writer", name)
	}
	return nil
}

// Write orchestrates one write: validate, route, execute through the
// middleware pipeline, normalize. The returned result and error are
// mutually exclusive — a non-nil error always carries exactly one taxonomy
// kind and the result is zero, a nil error always carries Success=true.
func (m *Manager) Write(ctx context.Context, req writer.Request) (writer.Result, error) {
	if err := m.validate(req); err != nil {
		return writer.Result{}, err
	}

	w := m.route(req.Target)
	if w == nil {
		return writer.Result{}, errors.Newf(errors.KindWriterNotFound,
			"no writer registered for target %q", req.Target)
	}

	if req.MetaValue(MetaRequestID) == "" {
		req = req.WithMeta(MetaRequestID, uuid.NewString())
	}

	res, err := m.pipeline(w, req)(ctx, req)
	if err != nil {
		return writer.Result{}, errors.Normalize(err, "write failed")
	}
	return res, nil
}

// validate enforces the structural request invariants and, when a schema is
// configured for the type, validates the payload against it. No adapter is
// touched on failure.
func (m *Manager) validate(req writer.Request) error {
	if err := req.Validate(); err != nil {
		return err
	}

	schema, ok := m.schemas[req.Type]
	if !ok {
		return nil
	}
	payload, err := json.Marshal(req.Payload)
	if err != nil {
		return errors.Wrap(errors.KindInvalidRequest, "payload is not JSON-serializable", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return errors.Wrap(errors.KindInvalidRequest, "payload schema validation failed", err)
	}
	if !result.Valid() {
		descs := make([]string, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			descs = append(descs, re.String())
		}
		return errors.Newf(errors.KindInvalidRequest, "payload rejected by schema for type %q: %s",
			req.Type, strings.Join(descs, "; "))
	}
	return nil
}

// route returns the first registered writer claiming the target, or nil
func (m *Manager) route(target string) writer.Writer {
	for _, w := range m.writers {
		if w.Supports(target) {
			return w
		}
	}
	return nil
}

// pipeline builds the middleware chain around the selected writer's Write,
// outermost first: logging → metrics → timeout → retry
func (m *Manager) pipeline(w writer.Writer, req writer.Request) middleware.WriteFunc {
	name := w.Name()

	var instruments *metric.Metrics
	var observer retry.Observer
	if m.metrics != nil {
		instruments = m.metrics.Metrics
		observer = func(attempt int, err error) {
			instruments.AttemptsTotal.WithLabelValues(name, req.Type).Inc()
		}
	}

	return middleware.Chain(
		middleware.Logging(m.logger, name),
		middleware.Metrics(instruments, name),
		middleware.Timeout(m.cfg.Timeout),
		middleware.Retry(m.cfg.Retry, observer),
	)(w.Write)
}
